package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/graphgen/infographic-api/internal/config"
	"github.com/graphgen/infographic-api/internal/logger"
	"github.com/graphgen/infographic-api/internal/middleware"
	"github.com/graphgen/infographic-api/internal/models"
	"github.com/graphgen/infographic-api/internal/services"
)

type AuthHandler struct {
	db    *gorm.DB
	cfg   *config.Config
	usage *services.UsageService
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, usage *services.UsageService) *AuthHandler {
	return &AuthHandler{
		db:    db,
		cfg:   cfg,
		usage: usage,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// demoUsers backs authentication when no database is configured. The
// credentials match the hints on the development login screen.
var demoUsers = func() map[string]*models.User {
	users := map[string]*models.User{
		"admin":       {Username: "admin", Role: models.RoleAdmin},
		"contributor": {Username: "contributor", Role: models.RoleContributor},
	}
	passwords := map[string]string{
		"admin":       "admin123",
		"contributor": "contrib123",
	}
	for name, u := range users {
		if err := u.SetPassword(passwords[name]); err != nil {
			panic(err)
		}
	}
	return users
}()

// Login authenticates a username/password pair and issues a session
// token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "username and password are required"})
		return
	}

	user, ok := h.lookupUser(req.Username)
	if !ok || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Invalid username or password"})
		return
	}

	token, err := middleware.IssueToken(user, h.cfg)
	if err != nil {
		logger.Error("Failed to issue session token", err, logger.Fields{"username": user.Username})
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to create session"})
		return
	}

	logger.Info("User logged in", logger.Fields{"username": user.Username, "role": user.Role})

	// Web clients authenticate by cookie, API clients by header.
	c.SetCookie("access_token", token, int(middleware.TokenTTL.Seconds()), "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"user": gin.H{
			"username": user.Username,
			"role":     user.Role,
		},
		"access_token": token,
		"expires_in":   int64(middleware.TokenTTL.Seconds()),
	})
}

// Logout clears the session cookie. Tokens themselves are stateless
// and simply expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("access_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Usage returns the generation usage for a username.
func (h *AuthHandler) Usage(c *gin.Context) {
	username := c.Param("username")

	role := models.RoleContributor
	if user, ok := h.lookupUser(username); ok {
		role = user.Role
	}

	usage, err := h.usage.Get(username, role)
	if err != nil {
		logger.Error("Failed to load usage", err, logger.Fields{"username": username})
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to load usage"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"usage_count": usage.Used,
		"limit":       usage.Limit,
		"remaining":   usage.Remaining,
		"role":        usage.Role,
	})
}

func (h *AuthHandler) lookupUser(username string) (*models.User, bool) {
	if h.db == nil {
		user, ok := demoUsers[username]
		return user, ok
	}

	var user models.User
	if err := h.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, false
	}
	return &user, true
}
