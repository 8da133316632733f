package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/graphgen/infographic-api/internal/logger"
	"github.com/graphgen/infographic-api/internal/models"
	"github.com/graphgen/infographic-api/internal/services"
)

// AdminHandler manages user accounts. All routes sit behind the admin
// middleware; account management needs the database.
type AdminHandler struct {
	db    *gorm.DB
	usage *services.UsageService
}

func NewAdminHandler(db *gorm.DB, usage *services.UsageService) *AdminHandler {
	return &AdminHandler{db: db, usage: usage}
}

func (h *AdminHandler) requireDB(c *gin.Context) bool {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "Database not configured"})
		return false
	}
	return true
}

// ListUsers returns all accounts with their usage counts.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	if !h.requireDB(c) {
		return
	}

	var users []models.User
	if err := h.db.Order("id").Find(&users).Error; err != nil {
		logger.Error("Failed to list users", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to list users"})
		return
	}

	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"id":         u.ID,
			"username":   u.Username,
			"role":       u.Role,
			"used_count": u.UsedCount,
			"remaining":  u.RemainingGenerations(),
			"created_at": u.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "users": out})
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateRole changes an account's role.
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	if !h.requireDB(c) {
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "role is required"})
		return
	}
	if !models.IsValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid role: " + req.Role})
		return
	}

	user, ok := h.findUser(c)
	if !ok {
		return
	}

	user.Role = req.Role
	if err := h.db.Save(user).Error; err != nil {
		logger.Error("Failed to update role", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to update role"})
		return
	}

	logger.Info("Role updated", logger.Fields{"username": user.Username, "role": user.Role})
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	}})
}

// ResetUsage zeroes an account's generation counter.
func (h *AdminHandler) ResetUsage(c *gin.Context) {
	if !h.requireDB(c) {
		return
	}

	user, ok := h.findUser(c)
	if !ok {
		return
	}

	if err := h.usage.ResetUsage(user.Username); err != nil {
		logger.Error("Failed to reset usage", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to reset usage"})
		return
	}

	logger.Info("Usage reset", logger.Fields{"username": user.Username})
	c.JSON(http.StatusOK, gin.H{"ok": true, "username": user.Username, "used_count": 0})
}

func (h *AdminHandler) findUser(c *gin.Context) (*models.User, bool) {
	var user models.User
	if err := h.db.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "User not found"})
		return nil, false
	}
	return &user, true
}
