package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/graphgen/infographic-api/internal/middleware"
	"github.com/graphgen/infographic-api/internal/services"
)

type UserHandler struct {
	usage *services.UsageService
}

func NewUserHandler(usage *services.UsageService) *UserHandler {
	return &UserHandler{usage: usage}
}

// GetProfile returns the current user's profile and usage
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Unauthorized"})
		return
	}

	usage, err := h.usage.Get(user.Username, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to load usage"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"user": gin.H{
			"username": user.Username,
			"role":     user.Role,
		},
		"usage": usage,
	})
}

// UsageStats returns the current user's generation history summary.
func (h *UserHandler) UsageStats(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Unauthorized"})
		return
	}

	stats, err := h.usage.Stats(user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to load usage stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": stats})
}
