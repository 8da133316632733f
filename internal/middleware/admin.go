package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/graphgen/infographic-api/internal/models"
)

// AdminRequired ensures the user has admin role
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := GetCurrentUser(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Authentication required"})
			c.Abort()
			return
		}

		if user.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "Admin access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
