package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/graphgen/infographic-api/internal/config"
	"github.com/graphgen/infographic-api/internal/models"
)

const (
	bearerPrefix = "Bearer"

	// TokenTTL is how long an issued session token stays valid.
	TokenTTL = 24 * time.Hour
)

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken creates a signed session token for the given user.
func IssueToken(user *models.User, cfg *config.Config) (string, error) {
	claims := Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// JWTAuth middleware validates session tokens and attaches the user to
// context. When db is nil (no database configured) the user is rebuilt
// from the token claims instead of being loaded from storage.
func JWTAuth(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		// Try to get token from Authorization header first
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			// Extract token from "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == bearerPrefix {
				tokenString = parts[1]
			}
		}

		// If no header, try cookie (for web users)
		if tokenString == "" {
			tokenString, _ = c.Cookie("access_token")
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Authorization required"})
			c.Abort()
			return
		}

		// Parse and validate token
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			// Verify signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(cfg.JWTSecret), nil
		})

		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Invalid or expired token"})
			c.Abort()
			return
		}

		if !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Invalid token"})
			c.Abort()
			return
		}

		user, ok := resolveUser(db, claims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "User not found"})
			c.Abort()
			return
		}

		// Attach user to context
		c.Set("user", user)
		c.Set("username", user.Username)

		c.Next()
	}
}

// OptionalJWTAuth is like JWTAuth but doesn't abort if token is missing (useful for optional auth)
func OptionalJWTAuth(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == bearerPrefix {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			tokenString, _ = c.Cookie("access_token")
		}

		if tokenString == "" {
			c.Next()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(cfg.JWTSecret), nil
		})

		if err != nil || !token.Valid {
			c.Next()
			return
		}

		user, ok := resolveUser(db, claims)
		if !ok {
			c.Next()
			return
		}

		c.Set("user", user)
		c.Set("username", user.Username)

		c.Next()
	}
}

func resolveUser(db *gorm.DB, claims *Claims) (models.User, bool) {
	if db == nil {
		if claims.Username == "" || !models.IsValidRole(claims.Role) {
			return models.User{}, false
		}
		return models.User{Username: claims.Username, Role: claims.Role}, true
	}

	var user models.User
	if err := db.Where("username = ?", claims.Username).First(&user).Error; err != nil {
		return models.User{}, false
	}
	return user, true
}

// GetCurrentUser retrieves the user from context
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	userVal, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := userVal.(models.User)
	return &user, ok
}
