package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/graphgen/infographic-api/internal/config"
)

type HealthHandler struct {
	db      *gorm.DB
	cfg     *config.Config
	version string
}

func NewHealthHandler(db *gorm.DB, cfg *config.Config, version string) *HealthHandler {
	return &HealthHandler{db: db, cfg: cfg, version: version}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":                "healthy",
		"version":               h.version,
		"gemini_key_configured": h.cfg.GeminiAPIKey != "",
		"database_connected":    h.db != nil,
	})
}
