package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/graphgen/infographic-api/internal/services"
)

// DebugHandler exposes the artifacts of the most recent generation.
// Admin only.
type DebugHandler struct {
	debug *services.DebugStore
}

func NewDebugHandler(debug *services.DebugStore) *DebugHandler {
	return &DebugHandler{debug: debug}
}

// Blueprint returns the last generated blueprint JSON.
func (h *DebugHandler) Blueprint(c *gin.Context) {
	raw := h.debug.LastBlueprint()
	if raw == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No blueprint found"})
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// Prompt returns the last compiled image prompt.
func (h *DebugHandler) Prompt(c *gin.Context) {
	prompt := h.debug.LastCompiledPrompt()
	if prompt == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No compiled prompt found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"compiled_prompt": prompt})
}
