// Package handlers contains the gin handlers for the generation API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports service health and build info
type HealthHandler struct {
	version string
	model   string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version, model string) *HealthHandler {
	return &HealthHandler{version: version, model: model}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": h.version,
		"model":   h.model,
	})
}
