package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nibura2002/AI-MIDI-generator/internal/catalog"
	"github.com/nibura2002/AI-MIDI-generator/internal/compose"
)

// GenresHandler exposes the genre catalog and form bounds to the UI layer
type GenresHandler struct {
	catalog *catalog.Catalog
}

// NewGenresHandler creates a new genres handler
func NewGenresHandler(cat *catalog.Catalog) *GenresHandler {
	return &GenresHandler{catalog: cat}
}

// List returns the catalog entries plus the parameter bounds the form needs
func (h *GenresHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"genres": h.catalog.Entries(),
		"bounds": gin.H{
			"tempo_min":         compose.MinTempo,
			"tempo_max":         compose.MaxTempo,
			"measure_count_min": compose.MinMeasureCount,
			"measure_count_max": compose.MaxMeasureCount,
			"keys":              []string{"C", "D", "E", "F", "G", "A", "B"},
			"scales":            []string{"major", "minor"},
			"subdivisions":      []string{"1/4", "1/8", "1/16", "3/4", "6/8"},
		},
	})
}
