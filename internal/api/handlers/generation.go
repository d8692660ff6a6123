package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nibura2002/AI-MIDI-generator/internal/compose"
	"github.com/nibura2002/AI-MIDI-generator/internal/logger"
	"github.com/nibura2002/AI-MIDI-generator/internal/pipeline"
	"github.com/nibura2002/AI-MIDI-generator/internal/store"
)

const midiMediaType = "audio/midi"

// GenerationHandler drives the generation pipeline from HTTP
type GenerationHandler struct {
	pipeline     *pipeline.Pipeline
	history      *store.Store // may be nil
	workspaceDir string
}

// NewGenerationHandler creates a new generation handler
func NewGenerationHandler(p *pipeline.Pipeline, history *store.Store, workspaceDir string) *GenerationHandler {
	return &GenerationHandler{
		pipeline:     p,
		history:      history,
		workspaceDir: workspaceDir,
	}
}

// Generate runs one pipeline invocation. Reportable pipeline failures
// (service error, execution failure, missing artifact) are payload, not
// transport errors: the response is 200 with the failure in the report.
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req compose.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.pipeline.Run(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger.Info("Generation request served", logger.Fields{
		"request_id": c.GetString("request_id"),
		"run_id":     report.RunID,
		"status":     string(report.Status),
	})
	c.JSON(http.StatusOK, report)
}

// DownloadArtifact streams the run's MIDI artifact as a download
func (h *GenerationHandler) DownloadArtifact(c *gin.Context) {
	runID := c.Param("id")
	if _, err := uuid.Parse(runID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	artifactPath := filepath.Join(h.workspaceDir, runID, compose.ArtifactFileName)
	if _, err := os.Stat(artifactPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "artifact not found for run " + runID})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+compose.ArtifactFileName+`"`)
	c.Header("Content-Type", midiMediaType)
	c.File(artifactPath)
}

// History lists recent generation runs
func (h *GenerationHandler) History(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusOK, gin.H{"runs": []store.GenerationRun{}})
		return
	}

	runs, err := h.history.RecentRuns(0)
	if err != nil {
		logger.Error("Failed to list generation history", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
