// Package store persists generation-run history. Persistence is optional:
// with no database configured the pipeline simply skips it.
package store

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const defaultHistoryLimit = 50

// GenerationRun is one pipeline run's history record
type GenerationRun struct {
	ID        string    `gorm:"primaryKey" json:"id"` // run ID (uuid)
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	// Request parameters
	Genre           string `json:"genre"`
	Tempo           int    `json:"tempo"`
	KeyCenter       string `json:"key_center"`
	ScaleType       string `json:"scale_type"`
	MeasureCount    int    `json:"measure_count"`
	BeatSubdivision string `json:"beat_subdivision"`
	Model           string `json:"model"`

	// Outcome
	Status          string  `gorm:"index" json:"status"`
	ExitCode        int     `json:"exit_code"`
	DetectedTempo   float64 `json:"detected_tempo"`
	DurationSeconds float64 `json:"duration_seconds"`
	ArtifactPath    string  `json:"artifact_path"`
	ErrorText       string  `json:"error_text,omitempty"`
}

// TableName keeps the table name explicit
func (GenerationRun) TableName() string {
	return "generation_runs"
}

// Store wraps the gorm handle
type Store struct {
	db *gorm.DB
}

// Connect opens the database and runs migrations
func Connect(databaseURL string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&GenerationRun{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveRun inserts one history record
func (s *Store) SaveRun(run *GenerationRun) error {
	if err := s.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to save generation run: %w", err)
	}
	return nil
}

// GetRun fetches one run by ID
func (s *Store) GetRun(id string) (*GenerationRun, error) {
	var run GenerationRun
	if err := s.db.First(&run, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to load generation run %s: %w", id, err)
	}
	return &run, nil
}

// RecentRuns lists the newest runs, capped at limit (default 50)
func (s *Store) RecentRuns(limit int) ([]GenerationRun, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	var runs []GenerationRun
	if err := s.db.Order("created_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list generation runs: %w", err)
	}
	return runs, nil
}
