// Package compose turns validated musical-intent parameters into the
// deterministic generation prompt.
package compose

import (
	"fmt"
)

// Parameter bounds (mirrored in the form UI)
const (
	MinTempo        = 50
	MaxTempo        = 300
	MinMeasureCount = 1
	MaxMeasureCount = 100

	// TicksPerBeat is the fixed MIDI resolution the generated program must use
	TicksPerBeat = 480
)

var validKeys = map[string]bool{
	"C": true, "D": true, "E": true, "F": true, "G": true, "A": true, "B": true,
}

var validScales = map[string]bool{
	"major": true,
	"minor": true,
}

// beatsPerMeasure maps a beat subdivision to its beat count. 6/8 counts as
// 3 beats since six eighth notes equal three quarter notes; 1/8 and 1/16
// default to 4. The generation prompt must encode the same table.
var beatsPerMeasure = map[string]int{
	"1/4":  4,
	"1/8":  4,
	"1/16": 4,
	"3/4":  3,
	"6/8":  3,
}

// Request is the validated Parameter Record driving one generation run
type Request struct {
	Genre             string `json:"genre" binding:"required"`
	Tempo             int    `json:"tempo" binding:"required"`
	KeyCenter         string `json:"key_center" binding:"required"`
	ScaleType         string `json:"scale_type" binding:"required"`
	Mood              string `json:"mood"`
	PartsInfo         string `json:"parts_info" binding:"required"`
	AdditionalDetails string `json:"additional_details"`
	MeasureCount      int    `json:"measure_count" binding:"required"`
	BeatSubdivision   string `json:"beat_subdivision" binding:"required"`
}

// Validate checks every field against its catalog or bounds
func (r *Request) Validate() error {
	if r.Genre == "" {
		return fmt.Errorf("genre is required")
	}
	if r.Tempo < MinTempo || r.Tempo > MaxTempo {
		return fmt.Errorf("tempo must be between %d and %d BPM, got %d", MinTempo, MaxTempo, r.Tempo)
	}
	if !validKeys[r.KeyCenter] {
		return fmt.Errorf("key_center must be one of C, D, E, F, G, A, B, got %q", r.KeyCenter)
	}
	if !validScales[r.ScaleType] {
		return fmt.Errorf("scale_type must be major or minor, got %q", r.ScaleType)
	}
	if r.PartsInfo == "" {
		return fmt.Errorf("parts_info is required")
	}
	if r.MeasureCount < MinMeasureCount || r.MeasureCount > MaxMeasureCount {
		return fmt.Errorf("measure_count must be between %d and %d, got %d", MinMeasureCount, MaxMeasureCount, r.MeasureCount)
	}
	if _, ok := beatsPerMeasure[r.BeatSubdivision]; !ok {
		return fmt.Errorf("beat_subdivision must be one of 1/4, 1/8, 1/16, 3/4, 6/8, got %q", r.BeatSubdivision)
	}
	return nil
}

// BeatsPerMeasure returns the beat count for a subdivision, or an error for
// subdivisions outside the fixed catalog.
func BeatsPerMeasure(subdivision string) (int, error) {
	beats, ok := beatsPerMeasure[subdivision]
	if !ok {
		return 0, fmt.Errorf("unknown beat subdivision: %q", subdivision)
	}
	return beats, nil
}

// MeasureTicks returns TICKS_PER_BEAT times the subdivision's beat count,
// the per-measure duration sum every generated part must hit exactly.
func (r *Request) MeasureTicks() (int, error) {
	beats, err := BeatsPerMeasure(r.BeatSubdivision)
	if err != nil {
		return 0, err
	}
	return TicksPerBeat * beats, nil
}
