package midifile

import (
	"fmt"
	"os"
	"sort"
)

const previewEventCount = 5

// TrackSummary digests one track's note activity
type TrackSummary struct {
	Name     string   `json:"name"`
	NoteOns  int      `json:"note_ons"`
	NoteOffs int      `json:"note_offs"`
	Preview  []string `json:"preview"`
}

// Summary is the read-only digest of a MIDI artifact. Constructed fresh per
// inspection, never mutated afterwards. When the artifact exists but is not
// a well-formed container, ParseError carries the reason and the remaining
// fields stay zero.
type Summary struct {
	DetectedTempo   float64        `json:"detected_tempo,omitempty"` // BPM; 0 when no tempo event found
	TempoDetected   bool           `json:"tempo_detected"`
	DurationSeconds float64        `json:"duration_seconds"`
	Format          uint16         `json:"format"`
	Division        uint16         `json:"division"`
	Tracks          []TrackSummary `json:"tracks"`
	ParseError      string         `json:"parse_error,omitempty"`
}

// ErrArtifactMissing distinguishes "no file" (execution produced nothing,
// a reportable condition of its own) from a malformed file.
var ErrArtifactMissing = fmt.Errorf("artifact file not found")

// Inspect reads and summarizes the artifact at path. A missing file returns
// ErrArtifactMissing; a malformed file returns a Summary whose ParseError is
// set. Inspection never crashes the pipeline.
func Inspect(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, path)
		}
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return Summarize(data), nil
}

// Summarize parses data as an SMF container and digests it. Parse failures
// are folded into the ParseError field rather than returned.
func Summarize(data []byte) *Summary {
	file, err := Parse(data)
	if err != nil {
		return &Summary{ParseError: err.Error()}
	}

	summary := &Summary{
		Format:   file.Format,
		Division: file.Division,
	}

	// First tempo meta event in the file sets the detected tempo
	for _, track := range file.Tracks {
		for _, ev := range track.Events {
			if ev.Kind == KindTempo {
				summary.DetectedTempo = float64(microsPerMinute) / float64(ev.TempoMicros)
				summary.TempoDetected = true
				break
			}
		}
		if summary.TempoDetected {
			break
		}
	}

	summary.DurationSeconds = duration(file)

	for i, track := range file.Tracks {
		summary.Tracks = append(summary.Tracks, summarizeTrack(i, track))
	}

	return summary
}

func summarizeTrack(index int, track Track) TrackSummary {
	ts := TrackSummary{Name: fmt.Sprintf("Track %d", index)}

	for _, ev := range track.Events {
		switch ev.Kind {
		case KindNoteOn:
			ts.NoteOns++
		case KindNoteOff:
			ts.NoteOffs++
		case KindTrackName:
			if ev.Text != "" {
				ts.Name = ev.Text
			}
		}
		if len(ts.Preview) < previewEventCount {
			ts.Preview = append(ts.Preview, renderEvent(ev))
		}
	}

	return ts
}

// duration walks the merged event timeline and integrates tick spans against
// the tempo map. Before the first tempo event the MIDI default of 120 BPM
// applies.
func duration(file *File) float64 {
	type tempoChange struct {
		tick   uint64
		micros uint32
	}

	var changes []tempoChange
	var lastTick uint64
	for _, track := range file.Tracks {
		for _, ev := range track.Events {
			if ev.Kind == KindTempo {
				changes = append(changes, tempoChange{tick: ev.Tick, micros: ev.TempoMicros})
			}
			if ev.Tick > lastTick {
				lastTick = ev.Tick
			}
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].tick < changes[j].tick })

	var totalMicros float64
	prevTick := uint64(0)
	micros := uint32(defaultTempoMicros)
	for _, change := range changes {
		if change.tick > lastTick {
			break
		}
		totalMicros += float64(change.tick-prevTick) * float64(micros) / float64(file.Division)
		prevTick = change.tick
		micros = change.micros
	}
	totalMicros += float64(lastTick-prevTick) * float64(micros) / float64(file.Division)

	return totalMicros / 1e6
}

// renderEvent formats one event the way the preview panel shows it
func renderEvent(ev Event) string {
	switch ev.Kind {
	case KindNoteOn:
		return fmt.Sprintf("note_on channel=%d note=%d velocity=%d time=%d", ev.Channel, ev.Note, ev.Velocity, ev.Delta)
	case KindNoteOff:
		return fmt.Sprintf("note_off channel=%d note=%d velocity=%d time=%d", ev.Channel, ev.Note, ev.Velocity, ev.Delta)
	case KindTempo:
		return fmt.Sprintf("set_tempo tempo=%d time=%d", ev.TempoMicros, ev.Delta)
	case KindProgramChange:
		return fmt.Sprintf("program_change channel=%d program=%d time=%d", ev.Channel, ev.Program, ev.Delta)
	case KindTrackName:
		return fmt.Sprintf("track_name name=%q time=%d", ev.Text, ev.Delta)
	case KindEndOfTrack:
		return fmt.Sprintf("end_of_track time=%d", ev.Delta)
	default:
		if ev.Status == 0xFF {
			return fmt.Sprintf("meta type=0x%02X time=%d", ev.MetaType, ev.Delta)
		}
		return fmt.Sprintf("event status=0x%02X time=%d", ev.Status, ev.Delta)
	}
}
