// Package midifile parses Standard MIDI File containers and digests them
// into human-readable summaries. Parsing works directly on the chunk bytes
// (MThd/MTrk, variable-length deltas, running status).
package midifile

import (
	"encoding/binary"
	"fmt"
)

// EventKind tags the heterogeneous MIDI event kinds the inspector cares
// about. Everything else collapses into KindOther.
type EventKind int

const (
	KindNoteOn EventKind = iota
	KindNoteOff
	KindTempo
	KindProgramChange
	KindTrackName
	KindEndOfTrack
	KindOther
)

// Channel voice status nibbles
const (
	statusNoteOff       = 0x80
	statusNoteOn        = 0x90
	statusPolyPressure  = 0xA0
	statusController    = 0xB0
	statusProgramChange = 0xC0
	statusChanPressure  = 0xD0
	statusPitchBend     = 0xE0
)

// Meta event types
const (
	metaTrackName  = 0x03
	metaEndOfTrack = 0x2F
	metaSetTempo   = 0x51
)

const (
	headerChunkLen     = 14
	microsPerMinute    = 60_000_000
	defaultTempoMicros = 500_000 // 120 BPM until the first tempo event
)

// Event is one parsed MIDI event with its absolute tick position
type Event struct {
	Tick  uint64
	Kind  EventKind
	Delta uint32

	// Channel voice fields (valid for note/program kinds)
	Channel  uint8
	Note     uint8
	Velocity uint8
	Program  uint8

	// Meta fields
	TempoMicros uint32 // KindTempo: microseconds per quarter note
	Text        string // KindTrackName

	// Status and raw meta type, for rendering unknown events
	Status   uint8
	MetaType uint8
}

// Track is one parsed MTrk chunk
type Track struct {
	Events []Event
}

// File is a parsed SMF container
type File struct {
	Format   uint16
	Division uint16 // ticks per quarter note
	Tracks   []Track
}

// Parse interprets data as a Standard MIDI File. It returns an error for any
// malformed structure; it never panics on arbitrary input.
func Parse(data []byte) (*File, error) {
	if len(data) < headerChunkLen {
		return nil, fmt.Errorf("file too short for MIDI header: %d bytes", len(data))
	}
	if string(data[0:4]) != "MThd" {
		return nil, fmt.Errorf("missing MThd header chunk")
	}
	headerLen := binary.BigEndian.Uint32(data[4:8])
	if headerLen != 6 {
		return nil, fmt.Errorf("unexpected MThd length %d", headerLen)
	}

	file := &File{
		Format:   binary.BigEndian.Uint16(data[8:10]),
		Division: binary.BigEndian.Uint16(data[12:14]),
	}
	trackCount := binary.BigEndian.Uint16(data[10:12])

	if file.Division&0x8000 != 0 {
		return nil, fmt.Errorf("SMPTE time division is not supported")
	}
	if file.Division == 0 {
		return nil, fmt.Errorf("time division is zero")
	}

	pos := headerChunkLen
	for t := 0; t < int(trackCount); t++ {
		if pos+8 > len(data) {
			return nil, fmt.Errorf("truncated file: expected %d tracks, found %d", trackCount, t)
		}
		if string(data[pos:pos+4]) != "MTrk" {
			return nil, fmt.Errorf("track %d: missing MTrk chunk", t)
		}
		chunkLen := int(binary.BigEndian.Uint32(data[pos+4 : pos+8]))
		pos += 8
		if pos+chunkLen > len(data) {
			return nil, fmt.Errorf("track %d: chunk length %d exceeds file size", t, chunkLen)
		}

		track, err := parseTrack(data[pos : pos+chunkLen])
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", t, err)
		}
		file.Tracks = append(file.Tracks, track)
		pos += chunkLen
	}

	if len(file.Tracks) == 0 {
		return nil, fmt.Errorf("file contains no tracks")
	}
	return file, nil
}

// parseTrack walks one MTrk chunk body, maintaining running status
func parseTrack(chunk []byte) (Track, error) {
	var track Track
	var tick uint64
	var runningStatus uint8
	pos := 0

	for pos < len(chunk) {
		delta, n, err := readVarLen(chunk[pos:])
		if err != nil {
			return track, err
		}
		pos += n
		tick += uint64(delta)

		if pos >= len(chunk) {
			return track, fmt.Errorf("truncated event at tick %d", tick)
		}

		status := chunk[pos]
		if status < 0x80 {
			// Running status: reuse the previous channel voice status
			if runningStatus == 0 {
				return track, fmt.Errorf("data byte 0x%02X with no running status", status)
			}
			status = runningStatus
		} else {
			pos++
		}

		ev := Event{Tick: tick, Delta: delta, Status: status}

		switch {
		case status == 0xFF:
			n, err := parseMetaEvent(chunk[pos:], &ev)
			if err != nil {
				return track, err
			}
			pos += n
			runningStatus = 0
		case status == 0xF0 || status == 0xF7:
			// Sysex: length-prefixed payload, no musical content to keep
			length, n, err := readVarLen(chunk[pos:])
			if err != nil {
				return track, err
			}
			if pos+n+int(length) > len(chunk) {
				return track, fmt.Errorf("truncated sysex event at tick %d", tick)
			}
			pos += n + int(length)
			ev.Kind = KindOther
			runningStatus = 0
		default:
			n, err := parseChannelEvent(chunk[pos:], status, &ev)
			if err != nil {
				return track, err
			}
			pos += n
			runningStatus = status
		}

		track.Events = append(track.Events, ev)
		if ev.Kind == KindEndOfTrack {
			break
		}
	}

	return track, nil
}

func parseMetaEvent(data []byte, ev *Event) (int, error) {
	if len(data) < 1 {
		return 0, fmt.Errorf("truncated meta event")
	}
	metaType := data[0]
	length, n, err := readVarLen(data[1:])
	if err != nil {
		return 0, err
	}
	body := data[1+n:]
	if int(length) > len(body) {
		return 0, fmt.Errorf("meta event 0x%02X: length %d exceeds track data", metaType, length)
	}
	body = body[:length]

	ev.MetaType = metaType
	switch metaType {
	case metaSetTempo:
		if length != 3 {
			return 0, fmt.Errorf("set_tempo meta event has length %d, want 3", length)
		}
		ev.Kind = KindTempo
		ev.TempoMicros = uint32(body[0])<<16 | uint32(body[1])<<8 | uint32(body[2])
		if ev.TempoMicros == 0 {
			return 0, fmt.Errorf("set_tempo meta event with zero microseconds per beat")
		}
	case metaTrackName:
		ev.Kind = KindTrackName
		ev.Text = string(body)
	case metaEndOfTrack:
		ev.Kind = KindEndOfTrack
	default:
		ev.Kind = KindOther
	}

	return 1 + n + int(length), nil
}

func parseChannelEvent(data []byte, status uint8, ev *Event) (int, error) {
	kind := status & 0xF0
	ev.Channel = status & 0x0F

	operandLen := 2
	if kind == statusProgramChange || kind == statusChanPressure {
		operandLen = 1
	}
	if len(data) < operandLen {
		return 0, fmt.Errorf("truncated channel event 0x%02X", status)
	}

	switch kind {
	case statusNoteOn:
		ev.Kind = KindNoteOn
		ev.Note = data[0]
		ev.Velocity = data[1]
	case statusNoteOff:
		ev.Kind = KindNoteOff
		ev.Note = data[0]
		ev.Velocity = data[1]
	case statusProgramChange:
		ev.Kind = KindProgramChange
		ev.Program = data[0]
	case statusPolyPressure, statusController, statusPitchBend:
		ev.Kind = KindOther
	default:
		return 0, fmt.Errorf("unknown status byte 0x%02X", status)
	}

	return operandLen, nil
}

// readVarLen decodes a variable-length quantity (7 bits per byte, high bit
// is the continuation flag, at most 4 bytes).
func readVarLen(data []byte) (uint32, int, error) {
	var value uint32
	for i := 0; i < len(data) && i < 4; i++ {
		value = value<<7 | uint32(data[i]&0x7F)
		if data[i]&0x80 == 0 {
			return value, i + 1, nil
		}
	}
	if len(data) == 0 {
		return 0, 0, fmt.Errorf("truncated variable-length quantity")
	}
	return 0, 0, fmt.Errorf("variable-length quantity exceeds 4 bytes")
}
