package midifile

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildFixture assembles a two-track format-1 SMF by hand:
// track 0 carries the tempo map, track 1 a named piano part.
func buildFixture(t *testing.T) []byte {
	t.Helper()

	header := []byte{
		'M', 'T', 'h', 'd',
		0, 0, 0, 6,
		0, 1, // format 1
		0, 2, // two tracks
		0x01, 0xE0, // division: 480 ticks per beat
	}

	// Track 0: set_tempo 500000 (120 BPM) at tick 0, end of track at tick 0
	tempoTrack := []byte{
		0x00, 0xFF, 0x51, 0x03, 0x07, 0xA1, 0x20,
		0x00, 0xFF, 0x2F, 0x00,
	}

	// Track 1: track name, program change, one quarter note C4 on channel 0
	noteTrack := []byte{
		0x00, 0xFF, 0x03, 0x05, 'P', 'i', 'a', 'n', 'o',
		0x00, 0xC0, 0x00,
		0x00, 0x90, 0x3C, 0x64,
		0x83, 0x60, 0x80, 0x3C, 0x40, // delta 480
		0x00, 0xFF, 0x2F, 0x00,
	}

	var file []byte
	file = append(file, header...)
	for _, trackData := range [][]byte{tempoTrack, noteTrack} {
		chunk := []byte{'M', 'T', 'r', 'k'}
		var lenBytes [4]byte
		binary.BigEndian.PutUint32(lenBytes[:], uint32(len(trackData)))
		chunk = append(chunk, lenBytes[:]...)
		chunk = append(chunk, trackData...)
		file = append(file, chunk...)
	}
	return file
}

func TestParseFixture(t *testing.T) {
	file, err := Parse(buildFixture(t))
	require.NoError(t, err)

	assert.Equal(t, uint16(1), file.Format)
	assert.Equal(t, uint16(480), file.Division)
	require.Len(t, file.Tracks, 2)

	tempoTrack := file.Tracks[0]
	require.Len(t, tempoTrack.Events, 2)
	assert.Equal(t, KindTempo, tempoTrack.Events[0].Kind)
	assert.Equal(t, uint32(500_000), tempoTrack.Events[0].TempoMicros)
	assert.Equal(t, KindEndOfTrack, tempoTrack.Events[1].Kind)

	noteTrack := file.Tracks[1]
	require.Len(t, noteTrack.Events, 5)
	assert.Equal(t, KindTrackName, noteTrack.Events[0].Kind)
	assert.Equal(t, "Piano", noteTrack.Events[0].Text)
	assert.Equal(t, KindProgramChange, noteTrack.Events[1].Kind)
	assert.Equal(t, KindNoteOn, noteTrack.Events[2].Kind)
	assert.Equal(t, uint8(0x3C), noteTrack.Events[2].Note)
	assert.Equal(t, KindNoteOff, noteTrack.Events[3].Kind)
	assert.Equal(t, uint64(480), noteTrack.Events[3].Tick)
}

func TestParseRunningStatus(t *testing.T) {
	// Two note-ons sharing one status byte
	trackData := []byte{
		0x00, 0x90, 0x3C, 0x64,
		0x00, 0x40, 0x64, // running status: note on E4
		0x00, 0xFF, 0x2F, 0x00,
	}
	data := wrapSingleTrack(trackData)

	file, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, file.Tracks, 1)
	events := file.Tracks[0].Events
	require.Len(t, events, 3)
	assert.Equal(t, KindNoteOn, events[0].Kind)
	assert.Equal(t, KindNoteOn, events[1].Kind)
	assert.Equal(t, uint8(0x40), events[1].Note)
}

func wrapSingleTrack(trackData []byte) []byte {
	data := []byte{
		'M', 'T', 'h', 'd',
		0, 0, 0, 6,
		0, 0,
		0, 1,
		0x01, 0xE0,
	}
	data = append(data, 'M', 'T', 'r', 'k')
	var lenBytes [4]byte
	binary.BigEndian.PutUint32(lenBytes[:], uint32(len(trackData)))
	data = append(data, lenBytes[:]...)
	return append(data, trackData...)
}

func TestParseRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"too short", []byte("MThd")},
		{"wrong magic", append([]byte("RIFF"), make([]byte, 20)...)},
		{"bad header length", []byte{'M', 'T', 'h', 'd', 0, 0, 0, 7, 0, 0, 0, 1, 0x01, 0xE0}},
		{"zero division", []byte{'M', 'T', 'h', 'd', 0, 0, 0, 6, 0, 0, 0, 1, 0x00, 0x00}},
		{"missing track chunk", []byte{'M', 'T', 'h', 'd', 0, 0, 0, 6, 0, 0, 0, 1, 0x01, 0xE0}},
		{"truncated track", wrapSingleTrack([]byte{0x00, 0x90, 0x3C})},
		{"data byte without status", wrapSingleTrack([]byte{0x00, 0x3C, 0x64})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestParseSMPTEDivisionUnsupported(t *testing.T) {
	data := []byte{
		'M', 'T', 'h', 'd',
		0, 0, 0, 6,
		0, 0,
		0, 1,
		0xE7, 0x28, // SMPTE division
	}
	_, err := Parse(data)
	assert.ErrorContains(t, err, "SMPTE")
}

func TestReadVarLen(t *testing.T) {
	tests := []struct {
		data []byte
		want uint32
		n    int
	}{
		{[]byte{0x00}, 0, 1},
		{[]byte{0x7F}, 127, 1},
		{[]byte{0x81, 0x00}, 128, 2},
		{[]byte{0x83, 0x60}, 480, 2},
		{[]byte{0xFF, 0xFF, 0xFF, 0x7F}, 0x0FFFFFFF, 4},
	}

	for _, tt := range tests {
		value, n, err := readVarLen(tt.data)
		require.NoError(t, err)
		assert.Equal(t, tt.want, value)
		assert.Equal(t, tt.n, n)
	}
}

func TestReadVarLenErrors(t *testing.T) {
	_, _, err := readVarLen(nil)
	assert.Error(t, err)

	_, _, err = readVarLen([]byte{0x80, 0x80, 0x80, 0x80, 0x00})
	assert.Error(t, err)
}
