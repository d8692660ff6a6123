package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripFencesRemovesLeadingAndTrailing(t *testing.T) {
	input := "```python\nimport mido\nprint(\"ok\")\n```"
	want := "import mido\nprint(\"ok\")"
	assert.Equal(t, want, StripFences(input))
}

func TestStripFencesBareMarker(t *testing.T) {
	input := "```\nx = 1\n```"
	assert.Equal(t, "x = 1", StripFences(input))
}

func TestStripFencesNoOp(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"plain source", "import mido\nprint(\"ok\")\n"},
		{"empty", ""},
		{"fence mid-text stays", "x = 1\n# ``` not a fence position\ny = 2"},
		{"trailing fence with suffix stays", "x = 1\n```python"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.input, StripFences(tt.input))
		})
	}
}

func TestStripFencesIdempotent(t *testing.T) {
	inputs := []string{
		"```python\ncode\n```",
		"```\ncode\n```",
		"code",
		"",
		"```",
		"```python\ncode",
		"code\n```",
	}

	for _, input := range inputs {
		once := StripFences(input)
		twice := StripFences(once)
		assert.Equal(t, once, twice, "sanitize must be idempotent for %q", input)
	}
}

func TestStripFencesNeverGrows(t *testing.T) {
	inputs := []string{
		"```python\ncode\n```",
		"plain",
		"",
		"```",
		"\n\n```\n\n",
	}

	for _, input := range inputs {
		assert.LessOrEqual(t, len(StripFences(input)), len(input))
	}
}

func TestStripFencesLeadingOnly(t *testing.T) {
	assert.Equal(t, "code\n", StripFences("```python\ncode\n"))
}

func TestStripFencesTrailingOnly(t *testing.T) {
	assert.Equal(t, "code", StripFences("code\n```"))
}

func TestStripFencesFenceOnlyLine(t *testing.T) {
	assert.Equal(t, "", StripFences("```"))
	assert.Equal(t, "", StripFences("```python"))
}

func TestStripFencesInnerContentUntouched(t *testing.T) {
	inner := "s = \"```\"\nprint(s)"
	input := "```python\n" + inner + "\n```"
	assert.Equal(t, inner, StripFences(input))
}
