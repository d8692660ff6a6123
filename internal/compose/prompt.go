package compose

import (
	"fmt"
	"strings"

	"github.com/nibura2002/AI-MIDI-generator/internal/catalog"
)

// ArtifactFileName is the fixed output name the generated program must write.
// The runner gives every run its own working directory, so the name itself
// can stay constant.
const ArtifactFileName = "output.mid"

// SystemPrompt frames the model's role for every generation request
const SystemPrompt = "You are an excellent musician and Python programmer. " +
	"You write complete, runnable Python programs that use the mido library to create MIDI files. " +
	"You output only program source, never markdown fences or commentary."

// BuildPrompt renders the request into the generation prompt. Pure function:
// the same request and catalog always produce the same string.
func BuildPrompt(req *Request, cat *catalog.Catalog) (string, error) {
	beats, err := BeatsPerMeasure(req.BeatSubdivision)
	if err != nil {
		return "", err
	}
	measureTicks := TicksPerBeat * beats

	var b strings.Builder

	b.WriteString("Based on the following song description, generate a complete Python program that uses the mido library to create a MIDI file.\n\n")

	b.WriteString("All instrument parts must adhere to the same time signature. Compute the measure duration as follows:\n")
	fmt.Fprintf(&b, "- Define a constant TICKS_PER_BEAT = %d.\n", TicksPerBeat)
	b.WriteString("- Determine the number of beats per measure from the \"Main Beat Subdivision\" input:\n")
	b.WriteString("    - If the value is \"1/4\", assume 4 beats per measure.\n")
	b.WriteString("    - If the value is \"3/4\", assume 3 beats per measure.\n")
	b.WriteString("    - If the value is \"6/8\", assume 3 beats per measure (six eighth notes equal three quarter notes).\n")
	b.WriteString("    - For values like \"1/8\" or \"1/16\", default to 4 beats per measure.\n")
	fmt.Fprintf(&b, "- Calculate MEASURE_TICKS = TICKS_PER_BEAT * (number of beats per measure). For this request that is %d * %d = %d.\n", TicksPerBeat, beats, measureTicks)
	b.WriteString("Ensure that for every measure, the sum of note durations for each instrument equals MEASURE_TICKS.\n")
	b.WriteString("Use MEASURE_TICKS consistently across all instrument parts.\n\n")

	b.WriteString("Details:\n")
	fmt.Fprintf(&b, "- Genre: %s\n", req.Genre)
	fmt.Fprintf(&b, "- Genre style notes: %s\n", cat.Lookup(req.Genre))
	fmt.Fprintf(&b, "- Tempo (BPM): %d\n", req.Tempo)
	fmt.Fprintf(&b, "- Key: %s\n", req.KeyCenter)
	fmt.Fprintf(&b, "- Scale: %s\n", req.ScaleType)
	fmt.Fprintf(&b, "- Mood: %s\n", req.Mood)
	fmt.Fprintf(&b, "- Parts Information: %s\n", req.PartsInfo)
	fmt.Fprintf(&b, "- Additional Details: %s\n", req.AdditionalDetails)
	fmt.Fprintf(&b, "- Number of Measures: %d\n", req.MeasureCount)
	fmt.Fprintf(&b, "- Main Beat Subdivision: %s\n\n", req.BeatSubdivision)

	b.WriteString("Requirements:\n")
	b.WriteString("1. Import the necessary libraries (mido, MidiFile, MidiTrack, Message, MetaMessage, etc.).\n")
	fmt.Fprintf(&b, "2. Define TICKS_PER_BEAT = %d and use it as the file's ticks_per_beat.\n", TicksPerBeat)
	fmt.Fprintf(&b, "3. Derive beats per measure as described above and compute MEASURE_TICKS (= %d here).\n", measureTicks)
	b.WriteString("4. Create a new MIDI file with one track per instrument part.\n")
	fmt.Fprintf(&b, "5. Set the tempo with a single set_tempo meta message using %d BPM.\n", req.Tempo)
	b.WriteString("6. Assign each instrument its own channel and program_change; reserve channel 9 for percussion.\n")
	fmt.Fprintf(&b, "7. For each instrument, insert note events so the total duration in each of the %d measures equals MEASURE_TICKS.\n", req.MeasureCount)
	fmt.Fprintf(&b, "8. Save the MIDI file as %q in the current working directory.\n\n", ArtifactFileName)

	b.WriteString("Output only the complete Python program, without markdown code fences.\n")

	return b.String(), nil
}
