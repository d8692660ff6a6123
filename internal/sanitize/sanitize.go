// Package sanitize strips decorative markdown fencing from model output.
// It is a textual transform only: it does not parse or validate the enclosed
// content as program source.
package sanitize

import "strings"

const fenceMarker = "```"

// StripFences removes a single leading fence line (a line opening with ```,
// optionally followed by a language tag) at the very start of the text, and a
// single trailing fence line at the very end. Everything else is untouched.
// Idempotent: once the fences are gone a second pass changes nothing.
func StripFences(text string) string {
	out := text

	if strings.HasPrefix(out, fenceMarker) {
		if idx := strings.Index(out, "\n"); idx >= 0 {
			out = out[idx+1:]
		} else {
			// Entire text is one fence line
			out = ""
		}
	}

	trimmed := strings.TrimRight(out, " \t\n")
	if lineStart := strings.LastIndex(trimmed, "\n") + 1; strings.HasPrefix(trimmed[lineStart:], fenceMarker) &&
		strings.TrimSpace(trimmed[lineStart+len(fenceMarker):]) == "" {
		out = strings.TrimRight(trimmed[:lineStart], "\n")
	}

	return out
}
