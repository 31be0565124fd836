// Package batch validates row-aligned generation input and names the
// documents a batch produces.
package batch

import (
	"regexp"
	"strings"
)

var lineBreak = regexp.MustCompile(`\r?\n`)

// Lines splits newline-delimited text into trimmed, non-empty lines.
func Lines(text string) []string {
	var out []string
	for _, line := range lineBreak.Split(text, -1) {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Markers delimit body blocks. Each marker must sit alone on its line.
type Markers struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// DefaultMarkers returns the standard body block markers.
func DefaultMarkers() Markers {
	return Markers{Start: "[ARTIKEL]", End: "[/ARTIKEL]"}
}

// ParseBlocks extracts the body blocks of text.
//
// A block opens on a line equal to m.Start and closes on a line equal to
// m.End, both compared after trimming. The captured lines are joined and
// trimmed; empty blocks are dropped. A start marker inside an open block
// restarts the capture, and an unterminated block at the end of input is
// discarded.
func ParseBlocks(text string, m Markers) []string {
	if m.Start == "" || m.End == "" {
		m = DefaultMarkers()
	}

	var (
		blocks []string
		buf    []string
		inside bool
	)
	for _, line := range lineBreak.Split(text, -1) {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == m.Start:
			inside = true
			buf = buf[:0]
		case inside && trimmed == m.End:
			inside = false
			if block := strings.TrimSpace(strings.Join(buf, "\n")); block != "" {
				blocks = append(blocks, block)
			}
		case inside:
			buf = append(buf, line)
		}
	}
	return blocks
}
