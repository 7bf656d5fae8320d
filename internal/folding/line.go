package folding

import "strings"

// Line is an immutable view of one document line.
type Line struct {
	// Index is the 0-based line number.
	Index int
	// Text is the raw line content without the trailing newline.
	Text string
	// Trimmed is Text with surrounding whitespace removed.
	Trimmed string
	// Indent is the count of leading whitespace characters, or -1 when
	// the line is blank or whitespace-only.
	Indent int
}

// Blank reports whether the line has no content.
func (l Line) Blank() bool {
	return l.Indent < 0
}

// SplitLines splits document text into indexed lines. The result is the
// shared input for every scanner.
func SplitLines(text string) []Line {
	raw := strings.Split(text, "\n")
	lines := make([]Line, len(raw))
	for i, t := range raw {
		t = strings.TrimSuffix(t, "\r")
		trimmed := strings.TrimSpace(t)
		indent := -1
		if trimmed != "" {
			indent = leadingWhitespace(t)
		}
		lines[i] = Line{Index: i, Text: t, Trimmed: trimmed, Indent: indent}
	}
	return lines
}

// leadingWhitespace counts leading space and tab characters.
func leadingWhitespace(s string) int {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	return n
}

// lastContentBefore returns the index of the last non-blank line strictly
// before limit, or -1 if there is none.
func lastContentBefore(lines []Line, limit int) int {
	for i := limit - 1; i >= 0; i-- {
		if !lines[i].Blank() {
			return i
		}
	}
	return -1
}
