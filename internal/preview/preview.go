// Package preview renders scanned documents with fold gutters and colored
// marker blocks for terminal output.
package preview

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/plis/internal/folding"
)

// Gutter glyphs. A line opening a fold gets an arrow, lines inside a fold
// get a bar, everything else gets a space.
const (
	glyphStart  = "▾"
	glyphInside = "│"
	glyphNone   = " "
)

var (
	gutterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	lineNumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4B5563"))
	commentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

// Renderer draws a document with its fold ranges.
type Renderer struct {
	markerStyles map[string]lipgloss.Style
}

// New builds a renderer. colors maps marker names to hex colors; markers
// without an entry render unstyled.
func New(colors map[string]string) *Renderer {
	styles := make(map[string]lipgloss.Style, len(colors))
	for name, color := range colors {
		styles[name] = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	return &Renderer{markerStyles: styles}
}

// Render returns the document text annotated with line numbers, a fold
// gutter, and per-marker coloring. markerRanges comes from
// MarkerScanner.ScanByName; ranges is the engine's combined output.
func (r *Renderer) Render(text string, ranges []folding.Range, markerRanges map[string][]folding.Range) string {
	lines := folding.SplitLines(text)
	if len(lines) == 0 {
		return ""
	}

	gutter := buildGutter(len(lines), ranges)
	lineStyle := r.buildLineStyles(len(lines), ranges, markerRanges)

	width := len(fmt.Sprintf("%d", len(lines)))
	var b strings.Builder
	for _, ln := range lines {
		num := lineNumStyle.Render(fmt.Sprintf("%*d", width, ln.Index+1))
		b.WriteString(num)
		b.WriteString(" ")
		b.WriteString(gutterStyle.Render(gutter[ln.Index]))
		b.WriteString(" ")

		if style, ok := lineStyle[ln.Index]; ok {
			b.WriteString(style.Render(ln.Text))
		} else {
			b.WriteString(ln.Text)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// buildGutter assigns one glyph per line. Range starts win over insides
// when folds nest.
func buildGutter(lineCount int, ranges []folding.Range) []string {
	gutter := make([]string, lineCount)
	for i := range gutter {
		gutter[i] = glyphNone
	}
	for _, rng := range ranges {
		if rng.Start < 0 || rng.Start >= lineCount {
			continue
		}
		end := rng.End
		if end >= lineCount {
			end = lineCount - 1
		}
		for i := rng.Start + 1; i <= end; i++ {
			if gutter[i] == glyphNone {
				gutter[i] = glyphInside
			}
		}
		gutter[rng.Start] = glyphStart
	}
	return gutter
}

// buildLineStyles maps line indexes to the style they render with. Marker
// blocks take their configured color; comment folds are dimmed. Markers are
// applied in name order so overlaps resolve the same way on every render.
func (r *Renderer) buildLineStyles(lineCount int, ranges []folding.Range, markerRanges map[string][]folding.Range) map[int]lipgloss.Style {
	lineStyle := make(map[int]lipgloss.Style)

	for _, rng := range ranges {
		if rng.Kind != folding.KindComment {
			continue
		}
		for i := rng.Start; i <= rng.End && i < lineCount; i++ {
			lineStyle[i] = commentStyle
		}
	}

	names := make([]string, 0, len(markerRanges))
	for name := range markerRanges {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		style, ok := r.markerStyles[name]
		if !ok {
			continue
		}
		for _, rng := range markerRanges[name] {
			for i := rng.Start; i <= rng.End && i < lineCount; i++ {
				lineStyle[i] = style
			}
		}
	}

	return lineStyle
}
