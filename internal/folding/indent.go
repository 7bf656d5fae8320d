package folding

import (
	"regexp"
	"strings"
)

// quoteStyle identifies a triple-quoted string delimiter.
type quoteStyle int

const (
	quoteDouble quoteStyle = iota // """
	quoteSingle                   // '''
)

var quoteTokens = map[quoteStyle]string{
	quoteDouble: `"""`,
	quoteSingle: `'''`,
}

// stringState tracks open triple-quoted strings per quote style, so string
// bodies never feed false indentation signals into block tracking.
type stringState struct {
	open map[quoteStyle]bool
}

func newStringState() *stringState {
	return &stringState{open: make(map[quoteStyle]bool, 2)}
}

// inString reports whether any triple-quoted string is currently open.
func (s *stringState) inString() bool {
	return s.open[quoteDouble] || s.open[quoteSingle]
}

// observe toggles string state for each quote style with an odd token
// count on the line. Returns whether the line ended inside a string.
func (s *stringState) observe(text string) bool {
	for style, token := range quoteTokens {
		if strings.Count(text, token)%2 == 1 {
			s.open[style] = !s.open[style]
		}
	}
	return s.inString()
}

// structuralDefault matches headers that are always worth folding even
// with a single content line: function, class, control-flow and the
// __main__ guard.
var structuralDefault = []*regexp.Regexp{
	regexp.MustCompile(`^(async\s+)?def\s`),
	regexp.MustCompile(`^class\s`),
	regexp.MustCompile(`^(if|elif|else|for|while|try|except|finally|with|match|case)\b`),
	regexp.MustCompile(`^if\s+__name__\s*==`),
}

// IndentScanner derives blocks from indentation depth changes. Every
// non-blank line opens a block; a block closes when a later line at the
// same or lesser indent arrives, or at end of input. Blank lines inside a
// block never close it: the range end is always the last non-blank line
// before the closing line.
type IndentScanner struct {
	structural []*regexp.Regexp
}

// NewIndentScanner returns a scanner with the default structural header
// patterns.
func NewIndentScanner() *IndentScanner {
	return &IndentScanner{structural: structuralDefault}
}

// indentBlock is one open entry on the scan stack.
type indentBlock struct {
	start      int
	indent     int
	structural bool
}

// Scan returns indentation-derived fold ranges in close order.
func (s *IndentScanner) Scan(lines []Line) []Range {
	var (
		ranges   []Range
		stack    []indentBlock
		strState = newStringState()
	)

	// contentBefore[i] = non-blank lines among lines[0..i-1], so block
	// emission can count content lines without rescanning.
	contentBefore := make([]int, len(lines)+1)
	for i, ln := range lines {
		contentBefore[i+1] = contentBefore[i]
		if !ln.Blank() {
			contentBefore[i+1]++
		}
	}

	emit := func(b indentBlock, end int) {
		if end <= b.start {
			return
		}
		content := contentBefore[end+1] - contentBefore[b.start+1]
		if b.structural && content >= 1 || content >= 2 {
			ranges = append(ranges, Range{Start: b.start, End: end, Kind: KindRegion})
		}
	}

	for _, ln := range lines {
		if ln.Blank() {
			continue
		}
		if strState.inString() {
			// String bodies are opaque: no popping, no pushing, only
			// watching for the closing delimiter.
			strState.observe(ln.Text)
			continue
		}

		end := lastContentBefore(lines, ln.Index)
		for len(stack) > 0 && stack[len(stack)-1].indent >= ln.Indent {
			emit(stack[len(stack)-1], end)
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, indentBlock{
			start:      ln.Index,
			indent:     ln.Indent,
			structural: s.matchesStructural(ln.Trimmed),
		})
		strState.observe(ln.Text)
	}

	// End of input closes everything against the document's last content
	// line.
	last := lastContentBefore(lines, len(lines))
	for len(stack) > 0 {
		emit(stack[len(stack)-1], last)
		stack = stack[:len(stack)-1]
	}
	return ranges
}

func (s *IndentScanner) matchesStructural(trimmed string) bool {
	for _, re := range s.structural {
		if re.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// blockEnd resolves the end line of the single block opened by the header
// at start: the last content line whose indent stays greater than the
// header's, with multi-line strings treated as block content. Returns -1
// when the block has no body.
func (s *IndentScanner) blockEnd(lines []Line, start int) int {
	header := lines[start]
	state := newStringState()
	state.observe(header.Text)

	end := -1
	for i := start + 1; i < len(lines); i++ {
		ln := lines[i]
		if ln.Blank() {
			continue
		}
		if state.inString() {
			state.observe(ln.Text)
			end = ln.Index
			continue
		}
		if ln.Indent <= header.Indent {
			break
		}
		state.observe(ln.Text)
		end = ln.Index
	}
	return end
}
