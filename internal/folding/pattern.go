package folding

import "strings"

// PatternScanner applies a language's regex tables in two independent
// passes: line-anchored header detection, whose block ends are resolved by
// the indent or delimiter scanner depending on the language's block style,
// and whole-text run detection for multi-line strings, block comments and
// line-comment runs. Both passes keep their output; overlapping ranges are
// tolerated by design, the scanner optimizes recall, not uniqueness.
type PatternScanner struct {
	lang      Language
	indent    *IndentScanner
	delimiter *DelimiterScanner
}

// NewPatternScanner builds a scanner for one language.
func NewPatternScanner(lang Language) *PatternScanner {
	return &PatternScanner{
		lang:      lang,
		indent:    NewIndentScanner(),
		delimiter: NewDelimiterScanner(DefaultDelimiters, lang.LineComments),
	}
}

// Scan runs both passes over the document.
func (s *PatternScanner) Scan(text string, lines []Line) []Range {
	ranges := s.scanHeaders(lines)
	return append(ranges, s.scanRuns(text, lines)...)
}

// scanHeaders finds structural header lines and resolves each block's end
// through the block style's closing logic.
func (s *PatternScanner) scanHeaders(lines []Line) []Range {
	var ranges []Range
	state := newStringState()
	inBlockComment := false

	for _, ln := range lines {
		if ln.Blank() {
			continue
		}

		// Headers inside multi-line strings or block comments are
		// lookalikes, not declarations.
		if state.inString() {
			state.observe(ln.Text)
			continue
		}
		if inBlockComment {
			if s.lang.BlockClose != "" && strings.Contains(ln.Text, s.lang.BlockClose) {
				inBlockComment = false
			}
			continue
		}
		if s.lang.BlockOpen != "" &&
			strings.HasPrefix(ln.Trimmed, s.lang.BlockOpen) &&
			!strings.Contains(ln.Trimmed, s.lang.BlockClose) {
			inBlockComment = true
			continue
		}

		if s.lang.matchesHeader(ln.Trimmed) {
			if r, ok := s.resolveHeader(lines, ln.Index); ok {
				ranges = append(ranges, r)
			}
		}
		state.observe(ln.Text)
	}
	return ranges
}

// resolveHeader finds the end of the block opened at the header line.
func (s *PatternScanner) resolveHeader(lines []Line, start int) (Range, bool) {
	if s.lang.IndentStyle() {
		end := s.indent.blockEnd(lines, start)
		if end > start {
			return Range{Start: start, End: end, Kind: KindRegion}, true
		}
		return Range{}, false
	}
	end := s.delimiter.blockEnd(lines, start)
	if end-start >= 2 {
		return Range{Start: start, End: end, Kind: KindRegion}, true
	}
	return Range{}, false
}

// scanRuns applies the language's whole-text patterns and converts match
// offsets to line spans.
func (s *PatternScanner) scanRuns(text string, lines []Line) []Range {
	var ranges []Range
	for _, re := range s.lang.runs {
		for _, m := range re.FindAllStringIndex(text, -1) {
			start := strings.Count(text[:m[0]], "\n")
			end := start + strings.Count(text[m[0]:m[1]], "\n")
			// A match ending exactly on a newline does not include the
			// following line.
			if m[1] > m[0] && text[m[1]-1] == '\n' {
				end--
			}
			for end > start && lines[end].Blank() {
				end--
			}
			if end <= start {
				continue
			}
			kind := KindRegion
			if s.lang.containsCommentToken(text[m[0]:m[1]]) {
				kind = KindComment
			}
			ranges = append(ranges, Range{Start: start, End: end, Kind: kind})
		}
	}
	return ranges
}
