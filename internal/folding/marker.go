package folding

import "regexp"

// MarkerScanner pairs named start/end tokens (`<name>-start` / `<name>-end`)
// embedded anywhere in a document: in line comments, block comments, HTML
// comments, quoted strings, or as bare text. Pairing is strict and in
// document order; unterminated blocks are discarded, never emitted, so a
// partial pair can never mislead the user about a fold boundary.
type MarkerScanner struct {
	markers []markerTokens
}

// markerTokens holds the compiled matchers for one marker name.
type markerTokens struct {
	name  string
	start *tokenMatcher
	end   *tokenMatcher
}

// tokenMatcher tests whether a trimmed line contains a marker token in one
// of the recognized embeddings. Contexts are checked in precedence order:
// line comment, block comment, HTML comment, quoted string, bare text.
type tokenMatcher struct {
	contexts []*regexp.Regexp
}

// tokenBoundary rejects matches where the token is preceded by an
// identifier character, so a marker name that is a prefix of another
// (`err` vs `error`) never cross-matches.
const tokenBoundary = `(?:.*[^0-9A-Za-z_-])?`

func newTokenMatcher(token string) *tokenMatcher {
	q := regexp.QuoteMeta(token)
	return &tokenMatcher{contexts: []*regexp.Regexp{
		regexp.MustCompile(`(?://|#|--|;)` + tokenBoundary + q),
		regexp.MustCompile(`/\*` + tokenBoundary + q + `.*\*/`),
		regexp.MustCompile(`<!--` + tokenBoundary + q + `.*-->`),
		regexp.MustCompile(`"` + tokenBoundary + q + `.*"`),
		regexp.MustCompile(`'` + tokenBoundary + q + `.*'`),
		regexp.MustCompile(`(?:^|.*[^0-9A-Za-z_-])` + q),
	}}
}

func (m *tokenMatcher) matches(trimmed string) bool {
	for _, re := range m.contexts {
		if re.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// NewMarkerScanner compiles token matchers for the given marker names.
func NewMarkerScanner(names []string) *MarkerScanner {
	markers := make([]markerTokens, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		markers = append(markers, markerTokens{
			name:  name,
			start: newTokenMatcher(name + "-start"),
			end:   newTokenMatcher(name + "-end"),
		})
	}
	return &MarkerScanner{markers: markers}
}

// Scan returns the fold ranges for all marker pairs. Output order follows
// the configured marker order, then document order, so identical input
// always produces identical output.
func (s *MarkerScanner) Scan(lines []Line) []Range {
	byName := s.ScanByName(lines)
	var ranges []Range
	for _, m := range s.markers {
		ranges = append(ranges, byName[m.name]...)
	}
	return ranges
}

// ScanByName returns fold ranges grouped by marker name, in document order
// within each group. The grouping is what the preview renderer needs to
// paint each marker with its configured color.
func (s *MarkerScanner) ScanByName(lines []Line) map[string][]Range {
	if len(s.markers) == 0 {
		return nil
	}

	// One pending open line per marker name. A new start overwrites the
	// previous pending block for the same name: starts do not nest.
	pending := make(map[string]int, len(s.markers))
	for _, m := range s.markers {
		pending[m.name] = -1
	}

	results := make(map[string][]Range)
	for _, line := range lines {
		if line.Blank() {
			continue
		}
		for _, m := range s.markers {
			if m.start.matches(line.Trimmed) {
				pending[m.name] = line.Index
				continue
			}
			if !m.end.matches(line.Trimmed) {
				continue
			}
			start := pending[m.name]
			if start < 0 {
				// End token with no pending start is ignored.
				continue
			}
			end := line.Index
			for end > start && lines[end].Blank() {
				end--
			}
			if end > start {
				results[m.name] = append(results[m.name], Range{Start: start, End: end, Kind: KindRegion})
			}
			pending[m.name] = -1
		}
	}

	// Still-pending blocks at end of input are unterminated: discarded.
	return results
}
