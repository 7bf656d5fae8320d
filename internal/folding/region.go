package folding

import "regexp"

// Region marker tokens, optionally behind a comment prefix:
//
//	// #region name ... // #endregion
//	# region ... # endregion
//	<!-- #region --> ... <!-- #endregion -->
var (
	regionStartRe = regexp.MustCompile(`(?i)^(?:(?://|#|--|;|'|/\*|<!--)\s*)?#?\s?region\b`)
	regionEndRe   = regexp.MustCompile(`(?i)^(?:(?://|#|--|;|'|/\*|<!--)\s*)?#?\s?endregion\b`)
)

// RegionScanner matches explicit region/endregion marker pairs with a
// single stack. Unlike the block scanners, adjacent markers with no body
// still fold: an explicit region marks intentional structure.
type RegionScanner struct{}

// NewRegionScanner returns a region marker scanner.
func NewRegionScanner() *RegionScanner {
	return &RegionScanner{}
}

// Scan returns one range per matched region pair, end-marker line
// included. Unmatched end tokens are ignored; unterminated starts are
// discarded at end of input.
func (s *RegionScanner) Scan(lines []Line) []Range {
	var (
		ranges []Range
		stack  []int
	)
	for _, ln := range lines {
		if ln.Blank() {
			continue
		}
		if regionEndRe.MatchString(ln.Trimmed) {
			if len(stack) == 0 {
				continue
			}
			start := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if ln.Index > start {
				ranges = append(ranges, Range{Start: start, End: ln.Index, Kind: KindRegion})
			}
			continue
		}
		if regionStartRe.MatchString(ln.Trimmed) {
			stack = append(stack, ln.Index)
		}
	}
	return ranges
}
