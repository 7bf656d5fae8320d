package folding

import "strings"

// DelimiterPair is one open/close delimiter character pair.
type DelimiterPair struct {
	Open  byte
	Close byte
}

// DefaultDelimiters is the pair set for brace-style languages.
var DefaultDelimiters = []DelimiterPair{
	{Open: '{', Close: '}'},
	{Open: '[', Close: ']'},
	{Open: '(', Close: ')'},
}

// DelimiterScanner derives blocks by counting delimiter pairs. Each open
// delimiter pushes an entry with its own counter; every later occurrence
// of the same pair adjusts all open counters of that pair, so same-type
// nesting closes in LIFO order while different pair types interleave
// freely. Unterminated opens at end of input are dropped: a truncated
// document must not produce a fold to its last line.
type DelimiterScanner struct {
	pairs        []DelimiterPair
	lineComments []string
}

// NewDelimiterScanner returns a scanner over the given pair set.
// lineComments are prefixes whose lines are skipped entirely; commented
// delimiters never open or close real blocks.
func NewDelimiterScanner(pairs []DelimiterPair, lineComments []string) *DelimiterScanner {
	return &DelimiterScanner{pairs: pairs, lineComments: lineComments}
}

// delimiterEntry is one open block with an independent depth counter.
type delimiterEntry struct {
	pair  int
	start int
	count int
}

// Scan returns delimiter-derived fold ranges in close order.
func (s *DelimiterScanner) Scan(lines []Line) []Range {
	var (
		ranges  []Range
		entries []delimiterEntry
	)

	for _, ln := range lines {
		if ln.Blank() || s.isComment(ln.Trimmed) {
			continue
		}
		for i := 0; i < len(ln.Text); i++ {
			c := ln.Text[i]
			if p, ok := s.openPair(c); ok {
				for j := range entries {
					if entries[j].pair == p {
						entries[j].count++
					}
				}
				entries = append(entries, delimiterEntry{pair: p, start: ln.Index, count: 1})
				continue
			}
			p, ok := s.closePair(c)
			if !ok {
				continue
			}
			closed := -1
			for j := range entries {
				if entries[j].pair == p {
					entries[j].count--
					if entries[j].count == 0 {
						closed = j
					}
				}
			}
			if closed < 0 {
				continue
			}
			if ln.Index-entries[closed].start >= 2 {
				ranges = append(ranges, Range{Start: entries[closed].start, End: ln.Index, Kind: KindRegion})
			}
			entries = append(entries[:closed], entries[closed+1:]...)
		}
	}
	return ranges
}

// blockEnd resolves the close line of the block opened by the header at
// start, for the pattern scanner's header resolution. Depths are tracked
// per pair and checked at end of line, so a header's argument parens
// closing on the header line do not end the brace block that opens after
// them. Returns -1 when the block never closes.
func (s *DelimiterScanner) blockEnd(lines []Line, start int) int {
	depths := make([]int, len(s.pairs))
	opened := false
	for i := start; i < len(lines); i++ {
		ln := lines[i]
		if ln.Blank() || s.isComment(ln.Trimmed) {
			continue
		}
		for j := 0; j < len(ln.Text); j++ {
			c := ln.Text[j]
			if p, ok := s.openPair(c); ok {
				depths[p]++
				opened = true
				continue
			}
			if p, ok := s.closePair(c); ok && depths[p] > 0 {
				depths[p]--
			}
		}
		if opened && allZero(depths) {
			return ln.Index
		}
	}
	return -1
}

func allZero(depths []int) bool {
	for _, d := range depths {
		if d != 0 {
			return false
		}
	}
	return true
}

func (s *DelimiterScanner) openPair(c byte) (int, bool) {
	for i, p := range s.pairs {
		if p.Open == c {
			return i, true
		}
	}
	return 0, false
}

func (s *DelimiterScanner) closePair(c byte) (int, bool) {
	for i, p := range s.pairs {
		if p.Close == c {
			return i, true
		}
	}
	return 0, false
}

func (s *DelimiterScanner) isComment(trimmed string) bool {
	for _, prefix := range s.lineComments {
		if prefix != "" && strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}
