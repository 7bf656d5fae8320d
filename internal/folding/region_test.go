package folding

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func scanRegions(text string) []Range {
	return NewRegionScanner().Scan(SplitLines(text))
}

func TestRegionScanner(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []Range
	}{
		{
			name:  "slash comment region",
			input: []string{"// #region", "x", "// #endregion"},
			expected: []Range{
				{Start: 0, End: 2, Kind: KindRegion},
			},
		},
		{
			name:  "hash comment region",
			input: []string{"# region setup", "x", "# endregion"},
			expected: []Range{
				{Start: 0, End: 2, Kind: KindRegion},
			},
		},
		{
			name:  "html comment region",
			input: []string{"<!-- #region head -->", "<meta>", "<!-- #endregion -->"},
			expected: []Range{
				{Start: 0, End: 2, Kind: KindRegion},
			},
		},
		{
			name:  "bare region tokens",
			input: []string{"region", "x", "endregion"},
			expected: []Range{
				{Start: 0, End: 2, Kind: KindRegion},
			},
		},
		{
			name:  "case insensitive",
			input: []string{"// #Region", "x", "// #EndRegion"},
			expected: []Range{
				{Start: 0, End: 2, Kind: KindRegion},
			},
		},
		{
			name:  "adjacent markers still fold",
			input: []string{"// #region", "// #endregion"},
			expected: []Range{
				{Start: 0, End: 1, Kind: KindRegion},
			},
		},
		{
			name:  "nested regions close innermost first",
			input: []string{"// #region outer", "// #region inner", "x", "// #endregion", "// #endregion"},
			expected: []Range{
				{Start: 1, End: 3, Kind: KindRegion},
				{Start: 0, End: 4, Kind: KindRegion},
			},
		},
		{
			name:     "unmatched end is ignored",
			input:    []string{"x", "// #endregion"},
			expected: nil,
		},
		{
			name:     "unterminated start is discarded",
			input:    []string{"// #region", "x"},
			expected: nil,
		},
		{
			name:     "region token must start the trimmed line",
			input:    []string{"fold this region please", "x", "that endregion there"},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, scanRegions(strings.Join(tt.input, "\n")))
		})
	}
}
