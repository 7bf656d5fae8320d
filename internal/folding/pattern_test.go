package folding

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanPatterns(t *testing.T, langID, text string) []Range {
	t.Helper()
	lang, ok := Lookup(langID, "")
	require.True(t, ok)
	return NewPatternScanner(lang).Scan(text, SplitLines(text))
}

func TestPatternScanner_BraceHeaders(t *testing.T) {
	input := strings.Join([]string{
		"func add(a, b int) int {", // 0
		"	return a + b",            // 1
		"}",                        // 2
	}, "\n")

	got := scanPatterns(t, "go", input)
	assert.Contains(t, got, Range{Start: 0, End: 2, Kind: KindRegion})
}

func TestPatternScanner_IndentHeaders(t *testing.T) {
	input := strings.Join([]string{
		"def handler(req):",
		"    body = req.read()",
		"    return body",
	}, "\n")

	got := scanPatterns(t, "python", input)
	assert.Contains(t, got, Range{Start: 0, End: 2, Kind: KindRegion})
}

func TestPatternScanner_HeaderBelowThresholdIsSkipped(t *testing.T) {
	// Brace headers need at least two lines between header and close.
	input := "if x {\n}"
	got := scanPatterns(t, "go", input)
	assert.Empty(t, got)
}

func TestPatternScanner_CommentRuns(t *testing.T) {
	tests := []struct {
		name     string
		langID   string
		input    []string
		expected Range
	}{
		{
			name:     "slash comment run",
			langID:   "go",
			input:    []string{"// one", "// two", "// three", "x := 1"},
			expected: Range{Start: 0, End: 2, Kind: KindComment},
		},
		{
			name:     "hash comment run",
			langID:   "python",
			input:    []string{"# one", "# two", "x = 1"},
			expected: Range{Start: 0, End: 1, Kind: KindComment},
		},
		{
			name:     "block comment",
			langID:   "go",
			input:    []string{"/*", " multi", " line", "*/"},
			expected: Range{Start: 0, End: 3, Kind: KindComment},
		},
		{
			name:     "html comment",
			langID:   "html",
			input:    []string{"<!--", " header", "-->"},
			expected: Range{Start: 0, End: 2, Kind: KindComment},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scanPatterns(t, tt.langID, strings.Join(tt.input, "\n"))
			assert.Contains(t, got, tt.expected)
		})
	}
}

func TestPatternScanner_SingleLineCommentNotARun(t *testing.T) {
	got := scanPatterns(t, "go", "// lonely\nx := 1")
	assert.Empty(t, got)
}

func TestPatternScanner_TripleQuotedString(t *testing.T) {
	input := strings.Join([]string{
		`text = """`,
		`first`,
		`second`,
		`"""`,
	}, "\n")

	got := scanPatterns(t, "python", input)
	assert.Contains(t, got, Range{Start: 0, End: 3, Kind: KindRegion})
}

func TestPatternScanner_HeaderInsideStringIgnored(t *testing.T) {
	input := strings.Join([]string{
		`doc = """`,          // 0
		`def fake(): pass`,   // 1
		`"""`,                // 2
		`def real():`,        // 3
		`    return 1`,       // 4
	}, "\n")

	got := scanPatterns(t, "python", input)
	assert.Contains(t, got, Range{Start: 3, End: 4, Kind: KindRegion})
	for _, r := range got {
		assert.NotEqual(t, 1, r.Start, "header inside string body must not resolve")
	}
}

func TestPatternScanner_HeaderInsideBlockCommentIgnored(t *testing.T) {
	input := strings.Join([]string{
		"/*",                    // 0
		"func fake() {",         // 1
		"}",                     // 2
		"*/",                    // 3
		"func real() {",         // 4
		"	return",               // 5
		"}",                     // 6
	}, "\n")

	got := scanPatterns(t, "go", input)
	assert.Contains(t, got, Range{Start: 4, End: 6, Kind: KindRegion})
	for _, r := range got {
		assert.NotEqual(t, 1, r.Start, "header inside block comment must not resolve")
	}
}

func TestPatternScanner_OverlappingOutputsAreKept(t *testing.T) {
	// A Go raw string spanning lines is caught by the backtick run while
	// the surrounding function is caught by header detection. Both stay.
	input := strings.Join([]string{
		"func f() string {",
		"	return `line1",
		"line2`",
		"}",
	}, "\n")

	got := scanPatterns(t, "go", input)
	assert.Contains(t, got, Range{Start: 0, End: 3, Kind: KindRegion})
	assert.Contains(t, got, Range{Start: 1, End: 2, Kind: KindRegion})
}
