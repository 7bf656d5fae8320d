package preview_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/plis/internal/folding"
	"github.com/zjrosen/plis/internal/preview"
)

func TestRenderer_EmptyText(t *testing.T) {
	r := preview.New(nil)
	assert.Empty(t, r.Render("", nil, nil))
}

func TestRenderer_LineNumbersAreOneBased(t *testing.T) {
	r := preview.New(nil)
	out := r.Render("alpha\nbeta\ngamma", nil, nil)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "1")
	assert.Contains(t, lines[0], "alpha")
	assert.Contains(t, lines[2], "3")
	assert.Contains(t, lines[2], "gamma")
}

func TestRenderer_GutterGlyphs(t *testing.T) {
	r := preview.New(nil)
	text := "func main() {\n\tfmt.Println(1)\n}\nafter"
	ranges := []folding.Range{{Start: 0, End: 2, Kind: folding.KindRegion}}

	out := r.Render(text, ranges, nil)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Contains(t, lines[0], "▾", "fold start line should carry the arrow glyph")
	assert.Contains(t, lines[1], "│", "inner line should carry the bar glyph")
	assert.Contains(t, lines[2], "│", "closing line should carry the bar glyph")
	assert.NotContains(t, lines[3], "▾")
	assert.NotContains(t, lines[3], "│")
}

func TestRenderer_NestedFoldStartWins(t *testing.T) {
	r := preview.New(nil)
	text := "outer {\ninner {\nx\n}\n}"
	ranges := []folding.Range{
		{Start: 0, End: 4, Kind: folding.KindRegion},
		{Start: 1, End: 3, Kind: folding.KindRegion},
	}

	out := r.Render(text, ranges, nil)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)

	// The inner fold's start line shows an arrow even though it sits
	// inside the outer fold.
	assert.Contains(t, lines[1], "▾")
}

func TestRenderer_RangeBeyondTextIsClamped(t *testing.T) {
	r := preview.New(nil)
	ranges := []folding.Range{{Start: 0, End: 99, Kind: folding.KindRegion}}

	out := r.Render("a\nb", ranges, nil)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 2)
}

func TestRenderer_MarkerLinesRender(t *testing.T) {
	r := preview.New(map[string]string{"note": "#54A0FF"})
	text := "x\n-- note: here\ndetail\n-- note\ny"
	markerRanges := map[string][]folding.Range{
		"note": {{Start: 1, End: 3, Kind: folding.KindRegion}},
	}

	out := r.Render(text, nil, markerRanges)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[1], "note: here")
	assert.Contains(t, lines[2], "detail")
}
