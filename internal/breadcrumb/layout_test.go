package breadcrumb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monospaceMeasure is a deterministic stand-in for a real text-layout
// oracle: width is proportional to rune count.
func monospaceMeasure(text string) float64 {
	return float64(len([]rune(text))) * 8
}

func baseParams(path string, availableWidth float64) Params {
	return Params{
		PluginPath:     path,
		AvailableWidth: availableWidth,
		SectionHeight:  24,
		Padding:        4,
		Spacing:        6,
		SeparatorWidth: 10,
		Measure:        monospaceMeasure,
	}
}

func totalWidth(r Result, spacing float64) float64 {
	if len(r.Segments) == 0 {
		return 0
	}
	first := r.Segments[0].Left
	last := r.Segments[len(r.Segments)-1].Right
	return last - first
}

func TestLayoutFullFitShowsEveryToken(t *testing.T) {
	r := Layout(baseParams("/a/bbb/ccc", 1000))
	require.Len(t, r.Segments, 4) // root + 3 components
	assert.Equal(t, "/", r.Segments[0].Text)
	assert.Equal(t, "a", r.Segments[1].Text)
	assert.Equal(t, "bbb", r.Segments[2].Text)
	assert.Equal(t, "ccc", r.Segments[3].Text)
	for _, s := range r.Segments {
		assert.False(t, s.IsEllipsis)
	}
	require.Len(t, r.Separators, 3)
}

// P10: calling the layout twice with the same inputs produces
// identical segment/separator rectangles.
func TestLayoutIdempotent(t *testing.T) {
	p := baseParams("/a/bbb/ccc/dddd/eeeee/end", 140)
	r1 := Layout(p)
	r2 := Layout(p)
	assert.Equal(t, r1, r2)
}

// P11: the union of segment and separator widths plus spacing must
// not exceed the available width, for inputs where a fitting plan
// exists (the two last-resort fallbacks are explicitly allowed to
// overflow when nothing else fits).
func TestLayoutFitsAvailableWidth(t *testing.T) {
	p := baseParams("/a/bbb/ccc/dddd/eeeee/end", 140)
	r := Layout(p)
	require.NotEmpty(t, r.Segments)
	last := r.Segments[len(r.Segments)-1]
	assert.LessOrEqual(t, last.Right-r.Segments[0].Left, p.AvailableWidth+0.5)
}

func TestLayoutSinglePartTruncates(t *testing.T) {
	// A lone /@conn:<name> root with no further components is the
	// only way to get a single-token path (every other form always
	// emits a separate root token ahead of its first component).
	r := Layout(baseParams("/@conn:averylongconnectionname", 60))
	require.Len(t, r.Segments, 1)
	assert.Contains(t, r.Segments[0].Text, "...")
}

// S6: given plugin_path = "/a/bbb/ccc/dddd/eeeee/end" and a width
// that fits exactly five tokens (root included) plus an ellipsis, the emitted
// sequence is [a, ..., dddd, eeeee, end], never [a, bbb, ..., end].
func TestLayoutCollapsePlanPrefersSuffixBalance(t *testing.T) {
	tokens := Tokenize("/a/bbb/ccc/dddd/eeeee/end")
	require.Len(t, tokens, 7) // root + 6 components

	// Root + "a" + ellipsis + "dddd" + "eeeee" + "end": pick a width
	// that fits exactly that shown set (5 tokens plus the ellipsis, 6
	// segments) but no plan showing 6 tokens.
	m := layoutMathFor(tokens, 6, 10)
	sumWidths := m.sumFirst(2) + m.ellipsisWidth + m.sumLast(3)
	width := m.sequenceWidth(sumWidths, 6)

	r := Layout(Params{
		PluginPath:     "/a/bbb/ccc/dddd/eeeee/end",
		AvailableWidth: width,
		SectionHeight:  24,
		Padding:        0,
		Spacing:        6,
		SeparatorWidth: 10,
		Measure:        monospaceMeasure,
	})

	var texts []string
	for _, s := range r.Segments {
		texts = append(texts, s.Text)
	}
	assert.Equal(t, []string{"/", "a", "...", "dddd", "eeeee", "end"}, texts)
}

func layoutMathFor(tokens []Token, spacing, separatorWidth float64) layoutMath {
	widths := make([]float64, len(tokens))
	for i, tk := range tokens {
		widths[i] = monospaceMeasure(tk.Text)
	}
	prefixSum := make([]float64, len(tokens)+1)
	for i := range widths {
		prefixSum[i+1] = prefixSum[i] + widths[i]
	}
	return layoutMath{
		widths:         widths,
		prefixSum:      prefixSum,
		ellipsisWidth:  monospaceMeasure(ellipsisText),
		spacing:        spacing,
		separatorWidth: separatorWidth,
	}
}

func TestLayoutTailFallbackDropsPrefixEntirely(t *testing.T) {
	// Width only enough for ellipsis + the very last token.
	tokens := Tokenize("/a/bbb/ccc/dddd/eeeee/end")
	m := layoutMathFor(tokens, 6, 10)
	width := m.sequenceWidth(m.ellipsisWidth+m.sumLast(1), 2) + 1

	r := Layout(Params{
		PluginPath:     "/a/bbb/ccc/dddd/eeeee/end",
		AvailableWidth: width,
		SectionHeight:  24,
		Spacing:        6,
		SeparatorWidth: 10,
		Measure:        monospaceMeasure,
	})
	require.Len(t, r.Segments, 2)
	assert.True(t, r.Segments[0].IsEllipsis)
	assert.Equal(t, "end", r.Segments[1].Text)
}

func TestCacheReturnsSameResultForSameInputs(t *testing.T) {
	var c Cache
	p := baseParams("/a/bbb/ccc", 1000)
	r1 := c.Layout(p, 96)
	r2 := c.Layout(p, 96)
	assert.Equal(t, r1, r2)
}

func TestCacheInvalidatesOnDifferentInputs(t *testing.T) {
	var c Cache
	p := baseParams("/a/bbb/ccc", 1000)
	c.Layout(p, 96)
	p2 := p
	p2.AvailableWidth = 50
	r2 := c.Layout(p2, 96)
	// Narrower width must trigger recomputation, not the stale cache.
	assert.NotEqual(t, totalWidth(c.Layout(p, 96), p.Spacing), totalWidth(r2, p.Spacing))
}
