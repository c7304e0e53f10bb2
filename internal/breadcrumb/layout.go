package breadcrumb

// ellipsisText is the glyph shown for a collapsed run of path parts.
const ellipsisText = "..."

// MeasureFunc is the text-measurement oracle the layout engine calls
// to learn how wide a string renders at the current DPI/format. The
// host supplies this; the engine never measures text itself.
type MeasureFunc func(text string) float64

// Segment is one displayed breadcrumb part: either a path token
// (possibly middle-truncated) or the collapse ellipsis.
type Segment struct {
	Left       float64
	Right      float64
	FullPath   string
	Text       string
	IsEllipsis bool
}

// Separator is the chevron/arrow drawn between two adjacent segments.
type Separator struct {
	Left, Right  float64
	LeftSegment  int
	RightSegment int
}

// Params is the layout engine's input: the path to lay out, the
// available width and section height, the per-DPI spacing constants,
// and the text-measurement oracle.
type Params struct {
	PluginPath     string
	AvailableWidth float64
	SectionHeight  float64
	Padding        float64
	Spacing        float64
	SeparatorWidth float64
	Measure        MeasureFunc
	// ResourceEpoch stands in for the (factory, formats) pair the
	// cache key also includes: callers bump it whenever the
	// measurement resources the Measure func closes over change
	// (e.g. a DPI-driven font reload), invalidating the cache even
	// when every other field is unchanged.
	ResourceEpoch uint64
}

// Result is the laid-out breadcrumb: ordered segments and the
// separators between them.
type Result struct {
	Segments   []Segment
	Separators []Separator
}

// collapsePlan describes which tokens are shown, and how.
type collapsePlan struct {
	prefixCount     int
	suffixCount     int
	showEllipsis    bool
	ellipsisAtStart bool
	truncateFirst   bool
	truncateLast    bool
	firstText       string
	lastText        string
}

// layoutMath bundles the width arithmetic Layout's stages share, so
// they don't each have to re-derive prefix sums and sequence widths.
type layoutMath struct {
	widths         []float64
	prefixSum      []float64
	ellipsisWidth  float64
	spacing        float64
	separatorWidth float64
}

func (m layoutMath) sumFirst(count int) float64 {
	n := len(m.widths)
	if count > n {
		count = n
	}
	return m.prefixSum[count]
}

func (m layoutMath) sumLast(count int) float64 {
	n := len(m.widths)
	if count == 0 {
		return 0
	}
	if count > n {
		count = n
	}
	return m.prefixSum[n] - m.prefixSum[n-count]
}

func (m layoutMath) sequenceWidth(sumWidths float64, segmentCount int) float64 {
	if segmentCount == 0 {
		return 0
	}
	return sumWidths + m.spacing*float64(segmentCount) + m.separatorWidth*float64(segmentCount-1)
}

// Layout computes the breadcrumb segment/separator layout for p,
// implementing the tokenize -> full-fit -> single-part-truncate ->
// collapse-search -> fallback chain.
func Layout(p Params) Result {
	tokens := Tokenize(p.PluginPath)
	n := len(tokens)
	if n == 0 {
		return Result{}
	}

	widths := make([]float64, n)
	for i, t := range tokens {
		widths[i] = p.Measure(t.Text)
	}
	prefixSum := make([]float64, n+1)
	for i := 0; i < n; i++ {
		prefixSum[i+1] = prefixSum[i] + widths[i]
	}

	m := layoutMath{
		widths:         widths,
		prefixSum:      prefixSum,
		ellipsisWidth:  p.Measure(ellipsisText),
		spacing:        p.Spacing,
		separatorWidth: p.SeparatorWidth,
	}

	plan := choosePlan(tokens, m, p.AvailableWidth)
	applyTruncation(&plan, tokens, m, p.AvailableWidth, p.Measure)
	return buildResult(plan, tokens, m, p)
}

// choosePlan picks which tokens to show and how, per the algorithm's
// preference order: full fit, then single-part truncation, then the
// widest-fitting collapse plan (maximize shown, balance, prefer
// suffix), then "... > tail", then "first > ... > last", then
// "... > last" as the last resort.
func choosePlan(tokens []Token, m layoutMath, availableWidth float64) collapsePlan {
	n := len(tokens)

	fullWidth := m.sequenceWidth(m.prefixSum[n], n)
	if fullWidth <= availableWidth {
		return collapsePlan{prefixCount: n, suffixCount: 0}
	}
	if n == 1 {
		return collapsePlan{prefixCount: 1, truncateFirst: true, firstText: tokens[0].Text}
	}

	if plan, ok := bestCollapsePlan(n, m, availableWidth); ok {
		return plan
	}
	if plan, ok := bestTailPlan(n, m, availableWidth); ok {
		return plan
	}

	lastWidth := m.widths[n-1]
	fixed := m.ellipsisWidth + lastWidth + m.spacing*3 + m.separatorWidth*2
	if fixed < availableWidth {
		return collapsePlan{
			prefixCount: 1, suffixCount: 1, showEllipsis: true,
			truncateFirst: true, firstText: tokens[0].Text,
		}
	}
	return collapsePlan{
		suffixCount: 1, showEllipsis: true, ellipsisAtStart: true,
		truncateLast: true, lastText: tokens[n-1].Text,
	}
}

// bestCollapsePlan searches p >= 1, s >= 1, p + s < n for the widest
// fitting {prefixCount, ellipsis, suffixCount} plan.
func bestCollapsePlan(n int, m layoutMath, availableWidth float64) (collapsePlan, bool) {
	found := false
	var bestShown, bestPrefix, bestSuffix, bestBalance int
	for prefixCount := 1; prefixCount < n; prefixCount++ {
		for suffixCount := 1; suffixCount < n; suffixCount++ {
			if prefixCount+suffixCount >= n {
				continue
			}
			segmentCount := prefixCount + 1 + suffixCount
			sumWidths := m.sumFirst(prefixCount) + m.ellipsisWidth + m.sumLast(suffixCount)
			if m.sequenceWidth(sumWidths, segmentCount) > availableWidth {
				continue
			}
			shown := prefixCount + suffixCount
			balance := abs(prefixCount - suffixCount)
			better := !found ||
				shown > bestShown ||
				(shown == bestShown && balance < bestBalance) ||
				(shown == bestShown && balance == bestBalance && suffixCount > bestSuffix) ||
				(shown == bestShown && balance == bestBalance && suffixCount == bestSuffix && prefixCount > bestPrefix)
			if better {
				found, bestShown, bestPrefix, bestSuffix, bestBalance = true, shown, prefixCount, suffixCount, balance
			}
		}
	}
	if !found {
		return collapsePlan{}, false
	}
	return collapsePlan{prefixCount: bestPrefix, suffixCount: bestSuffix, showEllipsis: true}, true
}

// bestTailPlan tries dropping the prefix entirely and keeping the
// largest fitting suffix: "... > tail".
func bestTailPlan(n int, m layoutMath, availableWidth float64) (collapsePlan, bool) {
	found := false
	best := 0
	for suffixCount := 1; suffixCount < n; suffixCount++ {
		segmentCount := 1 + suffixCount
		sumWidths := m.ellipsisWidth + m.sumLast(suffixCount)
		if m.sequenceWidth(sumWidths, segmentCount) > availableWidth {
			continue
		}
		if !found || suffixCount > best {
			found, best = true, suffixCount
		}
	}
	if !found {
		return collapsePlan{}, false
	}
	return collapsePlan{suffixCount: best, showEllipsis: true, ellipsisAtStart: true}, true
}

// applyTruncation middle-truncates plan.firstText/lastText to fit
// within whatever width remains once the rest of the sequence is
// accounted for, falling back to an ellipsis-only plan if even the
// truncated token doesn't fit at all.
func applyTruncation(plan *collapsePlan, tokens []Token, m layoutMath, availableWidth float64, measure MeasureFunc) {
	n := len(tokens)

	if plan.truncateFirst && plan.prefixCount > 0 {
		segmentCount := plan.prefixCount + boolInt(plan.showEllipsis) + plan.suffixCount
		fixedSum := m.sumFirst(plan.prefixCount) - m.widths[0]
		if plan.showEllipsis {
			fixedSum += m.ellipsisWidth
		}
		fixedSum += m.sumLast(plan.suffixCount)
		base := m.sequenceWidth(fixedSum, segmentCount)
		maxFirstWidth := maxFloat(0, availableWidth-base)
		plan.firstText = truncateToWidth(plan.firstText, maxFirstWidth, measure)
		if plan.firstText == ellipsisText {
			*plan = collapsePlan{
				showEllipsis: true, ellipsisAtStart: true,
				suffixCount: minInt(1, n), truncateLast: true, lastText: tokens[n-1].Text,
			}
		}
	}

	if plan.truncateLast && plan.suffixCount > 0 {
		segmentCount := boolInt(plan.showEllipsis) + plan.suffixCount + plan.prefixCount
		fixedSum := m.sumFirst(plan.prefixCount)
		if plan.showEllipsis {
			fixedSum += m.ellipsisWidth
		}
		fixedSum += m.sumLast(plan.suffixCount) - m.widths[n-1]
		base := m.sequenceWidth(fixedSum, segmentCount)
		maxLastWidth := maxFloat(0, availableWidth-base)
		plan.lastText = truncateToWidth(plan.lastText, maxLastWidth, measure)
		if plan.lastText == ellipsisText {
			*plan = collapsePlan{showEllipsis: true, ellipsisAtStart: true}
		}
	}
}

// buildResult lays out plan's tokens left to right starting at
// Padding, producing segment/separator rectangles.
func buildResult(plan collapsePlan, tokens []Token, m layoutMath, p Params) Result {
	n := len(tokens)

	type display struct {
		isEllipsis bool
		index      int
		text       string
	}
	var items []display

	appendPrefix := func() {
		for i := 0; i < plan.prefixCount; i++ {
			d := display{index: i}
			if plan.truncateFirst && i == 0 {
				d.text = plan.firstText
			}
			items = append(items, d)
		}
	}
	appendSuffix := func() {
		tailStart := n - plan.suffixCount
		for i := tailStart; i < n; i++ {
			d := display{index: i}
			if plan.truncateLast && i == n-1 {
				d.text = plan.lastText
			}
			items = append(items, d)
		}
	}

	if !plan.showEllipsis {
		appendPrefix()
	} else {
		if !plan.ellipsisAtStart {
			appendPrefix()
		}
		items = append(items, display{isEllipsis: true})
		appendSuffix()
	}

	var result Result
	x := p.Padding
	for i, d := range items {
		var seg Segment
		var width float64
		if d.isEllipsis {
			seg = Segment{Text: ellipsisText, IsEllipsis: true}
			width = m.ellipsisWidth
		} else {
			seg.FullPath = tokens[d.index].FullPath
			if d.text != "" {
				seg.Text = d.text
			} else {
				seg.Text = tokens[d.index].Text
			}
			width = p.Measure(seg.Text)
		}
		seg.Left = x - p.Spacing/2
		seg.Right = x + width + p.Spacing/2
		result.Segments = append(result.Segments, seg)
		x += width + p.Spacing

		if i+1 < len(items) {
			sep := Separator{
				Left: x, Right: x + p.SeparatorWidth,
				LeftSegment:  len(result.Segments) - 1,
				RightSegment: len(result.Segments),
			}
			result.Separators = append(result.Separators, sep)
			x += p.SeparatorWidth
		}
	}
	return result
}

// truncateToWidth middle-truncates text to fit within maxWidth,
// binary-searching the longest prefix+suffix split around an inserted
// ellipsis. Returns the bare ellipsis if even that doesn't fit.
func truncateToWidth(text string, maxWidth float64, measure MeasureFunc) string {
	if measure(text) <= maxWidth {
		return text
	}
	ellipsisWidth := measure(ellipsisText)
	if ellipsisWidth > maxWidth {
		return ellipsisText
	}

	runes := []rune(text)
	lo, hi := 0, len(runes)/2
	best := ellipsisText
	for lo <= hi {
		keep := (lo + hi) / 2
		candidate := string(runes[:keep]) + ellipsisText + string(runes[len(runes)-keep:])
		if measure(candidate) <= maxWidth {
			best = candidate
			lo = keep + 1
		} else {
			hi = keep - 1
		}
	}
	return best
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
