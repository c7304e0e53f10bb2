package vfs

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/cortexfs/synthfs/internal/rng"
)

// nameMaxUTF16Units is the trim target ("Trim to 96
// UTF-16 code units, never splitting a surrogate pair").
const nameMaxUTF16Units = 96

// forbiddenNameChars are the characters disallowed in a Node
// name.
const forbiddenNameChars = `\/:*?"<>|`

// wordLists is the weighted mix of word sources. Percentages
// are approximate; each list is sampled uniformly within its bucket,
// and buckets are chosen by cumulative weight. Only a representative
// sample of each script is included rather than an exhaustive
// lexicon; determinism only requires that the same (seed, index)
// pair always pick the same word, not that the corpus be large.
var (
	latinWords     = []string{"report", "invoice", "budget", "notes", "draft", "summary", "archive", "backup", "photo", "video", "project", "release", "minutes", "ledger", "roadmap"}
	europeanWords  = []string{"résumé", "café", "naïve", "über", "façade", "garçon", "niño", "Müller", "Öland", "Ångström"}
	japaneseWords  = []string{"写真", "報告書", "予算", "議事録", "旅行", "音楽"}
	arabicWords    = []string{"تقرير", "صورة", "ميزانية", "ملاحظات"}
	thaiWords      = []string{"รายงาน", "รูปภาพ", "งบประมาณ"}
	koreanWords    = []string{"보고서", "사진", "예산", "회의록"}
	compoundWords  = []string{"QuarterlyBudgetSummary", "EndOfYearPhotoArchive", "ProjectRoadmapDraftVersion", "TeamMeetingMinutesArchive"}
	emojiGlyphs    = []string{"📁", "📷", "📊", "🎵", "🗒️", "✨", "🚀", "🌲"}
	nameSeparators = []string{" ", "-", "_"}
)

type nameStyle uint8

const (
	styleSingle nameStyle = iota
	styleCompound
	styleLong
	styleEmoji
)

// weightedStyle picks a name style according to the word-source
// mix, collapsed into four composition styles since the underlying
// word lists already encode the script weighting.
func weightedStyle(m *rng.MT19937) nameStyle {
	switch {
	case m.Bool(6, 100):
		return styleCompound
	case m.Bool(5, 100):
		return styleEmoji
	case m.Bool(15, 100):
		return styleLong
	default:
		return styleSingle
	}
}

func pickWord(m *rng.MT19937) string {
	type bucket struct {
		words  []string
		weight uint32
	}
	buckets := []bucket{
		{latinWords, 40},
		{europeanWords, 15},
		{japaneseWords, 10},
		{arabicWords, 8},
		{thaiWords, 8},
		{koreanWords, 8},
	}
	var total uint32
	for _, b := range buckets {
		total += b.weight
	}
	roll := uint32(m.Uniform(0, int64(total)-1))
	var acc uint32
	for _, b := range buckets {
		acc += b.weight
		if roll < acc {
			return b.words[m.Intn(len(b.words))]
		}
	}
	return latinWords[0]
}

// generateBaseName builds the human-looking portion of a name (before
// the uniqueness suffix): pick a style, pick each
// segment, join with a separator, optionally append " <N>", optionally
// append a trailing emoji, trim to 96 UTF-16 units without splitting a
// surrogate pair.
func generateBaseName(m *rng.MT19937, fallback string) string {
	style := weightedStyle(m)
	sep := nameSeparators[m.Intn(len(nameSeparators))]

	var b strings.Builder
	switch style {
	case styleCompound:
		b.WriteString(compoundWords[m.Intn(len(compoundWords))])
	case styleEmoji:
		b.WriteString(pickWord(m))
		b.WriteString(sep)
		b.WriteString(emojiGlyphs[m.Intn(len(emojiGlyphs))])
	case styleLong:
		segments := 2 + m.Intn(2)
		for i := 0; i < segments; i++ {
			if i > 0 {
				b.WriteString(sep)
			}
			b.WriteString(pickWord(m))
		}
	default:
		b.WriteString(pickWord(m))
	}

	if m.Bool(1, 4) {
		fmt.Fprintf(&b, " %d", 1+m.Intn(9999))
	}
	if style != styleEmoji && m.Bool(1, 20) {
		b.WriteString(" ")
		b.WriteString(emojiGlyphs[m.Intn(len(emojiGlyphs))])
	}

	name := trimToUTF16Units(b.String(), nameMaxUTF16Units)
	if !isValidName(name) {
		return fallback
	}
	return name
}

// trimToUTF16Units trims s to at most max UTF-16 code units, never
// splitting a surrogate pair.
func trimToUTF16Units(s string, max int) string {
	units := utf16.Encode([]rune(s))
	if len(units) <= max {
		return s
	}
	units = units[:max]
	// If the cut landed inside a surrogate pair, drop the dangling high
	// surrogate.
	if n := len(units); n > 0 && units[n-1] >= 0xD800 && units[n-1] <= 0xDBFF {
		units = units[:n-1]
	}
	return string(utf16.Decode(units))
}

func isValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, forbiddenNameChars) {
		return false
	}
	return true
}

// uniqueSuffix appends "_NNNNN" using the child index
// ("suffixed with _NNNNN using the child index to guarantee
// uniqueness within a parent").
func uniqueSuffix(index int) string {
	return fmt.Sprintf("_%05d", index)
}

// GenerateDirectoryName produces a directory name for child index in
// its parent.
func GenerateDirectoryName(m *rng.MT19937, index int) string {
	base := generateBaseName(m, "folder")
	return base + uniqueSuffix(index)
}

// GenerateFileName produces a file name (with extension) for child
// index in its parent, and returns the Kind picked for it.
func GenerateFileName(m *rng.MT19937, index int) (string, Kind) {
	base := generateBaseName(m, "file")
	kind := kindsByExtensionOrder[m.Intn(len(kindsByExtensionOrder))]
	return base + uniqueSuffix(index) + kind.Extension(), kind
}
