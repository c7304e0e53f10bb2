package vfs

import (
	"time"

	"github.com/cortexfs/synthfs/internal/rng"
)

const (
	kib = 1024
	mib = 1024 * kib
)

// sizeRange describes a [min,max] byte range and whether the draw
// within it is uniform or skewed.
type sizeRange struct {
	min, max int64
	skewed   bool
}

func sizeRangeForKind(k Kind) sizeRange {
	switch k {
	case KindPNG:
		return sizeRange{4 * kib, 512 * kib, false}
	case KindJPEG:
		return sizeRange{2 * kib, 512 * kib, false}
	case KindZip, KindDocx, KindXlsx:
		return sizeRange{128, 256 * kib, false}
	case KindCSV, KindJSON, KindJSON5, KindXML, KindThemeJSON5:
		return sizeRange{128, 2 * mib, true}
	default:
		return sizeRange{0, 25 * mib, true}
	}
}

// GenerateSize draws a file size for Kind k from the size table.
func GenerateSize(m *rng.MT19937, k Kind) uint64 {
	r := sizeRangeForKind(k)
	span := r.max - r.min
	if span <= 0 {
		return uint64(r.min)
	}
	var v int64
	if r.skewed {
		v = m.Skewed(span)
	} else {
		v = m.Uniform(0, span)
	}
	return uint64(r.min + v)
}

// generationEpoch is Jan 1 2024 UTC, the epoch timestamp generation anchors
// root timestamps to.
var generationEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

const (
	ninetyDays   = 90 * 24 * time.Hour
	threeYears   = 3 * 365 * 24 * time.Hour
)

// GenerationBaseTime derives "generation_base_time" for a Forest:
// Jan 1 2024 + uniform[0, 90 days], drawn from the forest-wide
// generator so every root in one Forest shares the same base.
func GenerationBaseTime(m *rng.MT19937) time.Time {
	offset := time.Duration(m.Uniform(0, int64(ninetyDays)))
	return generationEpoch.Add(offset)
}

// GenerateNodeTime derives a node's four starting timestamps (all
// equal at creation): base minus a uniform[0,3 years]
// offset.
func GenerateNodeTime(m *rng.MT19937, base time.Time) time.Time {
	offset := time.Duration(m.Uniform(0, int64(threeYears)))
	return base.Add(-offset)
}

// GenerateAttributes draws the attribute bit-set for a new node, per
// DIRECTORY|ARCHIVE plus READONLY with p=1/8 and HIDDEN
// with p=1/10.
func GenerateAttributes(m *rng.MT19937, isDir bool) Attr {
	a := AttrArchive
	if m.Bool(1, 8) {
		a |= AttrReadonly
	}
	if m.Bool(1, 10) {
		a |= AttrHidden
	}
	return a.withDirectoryBit(isDir)
}

// GeneratePlannedChildCount draws a directory's planned child count:
// a fourth-power-skewed draw in [0, maxChildrenPerDirectory]
// (Skewed already squares twice internally, for x^4 total).
func GeneratePlannedChildCount(m *rng.MT19937, maxChildren int) int {
	if maxChildren <= 0 {
		return 0
	}
	return int(m.Skewed(int64(maxChildren)))
}
