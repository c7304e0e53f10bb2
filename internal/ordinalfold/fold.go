// Package ordinalfold implements the case-insensitive ordinal
// comparisons required throughout the virtual filesystem: directory entries'
// (parent, name) uniqueness, Root path lookup, the edit-suggest
// prefix filter, and suggestion/sibling sort order. All of them fold
// case the same way, so the folding lives in one place instead of N
// ad hoc strings.ToLower calls scattered through the tree and
// breadcrumb packages.
package ordinalfold

import (
	"strings"

	"golang.org/x/text/cases"
)

var caser = cases.Fold()

// Key returns the case-folded form of s, suitable for use as a map
// key or for direct == comparison against another folded string.
func Key(s string) string {
	return caser.String(s)
}

// Equal reports whether a and b are equal under case-insensitive
// ordinal comparison.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}

// Less reports whether Key(a) < Key(b), for sorting.
func Less(a, b string) bool {
	return Key(a) < Key(b)
}

// Contains reports whether s contains substr under case-insensitive
// ordinal comparison.
func Contains(s, substr string) bool {
	return strings.Contains(Key(s), Key(substr))
}

// HasPrefix reports whether s starts with prefix under case-
// insensitive ordinal comparison, used by the edit-suggest worker's
// prefix filter.
func HasPrefix(s, prefix string) bool {
	return strings.HasPrefix(Key(s), Key(prefix))
}
