package vfsconfig

import (
	"regexp"
	"strconv"
	"strings"
)

// throughputPattern implements the throughput-limit text grammar:
//
//	<number> (<whitespace>? <unit>)? (<whitespace>? "/s")?
//
// unit in {"", "b", "k", "kb", "kib", "m", "mb", "mib", "g", "gb",
// "gib"}, case-insensitive. "" / "k" / "kb" / "kib" all mean KiB.
var throughputPattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([a-z]*)\s*(?:/\s*s)?\s*$`)

var unitMultiplier = map[string]float64{
	"":    1024,
	"b":   1,
	"k":   1024,
	"kb":  1024,
	"kib": 1024,
	"m":   1024 * 1024,
	"mb":  1024 * 1024,
	"mib": 1024 * 1024,
	"g":   1024 * 1024 * 1024,
	"gb":  1024 * 1024 * 1024,
	"gib": 1024 * 1024 * 1024,
}

// ParseThroughput parses text per the grammar above, returning the
// bytes/sec value and true, or (0, false) if text does not match the
// grammar or names an unknown unit.
func ParseThroughput(text string) (uint64, bool) {
	m := throughputPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	mult, ok := unitMultiplier[strings.ToLower(m[2])]
	if !ok {
		return 0, false
	}
	return uint64(n * mult), true
}
