package format

import "fmt"

// Framed holds the prefix/suffix pair a generated text/CSV/JSON/XML
// file packs around its body: "a header (prefix) with
// name, decimal size, creation tick, seed (hex), and a trailer".
type Framed struct {
	Prefix []byte
	Suffix []byte
	// BodyBytes is the number of body bytes left after accounting for
	// the prefix+suffix, clamped to zero if they alone exceed the
	// target size.
	BodyBytes int64
}

// BuildFramed computes the prefix/suffix/body split for a file of the
// given declared size. If size is smaller than the combined
// prefix+suffix overhead, the body is zero-length and the prefix+
// suffix are truncated to size.
func BuildFramed(name string, size uint64, creationTick int64, seed uint64, kind FillKind) Framed {
	prefix := []byte(fmt.Sprintf("# name=%s size=%d creation=%d seed=%x\n", name, size, creationTick, seed))
	suffix := []byte(fmt.Sprintf("# end seed=%x\n", seed))

	overhead := int64(len(prefix)) + int64(len(suffix))
	total := int64(size)
	if overhead <= total {
		return Framed{Prefix: prefix, Suffix: suffix, BodyBytes: total - overhead}
	}
	// Keep as much of the prefix as possible: the suffix is truncated
	// first, then the prefix, so a tiny declared size still yields
	// exactly `size` bytes.
	if total <= 0 {
		return Framed{BodyBytes: 0}
	}
	if int64(len(prefix)) >= total {
		return Framed{Prefix: prefix[:total], BodyBytes: 0}
	}
	remaining := total - int64(len(prefix))
	if remaining > int64(len(suffix)) {
		remaining = int64(len(suffix))
	}
	return Framed{Prefix: prefix, Suffix: suffix[:remaining], BodyBytes: 0}
}
