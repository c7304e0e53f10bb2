package format

import (
	"bytes"
	"testing"
)

func TestPNGExactTargetSize(t *testing.T) {
	// Find the smallest target that succeeds by growing from a size we
	// know is too small.
	var minimal []byte
	var minimalLen uint64
	for target := uint64(0); target < 4096; target++ {
		if out, ok := PNG(1, target); ok {
			minimal = out
			minimalLen = target
			break
		}
	}
	if minimal == nil {
		t.Fatalf("PNG never succeeded for any target under 4096 bytes")
	}
	if uint64(len(minimal)) != minimalLen {
		t.Fatalf("got %d bytes, want exactly %d", len(minimal), minimalLen)
	}

	for _, extra := range []uint64{0, 1, 11, 12, 13, 1000} {
		target := minimalLen + extra
		out, ok := PNG(1, target)
		if !ok {
			t.Fatalf("PNG(1, %d) unexpectedly failed", target)
		}
		if uint64(len(out)) != target {
			t.Fatalf("PNG(1, %d): got %d bytes", target, len(out))
		}
	}
}

func TestPNGSignatureAndDeterminism(t *testing.T) {
	a, ok := PNG(99, 4000)
	if !ok {
		t.Fatalf("PNG(99, 4000) failed")
	}
	if !bytes.HasPrefix(a, pngSignature) {
		t.Fatalf("missing PNG signature")
	}
	b, ok := PNG(99, 4000)
	if !ok || !bytes.Equal(a, b) {
		t.Fatalf("PNG not deterministic for identical (seed, target)")
	}
	c, ok := PNG(100, 4000)
	if !ok || bytes.Equal(a, c) {
		t.Fatalf("expected different seeds to produce different output")
	}
}

func TestPNGTooSmallFails(t *testing.T) {
	if _, ok := PNG(1, 1); ok {
		t.Fatalf("expected PNG to fail for a target far too small to hold the signature and chunks")
	}
}
