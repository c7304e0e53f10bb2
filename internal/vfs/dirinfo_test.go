package vfs

import (
	"encoding/binary"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeNames(t *testing.T, buf *DirInfoBuffer) []string {
	t.Helper()
	var names []string
	data := buf.Bytes()
	offset := 0
	for offset < len(data) {
		next := binary.LittleEndian.Uint32(data[offset : offset+4])
		nameSize := binary.LittleEndian.Uint32(data[offset+12 : offset+16])
		nameStart := offset + 64
		units := make([]uint16, nameSize/2)
		for i := range units {
			units[i] = binary.LittleEndian.Uint16(data[nameStart+2*i : nameStart+2*i+2])
		}
		names = append(names, string(utf16.Decode(units)))
		if next == 0 {
			break
		}
		offset += int(next)
	}
	return names
}

func TestDirInfoBufferRoundTrip(t *testing.T) {
	now := time.Now()
	parent := &Node{isDir: true}
	a := &Node{name: "alpha", parent: parent, ts: Timestamps{Creation: tick(now)}, fileIndex: 1}
	b := &Node{name: "beta", parent: parent, size: 42, ts: Timestamps{Creation: tick(now)}, fileIndex: 2}
	parent.children = []*Node{a, b}

	buf := BuildDirInfo(parent)
	names := decodeNames(t, buf)
	require.Equal(t, []string{"alpha", "beta"}, names)
}

func TestAllocationSizeRounding(t *testing.T) {
	assert.Equal(t, int64(0), allocationSizeFor(0))
	assert.Equal(t, int64(4096), allocationSizeFor(1))
	assert.Equal(t, int64(4096), allocationSizeFor(4096))
	assert.Equal(t, int64(8192), allocationSizeFor(4097))
}

func TestDirInfoBufferReadOffsetMustLandOnEntry(t *testing.T) {
	parent := &Node{isDir: true}
	a := &Node{name: "alpha", parent: parent, fileIndex: 1}
	parent.children = []*Node{a}
	buf := BuildDirInfo(parent)

	p := make([]byte, len(buf.Bytes()))
	_, err := buf.Read(p, 1)
	assert.Error(t, err)

	n, err := buf.Read(p, 0)
	require.NoError(t, err)
	assert.Equal(t, len(buf.Bytes()), n)
}
