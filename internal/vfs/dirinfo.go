package vfs

import (
	"encoding/binary"
	"sort"
	"unicode/utf16"
)

const dirInfoAlignment = 4 // alignof(u32)

// DirInfoBuffer packs the enumerated directory info buffer: a
// contiguous run of variable-length, u32-aligned entries, each
// self-describing its offset to the next one. Adapted from the
// teacher's internal/p9util.DirBuffer (cumulative end-offsets plus a
// binary-searchable Read), generalized from 9P's fixed Dir encoding to
// this format's next_entry_offset/file_index/timestamp layout.
type DirInfoBuffer struct {
	entries    []byte
	entryEnds  []int
	lastStart  int
	hasEntries bool
}

func (b *DirInfoBuffer) Reset() {
	b.entries = nil
	b.entryEnds = nil
	b.lastStart = 0
	b.hasEntries = false
}

// Write appends one directory entry for node, as seen from its
// parent, and patches the previous entry's next_entry_offset to point
// at it.
func (b *DirInfoBuffer) Write(node *Node) {
	units := utf16.Encode([]rune(node.name))
	nameBytes := make([]byte, 0, len(units)*2+2)
	for _, u := range units {
		var pair [2]byte
		binary.LittleEndian.PutUint16(pair[:], u)
		nameBytes = append(nameBytes, pair[:]...)
	}
	nameBytes = append(nameBytes, 0, 0) // NUL terminator

	endOfFile := int64(node.size)
	allocationSize := allocationSizeFor(endOfFile)

	entryLen := 4 + 4 + 4 + 4 + 8*6 + len(nameBytes)
	if pad := entryLen % dirInfoAlignment; pad != 0 {
		entryLen += dirInfoAlignment - pad
	}

	entry := make([]byte, entryLen)
	binary.LittleEndian.PutUint32(entry[4:8], node.fileIndex)
	binary.LittleEndian.PutUint32(entry[8:12], uint32(node.attr))
	binary.LittleEndian.PutUint32(entry[12:16], uint32(len(nameBytes)-2))
	binary.LittleEndian.PutUint64(entry[16:24], uint64(node.ts.Creation))
	binary.LittleEndian.PutUint64(entry[24:32], uint64(node.ts.LastAccess))
	binary.LittleEndian.PutUint64(entry[32:40], uint64(node.ts.LastWrite))
	binary.LittleEndian.PutUint64(entry[40:48], uint64(node.ts.Change))
	binary.LittleEndian.PutUint64(entry[48:56], uint64(endOfFile))
	binary.LittleEndian.PutUint64(entry[56:64], uint64(allocationSize))
	copy(entry[64:], nameBytes)
	// next_entry_offset (entry[0:4]) is left 0; it is patched in by the
	// following Write, if any, since only then is it known.

	start := len(b.entries)
	if b.hasEntries {
		binary.LittleEndian.PutUint32(b.entries[b.lastStart:b.lastStart+4], uint32(start-b.lastStart))
	}
	b.lastStart = start
	b.hasEntries = true

	b.entries = append(b.entries, entry...)
	b.entryEnds = append(b.entryEnds, len(b.entries))
}

// allocationSizeFor rounds endOfFile up to the next multiple of 4096,
// clamped to not overflow int64.
func allocationSizeFor(endOfFile int64) int64 {
	if endOfFile < 0 {
		return 0
	}
	const block = 4096
	rem := endOfFile % block
	if rem == 0 {
		return endOfFile
	}
	rounded := endOfFile + (block - rem)
	if rounded < endOfFile {
		return int64(^uint64(0) >> 1) // INT64_MAX, on overflow
	}
	return rounded
}

// Read implements the same offset contract as the teacher's
// DirBuffer.Read: offset must land exactly on a previous entry
// boundary (or be 0), and a read is never allowed to return a
// truncated entry.
func (b *DirInfoBuffer) Read(p []byte, offset int) (int, error) {
	count := len(p)
	if offset > 0 {
		i := sort.SearchInts(b.entryEnds, offset)
		if i == len(b.entryEnds) || b.entryEnds[i] != offset {
			return 0, errorf("DirInfoBuffer.Read", "%d is not a directory entry offset: %w", offset, ErrInvalidArg)
		}
	}
	j := sort.SearchInts(b.entryEnds, offset+count)
	if j == len(b.entryEnds) || b.entryEnds[j] != offset+count {
		if j == 0 {
			count = 0
		} else {
			count = b.entryEnds[j-1] - offset
		}
	}
	if count < 0 {
		return 0, errorf("DirInfoBuffer.Read", "buffer %d bytes too small for one entry: %w", -count, ErrInvalidArg)
	}
	return copy(p, b.entries[offset:offset+count]), nil
}

// Bytes returns the full packed buffer.
func (b *DirInfoBuffer) Bytes() []byte { return b.entries }

// BuildDirInfo packs read_directory's result for dir's currently
// generated children. Callers must hold the
// Forest's tree lock (read or write) while dir's children are stable.
func BuildDirInfo(dir *Node) *DirInfoBuffer {
	b := &DirInfoBuffer{}
	for _, child := range dir.children {
		b.Write(child)
	}
	return b
}
