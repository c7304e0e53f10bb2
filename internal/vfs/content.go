package vfs

// sharedBuffer is the Arc<Vec<u8>>-equivalent backing a committed
// materialized_content and the shared-buffer reader: once a Writer
// commits, the Node and every outstanding reader opened afterwards
// share one immutable byte slice. Go's garbage collector keeps it
// alive as long as any of them references it, so unlike the block
// store in the teacher repository there is no explicit refcounting:
// the struct exists only to give the shared slice a stable identity
// distinguishable from a freshly generated []byte.
type sharedBuffer struct {
	data []byte
}

func newSharedBuffer(data []byte) *sharedBuffer {
	dup := make([]byte, len(data))
	copy(dup, data)
	return &sharedBuffer{data: dup}
}

func (b *sharedBuffer) Len() int64 { return int64(len(b.data)) }

func (b *sharedBuffer) ReadAt(p []byte, off int64) int {
	if off >= int64(len(b.data)) {
		return 0
	}
	return copy(p, b.data[off:])
}
