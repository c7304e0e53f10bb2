package vfs

import (
	"github.com/cortexfs/synthfs/internal/format"
)

// readerKind tags which of Reader's backing variants is active. The
// set of shapes is small and closed (exactly three),
// so a tagged union reads more plainly here than an interface with
// three implementations plus a factory.
type readerKind uint8

const (
	readerGenerated readerKind = iota
	readerBuffer
	readerShared
)

// SeekOrigin mirrors the {begin, current, end} origins.
type SeekOrigin uint8

const (
	SeekBegin SeekOrigin = iota
	SeekCurrent
	SeekEnd
)

// Reader implements the common reader contract over one of
// three backing stores.
type Reader struct {
	kind   readerKind
	size   int64
	offset int64

	// readerGenerated fields: a prefix/body/suffix split where body
	// bytes come from either format.GenerateByte (text-ish kinds) or a
	// precomputed image encoding (PNG/JPEG).
	prefix    []byte
	suffix    []byte
	bodyStart int64 // offset of the body region within the logical stream
	bodyEnd   int64 // offset where the suffix begins
	fillKind  format.FillKind
	seed      uint64
	image     []byte // non-nil when body bytes come from a precomputed PNG/JPEG encoding

	// readerBuffer fields
	buf []byte

	// readerShared fields
	shared *sharedBuffer
}

func fillKindForKind(k Kind) format.FillKind {
	switch k {
	case KindJSON, KindJSON5, KindThemeJSON5:
		return format.FillJSONString
	case KindXML:
		return format.FillXMLCData
	case KindCSV:
		return format.FillCSVField
	case KindTxt, KindLog, KindMd, KindCpp, KindH:
		return format.FillPlainText
	default:
		return format.FillBinary
	}
}

// newGeneratedReader builds the reader for a not-yet-materialized
// file node: PNG/JPEG get their dedicated encoders
// (falling back to raw binary if the target size can't hold the
// format's required structure), every other kind gets a framed
// text-ish body.
func newGeneratedReader(node *Node) *Reader {
	seed := node.generationSeed
	size := node.size

	switch node.kind {
	case KindPNG:
		if img, ok := format.PNG(seed, size); ok {
			return &Reader{kind: readerGenerated, size: int64(size), image: img}
		}
		return newRawBinaryReader(seed, size)
	case KindJPEG:
		if img, ok := format.JPEG(seed, size); ok {
			return &Reader{kind: readerGenerated, size: int64(size), image: img}
		}
		return newRawBinaryReader(seed, size)
	default:
		fk := fillKindForKind(node.kind)
		framed := format.BuildFramed(node.name, size, node.ts.Creation, seed, fk)
		return &Reader{
			kind:      readerGenerated,
			size:      int64(size),
			prefix:    framed.Prefix,
			suffix:    framed.Suffix,
			bodyStart: int64(len(framed.Prefix)),
			bodyEnd:   int64(len(framed.Prefix)) + framed.BodyBytes,
			fillKind:  fk,
			seed:      seed,
		}
	}
}

func newRawBinaryReader(seed uint64, size uint64) *Reader {
	return &Reader{
		kind:      readerGenerated,
		size:      int64(size),
		bodyStart: 0,
		bodyEnd:   int64(size),
		fillKind:  format.FillBinary,
		seed:      seed,
	}
}

// newSharedReader builds a reader over content a Writer has already
// committed (the shared-buffer reader case).
func newSharedReader(buf *sharedBuffer) *Reader {
	return &Reader{kind: readerShared, size: buf.Len(), shared: buf}
}

// newBufferReader builds a single-owner reader over an in-memory
// byte slice (the buffer-reader case), used by the writer to read
// back its own staged, uncommitted buffer.
func newBufferReader(data []byte) *Reader {
	return &Reader{kind: readerBuffer, size: int64(len(data)), buf: data}
}

func (r *Reader) Size() int64 { return r.size }

// Seek implements seek(offset, origin) -> new_pos.
func (r *Reader) Seek(offset int64, origin SeekOrigin) (int64, error) {
	var base int64
	switch origin {
	case SeekBegin:
		base = 0
	case SeekCurrent:
		base = r.offset
	case SeekEnd:
		base = r.size
	default:
		return 0, errorf("Reader.Seek", "invalid origin %d", origin)
	}
	newPos := base + offset
	if newPos < 0 {
		return 0, errorv("Reader.Seek", ErrNegativeSeek)
	}
	r.offset = newPos
	return newPos, nil
}

// Read implements read(buffer, bytes_to_read) -> bytes_read.
// Past-EOF reads yield 0 with success, not io.EOF: the read contract
// here reports end-of-stream as a 0-byte, error-free result, matching
// every other read* call in this package. A single call can span the
// prefix, body, and suffix regions of a generated reader.
func (r *Reader) Read(p []byte) (int, error) {
	if r.offset >= r.size {
		return 0, nil
	}
	switch r.kind {
	case readerShared:
		n := r.shared.ReadAt(p, r.offset)
		r.offset += int64(n)
		return n, nil
	case readerBuffer:
		n := copy(p, r.buf[r.offset:])
		r.offset += int64(n)
		return n, nil
	default:
		return r.readGenerated(p)
	}
}

func (r *Reader) readGenerated(p []byte) (int, error) {
	n := 0
	pos := r.offset
	for n < len(p) && pos < r.size {
		switch {
		case pos < int64(len(r.prefix)):
			p[n] = r.prefix[pos]
		case r.image != nil:
			if pos < int64(len(r.image)) {
				p[n] = r.image[pos]
			} else {
				p[n] = 0
			}
		case pos < r.bodyEnd:
			p[n] = format.GenerateByte(r.fillKind, r.seed, pos-r.bodyStart)
		default:
			suffixOffset := pos - r.bodyEnd
			if suffixOffset < int64(len(r.suffix)) {
				p[n] = r.suffix[suffixOffset]
			} else {
				p[n] = 0
			}
		}
		n++
		pos++
	}
	r.offset = pos
	return n, nil
}
