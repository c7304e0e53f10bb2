package format

import (
	"bytes"
	"encoding/binary"

	"github.com/cortexfs/synthfs/internal/rng"
)

const (
	jpegWidth     = 64
	jpegHeight    = 64
	jpegMCU       = 8
	jpegMaxComSeg = 65537
	jpegMinComSeg = 4
)

// standardQuantTable is the quantization table DQT emits: every
// entry is 8 (not the Annex K luminance values), so that
// quantized-coefficient math stays trivial.
var standardQuantTable = func() [64]byte {
	var t [64]byte
	for i := range t {
		t[i] = 8
	}
	return t
}()

// Standard JPEG luminance Huffman tables (ITU-T T.81 Annex K), used
// for both DC and AC so the segment bytes a decoder sees are the ones
// it expects.
var (
	dcLuminanceBits  = []byte{0, 1, 5, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0}
	dcLuminanceVals  = []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	acLuminanceBits  = []byte{0, 2, 1, 3, 3, 2, 4, 3, 5, 5, 4, 4, 0, 0, 1, 0x7d}
	acLuminanceVals  = []byte{
		0x01, 0x02, 0x03, 0x00, 0x04, 0x11, 0x05, 0x12,
		0x21, 0x31, 0x41, 0x06, 0x13, 0x51, 0x61, 0x07,
		0x22, 0x71, 0x14, 0x32, 0x81, 0x91, 0xa1, 0x08,
		0x23, 0x42, 0xb1, 0xc1, 0x15, 0x52, 0xd1, 0xf0,
		0x24, 0x33, 0x62, 0x72, 0x82, 0x09, 0x0a, 0x16,
		0x17, 0x18, 0x19, 0x1a, 0x25, 0x26, 0x27, 0x28,
		0x29, 0x2a, 0x34, 0x35, 0x36, 0x37, 0x38, 0x39,
		0x3a, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48, 0x49,
		0x4a, 0x53, 0x54, 0x55, 0x56, 0x57, 0x58, 0x59,
		0x5a, 0x63, 0x64, 0x65, 0x66, 0x67, 0x68, 0x69,
		0x6a, 0x73, 0x74, 0x75, 0x76, 0x77, 0x78, 0x79,
		0x7a, 0x83, 0x84, 0x85, 0x86, 0x87, 0x88, 0x89,
		0x8a, 0x92, 0x93, 0x94, 0x95, 0x96, 0x97, 0x98,
		0x99, 0x9a, 0xa2, 0xa3, 0xa4, 0xa5, 0xa6, 0xa7,
		0xa8, 0xa9, 0xaa, 0xb2, 0xb3, 0xb4, 0xb5, 0xb6,
		0xb7, 0xb8, 0xb9, 0xba, 0xc2, 0xc3, 0xc4, 0xc5,
		0xc6, 0xc7, 0xc8, 0xc9, 0xca, 0xd2, 0xd3, 0xd4,
		0xd5, 0xd6, 0xd7, 0xd8, 0xd9, 0xda, 0xe1, 0xe2,
		0xe3, 0xe4, 0xe5, 0xe6, 0xe7, 0xe8, 0xe9, 0xea,
		0xf1, 0xf2, 0xf3, 0xf4, 0xf5, 0xf6, 0xf7, 0xf8,
		0xf9, 0xfa,
	}
)

func bigU16(v uint16) []byte { var b [2]byte; binary.BigEndian.PutUint16(b[:], v); return b[:] }

func jpegSegment(marker byte, payload []byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte(0xFF)
	buf.WriteByte(marker)
	buf.Write(bigU16(uint16(len(payload) + 2)))
	buf.Write(payload)
	return buf.Bytes()
}

// bitWriter packs bits MSB-first into bytes, inserting the standard
// JPEG 0xFF 0x00 byte-stuffing for literal 0xFF bytes in the entropy
// stream.
type bitWriter struct {
	buf     bytes.Buffer
	current byte
	nbits   uint
}

func (w *bitWriter) writeBits(value uint32, n uint) {
	for i := int(n) - 1; i >= 0; i-- {
		bit := (value >> uint(i)) & 1
		w.current = w.current<<1 | byte(bit)
		w.nbits++
		if w.nbits == 8 {
			w.flushByte()
		}
	}
}

func (w *bitWriter) flushByte() {
	w.buf.WriteByte(w.current)
	if w.current == 0xFF {
		w.buf.WriteByte(0x00)
	}
	w.current = 0
	w.nbits = 0
}

func (w *bitWriter) flushPadding() {
	if w.nbits == 0 {
		return
	}
	for w.nbits != 0 {
		w.writeBits(1, 1)
	}
}

// huffmanCode returns the canonical Huffman code (code, length) for
// symbol within a table built from bits[]/vals[], per the standard
// JPEG table-construction algorithm.
func huffmanCode(bits []byte, vals []byte, symbol byte) (code uint32, length uint) {
	var code32 uint32
	k := 0
	for l := 1; l <= 16; l++ {
		for i := 0; i < int(bits[l-1]); i++ {
			if vals[k] == symbol {
				return code32, uint(l)
			}
			k++
			code32++
		}
		code32 <<= 1
	}
	return 0, 0
}

// dcCategory returns the JPEG "category" (number of magnitude bits)
// for a signed DC value, and the magnitude bits themselves.
func dcCategory(v int32) (category byte, bits uint32, nbits uint) {
	av := v
	if av < 0 {
		av = -av
	}
	for t := av; t != 0; t >>= 1 {
		nbits++
	}
	category = byte(nbits)
	if v < 0 {
		bits = uint32(v+(1<<nbits)-1) & ((1 << nbits) - 1)
	} else {
		bits = uint32(v)
	}
	return category, bits, nbits
}

// encodeBlock writes one 8x8 block's entropy-coded data: a DC
// category/magnitude pair derived deterministically from (seed, bx,
// by), and an immediate AC end-of-block ("AC is always
// EOB").
func encodeBlock(w *bitWriter, seed uint64, bx, by int) {
	dcValue := int32(rng.SeedFromValue(seed, uint64(by)<<32|uint64(bx))%511) - 255
	cat, bits, nbits := dcCategory(dcValue)
	code, length := huffmanCode(dcLuminanceBits, dcLuminanceVals, cat)
	w.writeBits(code, length)
	if nbits > 0 {
		w.writeBits(bits, nbits)
	}
	eobCode, eobLen := huffmanCode(acLuminanceBits, acLuminanceVals, 0x00)
	w.writeBits(eobCode, eobLen)
}

func jpegBaseSegments() (app0, dqt, sof0, dht []byte) {
	app0 = jpegSegment(0xE0, append([]byte("JFIF\x00\x01\x02\x00\x00\x01\x00\x01"), 0, 0))

	var dqtPayload bytes.Buffer
	dqtPayload.WriteByte(0x00) // precision 0, table id 0
	dqtPayload.Write(standardQuantTable[:])
	dqt = jpegSegment(0xDB, dqtPayload.Bytes())

	var sof0Payload bytes.Buffer
	sof0Payload.WriteByte(8) // sample precision
	sof0Payload.Write(bigU16(jpegHeight))
	sof0Payload.Write(bigU16(jpegWidth))
	sof0Payload.WriteByte(1) // 1 component: grayscale
	sof0Payload.WriteByte(1) // component id
	sof0Payload.WriteByte(0x11) // sampling factors
	sof0Payload.WriteByte(0)    // quant table selector
	sof0 = jpegSegment(0xC0, sof0Payload.Bytes())

	var dhtPayload bytes.Buffer
	dhtPayload.WriteByte(0x00) // DC table 0
	dhtPayload.Write(dcLuminanceBits)
	dhtPayload.Write(dcLuminanceVals)
	dhtPayload.WriteByte(0x10) // AC table 0
	dhtPayload.Write(acLuminanceBits)
	dhtPayload.Write(acLuminanceVals)
	dht = jpegSegment(0xC4, dhtPayload.Bytes())
	return
}

func jpegSOS() []byte {
	var sosPayload bytes.Buffer
	sosPayload.WriteByte(1)    // 1 component
	sosPayload.WriteByte(1)    // component id
	sosPayload.WriteByte(0x00) // DC/AC table selectors
	sosPayload.WriteByte(0)    // spectral start
	sosPayload.WriteByte(63)   // spectral end
	sosPayload.WriteByte(0)    // approximation
	return jpegSegment(0xDA, sosPayload.Bytes())
}

func jpegEntropyData(seed uint64) []byte {
	w := &bitWriter{}
	blocksX := jpegWidth / jpegMCU
	blocksY := jpegHeight / jpegMCU
	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			encodeBlock(w, seed, bx, by)
		}
	}
	w.flushPadding()
	return w.buf.Bytes()
}

// comSegments builds zero or more COM (comment) segments totaling
// exactly padTotal bytes, each between jpegMinComSeg and
// jpegMaxComSeg bytes.
func comSegments(padTotal int) ([]byte, bool) {
	if padTotal == 0 {
		return nil, true
	}
	if padTotal < jpegMinComSeg {
		return nil, false
	}
	var out bytes.Buffer
	remaining := padTotal
	for remaining > 0 {
		segLen := remaining
		if segLen > jpegMaxComSeg {
			segLen = jpegMaxComSeg
		}
		if remaining-segLen > 0 && remaining-segLen < jpegMinComSeg {
			segLen -= jpegMinComSeg - (remaining - segLen)
		}
		if segLen < jpegMinComSeg {
			return nil, false
		}
		payloadLen := segLen - 4
		out.WriteByte(0xFF)
		out.WriteByte(0xFE)
		out.Write(bigU16(uint16(payloadLen + 2)))
		out.Write(make([]byte, payloadLen))
		remaining -= segLen
	}
	return out.Bytes(), true
}

// JPEG encodes a 64x64 baseline grayscale JPEG derived from seed,
// padded with COM segments after APP0 to land on exactly target
// bytes. Returns (nil, false) if padding cannot be placed, in which
// case the caller falls back to a raw-binary GeneratedReader.
func JPEG(seed uint64, target uint64) ([]byte, bool) {
	app0, dqt, sof0, dht := jpegBaseSegments()
	sos := jpegSOS()
	entropy := jpegEntropyData(seed)

	soi := []byte{0xFF, 0xD8}
	eoi := []byte{0xFF, 0xD9}

	base := len(soi) + len(app0) + len(dqt) + len(sof0) + len(dht) + len(sos) + len(entropy) + len(eoi)
	if uint64(base) > target {
		return nil, false
	}
	pad := int(target) - base
	com, ok := comSegments(pad)
	if !ok {
		return nil, false
	}

	var out bytes.Buffer
	out.Write(soi)
	out.Write(app0)
	out.Write(com)
	out.Write(dqt)
	out.Write(sof0)
	out.Write(dht)
	out.Write(sos)
	out.Write(entropy)
	out.Write(eoi)
	return out.Bytes(), true
}
