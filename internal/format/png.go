package format

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"

	"github.com/cortexfs/synthfs/internal/rng"
)

const (
	pngWidth  = 32
	pngHeight = 32
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func pngChunk(typ string, data []byte) []byte {
	var buf bytes.Buffer
	var lenField [4]byte
	binary.BigEndian.PutUint32(lenField[:], uint32(len(data)))
	buf.Write(lenField[:])
	buf.WriteString(typ)
	buf.Write(data)
	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(data)
	var crcField [4]byte
	binary.BigEndian.PutUint32(crcField[:], crc.Sum32())
	buf.Write(crcField[:])
	return buf.Bytes()
}

func pngPixels(seed uint64) []byte {
	raw := make([]byte, 0, pngHeight*(1+pngWidth*3))
	for y := 0; y < pngHeight; y++ {
		raw = append(raw, 0) // filter type 0 (none)
		for x := 0; x < pngWidth; x++ {
			v := rng.SeedFromValue(seed, uint64(y)<<32|uint64(x))
			raw = append(raw, byte(v), byte(v>>8), byte(v>>16))
		}
	}
	return raw
}

// deflateStored zlib-wraps raw using only stored (non-compressed)
// deflate blocks, matching the "single stored-deflate block"
// for the image IDAT.
func deflateStored(raw []byte) []byte {
	var buf bytes.Buffer
	w, _ := zlib.NewWriterLevel(&buf, zlib.NoCompression)
	_, _ = w.Write(raw)
	_ = w.Close()
	return buf.Bytes()
}

// PNG encodes a 32x32 truecolor image with content derived from seed,
// padded with a trailing "pAdd" chunk to land on exactly target bytes
// Returns (nil, false) if target is smaller than the
// unpadded encoding plus the minimum 12-byte chunk overhead, in which
// case the caller falls back to a raw-binary GeneratedReader.
func PNG(seed uint64, target uint64) ([]byte, bool) {
	raw := pngPixels(seed)
	compressed := deflateStored(raw)

	var ihdr [13]byte
	binary.BigEndian.PutUint32(ihdr[0:4], pngWidth)
	binary.BigEndian.PutUint32(ihdr[4:8], pngHeight)
	ihdr[8] = 8    // bit depth
	ihdr[9] = 2    // color type: truecolor
	ihdr[10] = 0   // compression method
	ihdr[11] = 0   // filter method
	ihdr[12] = 0   // interlace method

	ihdrChunk := pngChunk("IHDR", ihdr[:])
	idatChunk := pngChunk("IDAT", compressed)
	iendChunk := pngChunk("IEND", nil)

	base := uint64(len(pngSignature) + len(ihdrChunk) + len(idatChunk) + len(iendChunk))
	if target < base+12 {
		return nil, false
	}

	var out bytes.Buffer
	out.Write(pngSignature)
	out.Write(ihdrChunk)
	out.Write(idatChunk)
	if target > base {
		padTotal := target - base
		out.Write(pngChunk("pAdd", make([]byte, padTotal-12)))
	}
	out.Write(iendChunk)
	return out.Bytes(), true
}
