// Package format implements the format codec: the byte
// generators for the body region of a GeneratedReader (plain text,
// JSON/CSV/XML-flavored printable bodies, raw binary) plus the PNG
// and JPEG encoders of the image format sections.
package format

import "github.com/cortexfs/synthfs/internal/rng"

// FillKind selects how GenerateByte fabricates one body byte, per
// the fill kind table.
type FillKind uint8

const (
	FillPlainText FillKind = iota
	FillJSONString
	FillXMLCData
	FillCSVField
	FillBinary
)

// printableAlphabet is the 65-character alphabet specified
// for JsonString/CsvField/XmlCData bodies: [A-Za-z0-9-_ ].
const printableAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_ "

// plainTextAlphabet biases PlainText bodies toward lowercase letters,
// space and light punctuation.
const plainTextAlphabet = "                    abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyz,.;:'!"

// GenerateByte returns the deterministic byte at position pos within
// the body region of a file with the given seed and FillKind
// (generate_dummy_byte(kind, seed, pos)).
func GenerateByte(kind FillKind, seed uint64, pos int64) byte {
	switch kind {
	case FillBinary:
		return byte(rng.SeedFromValue(seed, uint64(pos)))
	case FillPlainText, FillXMLCData:
		if m := pos % 97; m == 95 {
			return '\r'
		} else if m == 96 {
			return '\n'
		}
		if kind == FillXMLCData {
			h := rng.SeedFromValue(seed, uint64(pos))
			return printableAlphabet[h%uint64(len(printableAlphabet))]
		}
		h := rng.SeedFromValue(seed, uint64(pos))
		return plainTextAlphabet[h%uint64(len(plainTextAlphabet))]
	case FillJSONString, FillCSVField:
		h := rng.SeedFromValue(seed, uint64(pos))
		return printableAlphabet[h%uint64(len(printableAlphabet))]
	default:
		return byte(rng.SeedFromValue(seed, uint64(pos)))
	}
}

// GenerateBody fills buf[0:n] starting at body offset `from`.
func GenerateBody(kind FillKind, seed uint64, from int64, buf []byte) {
	for i := range buf {
		buf[i] = GenerateByte(kind, seed, from+int64(i))
	}
}
