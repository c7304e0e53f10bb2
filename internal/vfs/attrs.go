package vfs

// Attr is the Node.attributes bit-set.
type Attr uint32

const (
	AttrNormal   Attr = 0
	AttrReadonly Attr = 1 << 0
	AttrHidden   Attr = 1 << 1
	AttrDirectory Attr = 1 << 4
	AttrArchive  Attr = 1 << 5
)

func (a Attr) Has(f Attr) bool { return a&f != 0 }

// withDirectoryBit forces the DIRECTORY bit to match isDir, since every
// directory carries that bit regardless of whether it has children.
func (a Attr) withDirectoryBit(isDir bool) Attr {
	if isDir {
		return a | AttrDirectory
	}
	return a &^ AttrDirectory
}

// Kind enumerates the file formats the generator fabricates content
// for (the size table and FillKind selection). A
// directory has no Kind.
type Kind uint8

const (
	KindNone Kind = iota
	KindTxt
	KindLog
	KindJSON
	KindJSON5
	KindXML
	KindThemeJSON5
	KindCSV
	KindPNG
	KindJPEG
	KindZip
	KindDocx
	KindXlsx
	KindCpp
	KindH
	KindMd
	KindBin
)

// extensionByKind maps a Kind to the on-disk suffix from the fixed
// extension list.
var extensionByKind = map[Kind]string{
	KindTxt:        ".txt",
	KindLog:        ".log",
	KindJSON:       ".json",
	KindJSON5:      ".json5",
	KindXML:        ".xml",
	KindThemeJSON5: ".theme.json5",
	KindCSV:        ".csv",
	KindPNG:        ".png",
	KindJPEG:       ".jpg",
	KindZip:        ".zip",
	KindDocx:       ".docx",
	KindXlsx:       ".xlsx",
	KindCpp:        ".cpp",
	KindH:          ".h",
	KindMd:         ".md",
	KindBin:        ".bin",
}

// kindsByExtensionOrder is extensionByKind's domain in the fixed order
// the kind table lists it, so name generation can pick uniformly by index
// rather than ranging over a map (map iteration order is undefined,
// which would break determinism).
var kindsByExtensionOrder = []Kind{
	KindTxt, KindLog, KindJSON, KindJSON5, KindXML, KindThemeJSON5,
	KindPNG, KindJPEG, KindBin, KindCpp, KindH, KindMd, KindCSV,
	KindZip, KindDocx, KindXlsx,
}

func (k Kind) Extension() string {
	return extensionByKind[k]
}
