package kad

import "github.com/beetlebugorg/kirrakad/internal/format"

// FormatKind enumerates the file families this engine recognizes.
type FormatKind int

const (
	FormatUnknown FormatKind = iota
	FormatDXFBinary
	FormatDXFASCII
	FormatKAD
	FormatBlastHoleCSV
	FormatCustomCSV
	FormatSurpacSTR
	FormatSurpacDTM
	FormatSPF
	FormatKAP
)

func (f FormatKind) String() string {
	return format.FormatKind(f).String()
}

// ClassifyFile inspects name's extension and, for binary-vs-ASCII DXF
// ambiguity, the leading bytes of the file (head may be fewer than 22 bytes;
// a short head is treated as ASCII).
func ClassifyFile(name string, head []byte) (FormatKind, error) {
	kind, err := format.NewFormatDispatcher().Classify(name, head)
	return FormatKind(kind), err
}

// FilterString builds a native "Open File" dialog filter string covering
// every recognized extension.
func FilterString() string {
	return format.NewFormatDispatcher().FilterString()
}
