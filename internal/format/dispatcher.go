package format

import (
	"strings"
)

// FormatKind enumerates the file families this engine recognizes (spec.md §4.8).
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
	switch f {
	case FormatDXFBinary:
		return "dxf-binary"
	case FormatDXFASCII:
		return "dxf-ascii"
	case FormatKAD:
		return "kad"
	case FormatBlastHoleCSV:
		return "blasthole-csv"
	case FormatCustomCSV:
		return "custom-csv"
	case FormatSurpacSTR:
		return "surpac-str"
	case FormatSurpacDTM:
		return "surpac-dtm"
	case FormatSPF:
		return "spf"
	case FormatKAP:
		return "kap"
	default:
		return "unknown"
	}
}

// FormatDispatcher classifies an input by extension and, for ambiguous
// extensions, by content sniffing, and builds the file-picker filter string
// (spec.md §4.8).
type FormatDispatcher struct{}

// NewFormatDispatcher returns a dispatcher. It holds no state.
func NewFormatDispatcher() *FormatDispatcher { return &FormatDispatcher{} }

// Classify maps name's extension to a FormatKind (.csv to BlastHoleCSV, .txt
// to KAD). Only .dxf is ambiguous: its leading bytes are sniffed for the
// binary sentinel to choose between binary and ASCII DXF.
func (d *FormatDispatcher) Classify(name string, head []byte) (FormatKind, error) {
	ext := strings.ToLower(extensionOf(name))
	switch ext {
	case ".dxf":
		if len(head) >= len(binarySentinel) && string(head[:len(binarySentinel)]) == string(binarySentinel) {
			return FormatDXFBinary, nil
		}
		return FormatDXFASCII, nil
	case ".kad":
		return FormatKAD, nil
	case ".csv":
		return FormatBlastHoleCSV, nil
	case ".txt":
		return FormatKAD, nil
	case ".str":
		return FormatSurpacSTR, nil
	case ".dtm":
		return FormatSurpacDTM, nil
	case ".spf":
		return FormatSPF, nil
	case ".kap":
		return FormatKAP, nil
	default:
		return FormatUnknown, &ErrUnknownFormat{Extension: ext}
	}
}

func extensionOf(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return ""
	}
	return name[idx:]
}

// FilterString builds the host file-picker's filter string (e.g. for a
// native "Open File" dialog): a single "Blast Design Files (...)" entry whose
// pattern list covers every recognized extension (spec.md §4.8).
func (d *FormatDispatcher) FilterString() string {
	exts := []string{"*.dxf", "*.kad", "*.csv", "*.txt", "*.str", "*.dtm", "*.spf", "*.kap"}
	return "Blast Design Files (" + strings.Join(exts, ", ") + ")|" + strings.Join(exts, ";")
}
