package kad

import (
	"fmt"
	"os"

	"github.com/beetlebugorg/kirrakad/internal/format"
)

// ParseSPFFile decodes an Orica SPF archive from disk.
func ParseSPFFile(filename string, opts ParseOptions) (*ParseResult, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("kad: reading %s: %w", filename, err)
	}
	return ParseSPFBytes(data, opts)
}

// ParseSPFBytes decodes an Orica SPF archive already loaded into memory.
func ParseSPFBytes(data []byte, opts ParseOptions) (*ParseResult, error) {
	zip, err := openZip(data)
	if err != nil {
		return nil, fmt.Errorf("kad: opening SPF archive: %w", err)
	}

	entry, ok := zip.File(firstXMLName(zip))
	if !ok {
		return nil, &format.ErrSchemaMismatch{Reason: "SPF archive has no XML document"}
	}
	xmlBytes, err := entry.AsBytes()
	if err != nil {
		return nil, err
	}
	doc, err := parseXMLDocument(xmlBytes)
	if err != nil {
		return nil, fmt.Errorf("kad: parsing SPF XML: %w", err)
	}

	r, err := format.ParseSPF(zip, doc, opts.internal())
	if err != nil {
		return nil, err
	}
	return convertResult(r), nil
}

func firstXMLName(zip *zipReader) string {
	for _, name := range zip.Names() {
		if len(name) > 4 && name[len(name)-4:] == ".xml" {
			return name
		}
	}
	return ""
}
