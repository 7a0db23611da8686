package kad

import (
	"fmt"
	"os"

	"github.com/beetlebugorg/kirrakad/internal/format"
)

// ParseResult carries the decoded Document plus row/record-level diagnostics
// that did not abort the parse.
type ParseResult struct {
	Document     *Document
	SuccessCount int
	ErrorCount   int
	Warnings     []string
}

func convertResult(r *format.ParseResult) *ParseResult {
	return &ParseResult{
		Document:     newDocument(r.Project),
		SuccessCount: r.SuccessCount,
		ErrorCount:   r.ErrorCount,
		Warnings:     r.Warnings,
	}
}

// Parser decodes blast design files of a single format family.
//
// Create one with NewParser and use Parse or ParseWithOptions.
type Parser interface {
	// Parse reads filename with default options, auto-detecting KAD, DXF
	// (ASCII or binary), or blast-hole CSV from its extension and content.
	// Surpac, SPF and KAP files return ErrUnknownFormat here; they are read
	// through ParseSurpacPair, ParseSPFBytes and ParseKAPFile.
	Parse(filename string) (*ParseResult, error)

	// ParseWithOptions parses filename with caller-supplied options.
	ParseWithOptions(filename string, opts ParseOptions) (*ParseResult, error)
}

// NewParser creates a parser that dispatches on file extension/content.
//
// Example:
//
//	p := kad.NewParser()
//	result, err := p.Parse("pattern1.kad")
func NewParser() Parser {
	return &parserWrapper{dispatcher: format.NewFormatDispatcher()}
}

type parserWrapper struct {
	dispatcher *format.FormatDispatcher
}

func (p *parserWrapper) Parse(filename string) (*ParseResult, error) {
	return p.ParseWithOptions(filename, DefaultParseOptions())
}

func (p *parserWrapper) ParseWithOptions(filename string, opts ParseOptions) (*ParseResult, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("kad: reading %s: %w", filename, err)
	}

	head := data
	if len(head) > 32 {
		head = head[:32]
	}
	kind, err := p.dispatcher.Classify(filename, head)
	if err != nil {
		return nil, err
	}

	internalOpts := opts.internal()
	switch format.FormatKind(kind) {
	case format.FormatDXFBinary:
		r, err := format.ParseBinaryDXF(data, internalOpts)
		if err != nil {
			return nil, err
		}
		return convertResult(r), nil
	case format.FormatDXFASCII:
		r, err := format.ParseASCIIDXF(string(data), internalOpts)
		if err != nil {
			return nil, err
		}
		return convertResult(r), nil
	case format.FormatKAD:
		r, err := format.ParseKAD(string(data), internalOpts)
		if err != nil {
			return nil, err
		}
		return convertResult(r), nil
	case format.FormatBlastHoleCSV:
		if opts.ColumnMap != nil {
			r, err := format.ParseCustomCSV(string(data), internalOpts)
			if err != nil {
				return nil, err
			}
			return convertResult(r), nil
		}
		r, err := format.ParseBlastHoleCSV(string(data), internalOpts)
		if err != nil {
			return nil, err
		}
		return convertResult(r), nil
	default:
		return nil, &format.ErrUnknownFormat{Extension: filename}
	}
}

// ParseSurpacPair decodes a Surpac STR+DTM pair into one or more surfaces
// (spec.md §4.6.6 object-break splitting).
func ParseSurpacPair(name, strText, dtmText string, tolerance float64) ([]*Surface, error) {
	objects, err := format.ParseSurpacSTR(strText)
	if err != nil {
		return nil, err
	}
	triangles, err := format.ParseSurpacDTM(dtmText)
	if err != nil {
		return nil, err
	}
	return format.BuildSurpacSurfaces(name, objects, triangles, tolerance), nil
}

// Writer serializes a Document back into one of the supported file formats.
type Writer interface {
	WriteBinaryDXF(doc *Document, opts WriteOptions) ([]byte, error)
	WriteASCIIDXF(doc *Document, opts WriteOptions) (string, error)
	WriteKAD(doc *Document) (string, error)
	WriteBlastHoleCSV(doc *Document) (string, error)
}

// NewWriter creates a Writer.
func NewWriter() Writer { return writerImpl{} }

type writerImpl struct{}

func (writerImpl) WriteBinaryDXF(doc *Document, opts WriteOptions) ([]byte, error) {
	return format.WriteBinaryDXF(doc.project, opts.internal())
}

func (writerImpl) WriteASCIIDXF(doc *Document, opts WriteOptions) (string, error) {
	return format.WriteASCIIDXF(doc.project, opts.internal())
}

func (writerImpl) WriteKAD(doc *Document) (string, error) {
	return format.WriteKAD(doc.project)
}

func (writerImpl) WriteBlastHoleCSV(doc *Document) (string, error) {
	return format.WriteBlastHoleCSV(doc.project)
}
