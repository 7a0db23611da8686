package format

import (
	"bufio"
	"strconv"
	"strings"
)

// ParseASCIIDXF decodes an ASCII DXF text stream: paired lines of
// "<code>\n<value>\n" (spec.md §4.6.2). It reuses the same ENTITIES state
// machine as the binary parser by converting each pair into a Record first.
func ParseASCIIDXF(text string, opts ParseOptions) (*ParseResult, error) {
	pairs, err := scanASCIIPairs(text)
	if err != nil {
		return nil, err
	}

	st := newDXFState(opts)
	for _, pair := range pairs {
		rec, err := recordFromPair(pair[0], pair[1])
		if err != nil {
			st.result.warn(err)
			continue
		}
		st.feed(rec)
	}
	return st.finish("dxf-surface", "DXF Surface"), nil
}

// scanASCIIPairs reads the file as alternating code/value lines, trimming
// the whitespace AutoCAD pads code lines with.
func scanASCIIPairs(text string) ([][2]string, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines)%2 != 0 {
		return nil, &ErrTruncatedRecord{Offset: len(lines), Want: 1}
	}

	pairs := make([][2]string, 0, len(lines)/2)
	for i := 0; i+1 < len(lines); i += 2 {
		pairs = append(pairs, [2]string{lines[i], lines[i+1]})
	}
	return pairs, nil
}

func recordFromPair(codeStr, valueStr string) (Record, error) {
	code, err := strconv.Atoi(codeStr)
	if err != nil {
		return Record{}, &ErrBadRow{Reason: "non-numeric group code: " + codeStr}
	}

	kind := valueKindForCode(code)
	switch kind {
	case ValueString:
		return Record{Code: code, Value: Value{Kind: ValueString, Str: valueStr}}, nil
	case ValueDouble:
		f, err := strconv.ParseFloat(strings.TrimSpace(valueStr), 64)
		if err != nil {
			return Record{}, &ErrBadRow{Reason: "bad float for code " + codeStr + ": " + valueStr}
		}
		return Record{Code: code, Value: Value{Kind: ValueDouble, F64: f}}, nil
	case ValueInt16:
		n, err := strconv.ParseInt(strings.TrimSpace(valueStr), 10, 16)
		if err != nil {
			return Record{}, &ErrBadRow{Reason: "bad int16 for code " + codeStr + ": " + valueStr}
		}
		return Record{Code: code, Value: Value{Kind: ValueInt16, I16: int16(n)}}, nil
	case ValueInt32:
		n, err := strconv.ParseInt(strings.TrimSpace(valueStr), 10, 32)
		if err != nil {
			return Record{}, &ErrBadRow{Reason: "bad int32 for code " + codeStr + ": " + valueStr}
		}
		return Record{Code: code, Value: Value{Kind: ValueInt32, I32: int32(n)}}, nil
	default:
		return Record{Code: code, Value: Value{Kind: ValueString, Str: valueStr}}, nil
	}
}

// WriteASCIIDXF serializes a Project's drawings and surface triangles into
// the paired-line ASCII DXF format (spec.md §4.7.2), sharing the binary
// writer's entity construction by converting its Record stream to text.
func WriteASCIIDXF(p *Project, opts WriteOptions) (string, error) {
	w := &dxfWriter{opts: opts, handle: 0x100}
	records := w.buildRecords(p)

	var b strings.Builder
	for _, rec := range records {
		b.WriteString(strconv.Itoa(rec.Code))
		b.WriteByte('\n')
		b.WriteString(asciiValueString(rec.Value))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func asciiValueString(v Value) string {
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueDouble:
		return strconv.FormatFloat(v.F64, 'f', -1, 64)
	case ValueInt16:
		return strconv.FormatInt(int64(v.I16), 10)
	case ValueInt32:
		return strconv.FormatInt(int64(v.I32), 10)
	default:
		return v.Str
	}
}
