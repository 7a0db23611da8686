package format

import (
	"bytes"
	"encoding/binary"
	"math"
)

// binarySentinel is the literal 22-byte marker that opens every binary DXF
// file. Per spec.md §4.1.
var binarySentinel = []byte("AutoCAD Binary DXF\r\n\x1A\x00")

// ValueKind tags the decoded type of a group-code value.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueDouble
	ValueInt16
	ValueInt32
	ValueInt64
	ValueBinary
)

// Value is a decoded group-code payload; exactly one field is meaningful,
// selected by Kind.
type Value struct {
	Kind ValueKind
	Str  string
	F64  float64
	I16  int16
	I32  int32
	I64  int64
	Bin  []byte
}

// Record is one (code, value) pair in a DXF group-code stream.
type Record struct {
	Code  int
	Value Value
}

// valueKindForCode implements the value-type inference table of spec.md §4.1.
func valueKindForCode(code int) ValueKind {
	switch {
	case code == 1004:
		return ValueBinary
	case inRanges(code, [][2]int{{0, 9}, {100, 102}, {105, 105}, {300, 369}, {390, 399}, {410, 419}, {430, 439}, {470, 481}, {999, 999}, {1000, 1009}}):
		return ValueString
	case inRanges(code, [][2]int{{10, 59}, {110, 149}, {210, 239}, {460, 469}, {1010, 1059}}):
		return ValueDouble
	case inRanges(code, [][2]int{{60, 79}, {170, 179}, {270, 289}, {370, 389}, {400, 409}, {1060, 1070}}):
		return ValueInt16
	case inRanges(code, [][2]int{{90, 99}, {420, 429}, {440, 449}, {1071, 1071}}):
		return ValueInt32
	default:
		return ValueString // fallback to string per spec.md §4.1
	}
}

func inRanges(code int, ranges [][2]int) bool {
	for _, r := range ranges {
		if code >= r[0] && code <= r[1] {
			return true
		}
	}
	return false
}

// GroupCodeCodec is a bidirectional translator between a (code, Value) record
// stream and the packed little-endian binary DXF layout (spec.md §4.1).
type GroupCodeCodec struct{}

// NewGroupCodeCodec returns a codec. It holds no state.
func NewGroupCodeCodec() *GroupCodeCodec { return &GroupCodeCodec{} }

// Encode serializes records into the binary DXF layout, sentinel included.
func (c *GroupCodeCodec) Encode(records []Record) []byte {
	buf := bytes.NewBuffer(nil)
	buf.Write(binarySentinel)
	for _, rec := range records {
		c.encodeRecord(buf, rec)
	}
	return buf.Bytes()
}

func (c *GroupCodeCodec) encodeRecord(buf *bytes.Buffer, rec Record) {
	if rec.Code <= 254 {
		buf.WriteByte(byte(rec.Code))
	} else {
		buf.WriteByte(0xFF)
		binary.Write(buf, binary.LittleEndian, int16(rec.Code))
	}

	switch rec.Value.Kind {
	case ValueString:
		buf.WriteString(rec.Value.Str)
		buf.WriteByte(0x00)
	case ValueDouble:
		binary.Write(buf, binary.LittleEndian, rec.Value.F64)
	case ValueInt16:
		binary.Write(buf, binary.LittleEndian, rec.Value.I16)
	case ValueInt32:
		binary.Write(buf, binary.LittleEndian, rec.Value.I32)
	case ValueInt64:
		binary.Write(buf, binary.LittleEndian, rec.Value.I64)
	case ValueBinary:
		buf.WriteByte(byte(len(rec.Value.Bin)))
		buf.Write(rec.Value.Bin)
	}
}

// Decode parses records out of a binary DXF byte stream. It stops at EOF
// (either running out of bytes, or a (0, "EOF") record) and returns
// ErrBadSentinel / ErrTruncatedRecord on malformed input.
func (c *GroupCodeCodec) Decode(data []byte) ([]Record, error) {
	if len(data) < len(binarySentinel) || !bytes.Equal(data[:len(binarySentinel)], binarySentinel) {
		got := data
		if len(got) > len(binarySentinel) {
			got = got[:len(binarySentinel)]
		}
		return nil, &ErrBadSentinel{Got: got}
	}

	offset := len(binarySentinel)
	var records []Record
	for offset < len(data) {
		code, n, err := decodeCode(data, offset)
		if err != nil {
			return nil, err
		}
		offset = n

		kind := valueKindForCode(code)
		val, next, err := decodeValue(data, offset, kind)
		if err != nil {
			return nil, err
		}
		offset = next

		records = append(records, Record{Code: code, Value: val})
		if code == 0 && val.Kind == ValueString && val.Str == "EOF" {
			break
		}
	}
	return records, nil
}

func decodeCode(data []byte, offset int) (int, int, error) {
	if offset >= len(data) {
		return 0, 0, &ErrTruncatedRecord{Offset: offset, Want: 1}
	}
	b := data[offset]
	if b != 0xFF {
		return int(b), offset + 1, nil
	}
	if offset+3 > len(data) {
		return 0, 0, &ErrTruncatedRecord{Offset: offset, Want: 3}
	}
	code := int(int16(binary.LittleEndian.Uint16(data[offset+1 : offset+3])))
	return code, offset + 3, nil
}

func decodeValue(data []byte, offset int, kind ValueKind) (Value, int, error) {
	switch kind {
	case ValueString:
		end := offset
		for end < len(data) && data[end] != 0x00 {
			end++
		}
		if end >= len(data) {
			return Value{}, 0, &ErrTruncatedRecord{Offset: offset, Want: 1}
		}
		return Value{Kind: ValueString, Str: string(data[offset:end])}, end + 1, nil
	case ValueDouble:
		if offset+8 > len(data) {
			return Value{}, 0, &ErrTruncatedRecord{Offset: offset, Want: 8}
		}
		bits := binary.LittleEndian.Uint64(data[offset : offset+8])
		return Value{Kind: ValueDouble, F64: math.Float64frombits(bits)}, offset + 8, nil
	case ValueInt16:
		if offset+2 > len(data) {
			return Value{}, 0, &ErrTruncatedRecord{Offset: offset, Want: 2}
		}
		return Value{Kind: ValueInt16, I16: int16(binary.LittleEndian.Uint16(data[offset : offset+2]))}, offset + 2, nil
	case ValueInt32:
		if offset+4 > len(data) {
			return Value{}, 0, &ErrTruncatedRecord{Offset: offset, Want: 4}
		}
		return Value{Kind: ValueInt32, I32: int32(binary.LittleEndian.Uint32(data[offset : offset+4]))}, offset + 4, nil
	case ValueBinary:
		if offset >= len(data) {
			return Value{}, 0, &ErrTruncatedRecord{Offset: offset, Want: 1}
		}
		n := int(data[offset])
		offset++
		if offset+n > len(data) {
			return Value{}, 0, &ErrTruncatedRecord{Offset: offset, Want: n}
		}
		chunk := make([]byte, n)
		copy(chunk, data[offset:offset+n])
		return Value{Kind: ValueBinary, Bin: chunk}, offset + n, nil
	default:
		return Value{}, 0, &ErrTruncatedRecord{Offset: offset, Want: 0}
	}
}
