package types

import (
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"
)

// ValueType tags which field of a Value is populated.
type ValueType uint8

const (
	ValueNone ValueType = iota
	ValueUint
	ValueInt
	ValueFloat
	ValueText
	ValueDate
	ValueBinary
	ValueRecord
)

func (t ValueType) String() string {
	switch t {
	case ValueUint:
		return "uint"
	case ValueInt:
		return "int"
	case ValueFloat:
		return "float"
	case ValueText:
		return "text"
	case ValueDate:
		return "date"
	case ValueBinary:
		return "binary"
	case ValueRecord:
		return "record"
	default:
		return "none"
	}
}

// Value is the decoded payload of a node.
type Value struct {
	Type  ValueType
	Uint  uint64
	Int   int64
	Float float64
	Text  string
	Time  time.Time

	// Binary keeps at most HexPreviewLimit bytes; Length is the full size.
	Binary []byte
	Length int64

	Record Record
}

// Record is a kind-specific structured decode (an mvhd, a trun table, a
// laced block, ...). RecordKind names the layout.
type Record interface {
	RecordKind() string
}

func UintValue(v uint64) Value { return Value{Type: ValueUint, Uint: v} }
func IntValue(v int64) Value { return Value{Type: ValueInt, Int: v} }
func FloatValue(v float64) Value { return Value{Type: ValueFloat, Float: v} }
func TextValue(s string) Value { return Value{Type: ValueText, Text: s} }
func DateValue(t time.Time) Value { return Value{Type: ValueDate, Time: t} }
func RecordValue(r Record) Value { return Value{Type: ValueRecord, Record: r} }

// BinaryValue copies up to HexPreviewLimit bytes of b.
func BinaryValue(b []byte) Value {
	n := len(b)
	if n > HexPreviewLimit {
		n = HexPreviewLimit
	}
	p := make([]byte, n)
	copy(p, b[:n])
	return Value{Type: ValueBinary, Binary: p, Length: int64(len(b))}
}

// IsEmpty reports whether nothing was decoded.
func (v Value) IsEmpty() bool { return v.Type == ValueNone }

// Hex renders the binary preview, marking elided bytes.
func (v Value) Hex() string {
	s := hex.EncodeToString(v.Binary)
	if v.Length > int64(len(v.Binary)) {
		s += "..."
	}
	return s
}

// String renders the value for one-line display.
func (v Value) String() string {
	switch v.Type {
	case ValueUint:
		return strconv.FormatUint(v.Uint, 10)
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case ValueText:
		return strconv.Quote(v.Text)
	case ValueDate:
		return v.Time.UTC().Format(time.RFC3339Nano)
	case ValueBinary:
		return v.Hex() + " (" + strconv.FormatInt(v.Length, 10) + " bytes)"
	case ValueRecord:
		if v.Record == nil {
			return ""
		}
		data, err := json.Marshal(v.Record)
		if err != nil {
			return v.Record.RecordKind()
		}
		return string(data)
	default:
		return ""
	}
}

// MarshalJSON emits the populated field only.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Type {
	case ValueUint:
		return json.Marshal(v.Uint)
	case ValueInt:
		return json.Marshal(v.Int)
	case ValueFloat:
		return json.Marshal(v.Float)
	case ValueText:
		return json.Marshal(v.Text)
	case ValueDate:
		return json.Marshal(v.Time.UTC().Format(time.RFC3339Nano))
	case ValueBinary:
		return json.Marshal(map[string]any{"hex": v.Hex(), "length": v.Length})
	case ValueRecord:
		return json.Marshal(v.Record)
	default:
		return []byte("null"), nil
	}
}
