package decode

import (
	"math"
	"strings"
	"time"

	"github.com/joshuapare/boxkit/internal/buf"
	"github.com/joshuapare/boxkit/internal/format"
	"github.com/joshuapare/boxkit/internal/registry"
	"github.com/joshuapare/boxkit/pkg/types"
)

func init() {
	register(registry.DecUint, decodeUint)
	register(registry.DecInt, decodeInt)
	register(registry.DecFloat, decodeFloat)
	register(registry.DecDate, decodeDate)
	register(registry.DecString, decodeString)
	register(registry.DecUTF8, decodeUTF8)
	register(registry.DecBinary, decodeBinary)
}

// defaulted returns the registry default for an empty payload, or zero of
// the requested type when the registry has none.
func defaulted(in Input, zero types.Value) Output {
	if !in.Entry.Default.IsEmpty() {
		return Output{Value: in.Entry.Default}
	}
	return Output{Value: zero}
}

func decodeUint(in Input) (Output, error) {
	p := in.Payload
	if len(p) == 0 {
		return defaulted(in, types.UintValue(0)), nil
	}
	v, ok := buf.UintN(p, len(p))
	if !ok {
		return Output{}, in.dataLength(0, "unsigned integer of %d bytes (max 8)", len(p))
	}
	return Output{Value: types.UintValue(v)}, nil
}

func decodeInt(in Input) (Output, error) {
	p := in.Payload
	if len(p) == 0 {
		return defaulted(in, types.IntValue(0)), nil
	}
	v, ok := buf.IntN(p, len(p))
	if !ok {
		return Output{}, in.dataLength(0, "signed integer of %d bytes (max 8)", len(p))
	}
	return Output{Value: types.IntValue(v)}, nil
}

func decodeFloat(in Input) (Output, error) {
	p := in.Payload
	switch len(p) {
	case 0:
		return defaulted(in, types.FloatValue(0)), nil
	case 4:
		return Output{Value: types.FloatValue(float64(math.Float32frombits(buf.U32BE(p))))}, nil
	case 8:
		return Output{Value: types.FloatValue(math.Float64frombits(buf.U64BE(p)))}, nil
	default:
		return Output{}, in.dataLength(0, "float of %d bytes (want 0, 4 or 8)", len(p))
	}
}

func decodeDate(in Input) (Output, error) {
	p := in.Payload
	switch len(p) {
	case 0:
		return defaulted(in, types.DateValue(format.EBMLDate(0))), nil
	case 8:
		return Output{Value: types.DateValue(format.EBMLDate(buf.I64BE(p)).In(time.UTC))}, nil
	default:
		return Output{}, in.dataLength(0, "date of %d bytes (want 0 or 8)", len(p))
	}
}

func decodeString(in Input) (Output, error) {
	if len(in.Payload) == 0 {
		return defaulted(in, types.TextValue("")), nil
	}
	return Output{Value: types.TextValue(asciiText(in.Payload))}, nil
}

func decodeUTF8(in Input) (Output, error) {
	if len(in.Payload) == 0 {
		return defaulted(in, types.TextValue("")), nil
	}
	s := string(cutNUL(in.Payload))
	return Output{Value: types.TextValue(strings.ToValidUTF8(s, "�"))}, nil
}

func decodeBinary(in Input) (Output, error) {
	return Output{Value: types.BinaryValue(in.Payload)}, nil
}
