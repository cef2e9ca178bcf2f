// Package decode turns node payloads into typed values. Each registry
// entry names a decoder id; Decode dispatches on it so that many tags can
// share one decoder. Decoders never panic on malformed input: a short or
// inconsistent payload yields a typed error and an empty value, and the
// caller keeps honoring the node's declared size.
package decode

import (
	"errors"
	"fmt"

	"github.com/joshuapare/boxkit/internal/buf"
	"github.com/joshuapare/boxkit/internal/registry"
	"github.com/joshuapare/boxkit/pkg/types"
)

// Input is what a decoder sees of one node.
type Input struct {
	Node  *types.Node
	Entry registry.Entry

	// Payload starts after the header and any version/flags word.
	Payload []byte

	// Base is the absolute file offset of Payload[0].
	Base int64
}

// Output is a decoder's result.
type Output struct {
	Value types.Value

	// Prefix is the number of payload bytes a container consumes before
	// its first child.
	Prefix int

	Notes []Note
}

// Note is a non-fatal remark a decoder wants recorded as a diagnostic.
type Note struct {
	Severity types.Severity
	Kind     types.ErrKind
	Issue    string
}

// Func is the signature shared by every decoder.
type Func func(in Input) (Output, error)

var table = map[registry.DecoderID]Func{}

func register(id registry.DecoderID, fn Func) {
	if _, dup := table[id]; dup {
		panic(fmt.Sprintf("decode: duplicate decoder %q", id))
	}
	table[id] = fn
}

// Has reports whether a decoder is registered for id.
func Has(id registry.DecoderID) bool {
	_, ok := table[id]
	return ok
}

// Decode runs the decoder named by in.Entry. Entries without a decoder
// produce an empty value and the entry's fixed prefix.
func Decode(in Input) (Output, error) {
	fn, ok := table[in.Entry.Decoder]
	if !ok {
		return Output{Prefix: in.Entry.Prefix}, nil
	}
	out, err := fn(in)
	if err != nil {
		return Output{Prefix: out.Prefix, Notes: out.Notes}, err
	}
	if out.Prefix == 0 {
		out.Prefix = in.Entry.Prefix
	}
	return out, nil
}

// errShort is the sticky error a cursor records when it runs off its slice.
var errShort = errors.New("payload too short")

func (in Input) name() string {
	if in.Node != nil && in.Node.Name != "" {
		return in.Node.Name
	}
	return in.Entry.Name
}

// truncated builds a TruncatedStream error at payload offset rel.
func (in Input) truncated(rel int, what string) error {
	return types.NewError(types.ErrKindTruncated, in.Base+int64(rel),
		fmt.Sprintf("%s: %s", in.name(), what), errShort)
}

// dataLength builds a DataLengthError at payload offset rel.
func (in Input) dataLength(rel int, format string, args ...any) error {
	return types.NewError(types.ErrKindDataLength, in.Base+int64(rel),
		fmt.Sprintf("%s: %s", in.name(), fmt.Sprintf(format, args...)), nil)
}

// unsupported builds an Unsupported error at payload offset rel.
func (in Input) unsupported(rel int, format string, args ...any) error {
	return types.NewError(types.ErrKindUnsupported, in.Base+int64(rel),
		fmt.Sprintf("%s: %s", in.name(), fmt.Sprintf(format, args...)), nil)
}

func (in Input) version() uint8 {
	if in.Node == nil {
		return 0
	}
	return in.Node.Version
}

func (in Input) flags() uint32 {
	if in.Node == nil {
		return 0
	}
	return in.Node.Flags
}

// cursor walks a payload front to back. The first out-of-range read sets
// err; later reads return zero values so decoders can check once at the end.
type cursor struct {
	b   []byte
	off int
	err error
}

func newCursor(b []byte) *cursor { return &cursor{b: b} }

func (c *cursor) take(n int) []byte {
	if c.err != nil {
		return nil
	}
	p, ok := buf.Slice(c.b, c.off, n)
	if !ok {
		c.err = errShort
		return nil
	}
	c.off += n
	return p
}

func (c *cursor) u8() uint8 {
	if p := c.take(1); p != nil {
		return p[0]
	}
	return 0
}

func (c *cursor) u16() uint16 {
	if p := c.take(2); p != nil {
		return buf.U16BE(p)
	}
	return 0
}

func (c *cursor) u32() uint32 {
	if p := c.take(4); p != nil {
		return buf.U32BE(p)
	}
	return 0
}

func (c *cursor) u64() uint64 {
	if p := c.take(8); p != nil {
		return buf.U64BE(p)
	}
	return 0
}

func (c *cursor) i16() int16 { return int16(c.u16()) }
func (c *cursor) i32() int32 { return int32(c.u32()) }
func (c *cursor) i64() int64 { return int64(c.u64()) }

// uvar reads a 64-bit field when wide is set and a 32-bit one otherwise,
// the usual version-0/version-1 split.
func (c *cursor) uvar(wide bool) uint64 {
	if wide {
		return c.u64()
	}
	return uint64(c.u32())
}

// uintN reads an n-byte (0..8) unsigned field.
func (c *cursor) uintN(n int) uint64 {
	p := c.take(n)
	if p == nil {
		return 0
	}
	v, _ := buf.UintN(p, n)
	return v
}

func (c *cursor) fixed16() float64 {
	if p := c.take(4); p != nil {
		return buf.Fixed16(p)
	}
	return 0
}

func (c *cursor) fixed8() float64 {
	if p := c.take(2); p != nil {
		return buf.Fixed8(p)
	}
	return 0
}

func (c *cursor) fourcc() string {
	if p := c.take(4); p != nil {
		return types.FourCC(buf.U32BE(p))
	}
	return ""
}

func (c *cursor) skip(n int) { c.take(n) }

func (c *cursor) rest() []byte {
	if c.err != nil || c.off >= len(c.b) {
		return nil
	}
	p := c.b[c.off:]
	c.off = len(c.b)
	return p
}

func (c *cursor) remaining() int {
	if c.err != nil || c.off >= len(c.b) {
		return 0
	}
	return len(c.b) - c.off
}

// count reads a 32-bit entry count and checks that count entries of size
// bytes each fit in what is left.
func (c *cursor) count(size int) (int, bool) {
	n := c.u32()
	if c.err != nil {
		return 0, false
	}
	if uint64(n) > types.MaxTableEntries {
		c.err = errShort
		return 0, false
	}
	total, ok := buf.Mul(int(n), size)
	if !ok || total > c.remaining() {
		c.err = errShort
		return 0, false
	}
	return int(n), true
}

// finish converts the cursor's sticky error into a decode error.
func (c *cursor) finish(in Input, what string) error {
	if c.err == nil {
		return nil
	}
	return in.truncated(c.off, what)
}

func record(r types.Record) Output { return Output{Value: types.RecordValue(r)} }
