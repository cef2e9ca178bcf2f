package decode

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/boxkit/internal/registry"
	"github.com/joshuapare/boxkit/pkg/types"
)

const testBase = 1000

func mp4Input(t *testing.T, tag string, version uint8, flags uint32, payload []byte) Input {
	t.Helper()
	e, ok := registry.Lookup(types.FamilyMP4, types.Tag4(tag))
	require.True(t, ok, "registry has %q", tag)
	n := &types.Node{
		Family:  types.FamilyMP4,
		Tag:     types.Tag4(tag),
		Name:    e.Name,
		Kind:    e.Kind,
		FullBox: e.Full,
		Version: version,
		Flags:   flags,
	}
	return Input{Node: n, Entry: e, Payload: payload, Base: testBase}
}

func ebmlInput(t *testing.T, id uint32, payload []byte) Input {
	t.Helper()
	e, ok := registry.Lookup(types.FamilyEBML, id)
	require.True(t, ok, "registry has 0x%X", id)
	n := &types.Node{Family: types.FamilyEBML, Tag: id, Name: e.Name, Kind: e.Kind}
	return Input{Node: n, Entry: e, Payload: payload, Base: testBase}
}

// be is a tiny big-endian payload builder.
type be []byte

func (b be) u8(v uint8) be   { return append(b, v) }
func (b be) u16(v uint16) be { return binary.BigEndian.AppendUint16(b, v) }
func (b be) u32(v uint32) be { return binary.BigEndian.AppendUint32(b, v) }
func (b be) u64(v uint64) be { return binary.BigEndian.AppendUint64(b, v) }
func (b be) str(s string) be { return append(b, s...) }
func (b be) zeros(n int) be  { return append(b, make([]byte, n)...) }
func (b be) raw(p ...byte) be {
	return append(b, p...)
}

func mustRecord[T types.Record](t *testing.T, out Output) T {
	t.Helper()
	require.Equal(t, types.ValueRecord, out.Value.Type)
	r, ok := out.Value.Record.(T)
	require.True(t, ok, "record is %T", out.Value.Record)
	return r
}

func requireKind(t *testing.T, err error, kind types.ErrKind) {
	t.Helper()
	require.Error(t, err)
	var te *types.Error
	require.ErrorAs(t, err, &te)
	require.Equal(t, kind, te.Kind, "error: %v", err)
}
