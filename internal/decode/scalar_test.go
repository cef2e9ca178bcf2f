package decode

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/boxkit/internal/registry"
	"github.com/joshuapare/boxkit/pkg/types"
)

// Matroska IDs used below.
const (
	idEBMLVersion    = 0x4286
	idDocType        = 0x4282
	idTimestampScale = 0x2AD7B1
	idDuration       = 0x4489
	idDateUTC        = 0x4461
	idMuxingApp      = 0x4D80
	idReferenceBlock = 0xFB
	idSegmentUUID    = 0x73A4
	idSimpleBlock    = 0xA3
	idBlock          = 0xA1
)

func TestDecodeUint(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    uint64
	}{
		{"one byte", []byte{0x05}, 5},
		{"three bytes", []byte{0x01, 0x00, 0x00}, 65536},
		{"eight bytes", []byte{0xFF, 0, 0, 0, 0, 0, 0, 1}, 0xFF00000000000001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Decode(ebmlInput(t, idEBMLVersion, tt.payload))
			require.NoError(t, err)
			require.Equal(t, types.UintValue(tt.want), out.Value)
		})
	}
}

func TestDecodeUintTooWide(t *testing.T) {
	out, err := Decode(ebmlInput(t, idEBMLVersion, make([]byte, 9)))
	requireKind(t, err, types.ErrKindDataLength)
	require.True(t, errors.Is(err, types.ErrDataLength))
	require.True(t, out.Value.IsEmpty())
}

func TestDecodeEmptyUsesDefault(t *testing.T) {
	out, err := Decode(ebmlInput(t, idTimestampScale, nil))
	require.NoError(t, err)
	require.Equal(t, uint64(1000000), out.Value.Uint)

	// No registry default: the type's zero.
	out, err = Decode(ebmlInput(t, idReferenceBlock, nil))
	require.NoError(t, err)
	require.Equal(t, types.IntValue(0), out.Value)
}

func TestDecodeInt(t *testing.T) {
	out, err := Decode(ebmlInput(t, idReferenceBlock, []byte{0xFF, 0xFE}))
	require.NoError(t, err)
	require.Equal(t, int64(-2), out.Value.Int)
}

func TestDecodeFloat(t *testing.T) {
	f32 := math.Float32bits(1.5)
	out, err := Decode(ebmlInput(t, idDuration, be{}.u32(f32)))
	require.NoError(t, err)
	require.InDelta(t, 1.5, out.Value.Float, 1e-9)

	out, err = Decode(ebmlInput(t, idDuration, be{}.u64(math.Float64bits(12345.25))))
	require.NoError(t, err)
	require.Equal(t, 12345.25, out.Value.Float)

	_, err = Decode(ebmlInput(t, idDuration, []byte{1, 2, 3}))
	requireKind(t, err, types.ErrKindDataLength)
}

func TestDecodeDate(t *testing.T) {
	// One day after the Matroska epoch.
	ns := int64(24 * time.Hour)
	out, err := Decode(ebmlInput(t, idDateUTC, be{}.u64(uint64(ns))))
	require.NoError(t, err)
	require.Equal(t, types.ValueDate, out.Value.Type)
	require.Equal(t, "2001-01-02T00:00:00Z", out.Value.String())

	out, err = Decode(ebmlInput(t, idDateUTC, be{}.u64(uint64(-ns))))
	require.NoError(t, err)
	require.Equal(t, "2000-12-31T00:00:00Z", out.Value.String())

	_, err = Decode(ebmlInput(t, idDateUTC, []byte{1, 2, 3, 4}))
	requireKind(t, err, types.ErrKindDataLength)
}

func TestDecodeStrings(t *testing.T) {
	out, err := Decode(ebmlInput(t, idDocType, []byte("webm\x00\x00junk")))
	require.NoError(t, err)
	require.Equal(t, "webm", out.Value.Text)

	out, err = Decode(ebmlInput(t, idMuxingApp, []byte("libmatroska ✓\x00")))
	require.NoError(t, err)
	require.Equal(t, "libmatroska ✓", out.Value.Text)

	out, err = Decode(ebmlInput(t, idMuxingApp, []byte{'a', 0xC3, 'b'}))
	require.NoError(t, err)
	require.Equal(t, "a�b", out.Value.Text)
}

func TestDecodeBinaryPreview(t *testing.T) {
	payload := make([]byte, 200)
	payload[0] = 0xAB
	out, err := Decode(ebmlInput(t, idSegmentUUID, payload))
	require.NoError(t, err)
	require.Equal(t, types.ValueBinary, out.Value.Type)
	require.Equal(t, int64(200), out.Value.Length)
	require.Len(t, out.Value.Binary, types.HexPreviewLimit)
	require.Equal(t, byte(0xAB), out.Value.Binary[0])
}

func TestDecodeWithoutDecoderKeepsPrefix(t *testing.T) {
	in := Input{Entry: registry.Entry{Name: "x", Kind: types.KindContainer, Prefix: 6}}
	out, err := Decode(in)
	require.NoError(t, err)
	require.Equal(t, 6, out.Prefix)
	require.True(t, out.Value.IsEmpty())
}

func TestEveryRegistryDecoderIsImplemented(t *testing.T) {
	for _, fam := range []types.Family{types.FamilyMP4, types.FamilyEBML} {
		for _, tag := range registry.Tags(fam) {
			e := registry.MustLookup(fam, tag)
			if e.Decoder == registry.DecNone {
				continue
			}
			require.True(t, Has(e.Decoder), "%s %s uses %q", fam, e.Name, e.Decoder)
		}
	}
}
