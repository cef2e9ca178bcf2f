package decode

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/boxkit/pkg/types"
)

func blockPayload(flags byte, lace []byte, data int) []byte {
	b := be{}.u8(0x81).u16(0xFFFE).u8(flags).raw(lace...)
	return append(b, bytes.Repeat([]byte{0xAA}, data)...)
}

func TestDecodeBlockEBMLLacing(t *testing.T) {
	// Three frames: 40, then +5, then whatever is left of 150.
	payload := blockPayload(0x80|0x06, []byte{0x02, 0x80 | 40, 0x80 | (5 + 63)}, 150)
	out, err := Decode(ebmlInput(t, idSimpleBlock, payload))
	require.NoError(t, err)
	r := mustRecord[*types.Block](t, out)
	require.Equal(t, uint64(1), r.TrackNumber)
	require.Equal(t, int16(-2), r.Timecode)
	require.True(t, r.Keyframe)
	require.Equal(t, types.LacingEBML, r.Lacing)
	require.Equal(t, []int64{40, 45, 65}, r.FrameSizes)
	first := int64(testBase + 7)
	require.Equal(t, []int64{first, first + 40, first + 85}, r.FrameOffsets)
}

func TestDecodeBlockXiphLacing(t *testing.T) {
	// 300 is written as 255 + 45.
	payload := blockPayload(0x02, []byte{0x02, 0xFF, 0x2D, 0x0A}, 400)
	out, err := Decode(ebmlInput(t, idSimpleBlock, payload))
	require.NoError(t, err)
	r := mustRecord[*types.Block](t, out)
	require.Equal(t, types.LacingXiph, r.Lacing)
	require.Equal(t, []int64{300, 10, 90}, r.FrameSizes)
	require.False(t, r.Keyframe)
}

func TestDecodeBlockFixedLacing(t *testing.T) {
	out, err := Decode(ebmlInput(t, idSimpleBlock, blockPayload(0x04, []byte{0x02}, 90)))
	require.NoError(t, err)
	require.Equal(t, []int64{30, 30, 30}, mustRecord[*types.Block](t, out).FrameSizes)

	_, err = Decode(ebmlInput(t, idSimpleBlock, blockPayload(0x04, []byte{0x02}, 91)))
	requireKind(t, err, types.ErrKindDataLength)
}

func TestDecodeBlockNoLacing(t *testing.T) {
	out, err := Decode(ebmlInput(t, idSimpleBlock, blockPayload(0x80|0x08|0x01, nil, 25)))
	require.NoError(t, err)
	r := mustRecord[*types.Block](t, out)
	require.Equal(t, types.LacingNone, r.Lacing)
	require.Equal(t, []int64{25}, r.FrameSizes)
	require.Equal(t, []int64{testBase + 4}, r.FrameOffsets)
	require.True(t, r.Invisible)
	require.True(t, r.Discardable)
}

func TestDecodeBlockGroupBlockIgnoresSimpleFlags(t *testing.T) {
	out, err := Decode(ebmlInput(t, idBlock, blockPayload(0x80|0x01, nil, 4)))
	require.NoError(t, err)
	r := mustRecord[*types.Block](t, out)
	require.False(t, r.Keyframe)
	require.False(t, r.Discardable)
}

func TestDecodeBlockLacingOverrun(t *testing.T) {
	// Declared sizes add up to more than the payload holds.
	payload := blockPayload(0x06, []byte{0x02, 0x80 | 100, 0x80 | (5 + 63)}, 150)
	out, err := Decode(ebmlInput(t, idSimpleBlock, payload))
	requireKind(t, err, types.ErrKindDataLength)
	require.True(t, out.Value.IsEmpty())

	// A negative running size.
	payload = blockPayload(0x06, []byte{0x02, 0x80 | 4, 0x80 | (63 - 10)}, 150)
	_, err = Decode(ebmlInput(t, idSimpleBlock, payload))
	requireKind(t, err, types.ErrKindDataLength)
}

func TestDecodeBlockTruncatedHeader(t *testing.T) {
	_, err := Decode(ebmlInput(t, idSimpleBlock, []byte{0x81, 0x00}))
	requireKind(t, err, types.ErrKindTruncated)

	_, err = Decode(ebmlInput(t, idSimpleBlock, []byte{0x00, 0x00}))
	requireKind(t, err, types.ErrKindMalformedHeader)
}
