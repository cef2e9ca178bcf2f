package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadElementID(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		id   uint32
		n    int
	}{
		{"one byte", []byte{0xA3}, 0xA3, 1},
		{"two bytes", []byte{0x42, 0x86}, 0x4286, 2},
		{"three bytes", []byte{0x2A, 0xD7, 0xB1}, 0x2AD7B1, 3},
		{"four bytes", []byte{0x1A, 0x45, 0xDF, 0xA3, 0x99}, 0x1A45DFA3, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, n, err := ReadElementID(tt.in, 0)
			require.NoError(t, err)
			require.Equal(t, tt.id, id)
			require.Equal(t, tt.n, n)
		})
	}
}

func TestReadElementIDInvalid(t *testing.T) {
	for _, lead := range []byte{0x00, 0x08, 0x0F, 0x01} {
		_, _, err := ReadElementID([]byte{lead, 0, 0, 0, 0}, 0)
		require.ErrorIs(t, err, ErrInvalidVINT, "lead 0x%02X", lead)
	}
	_, _, err := ReadElementID([]byte{0x1A, 0x45}, 0)
	require.ErrorIs(t, err, ErrTruncated)
	_, _, err = ReadElementID(nil, 0)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestReadElementSize(t *testing.T) {
	tests := []struct {
		name    string
		in      []byte
		size    int64
		n       int
		unknown bool
	}{
		{"one byte", []byte{0x81}, 1, 1, false},
		{"one byte max", []byte{0xFE}, 126, 1, false},
		{"one byte unknown", []byte{0xFF}, 0, 1, true},
		{"two bytes", []byte{0x40, 0x02}, 2, 2, false},
		{"two bytes unknown", []byte{0x7F, 0xFF}, 0, 2, true},
		{"eight bytes", []byte{0x01, 0, 0, 0, 0, 0, 0x01, 0x00}, 256, 8, false},
		{"eight bytes unknown", []byte{0x01, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, 0, 8, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size, n, unknown, err := ReadElementSize(tt.in, 0)
			require.NoError(t, err)
			require.Equal(t, tt.size, size)
			require.Equal(t, tt.n, n)
			require.Equal(t, tt.unknown, unknown)
		})
	}

	_, _, _, err := ReadElementSize([]byte{0x00}, 0)
	require.ErrorIs(t, err, ErrInvalidVINT)
	_, _, _, err = ReadElementSize([]byte{0x20, 0x00}, 0)
	require.ErrorIs(t, err, ErrTruncated)
}

// IDs keep their marker bit, sizes drop it: the same byte reads differently.
func TestIDAndSizeConsumeDifferently(t *testing.T) {
	in := []byte{0x42, 0x86, 0x81}
	id, idLen, err := ReadElementID(in, 0)
	require.NoError(t, err)
	size, sizeLen, _, err := ReadElementSize(in, idLen)
	require.NoError(t, err)
	require.Equal(t, uint32(0x4286), id)
	require.Equal(t, int64(1), size)
	require.Equal(t, 3, idLen+sizeLen)
}

func TestReadSignedVINT(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		v    int64
	}{
		{"zero one byte", []byte{0xBF}, 0},
		{"plus five", []byte{0xC4}, 5},
		{"minus one", []byte{0xBE}, -1},
		{"two byte zero", []byte{0x5F, 0xFF}, 0},
		{"two byte minus 200", AppendVINT(nil, uint64(8191-200), 2), -200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _, err := ReadSignedVINT(tt.in, 0)
			require.NoError(t, err)
			require.Equal(t, tt.v, v)
		})
	}
}

func TestAppendVINTRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 126, 127, 300, 16382, 16383, 1 << 40} {
		enc := AppendVINT(nil, v, 0)
		got, n, allOnes, err := ReadVINT(enc, 0)
		require.NoError(t, err)
		require.False(t, allOnes, "value %d encoded as unknown", v)
		require.Equal(t, v, got)
		require.Equal(t, len(enc), n)
	}
}

func TestVINTIdempotent(t *testing.T) {
	in := []byte{0x1A, 0x45, 0xDF, 0xA3, 0xA3, 0x42, 0x86, 0x81, 0x01}
	for off := 0; off < len(in); off++ {
		a1, n1, e1 := ReadElementID(in, off)
		a2, n2, e2 := ReadElementID(in, off)
		require.Equal(t, a1, a2)
		require.Equal(t, n1, n2)
		require.Equal(t, e1 == nil, e2 == nil)
	}
}

func TestAppendElementID(t *testing.T) {
	require.Equal(t, []byte{0x1A, 0x45, 0xDF, 0xA3}, AppendElementID(nil, 0x1A45DFA3))
	require.Equal(t, []byte{0x42, 0x86}, AppendElementID(nil, 0x4286))
	require.Equal(t, []byte{0xA3}, AppendElementID(nil, 0xA3))
}
