package decode

import (
	"fmt"

	codec "github.com/yapingcat/gomedia/go-codec"
)

// Multi-byte bit-packed fields go through the gomedia bit reader. Callers
// slice the exact bytes first so the reader never runs past its input.

// language unpacks an ISO-639-2/T code stored as a pad bit and three
// 5-bit letters offset by 0x60.
func language(b []byte) string {
	if len(b) < 2 {
		return ""
	}
	if b[0] == 0 && b[1] == 0 {
		return "0x00"
	}
	bs := codec.NewBitStream(b[:2])
	bs.SkipBits(1)
	var out [3]byte
	for i := range out {
		out[i] = byte(bs.GetBits(5)) + 0x60
	}
	for _, c := range out {
		if c < 'a' || c > 'z' {
			return fmt.Sprintf("0x%02X%02X", b[0], b[1])
		}
	}
	return string(out[:])
}

// crumbs splits one byte into four 2-bit fields, high bits first.
func crumbs(c byte) [4]uint8 {
	return [4]uint8{c >> 6, c >> 4 & 3, c >> 2 & 3, c & 3}
}

// nibbles splits one byte into its high and low halves.
func nibbles(c byte) (hi, lo uint8) {
	return c >> 4, c & 0x0F
}

// packedFields reads count fields of width bits each from b (4, 8 or 16).
func packedFields(b []byte, count, width int) ([]uint32, bool) {
	need := (count*width + 7) / 8
	if count < 0 || width <= 0 || len(b) < need {
		return nil, false
	}
	out := make([]uint32, count)
	if count == 0 {
		return out, true
	}
	bs := codec.NewBitStream(b[:need])
	for i := range out {
		out[i] = uint32(bs.GetBits(width))
	}
	return out, true
}
