// Package buf contains bounds-checked big-endian readers and offset
// arithmetic helpers shared by the box and element decoders.
package buf

import "encoding/binary"

// U16BE reads a big-endian uint16 from b. Returns 0 when b is too short.
func U16BE(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

// U24BE reads a big-endian 24-bit value (full-box flags, sidx words).
func U24BE(b []byte) uint32 {
	if len(b) < 3 {
		return 0
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// U32BE reads a big-endian uint32 from b. Returns 0 when b is too short.
func U32BE(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// U64BE reads a big-endian uint64 from b. Returns 0 when b is too short.
func U64BE(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

func I16BE(b []byte) int16 { return int16(U16BE(b)) }
func I32BE(b []byte) int32 { return int32(U32BE(b)) }
func I64BE(b []byte) int64 { return int64(U64BE(b)) }

// UintN reads an n-byte (0..8) big-endian unsigned integer. ok is false
// when n is out of range or b is short.
func UintN(b []byte, n int) (uint64, bool) {
	if n < 0 || n > 8 || len(b) < n {
		return 0, false
	}
	var v uint64
	for _, c := range b[:n] {
		v = v<<8 | uint64(c)
	}
	return v, true
}

// IntN reads an n-byte (0..8) big-endian two's-complement integer,
// sign-extending to 64 bits.
func IntN(b []byte, n int) (int64, bool) {
	u, ok := UintN(b, n)
	if !ok || n == 0 {
		return 0, ok
	}
	shift := uint(64 - 8*n)
	return int64(u<<shift) >> shift, true
}

// Fixed16 decodes a 16.16 fixed-point number.
func Fixed16(b []byte) float64 { return float64(U32BE(b)) / 65536 }

// SFixed16 decodes a signed 16.16 fixed-point number.
func SFixed16(b []byte) float64 { return float64(I32BE(b)) / 65536 }

// Fixed8 decodes an 8.8 fixed-point number.
func Fixed8(b []byte) float64 { return float64(I16BE(b)) / 256 }
