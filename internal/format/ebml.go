package format

import (
	"fmt"
	"math/bits"

	"github.com/joshuapare/boxkit/internal/buf"
)

const (
	// MaxIDLength is the widest legal element ID.
	MaxIDLength = 4
	// MaxSizeLength is the widest legal element size.
	MaxSizeLength = 8
)

// VINTLength returns the total width selected by a VINT leading byte:
// one plus the number of leading zero bits. A zero byte selects nothing
// and returns 0.
func VINTLength(first byte) int {
	if first == 0 {
		return 0
	}
	return bits.LeadingZeros8(first) + 1
}

// ReadElementID decodes an element ID at b[off:]. The ID keeps its marker
// bit, so 0x1A45DFA3 is returned as-is. n is the number of bytes consumed.
func ReadElementID(b []byte, off int) (id uint32, n int, err error) {
	if !buf.Has(b, off, 1) {
		return 0, 0, fmt.Errorf("element id: %w", ErrTruncated)
	}
	n = VINTLength(b[off])
	if n == 0 || n > MaxIDLength {
		return 0, 0, fmt.Errorf("element id leading byte 0x%02X: %w", b[off], ErrInvalidVINT)
	}
	p, ok := buf.Slice(b, off, n)
	if !ok {
		return 0, 0, fmt.Errorf("element id (%d bytes): %w", n, ErrTruncated)
	}
	for _, c := range p {
		id = id<<8 | uint32(c)
	}
	return id, n, nil
}

// ReadVINT decodes a 1-8 byte VINT at b[off:] with its marker bit removed.
// allOnes reports that every value bit was set.
func ReadVINT(b []byte, off int) (v uint64, n int, allOnes bool, err error) {
	if !buf.Has(b, off, 1) {
		return 0, 0, false, fmt.Errorf("vint: %w", ErrTruncated)
	}
	n = VINTLength(b[off])
	if n == 0 || n > MaxSizeLength {
		return 0, 0, false, fmt.Errorf("vint leading byte 0x%02X: %w", b[off], ErrInvalidVINT)
	}
	p, ok := buf.Slice(b, off, n)
	if !ok {
		return 0, 0, false, fmt.Errorf("vint (%d bytes): %w", n, ErrTruncated)
	}
	v = uint64(p[0]) & (0xFF >> uint(n))
	for _, c := range p[1:] {
		v = v<<8 | uint64(c)
	}
	return v, n, v == vintMax(n), nil
}

// ReadElementSize decodes an element data size at b[off:]. unknown is set
// for the reserved all-ones value, in which case size is 0.
func ReadElementSize(b []byte, off int) (size int64, n int, unknown bool, err error) {
	v, n, allOnes, err := ReadVINT(b, off)
	if err != nil {
		return 0, 0, false, err
	}
	if allOnes {
		return 0, n, true, nil
	}
	return int64(v), n, false, nil
}

// ReadSignedVINT decodes a lacing size delta: the raw VINT value minus
// 2^(7n-1) - 1.
func ReadSignedVINT(b []byte, off int) (v int64, n int, err error) {
	u, n, _, err := ReadVINT(b, off)
	if err != nil {
		return 0, 0, err
	}
	bias := int64(1)<<(7*uint(n)-1) - 1
	return int64(u) - bias, n, nil
}

// vintMax is the all-ones value for an n-byte VINT.
func vintMax(n int) uint64 { return 1<<(7*uint(n)) - 1 }

// AppendVINT appends v as an n-byte VINT (n == 0 picks the shortest width
// that does not collide with the unknown-size marker).
func AppendVINT(dst []byte, v uint64, n int) []byte {
	if n == 0 {
		n = 1
		for n < MaxSizeLength && v >= vintMax(n) {
			n++
		}
	}
	marker := uint64(1) << (7 * uint(n))
	v |= marker
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(8*uint(i))))
	}
	return dst
}

// AppendUnknownSize appends the 1-byte unknown-size marker.
func AppendUnknownSize(dst []byte) []byte { return append(dst, 0xFF) }

// AppendElementID appends a raw element ID in its natural width.
func AppendElementID(dst []byte, id uint32) []byte {
	switch {
	case id > 0xFFFFFF:
		return append(dst, byte(id>>24), byte(id>>16), byte(id>>8), byte(id))
	case id > 0xFFFF:
		return append(dst, byte(id>>16), byte(id>>8), byte(id))
	case id > 0xFF:
		return append(dst, byte(id>>8), byte(id))
	default:
		return append(dst, byte(id))
	}
}
