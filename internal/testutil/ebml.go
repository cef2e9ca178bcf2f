package testutil

import (
	"encoding/binary"
	"math"

	"github.com/joshuapare/boxkit/internal/format"
)

// Element frames payload as an EBML element with a sized header.
func Element(id uint32, payload ...[]byte) []byte {
	body := Cat(payload...)
	out := format.AppendElementID(nil, id)
	out = format.AppendVINT(out, uint64(len(body)), 0)
	return append(out, body...)
}

// Unsized frames children as a master element of unknown size.
func Unsized(id uint32, children ...[]byte) []byte {
	out := format.AppendElementID(nil, id)
	out = format.AppendUnknownSize(out)
	return append(out, Cat(children...)...)
}

// UintElement encodes v in the fewest bytes.
func UintElement(id uint32, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	i := 0
	for i < 7 && b[i] == 0 {
		i++
	}
	return Element(id, b[i:])
}

// FloatElement encodes f as an 8-byte float.
func FloatElement(id uint32, f float64) []byte {
	return Element(id, binary.BigEndian.AppendUint64(nil, math.Float64bits(f)))
}

// StringElement encodes s verbatim.
func StringElement(id uint32, s string) []byte {
	return Element(id, []byte(s))
}

// SimpleBlock is an unlaced block payload for track with the given
// timecode, framed as a SimpleBlock element.
func SimpleBlock(track uint64, timecode int16, keyframe bool, frame []byte) []byte {
	var flags byte
	if keyframe {
		flags = 0x80
	}
	b := format.AppendVINT(nil, track, 0)
	b = binary.BigEndian.AppendUint16(b, uint16(timecode))
	b = append(b, flags)
	return Element(0xA3, b, frame)
}
