package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/boxkit/internal/buf"
	"github.com/joshuapare/boxkit/pkg/types"
)

const (
	// BoxHeaderSize is the compact header: 32-bit size + type.
	BoxHeaderSize = 8
	// LargeBoxHeaderSize adds the 64-bit largesize.
	LargeBoxHeaderSize = 16
	// ExtendedTypeSize is the user type following a 'uuid' type.
	ExtendedTypeSize = 16
	// FullBoxSize is the version byte plus 24-bit flags.
	FullBoxSize = 4

	// QuickTimeKeyMarker leads the 0xA9-prefixed metadata keys ("©nam").
	QuickTimeKeyMarker = 0xA9
)

var typeUUID = types.Tag4("uuid")

// BoxHeader is a decoded ISO-BMFF box header.
type BoxHeader struct {
	// Size is the total box size including the header, or types.SizeToEOF.
	Size         int64
	Type         uint32
	HeaderLen    int
	ExtendedType []byte
}

// PayloadSize returns the payload length, or types.SizeToEOF.
func (h BoxHeader) PayloadSize() int64 {
	if h.Size == types.SizeToEOF {
		return types.SizeToEOF
	}
	return h.Size - int64(h.HeaderLen)
}

// IsQuickTimeKey reports whether the type is a 0xA9-prefixed key whose
// meaningful code is the remaining three bytes.
func (h BoxHeader) IsQuickTimeKey() bool { return IsQuickTimeKey(h.Type) }

// IsQuickTimeKey reports whether tag carries the 0xA9 marker byte.
func IsQuickTimeKey(tag uint32) bool { return byte(tag>>24) == QuickTimeKeyMarker }

// ShortCode returns the three-character code of a 0xA9 key, or the
// four-character code otherwise.
func ShortCode(tag uint32) string {
	if IsQuickTimeKey(tag) {
		return string([]byte{byte(tag >> 16), byte(tag >> 8), byte(tag)})
	}
	return types.FourCC(tag)
}

// ParseBoxHeader decodes the box header starting at b[off:].
//
// A zero 32-bit size yields Size == types.SizeToEOF; whether that is legal
// at the current depth is the caller's decision. A declared size smaller
// than the header it came with returns ErrBoxTooSmall together with the
// partially decoded header so the caller can report the type.
func ParseBoxHeader(b []byte, off int) (BoxHeader, error) {
	p, ok := buf.Slice(b, off, BoxHeaderSize)
	if !ok {
		return BoxHeader{}, fmt.Errorf("box header: %w (have %d, need %d)", ErrTruncated, max(len(b)-off, 0), BoxHeaderSize)
	}
	h := BoxHeader{
		Size:      int64(buf.U32BE(p)),
		Type:      buf.U32BE(p[4:]),
		HeaderLen: BoxHeaderSize,
	}

	switch h.Size {
	case 0:
		h.Size = types.SizeToEOF
	case 1:
		ext, ok := buf.Slice(b, off+BoxHeaderSize, 8)
		if !ok {
			return h, fmt.Errorf("box largesize: %w", ErrTruncated)
		}
		large := buf.U64BE(ext)
		if large > uint64(1<<63-1) {
			return h, fmt.Errorf("box largesize %d: %w", large, ErrVINTRange)
		}
		h.Size = int64(large)
		h.HeaderLen = LargeBoxHeaderSize
	}

	if h.Type == typeUUID {
		ext, ok := buf.Slice(b, off+h.HeaderLen, ExtendedTypeSize)
		if !ok {
			return h, fmt.Errorf("box extended type: %w", ErrTruncated)
		}
		h.ExtendedType = bytes.Clone(ext)
		h.HeaderLen += ExtendedTypeSize
	}

	if h.Size != types.SizeToEOF && h.Size < int64(h.HeaderLen) {
		return h, fmt.Errorf("box %s size %d: %w", types.FourCC(h.Type), h.Size, ErrBoxTooSmall)
	}
	return h, nil
}

// ParseFullBox reads the version byte and 24-bit flags at b[off:].
func ParseFullBox(b []byte, off int) (version uint8, flags uint32, err error) {
	p, ok := buf.Slice(b, off, FullBoxSize)
	if !ok {
		return 0, 0, fmt.Errorf("full box header: %w", ErrTruncated)
	}
	return p[0], buf.U24BE(p[1:]), nil
}
