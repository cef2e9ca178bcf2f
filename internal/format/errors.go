package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a header field.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrBoxTooSmall indicates a box declared fewer bytes than its own header.
	ErrBoxTooSmall = errors.New("format: declared size below header size")
	// ErrInvalidVINT indicates a VINT whose leading byte selects no legal width.
	ErrInvalidVINT = errors.New("format: invalid vint leading byte")
	// ErrVINTRange indicates a VINT wider than the field allows.
	ErrVINTRange = errors.New("format: vint too wide")
	// ErrUnsupported indicates the structure or feature is not yet supported.
	ErrUnsupported = errors.New("format: unsupported feature")
)
