package decode

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// cutNUL returns b up to its first NUL byte.
func cutNUL(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}
	return b
}

// asciiText keeps printable ASCII and replaces anything else with '.'.
func asciiText(b []byte) string {
	b = cutNUL(b)
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c >= 0x20 && c < 0x7F {
			sb.WriteByte(c)
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// boxText decodes a text field of an MP4 box. A byte-order mark selects
// UTF-16; otherwise valid UTF-8 is taken as is and anything else is read
// as Mac Roman, which is what QuickTime writers use.
func boxText(b []byte) string {
	if hasUTF16BOM(b) {
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		if out, err := dec.Bytes(b); err == nil {
			return strings.TrimRight(string(out), "\x00")
		}
	}
	b = cutNUL(b)
	if utf8.Valid(b) {
		return string(b)
	}
	out, err := charmap.Macintosh.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "�")
	}
	return string(out)
}

// utf16Text decodes big-endian UTF-16 without a BOM (ilst data type 2).
func utf16Text(b []byte) string {
	dec := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	out, err := dec.Bytes(b)
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(out), "\x00")
}

func hasUTF16BOM(b []byte) bool {
	return len(b) >= 2 && ((b[0] == 0xFE && b[1] == 0xFF) || (b[0] == 0xFF && b[1] == 0xFE))
}

// pascalOrCText reads a QuickTime counted string when the first byte
// matches the remaining length, and a NUL-terminated one otherwise.
func pascalOrCText(b []byte) string {
	if len(b) > 0 && int(b[0]) == len(b)-1 && b[0] != 0 {
		return boxText(b[1:])
	}
	return boxText(b)
}
