package printer

import (
	"fmt"
	"strings"
)

// HexDump renders data in the classic sixteen-bytes-per-line layout with
// absolute offsets starting at base.
func HexDump(data []byte, base int64) string {
	var b strings.Builder
	for i := 0; i < len(data); i += DefaultHexWidth {
		line := data[i:min(i+DefaultHexWidth, len(data))]
		fmt.Fprintf(&b, "%08X  ", base+int64(i))
		for j := range DefaultHexWidth {
			if j < len(line) {
				fmt.Fprintf(&b, "%02X ", line[j])
			} else {
				b.WriteString("   ")
			}
			if j == DefaultHexWidth/2-1 {
				b.WriteByte(' ')
			}
		}
		b.WriteString(" |")
		for _, c := range line {
			if c < 0x20 || c > 0x7E {
				c = '.'
			}
			b.WriteByte(c)
		}
		b.WriteString("|\n")
	}
	return b.String()
}
