package buf

import "math"

type signed interface{ ~int | ~int64 }

// Add returns a+b, or ok = false if the sum does not fit in T. Signed
// arithmetic wraps in Go, so a wrapped sum moves the wrong way.
func Add[T signed](a, b T) (T, bool) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return 0, false
	}
	return s, true
}

// Add64 is Add for file offsets.
func Add64(a, b int64) (int64, bool) { return Add(a, b) }

// Mul returns a*b for non-negative operands. Negative input and overflow
// both report ok = false. Table decoders use it for count times entry size.
func Mul(a, b int) (int, bool) {
	switch {
	case a < 0 || b < 0:
		return 0, false
	case b != 0 && a > math.MaxInt/b:
		return 0, false
	}
	return a * b, true
}

// Slice returns b[off:off+n] when the whole range lies inside b.
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 {
		return nil, false
	}
	end, ok := Add(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}

// Has reports whether b[off:off+n] is within bounds.
func Has(b []byte, off, n int) bool {
	_, ok := Slice(b, off, n)
	return ok
}

// Window clamps [off, off+n) to [0, total) and then to at most limit bytes
// when limit is positive. A negative n means "to the end". capped reports
// whether limit shortened the range.
func Window(total, off, n int64, limit int) (start, end int64, capped bool) {
	start = min(max(off, 0), total)
	end = total
	if n >= 0 {
		if e, ok := Add(start, n); ok && e < total {
			end = e
		}
	}
	if limit > 0 && end-start > int64(limit) {
		end, capped = start+int64(limit), true
	}
	return start, end, capped
}
