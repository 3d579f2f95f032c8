// Package buf provides overflow-checked size arithmetic for allocation requests.
package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// MulOverflowSafe multiplies a and b, returning ok = false when the result would overflow int.
// This is essential for count * elementSize calculations in array requests.
func MulOverflowSafe(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > 0 && b > 0 {
		if a > math.MaxInt/b {
			return 0, false
		}
	}
	if a < 0 && b < 0 {
		if a < math.MaxInt/b {
			return 0, false
		}
	}
	if a > 0 && b < 0 {
		if b < math.MinInt/a {
			return 0, false
		}
	}
	if a < 0 && b > 0 {
		if a < math.MinInt/b {
			return 0, false
		}
	}
	return a * b, true
}

// SpanSize returns header + count*elementSize, the byte size of an array
// request, or an error describing the specific failure (negative input or
// overflow).
//
//	total, err := buf.SpanSize(align.WordSize, n, elemSize)
//	if err != nil {
//	    return fmt.Errorf("array: %w", err)
//	}
func SpanSize(header, count, elementSize int) (int, error) {
	if header < 0 {
		return 0, fmt.Errorf("negative header: %d", header)
	}
	if count < 0 {
		return 0, fmt.Errorf("negative count: %d", count)
	}
	if elementSize < 0 {
		return 0, fmt.Errorf("negative element size: %d", elementSize)
	}

	payload, ok := MulOverflowSafe(count, elementSize)
	if !ok {
		return 0, fmt.Errorf("overflow: count=%d * elemSize=%d", count, elementSize)
	}

	total, ok := AddOverflowSafe(header, payload)
	if !ok {
		return 0, fmt.Errorf("overflow: header=%d + payload=%d", header, payload)
	}
	return total, nil
}

// Within reports whether the n-byte range starting at off lies inside [0, limit).
func Within(off, n, limit int) bool {
	if off < 0 || n < 0 || limit < 0 {
		return false
	}
	end, ok := AddOverflowSafe(off, n)
	return ok && end <= limit
}
