package buf

import (
	"math"
	"testing"
)

func TestAddOverflowSafe(t *testing.T) {
	if sum, ok := AddOverflowSafe(10, 5); !ok || sum != 15 {
		t.Fatalf("AddOverflowSafe(10,5)=%d,%v want 15,true", sum, ok)
	}
	if _, ok := AddOverflowSafe(math.MaxInt, 1); ok {
		t.Fatalf("expected overflow when adding to MaxInt")
	}
	if _, ok := AddOverflowSafe(math.MinInt, -1); ok {
		t.Fatalf("expected underflow when subtracting from MinInt")
	}
}

func TestMulOverflowSafe(t *testing.T) {
	tests := []struct {
		name   string
		a, b   int
		want   int
		wantOK bool
	}{
		{"zero", 0, math.MaxInt, 0, true},
		{"small", 12, 8, 96, true},
		{"positive overflow", math.MaxInt/2 + 1, 2, 0, false},
		{"negative pair overflow", math.MinInt, -1, 0, false},
		{"mixed ok", -4, 8, -32, true},
		{"mixed overflow", math.MaxInt, -2, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MulOverflowSafe(tt.a, tt.b)
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("MulOverflowSafe(%d,%d)=%d,%v want %d,%v", tt.a, tt.b, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSpanSize(t *testing.T) {
	total, err := SpanSize(8, 10, 24)
	if err != nil {
		t.Fatalf("SpanSize: %v", err)
	}
	if total != 248 {
		t.Fatalf("SpanSize(8,10,24)=%d want 248", total)
	}

	if total, err := SpanSize(8, 0, 24); err != nil || total != 8 {
		t.Fatalf("SpanSize(8,0,24)=%d,%v want 8,nil", total, err)
	}

	bad := []struct {
		name                  string
		header, count, elemSz int
	}{
		{"negative header", -1, 1, 1},
		{"negative count", 8, -1, 1},
		{"negative element", 8, 1, -1},
		{"mul overflow", 8, math.MaxInt / 2, 4},
		{"add overflow", math.MaxInt, 1, 1},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SpanSize(tt.header, tt.count, tt.elemSz); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestWithin(t *testing.T) {
	if !Within(0, 8, 64) {
		t.Fatalf("Within(0,8,64) should be true")
	}
	if !Within(56, 8, 64) {
		t.Fatalf("Within(56,8,64) should be true")
	}
	if Within(60, 8, 64) {
		t.Fatalf("Within(60,8,64) should be false")
	}
	if Within(-1, 1, 64) || Within(0, -1, 64) {
		t.Fatalf("Within should reject negative inputs")
	}
	if Within(math.MaxInt, 1, math.MaxInt) {
		t.Fatalf("Within should reject overflowing ranges")
	}
}
