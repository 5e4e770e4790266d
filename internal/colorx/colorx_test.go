package colorx

import (
	"math"
	"testing"
)

func TestHexToRGB(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		r, g, b uint8
		wantErr bool
	}{
		{in: "#ff0000", r: 255},
		{in: "00ff00", g: 255},
		{in: "#0000ff", b: 255},
		{in: "#1e3a8a", r: 0x1e, g: 0x3a, b: 0x8a},
		{in: "#fff", r: 255, g: 255, b: 255},
		{in: "#abcd", wantErr: true},
		{in: "not-a-color", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range tests {
		r, g, b, err := HexToRGB(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("HexToRGB(%q): expected error, got none", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("HexToRGB(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if r != tc.r || g != tc.g || b != tc.b {
			t.Errorf("HexToRGB(%q) = (%d,%d,%d), want (%d,%d,%d)", tc.in, r, g, b, tc.r, tc.g, tc.b)
		}
	}
}

func TestHexToHSL_KnownValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		h, s, l float64
	}{
		{"#ff0000", 0, 100, 50},
		{"#00ff00", 120, 100, 50},
		{"#0000ff", 240, 100, 50},
		{"#ffffff", 0, 0, 100},
		{"#000000", 0, 0, 0},
		{"#808080", 0, 0, 50.2},
	}

	for _, tc := range tests {
		h, s, l, err := HexToHSL(tc.in)
		if err != nil {
			t.Fatalf("HexToHSL(%q): %v", tc.in, err)
		}
		if math.Abs(h-tc.h) > 0.5 || math.Abs(s-tc.s) > 0.5 || math.Abs(l-tc.l) > 0.5 {
			t.Errorf("HexToHSL(%q) = (%.1f,%.1f,%.1f), want (%.1f,%.1f,%.1f)", tc.in, h, s, l, tc.h, tc.s, tc.l)
		}
	}
}

func TestHSLRoundTrip(t *testing.T) {
	t.Parallel()

	// hex -> HSL -> hex must land on the same 8-bit color (rounding
	// tolerance of one step per channel).
	colors := []string{"#1e3a8a", "#dc2626", "#16a34a", "#f59e0b", "#6b7280", "#0ea5e9", "#ffffff", "#000000"}
	for _, c := range colors {
		h, s, l, err := HexToHSL(c)
		if err != nil {
			t.Fatalf("HexToHSL(%q): %v", c, err)
		}
		got := HSLToHex(h, s, l)

		r1, g1, b1, _ := HexToRGB(c)
		r2, g2, b2, _ := HexToRGB(got)
		if absDiff(r1, r2) > 1 || absDiff(g1, g2) > 1 || absDiff(b1, b2) > 1 {
			t.Errorf("round trip %q -> (%.2f,%.2f,%.2f) -> %q drifted more than one step", c, h, s, l, got)
		}
	}
}

func TestDarkenHex(t *testing.T) {
	t.Parallel()

	// zero percent is the identity, casing included
	for _, in := range []string{"#1e3a8a", "#1E3A8A", "DC2626"} {
		got, err := DarkenHex(in, 0)
		if err != nil {
			t.Fatalf("DarkenHex(%q, 0): %v", in, err)
		}
		if got != in {
			t.Errorf("DarkenHex(%q, 0) = %q, want the input unchanged", in, got)
		}
	}

	// 100 percent is black
	got, _ := DarkenHex("#ffffff", 100)
	if got != "#000000" {
		t.Errorf("DarkenHex(white, 100) = %q, want #000000", got)
	}

	// 50 percent halves each channel
	got, _ = DarkenHex("#ff8000", 50)
	if got != "#804000" {
		t.Errorf("DarkenHex(#ff8000, 50) = %q, want #804000", got)
	}

	if _, err := DarkenHex("nope", 10); err == nil {
		t.Error("DarkenHex with invalid input: expected error")
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
