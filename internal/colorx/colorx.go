// Package colorx holds the color transforms behind theme derivation.
// Every function is pure; callers format and cache as they like.
package colorx

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// HexToRGB parses "#rrggbb", "rrggbb" or the short "#rgb" form.
func HexToRGB(hex string) (r, g, b uint8, err error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("colorx: invalid hex color %q", hex)
	}
	v, perr := strconv.ParseUint(s, 16, 32)
	if perr != nil {
		return 0, 0, 0, fmt.Errorf("colorx: invalid hex color %q", hex)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

// RGBToHex formats to the normalized lowercase "#rrggbb" form.
func RGBToHex(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// HexToHSL returns hue in [0,360), saturation and lightness in [0,100].
func HexToHSL(hex string) (h, s, l float64, err error) {
	ri, gi, bi, err := HexToRGB(hex)
	if err != nil {
		return 0, 0, 0, err
	}
	r := float64(ri) / 255
	g := float64(gi) / 255
	b := float64(bi) / 255

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l = (max + min) / 2

	if max == min {
		// achromatic
		return 0, 0, l * 100, nil
	}

	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}

	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h *= 60

	return h, s * 100, l * 100, nil
}

// HSLToHex is the inverse of HexToHSL, within 8-bit rounding.
func HSLToHex(h, s, l float64) string {
	h = math.Mod(math.Mod(h, 360)+360, 360) / 360
	s /= 100
	l /= 100

	if s == 0 {
		v := round255(l)
		return RGBToHex(v, v, v)
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	r := hueToRGB(p, q, h+1.0/3)
	g := hueToRGB(p, q, h)
	b := hueToRGB(p, q, h-1.0/3)
	return RGBToHex(round255(r), round255(g), round255(b))
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

func round255(v float64) uint8 {
	n := math.Round(v * 255)
	if n < 0 {
		n = 0
	}
	if n > 255 {
		n = 255
	}
	return uint8(n)
}

// DarkenHex scales each channel down by pct percent. DarkenHex(c, 0)
// returns c exactly as given, casing included.
func DarkenHex(hex string, pct float64) (string, error) {
	r, g, b, err := HexToRGB(hex)
	if err != nil {
		return "", err
	}
	if pct <= 0 {
		return hex, nil
	}
	if pct > 100 {
		pct = 100
	}
	f := 1 - pct/100
	scale := func(c uint8) uint8 {
		return uint8(math.Round(float64(c) * f))
	}
	return RGBToHex(scale(r), scale(g), scale(b)), nil
}
