package tri

import (
	"image/color"

	"github.com/gogpu/tri/geom"
)

// Color is a straight-alpha color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// RGB creates an opaque color.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA creates a color from components.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// FromColor converts a standard color.Color.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{
		R: float32(n.R) / 255,
		G: float32(n.G) / 255,
		B: float32(n.B) / 255,
		A: float32(n.A) / 255,
	}
}

// Hex creates a color from a hex string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with or without
// a leading '#'. Malformed input yields opaque black.
func Hex(hex string) Color {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint32
	a = 255

	switch len(hex) {
	case 3:
		r, g, b = parseHex(hex[0:1])*17, parseHex(hex[1:2])*17, parseHex(hex[2:3])*17
	case 4:
		r, g, b = parseHex(hex[0:1])*17, parseHex(hex[1:2])*17, parseHex(hex[2:3])*17
		a = parseHex(hex[3:4]) * 17
	case 6:
		r, g, b = parseHex(hex[0:2]), parseHex(hex[2:4]), parseHex(hex[4:6])
	case 8:
		r, g, b, a = parseHex(hex[0:2]), parseHex(hex[2:4]), parseHex(hex[4:6]), parseHex(hex[6:8])
	default:
		return Black
	}
	return Color{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
		A: float32(a) / 255,
	}
}

func parseHex(s string) uint32 {
	var v uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		v *= 16
		switch {
		case '0' <= c && c <= '9':
			v += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			v += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			v += uint32(c - 'A' + 10)
		default:
			return 0
		}
	}
	return v
}

// Lerp interpolates between c and other.
func (c Color) Lerp(other Color, t float32) Color {
	return Color{
		R: geom.Lerp(c.R, other.R, t),
		G: geom.Lerp(c.G, other.G, t),
		B: geom.Lerp(c.B, other.B, t),
		A: geom.Lerp(c.A, other.A, t),
	}
}

// WithAlpha returns c with alpha a.
func (c Color) WithAlpha(a float32) Color {
	c.A = a
	return c
}

// Opaque reports whether c is fully opaque.
func (c Color) Opaque() bool { return c.A >= 1 }

func (c Color) vec() [4]float32 {
	return [4]float32{c.R, c.G, c.B, geom.Clamp01(c.A)}
}

// Common colors.
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 1, 0)
	Blue        = RGB(0, 0, 1)
	Yellow      = RGB(1, 1, 0)
	Transparent = RGBA(0, 0, 0, 0)
)
