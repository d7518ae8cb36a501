package entity

import (
	"image/color"
	"math"
)

// Color is an HSV color with every channel in [0, 1].
type Color struct {
	H, S, V float64
}

// FromRGB converts 8-bit RGB to HSV.
func FromRGB(r, g, b uint8) Color {
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255
	hi := math.Max(rf, math.Max(gf, bf))
	lo := math.Min(rf, math.Min(gf, bf))
	d := hi - lo

	c := Color{V: hi}
	if hi > 0 {
		c.S = d / hi
	}
	if d == 0 {
		return c
	}
	switch hi {
	case rf:
		c.H = (gf - bf) / d
	case gf:
		c.H = 2 + (bf-rf)/d
	default:
		c.H = 4 + (rf-gf)/d
	}
	c.H = wrapUnit(c.H / 6)
	return c
}

// ShiftHue returns c with delta added to the hue, wrapped into [0, 1).
func (c Color) ShiftHue(delta float64) Color {
	c.H = wrapUnit(c.H + delta)
	return c
}

// WithSaturation returns c with saturation s.
func (c Color) WithSaturation(s float64) Color {
	c.S = s
	return c
}

// RGBA converts to an opaque 8-bit color.
func (c Color) RGBA() color.RGBA {
	h := wrapUnit(c.H) * 360
	ch := c.V * c.S
	x := ch * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := c.V - ch

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = ch, x, 0
	case h < 120:
		r, g, b = x, ch, 0
	case h < 180:
		r, g, b = 0, ch, x
	case h < 240:
		r, g, b = 0, x, ch
	case h < 300:
		r, g, b = x, 0, ch
	default:
		r, g, b = ch, 0, x
	}
	return color.RGBA{R: to8(r + m), G: to8(g + m), B: to8(b + m), A: 255}
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Min(1, math.Max(0, v)) * 255))
}

func wrapUnit(v float64) float64 {
	v -= math.Floor(v)
	if v >= 1 {
		v = 0
	}
	return v
}
