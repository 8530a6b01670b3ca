package fx

import (
	"image/color"
	"math"
)

// HSVToRGB converts HSV to RGB (hue: 0-360, saturation: 0-1, value: 0-1)
func HSVToRGB(h, s, v float64) (uint8, uint8, uint8) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	r, g, b := sector(h, c, x)
	return to8(r + m), to8(g + m), to8(b + m)
}

// HSLToRGB converts HSL to RGB (hue: 0-360, saturation: 0-1, lightness: 0-1)
func HSLToRGB(h, s, l float64) (uint8, uint8, uint8) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	s, l = Clamp01(s), Clamp01(l)
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2
	r, g, b := sector(h, c, x)
	return to8(r + m), to8(g + m), to8(b + m)
}

// HSVA is HSVToRGB with an alpha in [0, 1].
func HSVA(h, s, v, a float64) color.NRGBA {
	r, g, b := HSVToRGB(h, s, v)
	return color.NRGBA{R: r, G: g, B: b, A: to8(a)}
}

// HSLA returns a non-premultiplied colour like CSS hsla().
func HSLA(h, s, l, a float64) color.NRGBA {
	r, g, b := HSLToRGB(h, s, l)
	return color.NRGBA{R: r, G: g, B: b, A: to8(a)}
}

func sector(h, c, x float64) (float64, float64, float64) {
	switch {
	case h < 60:
		return c, x, 0
	case h < 120:
		return x, c, 0
	case h < 180:
		return 0, c, x
	case h < 240:
		return 0, x, c
	case h < 300:
		return x, 0, c
	default:
		return c, 0, x
	}
}

func to8(v float64) uint8 {
	return uint8(math.Round(Clamp01(v) * 255))
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Glow describes the radial gradient disc drawn for a particle. The gradient
// runs to twice the disc radius, so only its inner half is visible.
type Glow struct {
	Inner  color.NRGBA // centre
	Rim    color.NRGBA // disc edge, halfway along the gradient
	Radius float64
}

// GlowOf returns the gradient for p at its current alpha: 85% saturation,
// lightness 65% at the centre falling towards 45% at six times the size,
// clipped to a disc of three times the size.
func GlowOf(p Particle) Glow {
	a := 0.9 * Clamp01(p.Alpha)
	return Glow{
		Inner:  HSLA(p.Hue, 0.85, 0.65, a),
		Rim:    HSLA(p.Hue, 0.85, 0.55, a/2),
		Radius: p.Size * 3,
	}
}
