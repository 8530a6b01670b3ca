package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/iburimskiy/portfolio/internal/config"
	"github.com/iburimskiy/portfolio/internal/fx"
)

const spriteSize = 64

// canvas is the offscreen particle layer. It is allocated at device
// resolution and faded a little every frame so particles leave streaks.
type canvas struct {
	img    *ebiten.Image
	pw, ph int
	dpr    float64

	fade *ebiten.Image
	// centre and rim weights of the glow; drawn additively they blend the
	// two colours linearly across the disc
	centre *ebiten.Image
	rim    *ebiten.Image
}

func newCanvas() *canvas {
	fade := ebiten.NewImage(1, 1)
	fade.Fill(color.White)
	return &canvas{
		fade:   fade,
		centre: glowSprite(spriteSize, func(d float64) float64 { return 1 - d }),
		rim:    glowSprite(spriteSize, func(d float64) float64 { return d }),
	}
}

// glowSprite is a white disc whose alpha is weight(d) at distance d in [0,1]
// from the centre, and zero outside the disc.
func glowSprite(size int, weight func(d float64) float64) *ebiten.Image {
	pix := make([]byte, size*size*4)
	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)+0.5-r, float64(y)+0.5-r) / r
			a := byte(0)
			if d <= 1 {
				a = byte(math.Round(255 * fx.Clamp01(weight(d))))
			}
			i := (y*size + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = a, a, a, a
		}
	}
	img := ebiten.NewImage(size, size)
	img.WritePixels(pix)
	return img
}

func devicePixelRatio() float64 {
	s := 1.0
	if m := ebiten.Monitor(); m != nil {
		s = m.DeviceScaleFactor()
	}
	return math.Max(1, math.Min(config.MaxDevicePixelRatio, s))
}

// resize reallocates the backing image for a w x h viewport.
func (c *canvas) resize(w, h int, dpr float64) {
	pw, ph := int(math.Ceil(float64(w)*dpr)), int(math.Ceil(float64(h)*dpr))
	if c.img != nil && pw == c.pw && ph == c.ph {
		return
	}
	if c.img != nil {
		c.img.Deallocate()
	}
	c.pw, c.ph, c.dpr = max(1, pw), max(1, ph), dpr
	c.img = ebiten.NewImage(c.pw, c.ph)
}

// render fades the previous frame and adds the live particles.
func (c *canvas) render(field *fx.Field) {
	if c.img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{Blend: ebiten.BlendDestinationOut}
	op.GeoM.Scale(float64(c.pw), float64(c.ph))
	op.ColorScale.ScaleAlpha(config.CanvasFadeAlpha)
	c.img.DrawImage(c.fade, op)

	if field == nil {
		return
	}
	field.Each(func(p fx.Particle) {
		glow := fx.GlowOf(p)
		if glow.Inner.A == 0 || glow.Radius <= 0 {
			return
		}
		c.stamp(c.centre, p, glow.Radius, glow.Inner)
		c.stamp(c.rim, p, glow.Radius, glow.Rim)
	})
}

func (c *canvas) stamp(sprite *ebiten.Image, p fx.Particle, radius float64, clr color.Color) {
	scale := radius * 2 / spriteSize * c.dpr
	op := &ebiten.DrawImageOptions{Blend: ebiten.BlendLighter}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate((p.X-radius)*c.dpr, (p.Y-radius)*c.dpr)
	op.ColorScale.ScaleWithColor(clr)
	op.Filter = ebiten.FilterLinear
	c.img.DrawImage(sprite, op)
}

// draw composites the layer onto the logical screen.
func (c *canvas) draw(screen *ebiten.Image) {
	if c.img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(1/c.dpr, 1/c.dpr)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(c.img, op)
}

func (c *canvas) clear() {
	if c.img != nil {
		c.img.Clear()
	}
}

func (c *canvas) dispose() {
	if c.img != nil {
		c.img.Deallocate()
		c.img = nil
	}
	c.fade.Deallocate()
	c.centre.Deallocate()
	c.rim.Deallocate()
}
