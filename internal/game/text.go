package game

import (
	"image/color"
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	glyphW = 6
	glyphH = 16

	maxLabels = 256
)

// The debug font only has ASCII glyphs.
var asciiReplacer = strings.NewReplacer("●", "*", "©", "(c)", "·", "-", "—", "-", "’", "'")

// labels caches one white text image per string so text can be tinted
// with a colour scale.
type labels struct {
	cache map[string]*ebiten.Image
}

func newLabels() *labels {
	return &labels{cache: make(map[string]*ebiten.Image)}
}

func (l *labels) get(s string) *ebiten.Image {
	if img, ok := l.cache[s]; ok {
		return img
	}
	if len(l.cache) >= maxLabels {
		l.reset()
	}
	img := ebiten.NewImage(max(1, utf8.RuneCountInString(s)*glyphW), glyphH)
	ebitenutil.DebugPrint(img, s)
	l.cache[s] = img
	return img
}

func (l *labels) reset() {
	for k, img := range l.cache {
		img.Deallocate()
		delete(l.cache, k)
	}
}

// draw prints s at (x, y) tinted with clr.
func (l *labels) draw(dst *ebiten.Image, s string, x, y float64, clr color.Color) {
	s = asciiReplacer.Replace(s)
	if s == "" {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	dst.DrawImage(l.get(s), op)
}

func textWidth(s string) float64 {
	return float64(utf8.RuneCountInString(asciiReplacer.Replace(s)) * glyphW)
}
