package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/iburimskiy/portfolio/internal/config"
	"github.com/iburimskiy/portfolio/internal/fx"
	"github.com/iburimskiy/portfolio/internal/page"
	"github.com/iburimskiy/portfolio/internal/stage"
)

var (
	colorBackground = color.RGBA{R: 8, G: 12, B: 20, A: 255}
	colorCard       = color.RGBA{R: 245, G: 245, B: 245, A: 255}
	colorInk        = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	colorText       = color.RGBA{R: 220, G: 228, B: 236, A: 255}
	colorMuted      = color.RGBA{R: 130, G: 142, B: 158, A: 255}
	colorAccent     = color.RGBA{R: 45, G: 212, B: 191, A: 255}
	colorBadge      = color.RGBA{R: 74, G: 222, B: 128, A: 255}
	colorHeader     = color.RGBA{R: 8, G: 12, B: 20, A: 220}
	colorTrack      = color.RGBA{R: 40, G: 52, B: 68, A: 255}
)

// section background hues, one per section
var sectionHues = map[stage.SectionID]float64{
	stage.Hero:     180,
	stage.About:    200,
	stage.Projects: 170,
	stage.Contact:  190,
}

func fade(c color.RGBA, a float64) color.RGBA {
	a = fx.Clamp01(a)
	return color.RGBA{R: uint8(float64(c.R) * a), G: uint8(float64(c.G) * a), B: uint8(float64(c.B) * a), A: uint8(float64(c.A) * a)}
}

// drawCard draws the unstyled card shown before the page transforms.
func (g *Game) drawCard(screen *ebiten.Image, alpha float64) {
	if alpha <= 0 {
		return
	}
	c := g.scene.Content()
	w, h := float64(g.width), float64(g.height)
	cw, ch := math.Min(420, w-32), 150.0
	x := (w - cw) / 2
	y := (h-ch)/2 - g.scene.Document().ScrollY()

	vector.DrawFilledRect(screen, float32(x), float32(y), float32(cw), float32(ch), fade(colorCard, alpha), false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(cw), float32(ch), 1, fade(colorMuted, alpha), false)

	g.labels.draw(screen, c.Name, x+24, y+24, fade(colorInk, alpha))
	g.labels.draw(screen, c.Headline, x+24, y+48, fade(colorInk, alpha*0.7))
	g.labels.draw(screen, "Click, scroll or press a key.", x+24, y+88, fade(colorInk, alpha*0.7))
	if g.scene.ShowHint() {
		g.labels.draw(screen, "Scroll to continue...", x+24, y+112, fade(colorInk, alpha*0.5))
	}
}

// drawCurtains slides two panels apart as the intro progresses.
func (g *Game) drawCurtains(screen *ebiten.Image, progress float64) {
	if progress >= 1 {
		return
	}
	w, h := float32(g.width), float32(g.height)
	off := float32(progress) * w / 2
	clr := fade(colorBackground, 1-progress)
	vector.DrawFilledRect(screen, -off, 0, w/2, h, clr, false)
	vector.DrawFilledRect(screen, w/2+off, 0, w/2, h, clr, false)
}

func (g *Game) drawSections(screen *ebiten.Image, alpha float64) {
	doc := g.scene.Document()
	comp := g.scene.Composition()
	h := float64(g.height)

	for _, id := range stage.Sections {
		r, ok := doc.SectionRect(id)
		if !ok || r.Bottom < 0 || r.Top > h {
			continue
		}
		g.drawShapes(screen, id, r, alpha)
		for _, l := range comp.Lines[id] {
			y := r.Top + l.Y
			if y < -glyphH || y > h {
				continue
			}
			g.drawLine(screen, l, id, y, alpha)
		}
	}
}

// drawShapes paints the two parallax blobs behind a section.
func (g *Game) drawShapes(screen *ebiten.Image, id stage.SectionID, r stage.Rect, alpha float64) {
	p := g.scene.Parallax(id)
	dx, dy := p.Offset()
	w := float64(g.width)
	hue := sectionHues[id]
	shapes := []struct {
		x, y, radius, weight float64
	}{
		{x: w * 0.78, y: r.Top + r.Height()*0.3, radius: 140, weight: 1},
		{x: w * 0.15, y: r.Top + r.Height()*0.75, radius: 90, weight: -0.6},
	}
	for _, s := range shapes {
		clr := fx.HSVA(hue, 0.82, 0.6, p.Opacity()*0.35*alpha)
		vector.DrawFilledCircle(screen, float32(s.x+dx*s.weight), float32(s.y+dy*s.weight), float32(s.radius*p.Scale()), clr, true)
	}
}

func (g *Game) drawLine(screen *ebiten.Image, l page.Line, id stage.SectionID, y, alpha float64) {
	switch l.Kind {
	case page.LineHeading:
		g.labels.draw(screen, l.Text, l.X, y, fade(colorAccent, alpha))
		vector.DrawFilledRect(screen, float32(l.X), float32(y+glyphH-2), float32(textWidth(l.Text)), 1, fade(colorAccent, alpha*0.6), false)
	case page.LineTitle:
		g.labels.draw(screen, l.Text, l.X, y, fade(colorText, alpha))
	case page.LineMuted:
		g.labels.draw(screen, l.Text, l.X, y, fade(colorMuted, alpha))
	case page.LineAccent:
		g.labels.draw(screen, l.Text, l.X, y, fade(colorAccent, alpha*0.8))
	case page.LineBadge:
		g.labels.draw(screen, l.Text, l.X, y, fade(colorBadge, alpha))
	case page.LineRole:
		g.labels.draw(screen, g.scene.RoleText()+caret(g.tick), l.X, y, fade(colorAccent, alpha))
	case page.LineTech:
		g.labels.draw(screen, "> "+g.scene.TechText(), l.X, y, fade(colorMuted, alpha))
	case page.LineSkill:
		g.labels.draw(screen, l.Text, l.X, y, fade(colorText, alpha))
		bx := float32(l.X + 28*glyphW)
		by := float32(y + glyphH/2 - 2)
		vector.DrawFilledRect(screen, bx, by, 240, 4, fade(colorTrack, alpha), false)
		vector.DrawFilledRect(screen, bx, by, 240*float32(fx.Clamp01(float64(l.Level)/100)), 4, fade(colorAccent, alpha), false)
	case page.LineLink:
		g.drawLink(screen, l.Text, id, l.X, y, alpha)
	default:
		g.labels.draw(screen, l.Text, l.X, y, fade(colorText, alpha))
	}
}

func (g *Game) drawLink(screen *ebiten.Image, label string, id stage.SectionID, x, y, alpha float64) {
	clr := colorText
	hover, over := g.scene.Hover()
	hovered := over && !hover.Fixed && hover.Section == id && hover.Label == label
	if hovered || stage.SectionID(g.linkTarget(id, label)) == g.scene.Controller().CurrentID() {
		clr = colorAccent
	}
	g.labels.draw(screen, label, x, y, fade(clr, alpha))
	if hovered {
		vector.DrawFilledRect(screen, float32(x), float32(y+glyphH-2), float32(textWidth(label)), 1, fade(colorAccent, alpha), false)
	}
}

// linkTarget finds the navigation target of an in-flow link, or "".
func (g *Game) linkTarget(id stage.SectionID, label string) string {
	for _, l := range g.scene.Composition().Links {
		if l.Section == id && l.Label == label && l.Kind == page.LinkNav {
			return l.Target
		}
	}
	return ""
}

// drawHeader draws the fixed navigation bar with the current section highlighted.
func (g *Game) drawHeader(screen *ebiten.Image, alpha float64) {
	w := float32(g.width)
	vector.DrawFilledRect(screen, 0, 0, w, config.HeaderHeight, fade(colorHeader, alpha), false)
	vector.DrawFilledRect(screen, 0, config.HeaderHeight-1, w, 1, fade(colorTrack, alpha), false)

	current := g.scene.Controller().CurrentID()
	hover, over := g.scene.Hover()
	for i, l := range g.scene.Composition().Header {
		clr := colorText
		active := i > 0 && stage.SectionID(l.Target) == current
		if active || (over && hover.Fixed && hover.Target == l.Target && hover.Label == l.Label) {
			clr = colorAccent
		}
		g.labels.draw(screen, l.Label, l.X, l.Y, fade(clr, alpha))
		if active {
			vector.DrawFilledRect(screen, float32(l.X), float32(l.Y+l.H+4), float32(l.W), 2, fade(colorAccent, alpha), false)
		}
	}
	g.drawMeter(screen, alpha)
}

// drawMeter shows the chime level next to the brand, or the mute state.
func (g *Game) drawMeter(screen *ebiten.Image, alpha float64) {
	if g.player == nil || !g.player.Enabled() {
		return
	}
	brand := g.scene.Composition().Header[0]
	x := brand.X + brand.W + 16
	if g.player.Muted() {
		g.labels.draw(screen, "muted", x, brand.Y, fade(colorMuted, alpha))
		return
	}
	level := g.player.Level()
	for i := 0; i < 4; i++ {
		bh := 3 + 9*fx.Clamp01(level*4-float64(i))
		vector.DrawFilledRect(screen, float32(x)+float32(i)*5, float32(brand.Y+glyphH-bh), 3, float32(bh), fade(colorAccent, alpha*0.8), false)
	}
}

// drawCursor replaces the hidden system cursor once the page is interactive.
func (g *Game) drawCursor(screen *ebiten.Image) {
	if !g.pointerIn || g.scene.Controller().CursorMode() != stage.CursorHidden {
		return
	}
	x, y := float32(g.pointerX), float32(g.pointerY)
	if g.scene.Controller().LinkHover().Active {
		vector.StrokeCircle(screen, x, y, 14, 1.5, colorAccent, true)
		vector.DrawFilledCircle(screen, x, y, 3, colorAccent, true)
		return
	}
	vector.DrawFilledCircle(screen, x, y, 4, colorText, true)
}

func caret(tick int) string {
	if tick/30%2 == 0 {
		return "|"
	}
	return ""
}
