package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/iburimskiy/portfolio/internal/fx"
	"github.com/iburimskiy/portfolio/internal/page"
	"github.com/iburimskiy/portfolio/internal/stage"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

const skillBarWidth = 20

var (
	styleText    = tcell.StyleDefault.Foreground(tcell.NewRGBColor(220, 228, 236))
	styleMuted   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(130, 142, 158))
	styleAccent  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(45, 212, 191))
	styleBadge   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(74, 222, 128))
	styleHeading = styleAccent.Bold(true)
	styleCard    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.NewRGBColor(245, 245, 245))
)

// hueColor converts an HSL hue to a terminal colour.
func hueColor(h, s, l float64) tcell.Color {
	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// putText writes s from (x, y) and returns the column after it.
func (a *App) putText(x, y int, s string, style tcell.Style) int {
	if y < 0 || y >= a.height {
		return x
	}
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x >= 0 && x+w <= a.width {
			a.screen.SetContent(x, y, r, nil, style)
		}
		x += w
	}
	return x
}

func (a *App) draw() {
	a.screen.Clear()
	ctrl := a.scene.Controller()

	if !ctrl.Transformed() {
		a.drawCard()
		return
	}
	a.drawSections()
	a.drawParticles()
	a.drawHeader()
	a.drawCurtains(a.scene.Curtain())
	a.drawPointer()

	if status := a.scene.Status(); status != "" {
		a.putText(1, a.height-1, status, styleBadge)
	}
}

func (a *App) drawCard() {
	c := a.scene.Content()
	lines := []string{c.Name, c.Headline, "", "Click, scroll or press a key."}
	if a.scene.ShowHint() {
		lines = append(lines, "Scroll to continue...")
	}

	cw := 0
	for _, l := range lines {
		cw = max(cw, runewidth.StringWidth(l))
	}
	cw += 4
	x := (a.width - cw) / 2
	y := (a.height-len(lines)-2)/2 - int(math.Round(a.scene.Document().ScrollY()))

	for row := 0; row < len(lines)+2; row++ {
		a.putText(x, y+row, strings.Repeat(" ", cw), styleCard)
	}
	for i, l := range lines {
		a.putText(x+2, y+1+i, l, styleCard)
	}
}

func (a *App) drawSections() {
	doc := a.scene.Document()
	comp := a.scene.Composition()
	header := int(comp.Metrics.HeaderH)

	for _, id := range stage.Sections {
		r, ok := doc.SectionRect(id)
		if !ok || r.Bottom < 0 || r.Top > float64(a.height) {
			continue
		}
		for _, l := range comp.Lines[id] {
			y := int(math.Round(r.Top + l.Y))
			if y < header || y >= a.height {
				continue
			}
			a.drawLine(l, id, int(l.X), y)
		}
	}
}

func (a *App) drawLine(l page.Line, id stage.SectionID, x, y int) {
	switch l.Kind {
	case page.LineHeading:
		a.putText(x, y, l.Text, styleHeading)
	case page.LineTitle:
		a.putText(x, y, l.Text, styleText.Bold(true))
	case page.LineMuted:
		a.putText(x, y, l.Text, styleMuted)
	case page.LineAccent:
		a.putText(x, y, l.Text, styleAccent)
	case page.LineBadge:
		a.putText(x, y, l.Text, styleBadge)
	case page.LineRole:
		caret := ""
		if a.tick/30%2 == 0 {
			caret = "▌"
		}
		a.putText(x, y, a.scene.RoleText()+caret, styleAccent)
	case page.LineTech:
		a.putText(x, y, "> "+a.scene.TechText(), styleMuted)
	case page.LineSkill:
		filled := int(math.Round(float64(skillBarWidth) * fx.Clamp01(float64(l.Level)/100)))
		end := a.putText(x, y, fmt.Sprintf("%-24s", l.Text), styleText)
		end = a.putText(end, y, strings.Repeat("█", filled), styleAccent)
		a.putText(end, y, strings.Repeat("░", skillBarWidth-filled), styleMuted)
	case page.LineLink:
		style := styleText.Underline(true)
		hover, over := a.scene.Hover()
		if over && !hover.Fixed && hover.Section == id && hover.Label == l.Text {
			style = styleAccent.Underline(true)
		}
		a.putText(x, y, l.Text, style)
	default:
		a.putText(x, y, l.Text, styleText)
	}
}

func (a *App) drawParticles() {
	field := a.scene.Field()
	if field == nil {
		return
	}
	field.Each(func(p fx.Particle) {
		if p.Alpha < 0.05 {
			return
		}
		x, y := int(p.X), int(p.Y)
		if x < 0 || y < 0 || x >= a.width || y >= a.height {
			return
		}
		glyph := '·'
		if p.Alpha > 0.5 {
			glyph = '•'
		}
		a.screen.SetContent(x, y, glyph, nil, tcell.StyleDefault.Foreground(hueColor(p.Hue, 0.85, 0.35+0.3*p.Alpha)))
	})
}

func (a *App) drawHeader() {
	comp := a.scene.Composition()
	current := a.scene.Controller().CurrentID()
	hover, over := a.scene.Hover()
	for i, l := range comp.Header {
		style := styleText
		switch {
		case i == 0:
			style = styleHeading
		case stage.SectionID(l.Target) == current:
			style = styleAccent.Underline(true)
		}
		if over && hover.Fixed && hover.Label == l.Label {
			style = style.Reverse(true)
		}
		a.putText(int(l.X), int(l.Y), l.Label, style)
	}
	a.putText(0, int(comp.Metrics.HeaderH)-1, strings.Repeat("─", a.width), styleMuted)
}

// drawCurtains blanks the columns the intro curtains still cover.
func (a *App) drawCurtains(progress float64) {
	if progress >= 1 {
		return
	}
	cover := int(math.Round(float64(a.width) / 2 * (1 - progress)))
	for y := 0; y < a.height; y++ {
		for x := 0; x < cover; x++ {
			a.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
			a.screen.SetContent(a.width-1-x, y, ' ', nil, tcell.StyleDefault)
		}
	}
}

func (a *App) drawPointer() {
	hover := a.scene.Controller().LinkHover()
	if !hover.Active {
		return
	}
	r, comb, style, _ := a.screen.GetContent(hover.X, hover.Y)
	a.screen.SetContent(hover.X, hover.Y, r, comb, style.Reverse(true))
}
