package page

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/iburimskiy/portfolio/internal/content"
	"github.com/iburimskiy/portfolio/internal/stage"
	"github.com/muesli/reflow/wordwrap"
)

// Metrics describe the text grid a host renders with.
type Metrics struct {
	CharW   float64
	LineH   float64
	Margin  float64
	HeaderH float64
}

var (
	// WindowMetrics matches ebitenutil's debug font.
	WindowMetrics = Metrics{CharW: 6, LineH: 16, Margin: 48, HeaderH: 56}
	// CellMetrics is one terminal cell per glyph.
	CellMetrics = Metrics{CharW: 1, LineH: 1, Margin: 2, HeaderH: 2}
)

// LineKind selects how a host styles a line.
type LineKind int

const (
	LineText LineKind = iota
	LineHeading
	LineTitle
	LineMuted
	LineAccent
	LineBadge
	LineRole  // filled by the role typewriter
	LineTech  // filled by the technology typewriter
	LineSkill // Level holds the percentage
	LineLink
)

// Line is a laid out run of text. Y is relative to the section top.
type Line struct {
	Kind  LineKind
	Text  string
	X, Y  float64
	Level int
}

// LinkKind tells the host what a click on a link does.
type LinkKind int

const (
	// LinkNav scrolls to the section named by Target.
	LinkNav LinkKind = iota
	// LinkCopy copies Target to the clipboard.
	LinkCopy
)

// Link is a clickable region. Fixed links are in viewport coordinates; the
// others are relative to their section top.
type Link struct {
	Kind    LinkKind
	Label   string
	Target  string
	Section stage.SectionID
	Fixed   bool
	X, Y    float64
	W, H    float64
}

func (l Link) contains(x, y float64) bool {
	return x >= l.X && x < l.X+l.W && y >= l.Y && y < l.Y+l.H
}

// Composition is the laid out page for one content and viewport.
type Composition struct {
	Metrics Metrics
	Lines   map[stage.SectionID][]Line
	Heights map[stage.SectionID]float64
	Present map[stage.SectionID]bool
	Links   []Link
	Header  []Link
}

type builder struct {
	m        Metrics
	maxChars int
	lines    []Line
	links    []Link
	section  stage.SectionID
	y        float64
}

func (b *builder) add(kind LineKind, text string) {
	b.addIndented(kind, text, 0)
}

func (b *builder) addIndented(kind LineKind, text string, indent int) {
	limit := max(8, b.maxChars-indent)
	for _, row := range strings.Split(wordwrap.String(text, limit), "\n") {
		b.lines = append(b.lines, Line{Kind: kind, Text: row, X: b.m.Margin + float64(indent)*b.m.CharW, Y: b.y})
		b.y += b.m.LineH
	}
}

func (b *builder) blank() {
	b.y += b.m.LineH
}

func (b *builder) link(kind LinkKind, label, target string, x float64) float64 {
	w := float64(utf8.RuneCountInString(label)) * b.m.CharW
	b.links = append(b.links, Link{
		Kind:    kind,
		Label:   label,
		Target:  target,
		Section: b.section,
		X:       x,
		Y:       b.y,
		W:       w,
		H:       b.m.LineH,
	})
	b.lines = append(b.lines, Line{Kind: LineLink, Text: label, X: x, Y: b.y})
	return x + w
}

// Compose lays out c for a viewport of viewW x viewH.
func Compose(c *content.Content, m Metrics, viewW, viewH float64) *Composition {
	comp := &Composition{
		Metrics: m,
		Lines:   make(map[stage.SectionID][]Line),
		Heights: make(map[stage.SectionID]float64),
		Present: make(map[stage.SectionID]bool),
	}
	maxChars := int((viewW - 2*m.Margin) / m.CharW)

	for _, id := range stage.Sections {
		b := &builder{m: m, maxChars: maxChars, section: id}
		present := true
		switch id {
		case stage.Hero:
			composeHero(b, c)
		case stage.About:
			composeAbout(b, c)
		case stage.Projects:
			present = len(c.Projects) > 0
			composeProjects(b, c)
		case stage.Contact:
			composeContact(b, c)
		}
		comp.Present[id] = present
		if !present {
			continue
		}

		contentH := b.y
		pad := m.HeaderH + m.LineH
		offset := math.Max(pad, math.Floor((viewH-contentH)/2))
		for i := range b.lines {
			b.lines[i].Y += offset
		}
		for i := range b.links {
			b.links[i].Y += offset
		}
		comp.Lines[id] = b.lines
		comp.Links = append(comp.Links, b.links...)
		comp.Heights[id] = math.Max(viewH, offset+contentH+pad)
	}

	comp.Header = composeHeader(m, viewW)
	return comp
}

func composeHero(b *builder, c *content.Content) {
	b.add(LineHeading, c.Name)
	if c.Headline != "" {
		b.add(LineMuted, c.Headline)
	}
	b.add(LineRole, "")
	b.add(LineTech, "")
	b.blank()
	if c.Summary != "" {
		b.add(LineText, c.Summary)
		b.blank()
	}
	if c.Status != "" {
		b.add(LineBadge, "● "+c.Status)
	}
}

func composeAbout(b *builder, c *content.Content) {
	b.add(LineHeading, "About Me")
	b.blank()
	for _, p := range c.About {
		b.add(LineText, p)
		b.blank()
	}
	for _, s := range c.Skills {
		b.lines = append(b.lines, Line{Kind: LineSkill, Text: fmt.Sprintf("%s %d%%", s.Name, s.Level), X: b.m.Margin, Y: b.y, Level: s.Level})
		b.y += b.m.LineH
	}
}

func composeProjects(b *builder, c *content.Content) {
	b.add(LineHeading, "Featured Projects")
	b.blank()
	for _, p := range c.Projects {
		title := p.Title
		if p.Year != "" {
			title += "  " + p.Year
		}
		if p.Status != "" {
			title += "  [" + p.Status + "]"
		}
		b.add(LineTitle, title)
		if p.Description != "" {
			b.addIndented(LineText, p.Description, 2)
		}
		if len(p.Tags) > 0 {
			b.addIndented(LineAccent, "#"+strings.Join(p.Tags, "  #"), 2)
		}
		b.blank()
	}
}

func composeContact(b *builder, c *content.Content) {
	b.add(LineHeading, "Get In Touch")
	b.add(LineMuted, "Click a link to copy it.")
	b.blank()
	for _, ct := range c.Contacts {
		label := ct.Label + ": "
		b.lines = append(b.lines, Line{Kind: LineMuted, Text: label, X: b.m.Margin, Y: b.y})
		b.link(LinkCopy, ct.Value, ct.Value, b.m.Margin+float64(utf8.RuneCountInString(label))*b.m.CharW)
		b.y += b.m.LineH
	}
	b.blank()
	b.blank()

	x := b.m.Margin
	for _, id := range stage.Sections {
		x = b.link(LinkNav, sectionLabel(id), string(id), x) + 3*b.m.CharW
	}
	b.y += b.m.LineH
	b.add(LineMuted, "© "+c.Name)
}

func composeHeader(m Metrics, viewW float64) []Link {
	y := math.Max(0, math.Floor((m.HeaderH-m.LineH)/2))
	links := []Link{{
		Kind:   LinkNav,
		Label:  "Portfolio",
		Target: string(stage.Hero),
		Fixed:  true,
		X:      m.Margin,
		Y:      y,
		W:      9 * m.CharW,
		H:      m.LineH,
	}}

	gap := 4 * m.CharW
	total := 0.0
	for _, id := range stage.Sections[1:] {
		total += float64(len(sectionLabel(id)))*m.CharW + gap
	}
	x := viewW - m.Margin - total + gap
	for _, id := range stage.Sections[1:] {
		w := float64(len(sectionLabel(id))) * m.CharW
		links = append(links, Link{Kind: LinkNav, Label: sectionLabel(id), Target: string(id), Fixed: true, X: x, Y: y, W: w, H: m.LineH})
		x += w + gap
	}
	return links
}

func sectionLabel(id stage.SectionID) string {
	switch id {
	case stage.Hero:
		return "Home"
	case stage.About:
		return "About"
	case stage.Projects:
		return "Projects"
	case stage.Contact:
		return "Contact"
	}
	return string(id)
}

// Apply pushes section heights and presence into the document.
func (c *Composition) Apply(d *Document) {
	for _, id := range stage.Sections {
		d.SetPresent(id, c.Present[id])
		d.SetContentHeight(id, c.Heights[id])
	}
}

// LinkAt finds the link under a viewport point.
func (c *Composition) LinkAt(d *Document, x, y float64) (Link, bool) {
	for _, l := range c.Header {
		if l.contains(x, y) {
			return l, true
		}
	}
	// The header bar hides in-flow links scrolled underneath it.
	if y < c.Metrics.HeaderH {
		return Link{}, false
	}
	for _, l := range c.Links {
		r, ok := d.SectionRect(l.Section)
		if !ok {
			continue
		}
		if l.contains(x, y-r.Top) {
			return l, true
		}
	}
	return Link{}, false
}
