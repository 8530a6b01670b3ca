// Package page is the geometry model of the portfolio: sections stacked in
// document order, the scroll position and its smooth-scroll animation, and
// the clickable link regions. It answers the layout questions the stage
// controller asks and performs the scrolls it requests.
package page

import (
	"math"
	"time"

	"github.com/iburimskiy/portfolio/internal/config"
	"github.com/iburimskiy/portfolio/internal/stage"
)

type scrollAnim struct {
	from, to float64
	start    time.Time
	dur      time.Duration
}

// Document implements stage.Layout and stage.Scroller.
type Document struct {
	clock  stage.Clock
	smooth time.Duration

	viewW, viewH float64
	content      map[stage.SectionID]float64
	hidden       map[stage.SectionID]bool

	scrollY float64
	anim    *scrollAnim
}

// NewDocument creates a document for a viewport of w x h pixels.
func NewDocument(clock stage.Clock, w, h float64, smooth time.Duration) *Document {
	if clock == nil {
		clock = stage.SystemClock{}
	}
	if smooth <= 0 {
		smooth = config.SmoothScrollDuration
	}
	return &Document{
		clock:   clock,
		smooth:  smooth,
		viewW:   w,
		viewH:   h,
		content: make(map[stage.SectionID]float64),
		hidden:  make(map[stage.SectionID]bool),
	}
}

// Resize changes the viewport and keeps the scroll position in range.
func (d *Document) Resize(w, h float64) {
	d.viewW, d.viewH = w, h
	d.scrollY = d.clamp(d.scrollY)
}

// SetContentHeight records how tall a section's content is. Sections are at
// least one viewport tall.
func (d *Document) SetContentHeight(id stage.SectionID, h float64) {
	d.content[id] = h
}

// SetPresent shows or removes a section from the document.
func (d *Document) SetPresent(id stage.SectionID, present bool) {
	d.hidden[id] = !present
	d.scrollY = d.clamp(d.scrollY)
}

// Present reports whether the section is rendered.
func (d *Document) Present(id stage.SectionID) bool {
	return stage.IndexOf(id) >= 0 && !d.hidden[id]
}

// SectionHeight is the rendered height of a present section.
func (d *Document) SectionHeight(id stage.SectionID) float64 {
	if !d.Present(id) {
		return 0
	}
	return math.Max(d.viewH, d.content[id])
}

// SectionTop is the section's offset from the document top.
func (d *Document) SectionTop(id stage.SectionID) (float64, bool) {
	if !d.Present(id) {
		return 0, false
	}
	y := 0.0
	for _, s := range stage.Sections {
		if s == id {
			return y, true
		}
		y += d.SectionHeight(s)
	}
	return 0, false
}

// Height is the total document height.
func (d *Document) Height() float64 {
	total := 0.0
	for _, s := range stage.Sections {
		total += d.SectionHeight(s)
	}
	return total
}

// MaxScroll is the largest valid scroll offset.
func (d *Document) MaxScroll() float64 {
	return math.Max(0, d.Height()-d.viewH)
}

func (d *Document) clamp(y float64) float64 {
	return math.Max(0, math.Min(d.MaxScroll(), y))
}

// SectionRect implements stage.Layout.
func (d *Document) SectionRect(id stage.SectionID) (stage.Rect, bool) {
	top, ok := d.SectionTop(id)
	if !ok {
		return stage.Rect{}, false
	}
	top -= d.scrollY
	return stage.Rect{Top: top, Bottom: top + d.SectionHeight(id)}, true
}

// Viewport implements stage.Layout.
func (d *Document) Viewport() (float64, float64) {
	return d.viewW, d.viewH
}

// ScrollY implements stage.Scroller.
func (d *Document) ScrollY() float64 { return d.scrollY }

// ScrollTo implements stage.Scroller. It cancels a running smooth scroll.
func (d *Document) ScrollTo(y float64) {
	d.anim = nil
	d.scrollY = d.clamp(y)
}

// ScrollBy applies a default (non-snapping) scroll of dy pixels.
func (d *Document) ScrollBy(dy float64) {
	d.ScrollTo(d.scrollY + dy)
}

// ScrollIntoView implements stage.Scroller by animating the section top to the viewport top.
func (d *Document) ScrollIntoView(id stage.SectionID) bool {
	top, ok := d.SectionTop(id)
	if !ok {
		return false
	}
	d.anim = &scrollAnim{
		from:  d.scrollY,
		to:    d.clamp(top),
		start: d.clock.Now(),
		dur:   d.smooth,
	}
	return true
}

// Animating reports whether a smooth scroll is in flight.
func (d *Document) Animating() bool { return d.anim != nil }

// Tick advances the smooth scroll to the clock's current time.
func (d *Document) Tick() {
	if d.anim == nil {
		return
	}
	t := float64(d.clock.Now().Sub(d.anim.start)) / float64(d.anim.dur)
	if t >= 1 {
		d.scrollY = d.anim.to
		d.anim = nil
		return
	}
	d.scrollY = d.anim.from + (d.anim.to-d.anim.from)*EaseOutCubic(t)
}

// EaseOutCubic maps linear progress in [0,1] to a decelerating curve.
func EaseOutCubic(t float64) float64 {
	t = math.Max(0, math.Min(1, t))
	u := 1 - t
	return 1 - u*u*u
}
