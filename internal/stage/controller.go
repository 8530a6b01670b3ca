// Package stage owns the one-way switch from the initial card to the
// interactive page and tracks which section is current.
//
// All methods are meant to be called from the host's UI goroutine; the
// controller holds no locks and relies on the snap guard for reentrancy.
package stage

import (
	"math"
	"time"

	"github.com/iburimskiy/portfolio/internal/config"
	"github.com/iburimskiy/portfolio/internal/logging"
)

var stageLog = logging.Module("stage")

// SectionID names a page section.
type SectionID string

const (
	Hero     SectionID = "hero"
	About    SectionID = "about"
	Projects SectionID = "projects"
	Contact  SectionID = "contact"
)

// Sections is the fixed page order.
var Sections = []SectionID{Hero, About, Projects, Contact}

// IndexOf returns the position of id in Sections or -1.
func IndexOf(id SectionID) int {
	for i, s := range Sections {
		if s == id {
			return i
		}
	}
	return -1
}

// KeyCode is a host independent key name.
type KeyCode string

const (
	KeyArrowDown KeyCode = "ArrowDown"
	KeyArrowUp   KeyCode = "ArrowUp"
	KeyPageDown  KeyCode = "PageDown"
	KeyPageUp    KeyCode = "PageUp"
	KeySpace     KeyCode = "Space"
	KeyHome      KeyCode = "Home"
	KeyEnd       KeyCode = "End"
)

// Rect is the vertical extent of a section relative to the viewport top.
type Rect struct {
	Top, Bottom float64
}

// Height of the rect.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Layout answers geometry questions about the rendered page.
type Layout interface {
	// SectionRect reports the section's viewport-relative extent, false when it is not rendered.
	SectionRect(id SectionID) (Rect, bool)
	Viewport() (w, h float64)
}

// Scroller moves the page.
type Scroller interface {
	ScrollY() float64
	// ScrollTo jumps without animation.
	ScrollTo(y float64)
	// ScrollIntoView smooth-scrolls the section to the viewport top.
	// It returns false when the section does not exist.
	ScrollIntoView(id SectionID) bool
}

// CursorMode is the pointer presentation the view layer should use.
type CursorMode int

const (
	CursorVisible CursorMode = iota
	CursorHidden
)

// LinkHover drives the custom cursor dot drawn over links.
type LinkHover struct {
	Active bool
	X, Y   int
}

// ChangeKind tags a Change notification.
type ChangeKind int

const (
	Transformed ChangeKind = iota
	SectionChanged
)

// Change is delivered to subscribers after the state moves.
type Change struct {
	Kind     ChangeKind
	From, To int
}

// Option configures a Controller.
type Option func(*Controller)

// WithSnapRelease overrides how long the snap guard is held.
func WithSnapRelease(d time.Duration) Option {
	return func(c *Controller) { c.snapRelease = d }
}

// WithSnapTolerance sets how close, in layout units, a section edge must be
// to the viewport edge before a wheel step snaps past it.
func WithSnapTolerance(units float64) Option {
	return func(c *Controller) { c.snapTolerance = units }
}

// WithTransformThresholds sets the scroll offset and wheel delta, in layout
// units, that transform the page.
func WithTransformThresholds(scroll, wheel float64) Option {
	return func(c *Controller) {
		c.scrollThreshold = scroll
		c.wheelThreshold = wheel
	}
}

// Controller is the page transformation and section navigation state machine.
type Controller struct {
	layout   Layout
	scroller Scroller
	guard    *SnapGuard

	transformed bool
	current     int
	hover       LinkHover
	snapRelease time.Duration

	snapTolerance   float64
	scrollThreshold float64
	wheelThreshold  float64

	listeners []func(Change)
}

// New returns a controller in its initial state and scrolls the page to the top.
func New(layout Layout, scroller Scroller, clock Clock, opts ...Option) *Controller {
	if clock == nil {
		clock = SystemClock{}
	}
	c := &Controller{
		layout:      layout,
		scroller:    scroller,
		guard:       NewSnapGuard(clock),
		snapRelease: config.SnapRelease,

		snapTolerance:   config.SnapEdgeTolerance,
		scrollThreshold: config.TransformScrollThreshold,
		wheelThreshold:  config.TransformWheelThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.scroller.ScrollTo(0)
	return c
}

// Subscribe registers fn for state changes.
func (c *Controller) Subscribe(fn func(Change)) {
	c.listeners = append(c.listeners, fn)
}

// Close releases the snap guard and drops subscribers.
func (c *Controller) Close() {
	c.guard.Release()
	c.listeners = nil
}

func (c *Controller) Transformed() bool { return c.transformed }
func (c *Controller) Current() int { return c.current }
func (c *Controller) CurrentID() SectionID { return Sections[c.current] }
func (c *Controller) Snapping() bool { return c.guard.Held() }
func (c *Controller) Guard() *SnapGuard { return c.guard }
func (c *Controller) LinkHover() LinkHover { return c.hover }

// CursorMode hides the system cursor once the interactive page is showing.
func (c *Controller) CursorMode() CursorMode {
	if c.transformed {
		return CursorHidden
	}
	return CursorVisible
}

// Scroll handles a scroll position change.
func (c *Controller) Scroll() {
	if !c.transformed {
		if c.scroller.ScrollY() > c.scrollThreshold {
			c.transform()
		}
		return
	}
	if c.guard.Held() {
		return
	}
	c.track()
}

// Wheel handles a wheel delta in pixels, positive meaning down. It returns
// true when the host must not apply its default scroll.
func (c *Controller) Wheel(deltaY float64) bool {
	if !c.transformed {
		if math.Abs(deltaY) > c.wheelThreshold {
			c.transform()
			return true
		}
		return false
	}
	if deltaY == 0 || c.guard.Held() {
		return false
	}

	_, h := c.layout.Viewport()
	mid := h * config.SectionActiveRatio

	idx := -1
	var rect Rect
	for i, id := range Sections {
		r, ok := c.layout.SectionRect(id)
		if !ok {
			continue
		}
		if r.Top <= mid && r.Bottom > mid {
			idx, rect = i, r
		}
	}
	if idx < 0 {
		return false
	}

	target := -1
	switch {
	case deltaY > 0 && rect.Bottom <= h+c.snapTolerance && idx < len(Sections)-1:
		target = idx + 1
	case deltaY < 0 && rect.Top >= -c.snapTolerance && idx > 0:
		target = idx - 1
	}
	if target < 0 {
		return false
	}
	if !c.scroller.ScrollIntoView(Sections[target]) {
		return false
	}

	c.guard.Acquire(c.snapRelease)
	c.setCurrent(target)
	stageLog.Debug().Str("section", string(Sections[target])).Float64("delta", deltaY).Msg("wheel snap")
	return true
}

// Key handles a key press and reports whether the default action is suppressed.
func (c *Controller) Key(code KeyCode) bool {
	if !c.transformed {
		switch code {
		case KeyArrowDown, KeyArrowUp, KeyPageDown, KeyPageUp, KeySpace:
			c.transform()
			return true
		}
		return false
	}
	if c.guard.Held() {
		return false
	}

	last := len(Sections) - 1
	next := c.current
	switch code {
	case KeyPageDown:
		next = min(last, c.current+1)
	case KeyPageUp:
		next = max(0, c.current-1)
	case KeyHome:
		next = 0
	case KeyEnd:
		next = last
	default:
		return false
	}

	// Home and End always re-align the page; paging at either end is a no-op.
	if next == c.current && code != KeyHome && code != KeyEnd {
		return true
	}
	if !c.scroller.ScrollIntoView(Sections[next]) {
		return true
	}
	c.guard.Acquire(c.snapRelease)
	c.setCurrent(next)
	stageLog.Debug().Str("section", string(Sections[next])).Str("key", string(code)).Msg("key snap")
	return true
}

// Click handles a primary click anywhere on the page. It returns true when
// the click was consumed by the transformation.
func (c *Controller) Click() bool {
	if c.transformed {
		return false
	}
	c.transform()
	return true
}

// Navigate scrolls to id from a navigation link, ignoring the snap guard.
func (c *Controller) Navigate(id SectionID) bool {
	idx := IndexOf(id)
	if idx < 0 {
		return false
	}
	if !c.scroller.ScrollIntoView(id) {
		return false
	}
	c.setCurrent(idx)
	return true
}

// PointerMove updates the link hover cursor.
func (c *Controller) PointerMove(x, y int, overLink bool) {
	if !c.transformed {
		return
	}
	if overLink {
		c.hover = LinkHover{Active: true, X: x, Y: y}
		return
	}
	c.hover = LinkHover{}
}

// PointerLeave clears the hover cursor when the pointer leaves the window.
func (c *Controller) PointerLeave() {
	c.hover = LinkHover{}
}

func (c *Controller) transform() {
	c.transformed = true
	c.scroller.ScrollTo(0)
	stageLog.Info().Msg("page transformed")
	c.notify(Change{Kind: Transformed})
	c.track()
}

// track sets current to the last section whose top has crossed the viewport midline.
func (c *Controller) track() {
	_, h := c.layout.Viewport()
	mid := h * config.SectionActiveRatio

	idx := 0
	for i, id := range Sections {
		r, ok := c.layout.SectionRect(id)
		if ok && r.Top <= mid {
			idx = i
		}
	}
	c.setCurrent(idx)
}

func (c *Controller) setCurrent(idx int) {
	idx = max(0, min(len(Sections)-1, idx))
	if idx == c.current {
		return
	}
	prev := c.current
	c.current = idx
	c.notify(Change{Kind: SectionChanged, From: prev, To: idx})
}

func (c *Controller) notify(ch Change) {
	for _, fn := range c.listeners {
		fn(ch)
	}
}
