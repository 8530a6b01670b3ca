// Package scene wires the page model, the stage controller and the effects
// together behind a small input API. Hosts translate their native events into
// Scene calls once per event, call Frame once per tick and render from the
// accessors.
package scene

import (
	"math"
	"math/rand"
	"time"

	"github.com/atotto/clipboard"
	"github.com/iburimskiy/portfolio/internal/audio"
	"github.com/iburimskiy/portfolio/internal/config"
	"github.com/iburimskiy/portfolio/internal/content"
	"github.com/iburimskiy/portfolio/internal/fx"
	"github.com/iburimskiy/portfolio/internal/logging"
	"github.com/iburimskiy/portfolio/internal/page"
	"github.com/iburimskiy/portfolio/internal/stage"
)

var sceneLog = logging.Module("scene")

const (
	statusDuration = 2 * time.Second
	arrowStep      = 40.0 // pixels at 16px lines
	pageRatio      = 0.875
)

// Chimes plays audio cues. *audio.Player implements it.
type Chimes interface {
	Play(cue audio.Cue, arg int)
}

type silent struct{}

func (silent) Play(audio.Cue, int) {}

// Options configures a Scene. Zero values select the defaults.
type Options struct {
	Clock        stage.Clock
	Chimes       Chimes
	Copy         func(string) error
	Rand         *rand.Rand
	SnapRelease  time.Duration
	SmoothScroll time.Duration
}

// Scene is the host independent state of one running page.
type Scene struct {
	clock   stage.Clock
	chimes  Chimes
	copy    func(string) error
	rng     *rand.Rand
	metrics page.Metrics
	unit    float64 // layout units per window pixel

	content  *content.Content
	doc      *page.Document
	comp     *page.Composition
	ctrl     *stage.Controller
	field    *fx.Field
	roles    *fx.Typewriter
	techs    *fx.Typewriter
	parallax map[stage.SectionID]*fx.Parallax

	viewW, viewH  float64
	lastScrollY   float64
	transformedAt time.Time

	pointerIn bool
	hover     page.Link
	hovering  bool

	status   string
	statusAt time.Time
}

// New builds a scene for c in a viewport of w x h host units.
func New(c *content.Content, m page.Metrics, w, h float64, opts Options) *Scene {
	if opts.Clock == nil {
		opts.Clock = stage.SystemClock{}
	}
	if opts.Chimes == nil {
		opts.Chimes = silent{}
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(opts.Clock.Now().UnixNano()))
	}
	unit := m.LineH / page.WindowMetrics.LineH
	ctrlOpts := []stage.Option{
		stage.WithSnapTolerance(config.SnapEdgeTolerance * unit),
		stage.WithTransformThresholds(config.TransformScrollThreshold*unit, config.TransformWheelThreshold*unit),
	}
	if opts.SnapRelease > 0 {
		ctrlOpts = append(ctrlOpts, stage.WithSnapRelease(opts.SnapRelease))
	}

	now := opts.Clock.Now()
	s := &Scene{
		clock:    opts.Clock,
		chimes:   opts.Chimes,
		copy:     opts.Copy,
		rng:      opts.Rand,
		metrics:  m,
		unit:     unit,
		doc:      page.NewDocument(opts.Clock, w, h, opts.SmoothScroll),
		roles:    fx.NewTypewriter(nil, fx.RoleTiming, now),
		techs:    fx.NewTypewriter(nil, fx.TechTiming, now),
		parallax: make(map[stage.SectionID]*fx.Parallax),
		viewW:    w,
		viewH:    h,
	}
	for _, id := range stage.Sections {
		s.parallax[id] = fx.NewParallax()
	}
	s.SetContent(c)

	s.ctrl = stage.New(s.doc, s.doc, opts.Clock, ctrlOpts...)
	s.ctrl.Subscribe(s.onChange)
	s.lastScrollY = s.doc.ScrollY()
	return s
}

func (s *Scene) onChange(ch stage.Change) {
	switch ch.Kind {
	case stage.Transformed:
		s.transformedAt = s.clock.Now()
		s.field = fx.NewField(s.viewW, s.viewH, s.rng)
		s.chimes.Play(audio.CueTransform, 0)
	case stage.SectionChanged:
		sceneLog.Debug().Int("from", ch.From).Int("to", ch.To).Msg("section changed")
		s.chimes.Play(audio.CueSection, ch.To)
	}
}

// SetContent swaps the rendered copy and relays out the page.
func (s *Scene) SetContent(c *content.Content) {
	s.content = c
	now := s.clock.Now()
	s.roles.Reset(c.Roles, now)
	s.techs.Reset(c.Techs, now)
	s.relayout()
	if s.ctrl != nil {
		s.ctrl.Scroll()
	}
}

func (s *Scene) relayout() {
	s.comp = page.Compose(s.content, s.metrics, s.viewW, s.viewH)
	s.comp.Apply(s.doc)
}

// Resize changes the viewport.
func (s *Scene) Resize(w, h float64) {
	if w == s.viewW && h == s.viewH {
		return
	}
	s.viewW, s.viewH = w, h
	s.doc.Resize(w, h)
	s.relayout()
	if s.field != nil {
		s.field.Resize(w, h)
	}
}

// PointerMove handles the pointer moving to (x, y) inside the viewport.
func (s *Scene) PointerMove(x, y float64) {
	s.pointerIn = true
	s.hover, s.hovering = s.comp.LinkAt(s.doc, x, y)
	s.ctrl.PointerMove(int(x), int(y), s.hovering)

	for _, id := range stage.Sections {
		r, ok := s.doc.SectionRect(id)
		if !ok {
			s.parallax[id].Leave()
			continue
		}
		s.parallax[id].Move(x, y, 0, r.Top, s.viewW, r.Height())
	}

	if s.field != nil {
		s.field.SpawnTrail(x, y, s.clock.Now())
	}
}

// PointerLeave handles the pointer leaving the viewport.
func (s *Scene) PointerLeave() {
	if !s.pointerIn {
		return
	}
	s.pointerIn = false
	s.hovering = false
	s.ctrl.PointerLeave()
	for _, p := range s.parallax {
		p.Leave()
	}
}

// Wheel handles a wheel delta in host units, positive meaning down.
func (s *Scene) Wheel(deltaY float64) {
	if s.ctrl.Wheel(deltaY) {
		return
	}
	s.doc.ScrollBy(deltaY)
}

// Key handles a navigation key. shift reverses Space.
func (s *Scene) Key(code stage.KeyCode, shift bool) {
	if s.ctrl.Key(code) {
		return
	}
	line := arrowStep * s.unit
	pageStep := s.viewH * pageRatio
	switch code {
	case stage.KeyArrowDown:
		s.doc.ScrollBy(line)
	case stage.KeyArrowUp:
		s.doc.ScrollBy(-line)
	case stage.KeyPageDown:
		s.doc.ScrollBy(pageStep)
	case stage.KeyPageUp:
		s.doc.ScrollBy(-pageStep)
	case stage.KeySpace:
		if shift {
			pageStep = -pageStep
		}
		s.doc.ScrollBy(pageStep)
	case stage.KeyHome:
		s.doc.ScrollTo(0)
	case stage.KeyEnd:
		s.doc.ScrollTo(s.doc.MaxScroll())
	}
}

// Click handles a primary click at (x, y).
func (s *Scene) Click(x, y float64) {
	if s.ctrl.Click() {
		return
	}
	if s.field != nil {
		s.field.SpawnBurst(x, y)
	}
	s.chimes.Play(audio.CueBurst, 0)

	link, ok := s.comp.LinkAt(s.doc, x, y)
	if !ok {
		return
	}
	switch link.Kind {
	case page.LinkNav:
		if !s.ctrl.Navigate(stage.SectionID(link.Target)) {
			sceneLog.Debug().Str("target", link.Target).Msg("navigation target missing")
		}
	case page.LinkCopy:
		if err := s.copy(link.Target); err != nil {
			sceneLog.Warn().Err(err).Str("value", link.Target).Msg("failed to copy link")
			s.setStatus("Copy failed")
			return
		}
		s.chimes.Play(audio.CueCopy, 0)
		s.setStatus("Copied " + link.Target)
	}
}

func (s *Scene) setStatus(msg string) {
	s.status = msg
	s.statusAt = s.clock.Now()
}

// Frame advances animations by one tick and emits the scroll event when the
// scroll position moved since the previous frame.
func (s *Scene) Frame() {
	s.doc.Tick()
	if y := s.doc.ScrollY(); y != s.lastScrollY {
		s.ctrl.Scroll()
		if s.field != nil {
			s.field.Clear()
		}
		s.lastScrollY = s.doc.ScrollY()
	}

	now := s.clock.Now()
	s.roles.Advance(now)
	s.techs.Advance(now)
	if s.field != nil {
		s.field.Step()
	}
}

// Close tears down the controller and drops the particle field.
func (s *Scene) Close() {
	s.ctrl.Close()
	s.field = nil
}

func (s *Scene) Controller() *stage.Controller { return s.ctrl }
func (s *Scene) Document() *page.Document { return s.doc }
func (s *Scene) Composition() *page.Composition { return s.comp }
func (s *Scene) Content() *content.Content { return s.content }
func (s *Scene) Metrics() page.Metrics { return s.metrics }
func (s *Scene) Parallax(id stage.SectionID) *fx.Parallax { return s.parallax[id] }

// Field is nil until the page transforms.
func (s *Scene) Field() *fx.Field { return s.field }

// RoleText is the visible part of the role typewriter.
func (s *Scene) RoleText() string { return s.roles.Text() }

// TechText is the visible part of the technology typewriter.
func (s *Scene) TechText() string { return s.techs.Text() }

// Hover returns the link under the pointer.
func (s *Scene) Hover() (page.Link, bool) { return s.hover, s.hovering }

// Status is a transient message such as a copy confirmation.
func (s *Scene) Status() string {
	if s.status == "" || s.clock.Now().Sub(s.statusAt) >= statusDuration {
		return ""
	}
	return s.status
}

// ShowHint reports whether the initial card shows its scroll hint.
func (s *Scene) ShowHint() bool {
	return !s.ctrl.Transformed() && s.doc.ScrollY() < config.ScrollHintThreshold*s.unit
}

// Curtain is the eased intro progress in [0,1]; 0 before the page transforms.
func (s *Scene) Curtain() float64 {
	if !s.ctrl.Transformed() {
		return 0
	}
	t := float64(s.clock.Now().Sub(s.transformedAt)) / float64(config.CurtainDuration)
	return page.EaseOutCubic(math.Min(1, t))
}
