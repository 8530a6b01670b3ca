package scene

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/iburimskiy/portfolio/internal/audio"
	"github.com/iburimskiy/portfolio/internal/content"
	"github.com/iburimskiy/portfolio/internal/fx"
	"github.com/iburimskiy/portfolio/internal/page"
	"github.com/iburimskiy/portfolio/internal/stage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cue struct {
	cue audio.Cue
	arg int
}

type recorder struct{ cues []cue }

func (r *recorder) Play(c audio.Cue, arg int) { r.cues = append(r.cues, cue{c, arg}) }

type harness struct {
	*Scene
	clock  *stage.ManualClock
	chimes *recorder
	copied []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, content.Default(), page.WindowMetrics, 1280, 800)
}

func newHarnessWith(t *testing.T, c *content.Content, m page.Metrics, w, vh float64) *harness {
	t.Helper()
	h := &harness{
		clock:  stage.NewManualClock(time.Unix(1000, 0)),
		chimes: &recorder{},
	}
	h.Scene = New(c, m, w, vh, Options{
		Clock:  h.clock,
		Chimes: h.chimes,
		Copy: func(s string) error {
			h.copied = append(h.copied, s)
			return nil
		},
		Rand: rand.New(rand.NewSource(1)),
	})
	t.Cleanup(h.Close)
	return h
}

// settle runs frames until the smooth scroll has finished.
func (h *harness) settle() {
	for i := 0; i < 100 && h.Document().Animating(); i++ {
		h.clock.Advance(16 * time.Millisecond)
		h.Frame()
	}
}

func TestScene_WheelTransformsThenSnaps(t *testing.T) {
	h := newHarness(t)
	require.Nil(t, h.Field())

	h.Wheel(100)
	require.True(t, h.Controller().Transformed())
	require.NotNil(t, h.Field())
	assert.Equal(t, 0.0, h.Document().ScrollY())
	assert.Equal(t, []cue{{audio.CueTransform, 0}}, h.chimes.cues)

	h.Wheel(100)
	assert.Equal(t, 1, h.Controller().Current())
	assert.True(t, h.Controller().Snapping())
	h.settle()
	assert.Equal(t, 800.0, h.Document().ScrollY())
	assert.Equal(t, 1, h.Controller().Current())
	assert.Equal(t, cue{audio.CueSection, 1}, h.chimes.cues[1])

	h.Wheel(100)
	assert.Equal(t, 1, h.Controller().Current(), "ignored while the snap guard is held")
}

func TestScene_SmallScrollsLatchPastThreshold(t *testing.T) {
	h := newHarness(t)

	h.Wheel(3)
	h.Frame()
	assert.Equal(t, 3.0, h.Document().ScrollY())
	assert.False(t, h.Controller().Transformed())
	assert.True(t, h.ShowHint())

	h.Wheel(4)
	h.Frame()
	assert.False(t, h.ShowHint())
	assert.False(t, h.Controller().Transformed())

	h.Wheel(5)
	h.Frame()
	assert.True(t, h.Controller().Transformed())
	assert.Equal(t, 0.0, h.Document().ScrollY())
	assert.False(t, h.ShowHint())
}

func TestScene_FirstClickOnlyTransforms(t *testing.T) {
	h := newHarness(t)

	h.Click(100, 100)
	require.True(t, h.Controller().Transformed())
	assert.Equal(t, 0, h.Field().Len())
	assert.Len(t, h.chimes.cues, 1)

	h.Click(100, 100)
	assert.Equal(t, fx.BurstCount, h.Field().Len())
	assert.Equal(t, cue{audio.CueBurst, 0}, h.chimes.cues[1])
}

func TestScene_ScrollClearsParticles(t *testing.T) {
	h := newHarness(t)
	h.Click(10, 10)
	h.Click(400, 400)

	h.Frame()
	require.Equal(t, fx.BurstCount, h.Field().Len())

	h.Key(stage.KeyArrowDown, false)
	assert.Equal(t, 40.0, h.Document().ScrollY())
	h.Frame()
	assert.Equal(t, 0, h.Field().Len())
	assert.Equal(t, 0, h.Controller().Current())
}

func TestScene_DefaultKeys(t *testing.T) {
	h := newHarness(t)
	h.Key(stage.KeySpace, false)
	require.True(t, h.Controller().Transformed())
	assert.Equal(t, 0.0, h.Document().ScrollY())

	h.Key(stage.KeySpace, false)
	assert.Equal(t, 700.0, h.Document().ScrollY())
	h.Key(stage.KeySpace, true)
	assert.Equal(t, 0.0, h.Document().ScrollY())
	h.Key(stage.KeyArrowUp, false)
	assert.Equal(t, 0.0, h.Document().ScrollY())
}

func TestScene_NavigationLink(t *testing.T) {
	h := newHarness(t)
	h.Click(1, 1)

	var about page.Link
	for _, l := range h.Composition().Header {
		if l.Target == string(stage.About) {
			about = l
		}
	}
	require.Equal(t, page.LinkNav, about.Kind)

	h.Click(about.X+1, about.Y+1)
	assert.Equal(t, 1, h.Controller().Current())
	h.settle()
	assert.Equal(t, 800.0, h.Document().ScrollY())
}

func contactLink(t *testing.T, h *harness) page.Link {
	t.Helper()
	for _, l := range h.Composition().Links {
		if l.Kind == page.LinkCopy {
			return l
		}
	}
	t.Fatal("no copy link")
	return page.Link{}
}

func TestScene_CopyLink(t *testing.T) {
	h := newHarness(t)
	h.Click(1, 1)
	h.Key(stage.KeyEnd, false)
	assert.Equal(t, 3, h.Controller().Current())
	h.settle()
	require.Equal(t, h.Document().MaxScroll(), h.Document().ScrollY())

	link := contactLink(t, h)
	h.Click(link.X+1, link.Y+1)
	assert.Equal(t, []string{content.Default().Contacts[0].Value}, h.copied)
	assert.Equal(t, "Copied "+link.Target, h.Status())
	assert.Equal(t, cue{audio.CueCopy, 0}, h.chimes.cues[len(h.chimes.cues)-1])

	h.clock.Advance(2 * time.Second)
	assert.Equal(t, "", h.Status())
}

func TestScene_CopyFailureIsSoft(t *testing.T) {
	h := newHarness(t)
	h.copy = func(string) error { return errors.New("no clipboard") }
	h.Click(1, 1)
	h.Key(stage.KeyEnd, false)
	h.settle()

	link := contactLink(t, h)
	h.Click(link.X+1, link.Y+1)
	assert.Equal(t, "Copy failed", h.Status())
	assert.NotEqual(t, audio.CueCopy, h.chimes.cues[len(h.chimes.cues)-1].cue)
}

func TestScene_PointerTrailAndHover(t *testing.T) {
	h := newHarness(t)

	h.PointerMove(640, 400)
	assert.Nil(t, h.Field(), "no trail before the page transforms")
	assert.True(t, h.Parallax(stage.Hero).Hovering)
	assert.False(t, h.Parallax(stage.About).Hovering)

	h.Click(640, 400)
	h.PointerMove(650, 410)
	assert.Equal(t, fx.TrailCount, h.Field().Len())
	h.PointerMove(660, 420)
	assert.Equal(t, fx.TrailCount, h.Field().Len(), "throttled")
	h.clock.Advance(20 * time.Millisecond)
	h.PointerMove(670, 430)
	assert.Equal(t, 2*fx.TrailCount, h.Field().Len())

	brand := h.Composition().Header[0]
	h.PointerMove(brand.X+1, brand.Y+1)
	_, over := h.Hover()
	assert.True(t, over)
	assert.True(t, h.Controller().LinkHover().Active)

	h.PointerLeave()
	_, over = h.Hover()
	assert.False(t, over)
	assert.False(t, h.Controller().LinkHover().Active)
	assert.False(t, h.Parallax(stage.Hero).Hovering)
}

func TestScene_CurtainAndTypewriter(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 0.0, h.Curtain())

	h.clock.Advance(100 * time.Millisecond)
	h.Frame()
	assert.Equal(t, "F", h.RoleText())
	assert.Equal(t, "R", h.TechText())

	h.Click(1, 1)
	h.clock.Advance(time.Second)
	assert.Equal(t, 0.875, h.Curtain())
	h.clock.Advance(5 * time.Second)
	assert.Equal(t, 1.0, h.Curtain())
}

func TestScene_ContentAndResize(t *testing.T) {
	h := newHarness(t)
	h.Click(1, 1)

	c := content.Default()
	c.Projects = nil
	c.Roles = []string{"WRITER"}
	h.SetContent(c)
	assert.False(t, h.Document().Present(stage.Projects))
	assert.Equal(t, 2400.0, h.Document().Height())

	h.clock.Advance(100 * time.Millisecond)
	h.Frame()
	assert.Equal(t, "W", h.RoleText())

	h.Resize(640, 480)
	w, hh := h.Field().Size()
	assert.Equal(t, 640.0, w)
	assert.Equal(t, 480.0, hh)
	vw, vh := h.Document().Viewport()
	assert.Equal(t, 640.0, vw)
	assert.Equal(t, 480.0, vh)
}

func TestScene_TerminalWheelReachesWholeTallSection(t *testing.T) {
	c := content.Default()
	projects := c.Projects
	for i := 0; i < 3; i++ {
		c.Projects = append(c.Projects, projects...)
	}
	h := newHarnessWith(t, c, page.CellMetrics, 80, 24)
	doc := h.Document()
	step := 100 * page.CellMetrics.LineH / page.WindowMetrics.LineH

	h.Wheel(step)
	require.True(t, h.Controller().Transformed())
	require.True(t, h.Controller().Navigate(stage.Projects))
	h.settle()

	top, _ := doc.SectionTop(stage.Projects)
	height := doc.SectionHeight(stage.Projects)
	require.Equal(t, top, doc.ScrollY())
	require.Greater(t, height, 2*24.0)

	for i := 0; i < 50 && h.Controller().CurrentID() == stage.Projects; i++ {
		before := doc.ScrollY()
		h.Wheel(step)
		h.Frame()
		if h.Controller().CurrentID() != stage.Projects {
			assert.GreaterOrEqual(t, before, top+height-24-50.0/16, "snapped before the section end was shown")
			break
		}
		assert.Equal(t, before+step, doc.ScrollY())
	}
	assert.Equal(t, stage.Contact, h.Controller().CurrentID())
}

func TestScene_TerminalHintAndTransformThreshold(t *testing.T) {
	h := newHarnessWith(t, content.Default(), page.CellMetrics, 80, 24)
	assert.True(t, h.ShowHint())

	h.Document().ScrollTo(0.5)
	h.Frame()
	assert.False(t, h.ShowHint())
	assert.False(t, h.Controller().Transformed())

	h.Document().ScrollTo(1)
	h.Frame()
	assert.True(t, h.Controller().Transformed())
}
