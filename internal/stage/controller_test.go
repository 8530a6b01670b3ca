package stage

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePage stacks sections of the given heights and scrolls instantly.
type fakePage struct {
	heights  map[SectionID]float64
	missing  map[SectionID]bool
	viewW    float64
	viewH    float64
	scrollY  float64
	intoView []SectionID
	jumps    []float64
}

func newFakePage(viewH float64, heights ...float64) *fakePage {
	p := &fakePage{
		heights: map[SectionID]float64{},
		missing: map[SectionID]bool{},
		viewW:   1280,
		viewH:   viewH,
	}
	for i, id := range Sections {
		h := viewH
		if i < len(heights) {
			h = heights[i]
		}
		p.heights[id] = h
	}
	return p
}

func (p *fakePage) top(id SectionID) float64 {
	y := 0.0
	for _, s := range Sections {
		if s == id {
			return y
		}
		y += p.heights[s]
	}
	return y
}

func (p *fakePage) SectionRect(id SectionID) (Rect, bool) {
	if p.missing[id] {
		return Rect{}, false
	}
	top := p.top(id) - p.scrollY
	return Rect{Top: top, Bottom: top + p.heights[id]}, true
}

func (p *fakePage) Viewport() (float64, float64) { return p.viewW, p.viewH }
func (p *fakePage) ScrollY() float64 { return p.scrollY }

func (p *fakePage) ScrollTo(y float64) {
	p.scrollY = y
	p.jumps = append(p.jumps, y)
}

func (p *fakePage) ScrollIntoView(id SectionID) bool {
	if p.missing[id] {
		return false
	}
	p.scrollY = p.top(id)
	p.intoView = append(p.intoView, id)
	return true
}

func newController(t *testing.T, page *fakePage) (*Controller, *ManualClock) {
	t.Helper()
	clock := NewManualClock(time.Unix(1700000000, 0))
	return New(page, page, clock), clock
}

func transformed(t *testing.T, page *fakePage) (*Controller, *ManualClock) {
	t.Helper()
	c, clock := newController(t, page)
	require.True(t, c.Click())
	require.True(t, c.Transformed())
	return c, clock
}

func TestNew_InitialState(t *testing.T) {
	page := newFakePage(800)
	page.scrollY = 1234

	c, _ := newController(t, page)

	assert.False(t, c.Transformed())
	assert.Equal(t, 0, c.Current())
	assert.Equal(t, Hero, c.CurrentID())
	assert.Equal(t, 0.0, page.scrollY)
	assert.Equal(t, CursorVisible, c.CursorMode())
}

func TestTransform_Wheel(t *testing.T) {
	t.Run("delta above threshold latches", func(t *testing.T) {
		page := newFakePage(800)
		c, _ := newController(t, page)
		page.scrollY = 40

		assert.True(t, c.Wheel(6))
		assert.True(t, c.Transformed())
		assert.Equal(t, 0.0, page.scrollY)
	})

	t.Run("delta below threshold is ignored", func(t *testing.T) {
		page := newFakePage(800)
		c, _ := newController(t, page)

		assert.False(t, c.Wheel(3))
		assert.False(t, c.Transformed())
		assert.Equal(t, 0, c.Current())
	})

	t.Run("upward delta counts too", func(t *testing.T) {
		page := newFakePage(800)
		c, _ := newController(t, page)

		assert.True(t, c.Wheel(-5.5))
		assert.True(t, c.Transformed())
	})
}

func TestTransform_Scroll(t *testing.T) {
	page := newFakePage(800)
	c, _ := newController(t, page)

	page.scrollY = 10
	c.Scroll()
	assert.False(t, c.Transformed(), "exactly 10px does not latch")

	page.scrollY = 11
	c.Scroll()
	assert.True(t, c.Transformed())
	assert.Equal(t, 0.0, page.scrollY)
}

func TestTransform_Keys(t *testing.T) {
	for _, code := range []KeyCode{KeyArrowDown, KeyArrowUp, KeyPageDown, KeyPageUp, KeySpace} {
		t.Run(string(code), func(t *testing.T) {
			page := newFakePage(800)
			c, _ := newController(t, page)
			assert.True(t, c.Key(code))
			assert.True(t, c.Transformed())
			assert.Equal(t, 0, c.Current(), "the latching key does not navigate")
			assert.Empty(t, page.intoView)
		})
	}

	page := newFakePage(800)
	c, _ := newController(t, page)
	assert.False(t, c.Key(KeyEnd))
	assert.False(t, c.Key("KeyA"))
	assert.False(t, c.Transformed())
}

func TestTransform_Monotonic(t *testing.T) {
	page := newFakePage(800)
	c, clock := newController(t, page)

	var transforms int
	c.Subscribe(func(ch Change) {
		if ch.Kind == Transformed {
			transforms++
		}
	})

	rng := rand.New(rand.NewSource(7))
	keys := []KeyCode{KeyArrowDown, KeyArrowUp, KeyPageDown, KeyPageUp, KeySpace, KeyHome, KeyEnd}
	for i := 0; i < 500; i++ {
		switch rng.Intn(5) {
		case 0:
			c.Wheel(rng.Float64()*400 - 200)
		case 1:
			c.Key(keys[rng.Intn(len(keys))])
		case 2:
			c.Click()
		case 3:
			page.scrollY = rng.Float64() * 3000
			c.Scroll()
		case 4:
			clock.Advance(time.Duration(rng.Intn(1500)) * time.Millisecond)
		}
		if i > 0 && transforms > 0 {
			require.True(t, c.Transformed())
		}
		require.GreaterOrEqual(t, c.Current(), 0)
		require.LessOrEqual(t, c.Current(), len(Sections)-1)
	}
	assert.Equal(t, 1, transforms)
	assert.Equal(t, CursorHidden, c.CursorMode())
}

func TestScroll_TracksLastSectionPastMidline(t *testing.T) {
	page := newFakePage(800)
	c, _ := transformed(t, page)

	page.scrollY = 399 // about top at 401 > 400
	c.Scroll()
	assert.Equal(t, 0, c.Current())

	page.scrollY = 400 // about top exactly at midline
	c.Scroll()
	assert.Equal(t, 1, c.Current())

	page.scrollY = 1700
	c.Scroll()
	assert.Equal(t, 2, c.Current())

	page.scrollY = 0
	c.Scroll()
	assert.Equal(t, 0, c.Current())
}

func TestScroll_MissingSectionsAreSkipped(t *testing.T) {
	page := newFakePage(800)
	c, _ := transformed(t, page)
	page.missing[Projects] = true

	page.scrollY = 1700
	c.Scroll()
	assert.Equal(t, 1, c.Current())
}

func TestWheel_SnapsDownAtSectionBottom(t *testing.T) {
	page := newFakePage(800)
	c, _ := transformed(t, page)

	var changes []Change
	c.Subscribe(func(ch Change) { changes = append(changes, ch) })

	assert.True(t, c.Wheel(100))
	assert.Equal(t, 1, c.Current())
	assert.Equal(t, []SectionID{About}, page.intoView)
	assert.True(t, c.Snapping())
	assert.Equal(t, 1, c.Guard().Arms())
	assert.Equal(t, []Change{{Kind: SectionChanged, From: 0, To: 1}}, changes)
}

func TestWheel_TallSectionScrollsNormallyUntilBottom(t *testing.T) {
	page := newFakePage(800, 800, 2000)
	c, _ := transformed(t, page)
	page.scrollY = 800 // about top at 0, bottom at 2000

	assert.False(t, c.Wheel(100), "bottom edge far below viewport")
	assert.Equal(t, 0, c.Guard().Arms())

	page.scrollY = 800 + 2000 - 800 - 40 // bottom at 840, within tolerance
	assert.True(t, c.Wheel(100))
	assert.Equal(t, 2, c.Current())
}

func TestWheel_ToleranceInLayoutUnits(t *testing.T) {
	page := newFakePage(24, 24, 68)
	clock := NewManualClock(time.Unix(1700000000, 0))
	c := New(page, page, clock, WithSnapTolerance(50.0/16), WithTransformThresholds(10.0/16, 5.0/16))

	assert.True(t, c.Wheel(1), "one row of wheel transforms")
	page.scrollY = 24
	c.Scroll()
	require.Equal(t, 1, c.Current())

	assert.False(t, c.Wheel(6.25), "bottom edge 44 rows below the viewport")
	page.scrollY = 24 + 68 - 24 - 4
	assert.False(t, c.Wheel(6.25), "4 rows is outside the scaled tolerance")
	page.scrollY = 24 + 68 - 24 - 3
	assert.True(t, c.Wheel(6.25))
	assert.Equal(t, 2, c.Current())
}

func TestScroll_TransformThresholdOption(t *testing.T) {
	page := newFakePage(24)
	c := New(page, page, NewManualClock(time.Unix(0, 0)), WithTransformThresholds(10.0/16, 5.0/16))

	page.scrollY = 0.5
	c.Scroll()
	assert.False(t, c.Transformed())

	page.scrollY = 1
	c.Scroll()
	assert.True(t, c.Transformed())
}

func TestWheel_SnapsUpAtSectionTop(t *testing.T) {
	page := newFakePage(800)
	c, _ := transformed(t, page)
	page.scrollY = 1600
	c.Scroll()
	require.Equal(t, 2, c.Current())

	assert.True(t, c.Wheel(-100))
	assert.Equal(t, 1, c.Current())
	assert.Equal(t, []SectionID{About}, page.intoView)
}

func TestWheel_NoSnapPastEnds(t *testing.T) {
	page := newFakePage(800)
	c, _ := transformed(t, page)

	assert.False(t, c.Wheel(-100), "no section above hero")

	page.scrollY = 2400
	c.Scroll()
	assert.False(t, c.Wheel(100), "no section below contact")
	assert.Equal(t, 3, c.Current())
}

func TestWheel_IgnoredWhileSnapping(t *testing.T) {
	page := newFakePage(800)
	c, clock := transformed(t, page)

	require.True(t, c.Wheel(100))
	deadline := c.Guard().Deadline()

	clock.Advance(300 * time.Millisecond)
	assert.False(t, c.Wheel(100))
	assert.Equal(t, 1, c.Current())
	assert.Equal(t, 1, c.Guard().Arms())
	assert.Equal(t, deadline, c.Guard().Deadline())

	clock.Advance(700 * time.Millisecond)
	assert.False(t, c.Snapping())
	assert.True(t, c.Wheel(100))
	assert.Equal(t, 2, c.Current())
}

func TestWheel_MissingTargetAborts(t *testing.T) {
	page := newFakePage(800)
	c, _ := transformed(t, page)
	page.missing[About] = true

	assert.False(t, c.Wheel(100))
	assert.Equal(t, 0, c.Current())
	assert.False(t, c.Snapping())
}

func TestKey_PageNavigation(t *testing.T) {
	page := newFakePage(800)
	c, clock := transformed(t, page)

	assert.True(t, c.Key(KeyPageDown))
	assert.Equal(t, 1, c.Current())
	assert.True(t, c.Snapping())

	assert.False(t, c.Key(KeyPageDown), "guarded")
	assert.Equal(t, 1, c.Current())

	clock.Advance(time.Second)
	assert.True(t, c.Key(KeyPageUp))
	assert.Equal(t, 0, c.Current())

	clock.Advance(time.Second)
	assert.True(t, c.Key(KeyPageUp))
	assert.Equal(t, 0, c.Current())
	assert.False(t, c.Snapping(), "clamped page up does not arm")
	assert.Equal(t, 2, c.Guard().Arms())
}

func TestKey_EndFromAnySection(t *testing.T) {
	for start := 0; start < len(Sections); start++ {
		page := newFakePage(800)
		c, clock := transformed(t, page)
		require.True(t, c.Navigate(Sections[start]))

		before := c.Guard().Arms()
		assert.True(t, c.Key(KeyEnd))
		assert.Equal(t, 3, c.Current())
		assert.True(t, c.Snapping())
		assert.Equal(t, before+1, c.Guard().Arms())
		assert.Equal(t, clock.Now().Add(time.Second), c.Guard().Deadline())

		clock.Advance(999 * time.Millisecond)
		assert.True(t, c.Snapping())
		clock.Advance(time.Millisecond)
		assert.False(t, c.Snapping())
	}
}

func TestKey_Home(t *testing.T) {
	page := newFakePage(800)
	c, _ := transformed(t, page)
	require.True(t, c.Navigate(Contact))

	assert.True(t, c.Key(KeyHome))
	assert.Equal(t, 0, c.Current())
	assert.Equal(t, 0.0, page.scrollY)
}

func TestKey_MissingTargetKeepsSection(t *testing.T) {
	page := newFakePage(800)
	c, _ := transformed(t, page)
	page.missing[Contact] = true

	c.Key(KeyEnd)
	assert.Equal(t, 0, c.Current())
	assert.False(t, c.Snapping())
}

func TestNavigate_BypassesGuard(t *testing.T) {
	page := newFakePage(800)
	c, _ := transformed(t, page)

	require.True(t, c.Key(KeyPageDown))
	require.True(t, c.Snapping())

	assert.True(t, c.Navigate(Contact))
	assert.Equal(t, 3, c.Current())
	assert.Equal(t, page.top(Contact), page.scrollY)

	assert.False(t, c.Navigate("blog"))
	page.missing[Hero] = true
	assert.False(t, c.Navigate(Hero))
	assert.Equal(t, 3, c.Current())
}

func TestScroll_IgnoredWhileSnapping(t *testing.T) {
	page := newFakePage(800)
	c, _ := transformed(t, page)

	require.True(t, c.Key(KeyEnd))
	page.scrollY = 0
	c.Scroll()
	assert.Equal(t, 3, c.Current())
}

func TestLinkHover(t *testing.T) {
	page := newFakePage(800)
	c, _ := newController(t, page)

	c.PointerMove(10, 20, true)
	assert.Equal(t, LinkHover{}, c.LinkHover(), "inactive before transform")

	c.Click()
	c.PointerMove(10, 20, true)
	assert.Equal(t, LinkHover{Active: true, X: 10, Y: 20}, c.LinkHover())

	c.PointerMove(30, 40, false)
	assert.Equal(t, LinkHover{}, c.LinkHover())

	c.PointerMove(1, 2, true)
	c.PointerLeave()
	assert.False(t, c.LinkHover().Active)
}

func TestClose(t *testing.T) {
	page := newFakePage(800)
	c, _ := transformed(t, page)

	called := false
	c.Subscribe(func(Change) { called = true })
	require.True(t, c.Key(KeyPageDown))
	require.True(t, called)

	c.Close()
	assert.False(t, c.Snapping())

	called = false
	c.Navigate(Contact)
	assert.False(t, called)
}

func TestClick_AfterTransformIsNotConsumed(t *testing.T) {
	page := newFakePage(800)
	c, _ := transformed(t, page)
	assert.False(t, c.Click())
}
