// Package tui runs the portfolio in a terminal. One cell is one layout unit;
// the event loop follows the usual tcell pattern of a polling goroutine
// feeding a channel next to a frame ticker.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/iburimskiy/portfolio/internal/audio"
	"github.com/iburimskiy/portfolio/internal/config"
	"github.com/iburimskiy/portfolio/internal/content"
	"github.com/iburimskiy/portfolio/internal/logging"
	"github.com/iburimskiy/portfolio/internal/page"
	"github.com/iburimskiy/portfolio/internal/scene"
	"github.com/iburimskiy/portfolio/internal/stage"
)

var tuiLog = logging.Module("tui")

const frameInterval = 16 * time.Millisecond

// Options configures an App.
type Options struct {
	Player  *audio.Player
	Updates <-chan *content.Content
}

// App drives a scene from a tcell screen.
type App struct {
	screen  tcell.Screen
	scene   *scene.Scene
	player  *audio.Player
	updates <-chan *content.Content

	width, height int
	pointerIn     bool
	pointerX      int
	pointerY      int
	buttons       tcell.ButtonMask
	tick          int
}

// OpenScreen creates and initialises the terminal screen with mouse and
// focus reporting.
func OpenScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	screen.EnableMouse()
	screen.EnableFocus()
	screen.HideCursor()
	return screen, nil
}

// New wraps an initialised screen.
func New(screen tcell.Screen, sc *scene.Scene, opts Options) *App {
	a := &App{
		screen:  screen,
		scene:   sc,
		player:  opts.Player,
		updates: opts.Updates,
	}
	a.resize()
	return a
}

// Metrics returns the layout metrics for a terminal host.
func Metrics() page.Metrics { return page.CellMetrics }

// Run processes events until the user quits or ctx is done. It finalises
// the screen before returning.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	defer func() {
		cancel()
		a.screen.Fini()
		<-done
		a.scene.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !a.handleEvent(ev) {
				return nil
			}
		case c, ok := <-a.updates:
			if !ok {
				a.updates = nil
				continue
			}
			a.scene.SetContent(c)
			tuiLog.Info().Str("name", c.Name).Msg("content reloaded")
		case <-ticker.C:
			a.frame()
		}
	}
}

func (a *App) frame() {
	a.tick++
	a.scene.Frame()
	a.draw()
	a.screen.Show()
}

func (a *App) resize() {
	a.width, a.height = a.screen.Size()
	a.scene.Resize(float64(a.width), float64(a.height))
}

func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev.Key(), ev.Rune(), ev.Modifiers())
	case *tcell.EventMouse:
		x, y := ev.Position()
		a.handleMouse(x, y, ev.Buttons())
	case *tcell.EventFocus:
		if !ev.Focused {
			a.leave()
		}
	case *tcell.EventResize:
		a.screen.Sync()
		a.resize()
	}
	return true
}

// handleKey returns false when the user asked to quit.
func (a *App) handleKey(key tcell.Key, r rune, mod tcell.ModMask) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyDown:
		a.scene.Key(stage.KeyArrowDown, false)
	case tcell.KeyUp:
		a.scene.Key(stage.KeyArrowUp, false)
	case tcell.KeyPgDn:
		a.scene.Key(stage.KeyPageDown, false)
	case tcell.KeyPgUp:
		a.scene.Key(stage.KeyPageUp, false)
	case tcell.KeyHome:
		a.scene.Key(stage.KeyHome, false)
	case tcell.KeyEnd:
		a.scene.Key(stage.KeyEnd, false)
	case tcell.KeyRune:
		switch r {
		case 'q':
			return false
		case ' ':
			a.scene.Key(stage.KeySpace, mod&tcell.ModShift != 0)
		case 'j':
			a.scene.Key(stage.KeyArrowDown, false)
		case 'k':
			a.scene.Key(stage.KeyArrowUp, false)
		case 'g':
			a.scene.Key(stage.KeyHome, false)
		case 'G':
			a.scene.Key(stage.KeyEnd, false)
		case 'm':
			if a.player != nil {
				tuiLog.Info().Bool("muted", a.player.ToggleMute()).Msg("toggled sound")
			}
		}
	}
	return true
}

func (a *App) handleMouse(x, y int, buttons tcell.ButtonMask) {
	if x < 0 || y < 0 || x >= a.width || y >= a.height {
		a.leave()
		return
	}
	if !a.pointerIn || x != a.pointerX || y != a.pointerY {
		a.pointerIn, a.pointerX, a.pointerY = true, x, y
		a.scene.PointerMove(float64(x), float64(y))
	}

	wheel := config.WheelLineHeight * Metrics().LineH / page.WindowMetrics.LineH
	switch {
	case buttons&tcell.WheelDown != 0:
		a.scene.Wheel(wheel)
	case buttons&tcell.WheelUp != 0:
		a.scene.Wheel(-wheel)
	}

	if buttons&tcell.Button1 != 0 && a.buttons&tcell.Button1 == 0 {
		a.scene.Click(float64(x), float64(y))
	}
	a.buttons = buttons
}

func (a *App) leave() {
	if !a.pointerIn {
		return
	}
	a.pointerIn = false
	a.scene.PointerLeave()
}
