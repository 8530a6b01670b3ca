// Package game is the ebiten host: it turns window input into scene events
// and renders the page, the intro card and the particle layer.
package game

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/iburimskiy/portfolio/internal/audio"
	"github.com/iburimskiy/portfolio/internal/config"
	"github.com/iburimskiy/portfolio/internal/content"
	"github.com/iburimskiy/portfolio/internal/logging"
	"github.com/iburimskiy/portfolio/internal/scene"
	"github.com/iburimskiy/portfolio/internal/stage"
	"github.com/ncruces/zenity"
)

var gameLog = logging.Module("game")

var navKeys = []struct {
	key  ebiten.Key
	code stage.KeyCode
}{
	{ebiten.KeyArrowDown, stage.KeyArrowDown},
	{ebiten.KeyArrowUp, stage.KeyArrowUp},
	{ebiten.KeyPageDown, stage.KeyPageDown},
	{ebiten.KeyPageUp, stage.KeyPageUp},
	{ebiten.KeySpace, stage.KeySpace},
	{ebiten.KeyHome, stage.KeyHome},
	{ebiten.KeyEnd, stage.KeyEnd},
}

// Options configures a Game.
type Options struct {
	Player  *audio.Player
	Updates <-chan *content.Content
}

// Game implements ebiten.Game.
type Game struct {
	scene   *scene.Scene
	player  *audio.Player
	updates <-chan *content.Content

	canvas *canvas
	labels *labels

	width, height int
	dpr           float64

	pointerIn          bool
	pointerX, pointerY int
	cursorMode         stage.CursorMode

	// input edge detection
	prevKey map[ebiten.Key]bool

	tick    int
	lastErr error
}

// New creates a host for sc.
func New(sc *scene.Scene, opts Options) *Game {
	return &Game{
		scene:      sc,
		player:     opts.Player,
		updates:    opts.Updates,
		canvas:     newCanvas(),
		labels:     newLabels(),
		cursorMode: stage.CursorVisible,
		prevKey:    map[ebiten.Key]bool{},
	}
}

// Run opens the window and blocks until it is closed.
func Run(g *Game, s *config.Settings) error {
	ebiten.SetWindowSize(s.Window.Width, s.Window.Height)
	ebiten.SetWindowTitle(s.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	defer g.Close()

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("failed to run window: %w", err)
	}
	return nil
}

// Close releases GPU images and the scene.
func (g *Game) Close() {
	g.canvas.dispose()
	g.labels.reset()
	g.scene.Close()
}

func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	g.tick++
	g.pollContent()

	x, y := ebiten.CursorPosition()
	in := x >= 0 && y >= 0 && x < g.width && y < g.height
	switch {
	case in && (!g.pointerIn || x != g.pointerX || y != g.pointerY):
		g.scene.PointerMove(float64(x), float64(y))
	case !in && g.pointerIn:
		g.scene.PointerLeave()
	}
	g.pointerIn, g.pointerX, g.pointerY = in, x, y

	if _, yoff := ebiten.Wheel(); yoff != 0 {
		g.scene.Wheel(-yoff * config.WheelLineHeight)
	}

	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	for _, k := range navKeys {
		if justPressed(k.key) {
			g.scene.Key(k.code, shift)
		}
	}

	openPressed := justPressed(ebiten.KeyO)
	if openPressed && (ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)) {
		if err := g.openContentDialog(); err != nil {
			g.lastErr = err
		}
	}
	if justPressed(ebiten.KeyM) && g.player != nil {
		gameLog.Info().Bool("muted", g.player.ToggleMute()).Msg("toggled sound")
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	if in && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.scene.Click(float64(x), float64(y))
	}

	g.scene.Frame()
	g.applyCursorMode()
	return nil
}

func (g *Game) applyCursorMode() {
	mode := g.scene.Controller().CursorMode()
	if mode == g.cursorMode {
		return
	}
	g.cursorMode = mode
	if mode == stage.CursorHidden {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
		return
	}
	ebiten.SetCursorMode(ebiten.CursorModeVisible)
}

func (g *Game) pollContent() {
	select {
	case c, ok := <-g.updates:
		if !ok {
			g.updates = nil
			return
		}
		g.scene.SetContent(c)
		g.labels.reset()
		gameLog.Info().Str("name", c.Name).Msg("content reloaded")
	default:
	}
}

func (g *Game) openContentDialog() error {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Portfolio Content"),
		zenity.FileFilters{{
			Name:     "YAML",
			Patterns: []string{"*.yaml", "*.yml"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}

	c, err := content.Load(filename)
	if err != nil {
		return err
	}
	g.scene.SetContent(c)
	g.labels.reset()
	g.lastErr = nil
	gameLog.Info().Str("path", filename).Msg("content loaded")
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	ctrl := g.scene.Controller()
	progress := g.scene.Curtain()
	if ctrl.Transformed() {
		g.drawSections(screen, progress)
	}
	g.drawCurtains(screen, progress)
	if !ctrl.Transformed() || progress < 1 {
		g.drawCard(screen, 1-progress)
	}

	g.canvas.render(g.scene.Field())
	g.canvas.draw(screen)

	if ctrl.Transformed() {
		g.drawHeader(screen, progress)
	}
	g.drawCursor(screen)

	status := g.scene.Status()
	if g.lastErr != nil {
		status = "Error: " + g.lastErr.Error()
	}
	if status != "" {
		ebitenutil.DebugPrintAt(screen, status, 12, g.height-24)
	}
}

// Layout tracks the window size; the particle layer follows it at the device
// pixel ratio.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	dpr := devicePixelRatio()
	if outsideWidth != g.width || outsideHeight != g.height || dpr != g.dpr {
		g.width, g.height, g.dpr = outsideWidth, outsideHeight, dpr
		g.scene.Resize(float64(outsideWidth), float64(outsideHeight))
		g.canvas.resize(outsideWidth, outsideHeight, dpr)
		g.canvas.clear()
	}
	return outsideWidth, outsideHeight
}
