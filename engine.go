package genji

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"

	"github.com/phanxgames/genji/audio"
)

// Game is the three hooks a genji program provides.
type Game[T any] struct {
	// Init builds the game's state and world before the window opens. A nil
	// Init starts from the zero state and an empty world.
	Init func(e *Engine) (T, donburi.World, error)
	// Loop runs once per frame before the frame is drawn. Returning true
	// ends the game.
	Loop func(s *GameState[T], w donburi.World, e *Engine) bool
	// Close runs once when the game ends, however it ends.
	Close func(s *GameState[T], w donburi.World)
}

// Engine is the part of a running game shared by every frame: renderer,
// audio, screenshots and scripted input.
type Engine struct {
	cfg      RunConfig
	renderer *Renderer
	backend  *EbitenBackend
	audio    *audio.Audio

	screenshotQueue []string
	testRunner      *TestRunner
	injectQueue     []injectedEvent
	held            Keys
	cursor          *Point
}

func newEngine(cfg RunConfig) *Engine {
	e := &Engine{
		cfg:      cfg,
		renderer: NewRenderer(cfg.Render),
		backend:  NewEbitenBackend(nil),
	}
	e.SetDebugMode(cfg.Debug)
	return e
}

// Config returns the configuration the game was started with.
func (e *Engine) Config() RunConfig {
	return e.cfg
}

// Audio returns the game's audio mixer, or nil when no output device could
// be opened. Playing on a nil Audio logs and does nothing.
func (e *Engine) Audio() *audio.Audio {
	return e.audio
}

// Renderer returns the frame renderer.
func (e *Engine) Renderer() *Renderer {
	return e.renderer
}

// SetDebugMode enables per-frame timing and draw stats on stderr.
func (e *Engine) SetDebugMode(enabled bool) {
	e.renderer.SetDebugMode(enabled)
}

// Run opens a window and runs game until its loop returns true, the window
// closes, or a frame fails to render. Zero fields in cfg take the
// DefaultRunConfig values.
func Run[T any](game Game[T], cfg RunConfig) error {
	if game.Loop == nil {
		return errors.New("genji: game has no Loop")
	}
	cfg = cfg.withDefaults()
	e := newEngine(cfg)

	a, err := audio.New(audio.DefaultSampleRate)
	if err != nil {
		logf("audio disabled: %v", err)
	}
	e.audio = a
	defer e.audio.Close()

	var value T
	world := donburi.NewWorld()
	if game.Init != nil {
		v, w, err := game.Init(e)
		if err != nil {
			return fmt.Errorf("genji: init: %w", err)
		}
		value = v
		if w != nil {
			world = w
		}
	}

	g := &runner[T]{
		Engine: e,
		game:   game,
		state:  NewGameState(value, cfg),
		world:  world,
		title:  cfg.Title,
		last:   time.Now(),
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetScreenClearedEveryFrame(false)
	ebiten.SetTPS(cfg.FPS)

	err = ebiten.RunGame(g)
	g.close()
	if err != nil {
		return fmt.Errorf("genji: run: %w", err)
	}
	return nil
}

// runner adapts a Game to ebiten.Game.
type runner[T any] struct {
	*Engine
	game  Game[T]
	state *GameState[T]
	world donburi.World

	title    string
	last     time.Time
	prevKeys Keys
	drew     bool // Draw ran since the last Update
	err      error
	closed   bool
}

// Update polls input, runs the game loop and measures the frame delta.
func (g *runner[T]) Update() error {
	if g.err != nil {
		return g.err
	}
	if ebiten.IsWindowBeingClosed() {
		g.state.AskedToClose = true
		if g.state.CloseOnRequest {
			return ebiten.Termination
		}
	}
	if !g.drew {
		g.state.endFrame()
	}
	g.drew = false

	if g.testRunner != nil {
		g.testRunner.step(g.Engine)
	}
	g.state.applyInput(pollInput())
	g.applyInjected(&g.state.Keys, &g.state.Pressed, &g.state.MouseX, &g.state.MouseY)
	if publishKeyEvents(g.world, &g.prevKeys, &g.state.Keys, g.state.MouseX, g.state.MouseY) > 0 {
		KeyEventType.ProcessEvents(g.world)
	}
	g.prevKeys = g.state.Keys

	if g.game.Loop(g.state, g.world, g.Engine) {
		return ebiten.Termination
	}
	if g.state.Title != g.title {
		g.title = g.state.Title
		ebiten.SetWindowTitle(g.title)
	}

	now := time.Now()
	g.state.advanceDelta(now.Sub(g.last))
	g.last = now
	return nil
}

// Draw renders the world, writes queued screenshots and clears the
// per-frame input. A render failure stops the game on the next Update.
func (g *runner[T]) Draw(screen *ebiten.Image) {
	g.backend.SetTarget(screen)
	if _, err := g.renderer.RenderFrame(g.world, g.backend, g.state.ClearColor); err != nil && g.err == nil {
		g.err = err
	}
	g.flushScreenshots(screen)
	g.state.endFrame()
	g.drew = true
}

// Layout tracks the window size so engine units keep spanning the window.
func (g *runner[T]) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.state.Width, g.state.Height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func (g *runner[T]) close() {
	if g.closed {
		return
	}
	g.closed = true
	if g.game.Close != nil {
		g.game.Close(g.state, g.world)
	}
}
