package genji

import "time"

// GameState is the engine-owned state handed to the game loop each frame,
// with the game's own data in State.
type GameState[T any] struct {
	Title  string
	Width  int // window width in pixels
	Height int // window height in pixels

	// ClearColor fills the window before each frame. Nil leaves the previous
	// frame's pixels in place.
	ClearColor *Color

	State T

	// Keys holds keys that are down. Pressed holds keys that went down this
	// frame and is cleared after every frame.
	Keys    Keys
	Pressed Keys

	// FPS is the target frame rate. Delta is the time since the previous
	// frame, never less than one frame period.
	FPS   int
	Delta time.Duration

	// MouseX and MouseY are the cursor position in engine units, Y up.
	MouseX int32
	MouseY int32

	// Scroll is the wheel movement this frame, 40 units per line. It is
	// cleared after every frame.
	Scroll int32

	// CloseOnRequest ends the game as soon as the window is asked to close.
	// Otherwise AskedToClose is set and the loop decides.
	CloseOnRequest bool
	AskedToClose   bool
}

// NewGameState returns state for a game configured by cfg.
func NewGameState[T any](state T, cfg RunConfig) *GameState[T] {
	cfg = cfg.withDefaults()
	return &GameState[T]{
		Title:          cfg.Title,
		Width:          cfg.Width,
		Height:         cfg.Height,
		ClearColor:     cfg.ClearColor,
		State:          state,
		FPS:            cfg.FPS,
		CloseOnRequest: cfg.CloseOnRequest,
	}
}

// FramePeriod returns the target time per frame.
func (s *GameState[T]) FramePeriod() time.Duration {
	if s.FPS <= 0 {
		return time.Second / defaultFPS
	}
	return time.Second / time.Duration(s.FPS)
}

// applyInput copies one polled tick into the state. Cursor pixel positions
// map to engine units against the current window size.
func (s *GameState[T]) applyInput(in inputFrame) {
	s.Keys = in.keys
	for i, p := range in.pressed {
		if p {
			s.Pressed[i] = true
		}
	}
	s.Scroll += in.scroll
	s.MouseX = PixelToEngineX(in.cursorX, s.Width)
	s.MouseY = PixelToEngineY(in.cursorY, s.Height)
}

// advanceDelta records the time since last, floored to one frame period.
func (s *GameState[T]) advanceDelta(elapsed time.Duration) {
	if p := s.FramePeriod(); elapsed < p {
		elapsed = p
	}
	s.Delta = elapsed
}

// endFrame clears the per-frame input.
func (s *GameState[T]) endFrame() {
	s.Pressed.Reset()
	s.Scroll = 0
}
