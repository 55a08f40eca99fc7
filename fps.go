package genji

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
)

// fpsRefresh is how often the counter text is rebuilt.
const fpsRefresh = 500 * time.Millisecond

// FPSCounter is a text entity showing the measured frame and tick rates.
type FPSCounter struct {
	entity  donburi.Entity
	elapsed time.Duration
	sample  func() (fps, tps float64)
}

// SpawnFPSText creates a text entity at pos that the returned counter keeps
// up to date. Call Update once per frame with the frame delta.
func SpawnFPSText(w donburi.World, f *Font, size float32, pos Point, attrs ...Attr) *FPSCounter {
	c := &FPSCounter{sample: func() (float64, float64) { return ebiten.ActualFPS(), ebiten.ActualTPS() }}
	c.entity = Spawn(w, NewText(fpsLabel(0, 0), f, size), pos, attrs...)
	return c
}

// Entity returns the counter's text entity.
func (c *FPSCounter) Entity() donburi.Entity {
	return c.entity
}

// Update advances the counter by dt and rewrites the text every half
// second. It reports whether the text changed. A removed entity is left
// alone.
func (c *FPSCounter) Update(w donburi.World, dt time.Duration) bool {
	c.elapsed += dt
	if c.elapsed < fpsRefresh {
		return false
	}
	c.elapsed = 0
	if !w.Valid(c.entity) {
		return false
	}
	e := w.Entry(c.entity)
	if !e.HasComponent(TextComponent) {
		return false
	}
	t := TextComponent.GetValue(e)
	t.Content = fpsLabel(c.sample())
	TextComponent.SetValue(e, t)
	return true
}

func fpsLabel(fps, tps float64) string {
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f", fps, tps)
}
