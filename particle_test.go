package genji

import (
	"testing"

	"github.com/yohamta/donburi"
)

func liveParticles(t *testing.T, w donburi.World, e *ParticleEmitter) []SpriteData {
	t.Helper()
	var out []SpriteData
	for _, p := range e.particles {
		sd, ok := ResolveEntity(w, p.entity)
		if !ok {
			t.Fatalf("pooled entity %v missing", p.entity)
		}
		if sd.Visible() {
			out = append(out, sd)
		}
	}
	return out
}

func TestParticleEmitter_PoolIsHidden(t *testing.T) {
	w := donburi.NewWorld()
	e := NewParticleEmitter(w, 0, 0, EmitterConfig{MaxParticles: 8})
	if got := w.Len(); got != 8 {
		t.Errorf("world has %d entities, want 8 pooled", got)
	}
	if got := len(liveParticles(t, w, e)); got != 0 {
		t.Errorf("%d particles visible before Start", got)
	}

	r := NewRenderer(RenderConfig{})
	stats, err := r.RenderFrame(w, newRecordingBackend(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Hidden != 8 || stats.Drawn != 0 {
		t.Errorf("stats = %+v, want 8 hidden", stats)
	}
}

func TestParticleEmitter_EmitRate(t *testing.T) {
	w := donburi.NewWorld()
	e := NewParticleEmitter(w, 10, 20, EmitterConfig{
		MaxParticles: 16,
		EmitRate:     10,
		Lifetime:     Range{Min: 5, Max: 5},
		Depth:        3,
	})
	e.Start()
	e.Update(w, 0.5)
	if got := e.AliveCount(); got != 5 {
		t.Fatalf("alive = %d, want 5", got)
	}
	live := liveParticles(t, w, e)
	if len(live) != 5 {
		t.Fatalf("visible = %d, want 5", len(live))
	}
	for _, sd := range live {
		if sd.Depth != 3 || sd.X != 10 || sd.Y != 20 {
			t.Errorf("new particle = %+v, want depth 3 at (10, 20)", sd)
		}
	}
}

func TestParticleEmitter_PoolLimit(t *testing.T) {
	w := donburi.NewWorld()
	e := NewParticleEmitter(w, 0, 0, EmitterConfig{MaxParticles: 4, EmitRate: 100, Lifetime: Range{Min: 10, Max: 10}})
	e.Start()
	e.Update(w, 1)
	if got := e.AliveCount(); got != 4 {
		t.Errorf("alive = %d, want the pool size 4", got)
	}
}

func TestParticleEmitter_MovesAndFades(t *testing.T) {
	w := donburi.NewWorld()
	e := NewParticleEmitter(w, 0, 0, EmitterConfig{
		MaxParticles: 1,
		EmitRate:     1,
		Lifetime:     Range{Min: 2, Max: 2},
		Speed:        Range{Min: 100, Max: 100},
		Angle:        Range{Min: 90, Max: 90},
		StartColor:   NewColor(255, 255, 255, 255),
		EndColor:     NewColor(255, 255, 255, 0),
	})
	e.Start()
	e.Update(w, 1) // spawn
	e.Stop()
	e.Update(w, 1) // fly for a second, half its life

	live := liveParticles(t, w, e)
	if len(live) != 1 {
		t.Fatalf("visible = %d, want 1", len(live))
	}
	if live[0].X != 0 || live[0].Y != 100 {
		t.Errorf("position = (%d, %d), want (0, 100)", live[0].X, live[0].Y)
	}
	if a := live[0].Color.A; a < 126 || a > 129 {
		t.Errorf("alpha = %d, want about 128", a)
	}

	e.Update(w, 1.5)
	if e.AliveCount() != 0 || len(liveParticles(t, w, e)) != 0 {
		t.Error("expired particle still visible")
	}
}

func TestParticleEmitter_Gravity(t *testing.T) {
	w := donburi.NewWorld()
	e := NewParticleEmitter(w, 0, 0, EmitterConfig{
		MaxParticles: 1,
		EmitRate:     1,
		Lifetime:     Range{Min: 10, Max: 10},
		GravityY:     -100,
	})
	e.Start()
	e.Update(w, 1)
	e.Stop()
	e.Update(w, 1)
	if live := liveParticles(t, w, e); live[0].Y != -100 {
		t.Errorf("y = %d, want -100 after one second of gravity", live[0].Y)
	}
}

func TestParticleEmitter_Reset(t *testing.T) {
	w := donburi.NewWorld()
	e := NewParticleEmitter(w, 0, 0, EmitterConfig{MaxParticles: 4, EmitRate: 4, Lifetime: Range{Min: 9, Max: 9}})
	e.Start()
	e.Update(w, 1)
	if !e.IsActive() || e.AliveCount() != 4 {
		t.Fatalf("active %v alive %d", e.IsActive(), e.AliveCount())
	}
	e.Reset(w)
	if e.IsActive() || e.AliveCount() != 0 || len(liveParticles(t, w, e)) != 0 {
		t.Error("Reset left particles alive")
	}
}

func TestRangeRandom(t *testing.T) {
	if got := (Range{Min: 3, Max: 3}).Random(); got != 3 {
		t.Errorf("got %v, want 3", got)
	}
	r := Range{Min: -1, Max: 2}
	for range 100 {
		if v := r.Random(); v < r.Min || v > r.Max {
			t.Fatalf("%v outside %v", v, r)
		}
	}
}
