package genji

import (
	"math"
	"math/rand/v2"

	"github.com/yohamta/donburi"
)

// Range is a closed interval sampled uniformly.
type Range struct {
	Min, Max float64
}

// Random returns a random value in [Min, Max].
func (r Range) Random() float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rand.Float64()*(r.Max-r.Min)
}

// EmitterConfig controls how particles are spawned and behave. Distances
// are engine units and times are seconds.
type EmitterConfig struct {
	// MaxParticles is the pool size. New particles are dropped when full.
	// Default 128.
	MaxParticles int
	// EmitRate is the number of particles spawned per second.
	EmitRate float64
	// Lifetime is the range of particle lifetimes. Non-positive samples
	// live one second.
	Lifetime Range
	// Speed is the range of initial speeds in units per second.
	Speed Range
	// Angle is the range of emission directions in degrees, counterclockwise
	// from +X.
	Angle Range
	// Gravity is the constant acceleration applied to every particle, in
	// units per second squared. Negative Y pulls down.
	GravityX, GravityY float64
	// StartColor is the color at birth, interpolated to EndColor over the
	// particle's life, alpha included.
	StartColor Color
	EndColor   Color
	// Shape is drawn for every particle. Default a 4-unit filled circle.
	Shape Shape
	// Depth of live particles. Default 1.
	Depth uint32
}

func (c EmitterConfig) withDefaults() EmitterConfig {
	if c.MaxParticles <= 0 {
		c.MaxParticles = 128
	}
	if c.Shape == nil {
		c.Shape = NewCircle(4)
	}
	if c.Depth == 0 {
		c.Depth = defaultDepth
	}
	return c
}

// particle holds per-particle simulation state. Positions are kept in
// floats so slow particles still move; the entity gets them rounded.
type particle struct {
	entity  donburi.Entity
	x, y    float64
	vx, vy  float64
	life    float64 // remaining lifetime
	maxLife float64
}

// ParticleEmitter spawns short-lived sprites into a world. Every pooled
// particle is an entity created up front; dead particles are hidden with
// depth 0 and reused, so the world never churns entities.
type ParticleEmitter struct {
	config    EmitterConfig
	particles []particle // [0, alive) are live
	alive     int
	emitAccum float64
	active    bool

	// X and Y are where new particles appear.
	X, Y int32
}

// NewParticleEmitter creates the emitter's pooled entities in w, all hidden.
func NewParticleEmitter(w donburi.World, x, y int32, cfg EmitterConfig) *ParticleEmitter {
	cfg = cfg.withDefaults()
	e := &ParticleEmitter{config: cfg, particles: make([]particle, cfg.MaxParticles), X: x, Y: y}
	for i := range e.particles {
		e.particles[i].entity = Spawn(w, cfg.Shape, Pt(x, y), WithDepth(0), WithColor(cfg.StartColor))
	}
	return e
}

// Start begins emitting particles.
func (e *ParticleEmitter) Start() {
	e.active = true
}

// Stop stops emitting new particles. Existing particles live out their life.
func (e *ParticleEmitter) Stop() {
	e.active = false
}

// Reset stops emitting and hides every live particle.
func (e *ParticleEmitter) Reset(w donburi.World) {
	e.active = false
	for i := 0; i < e.alive; i++ {
		hide(w, e.particles[i].entity)
	}
	e.alive = 0
	e.emitAccum = 0
}

// IsActive reports whether the emitter is currently emitting new particles.
func (e *ParticleEmitter) IsActive() bool {
	return e.active
}

// AliveCount returns the number of live particles.
func (e *ParticleEmitter) AliveCount() int {
	return e.alive
}

// Config returns a pointer to the emitter's config for live tuning. Shape
// and MaxParticles only apply to emitters created afterwards.
func (e *ParticleEmitter) Config() *EmitterConfig {
	return &e.config
}

// Update advances the simulation by dt seconds and writes every live
// particle's position and color to its entity.
func (e *ParticleEmitter) Update(w donburi.World, dt float64) {
	gx := e.config.GravityX * dt
	gy := e.config.GravityY * dt

	i := 0
	for i < e.alive {
		p := &e.particles[i]
		p.life -= dt
		if p.life <= 0 {
			hide(w, p.entity)
			// Swap with the last live particle.
			e.alive--
			e.particles[i], e.particles[e.alive] = e.particles[e.alive], e.particles[i]
			continue
		}
		p.vx += gx
		p.vy += gy
		p.x += p.vx * dt
		p.y += p.vy * dt
		e.write(w, p)
		i++
	}

	if !e.active || e.config.EmitRate <= 0 {
		return
	}
	e.emitAccum += e.config.EmitRate * dt
	for e.emitAccum >= 1.0 {
		e.emitAccum -= 1.0
		if e.alive < len(e.particles) {
			e.spawn(w)
		}
	}
}

// spawn revives the particle at slot e.alive.
func (e *ParticleEmitter) spawn(w donburi.World) {
	p := &e.particles[e.alive]
	rad := e.config.Angle.Random() * math.Pi / 180
	speed := e.config.Speed.Random()
	p.vx, p.vy = math.Cos(rad)*speed, math.Sin(rad)*speed
	p.x, p.y = float64(e.X), float64(e.Y)
	p.life = e.config.Lifetime.Random()
	if p.life <= 0 {
		p.life = 1.0
	}
	p.maxLife = p.life
	if !w.Valid(p.entity) {
		return
	}
	DepthComponent.SetValue(w.Entry(p.entity), Depth(e.config.Depth))
	e.write(w, p)
	e.alive++
}

func (e *ParticleEmitter) write(w donburi.World, p *particle) {
	if !w.Valid(p.entity) {
		return
	}
	entry := w.Entry(p.entity)
	PositionComponent.SetValue(entry, Pt(int32(math.Round(p.x)), int32(math.Round(p.y))))
	t := float32(1.0 - p.life/p.maxLife)
	ColorComponent.SetValue(entry, lerpColor(e.config.StartColor, e.config.EndColor, t))
}

func hide(w donburi.World, ent donburi.Entity) {
	if w.Valid(ent) {
		DepthComponent.SetValue(w.Entry(ent), 0)
	}
}

func lerpColor(a, b Color, t float32) Color {
	return Color{
		R: roundByte(lerp32(float32(a.R), float32(b.R), t)),
		G: roundByte(lerp32(float32(a.G), float32(b.G), t)),
		B: roundByte(lerp32(float32(a.B), float32(b.B), t)),
		A: roundByte(lerp32(float32(a.A), float32(b.A), t)),
	}
}

// lerp32 linearly interpolates between a and b by t.
func lerp32(a, b, t float32) float32 {
	return a + (b-a)*t
}
