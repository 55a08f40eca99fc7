package genji

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
)

// TweenGroup animates up to four attribute values of one entity at once.
// Create one with TweenPosition, TweenAngle, TweenColor or TweenDepth and
// call Update(dt) each frame. The group writes the entity's components on
// every update, adding the component if it is missing. If the entity is
// removed from its world, the group stops immediately.
//
// There is no global animation manager; games call Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	apply  func(e *donburi.Entry, v [4]float32)
	target *donburi.Entry
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// entity.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target == nil || !g.target.Valid() {
		g.Done = true
		return
	}

	var vals [4]float32
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		vals[i] = val
		if !finished {
			allDone = false
		}
	}
	g.apply(g.target, vals)
	g.Done = allDone
}

// TweenPosition animates the entity's position to to.
func TweenPosition(e *donburi.Entry, to Point, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := componentOr(e, PositionComponent, Point{})
	g := &TweenGroup{count: 2, target: e}
	g.tweens[0] = gween.New(float32(from.X), float32(to.X), duration, fn)
	g.tweens[1] = gween.New(float32(from.Y), float32(to.Y), duration, fn)
	g.apply = func(e *donburi.Entry, v [4]float32) {
		setComponent(e, PositionComponent, Point{roundInt32(v[0]), roundInt32(v[1])})
	}
	return g
}

// TweenAngle animates the entity's angle, in degrees, to to.
func TweenAngle(e *donburi.Entry, to float32, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := componentOr(e, AngleComponent, Angle(0))
	g := &TweenGroup{count: 1, target: e}
	g.tweens[0] = gween.New(float32(from), to, duration, fn)
	g.apply = func(e *donburi.Entry, v [4]float32) {
		setComponent(e, AngleComponent, Angle(v[0]))
	}
	return g
}

// TweenColor animates all four channels of the entity's color to to.
func TweenColor(e *donburi.Entry, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := componentOr(e, ColorComponent, ColorWhite)
	g := &TweenGroup{count: 4, target: e}
	g.tweens[0] = gween.New(float32(from.R), float32(to.R), duration, fn)
	g.tweens[1] = gween.New(float32(from.G), float32(to.G), duration, fn)
	g.tweens[2] = gween.New(float32(from.B), float32(to.B), duration, fn)
	g.tweens[3] = gween.New(float32(from.A), float32(to.A), duration, fn)
	g.apply = func(e *donburi.Entry, v [4]float32) {
		setComponent(e, ColorComponent, Color{roundByte(v[0]), roundByte(v[1]), roundByte(v[2]), roundByte(v[3])})
	}
	return g
}

// TweenDepth animates the entity's depth to to. Reaching 0 hides it.
func TweenDepth(e *donburi.Entry, to uint32, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := componentOr(e, DepthComponent, Depth(defaultDepth))
	g := &TweenGroup{count: 1, target: e}
	g.tweens[0] = gween.New(float32(from), float32(to), duration, fn)
	g.apply = func(e *donburi.Entry, v [4]float32) {
		setComponent(e, DepthComponent, Depth(max(roundInt32(v[0]), 0)))
	}
	return g
}

func componentOr[T any](e *donburi.Entry, c *donburi.ComponentType[T], def T) T {
	if e == nil || !e.Valid() || !e.HasComponent(c) {
		return def
	}
	return c.GetValue(e)
}

func setComponent[T any](e *donburi.Entry, c *donburi.ComponentType[T], v T) {
	if !e.HasComponent(c) {
		donburi.Add(e, c, &v)
		return
	}
	c.SetValue(e, v)
}

func roundInt32(v float32) int32 {
	return int32(math.Round(float64(v)))
}

func roundByte(v float32) uint8 {
	return uint8(min(max(math.Round(float64(v)), 0), 255))
}
