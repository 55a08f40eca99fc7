package genji

import (
	"github.com/yohamta/donburi"
)

const (
	defaultDepth        = 1
	defaultStrokeWeight = 4
)

// SpriteData is the fully-resolved set of drawing attributes for one sprite
// for one frame. It is recomputed every frame from whichever attribute
// components are attached; it has no identity of its own.
type SpriteData struct {
	X, Y         int32   // from the Point component (mandatory)
	Depth        uint32  // 0 hides the sprite; default 1
	Angle        float32 // degrees; default 0
	Fill         bool    // default true
	StrokeWeight uint32  // default 4
	Color        Color   // default opaque white
}

// DefaultSpriteData returns the record every sprite starts from.
func DefaultSpriteData() SpriteData {
	return SpriteData{
		Depth:        defaultDepth,
		Fill:         true,
		StrokeWeight: defaultStrokeWeight,
		Color:        ColorWhite,
	}
}

// Visible reports whether the sprite should be drawn at all.
func (sd SpriteData) Visible() bool {
	return sd.Depth > 0
}

// Resolve flattens the entity's optional attribute components into a
// SpriteData. Absent components keep their default; present ones override
// it exactly. ok is false when the entity has no position and must not be
// drawn.
func Resolve(e *donburi.Entry) (sd SpriteData, ok bool) {
	if e == nil || !e.Valid() || !e.HasComponent(PositionComponent) {
		return SpriteData{}, false
	}
	sd = DefaultSpriteData()
	pos := PositionComponent.GetValue(e)
	sd.X, sd.Y = pos.X, pos.Y

	if e.HasComponent(AngleComponent) {
		sd.Angle = float32(AngleComponent.GetValue(e))
	}
	if e.HasComponent(ColorComponent) {
		sd.Color = ColorComponent.GetValue(e)
	}
	if e.HasComponent(DepthComponent) {
		sd.Depth = uint32(DepthComponent.GetValue(e))
	}
	if e.HasComponent(FillComponent) {
		sd.Fill = bool(FillComponent.GetValue(e))
	}
	if e.HasComponent(StrokeWeightComponent) {
		sd.StrokeWeight = uint32(StrokeWeightComponent.GetValue(e))
	}
	return sd, true
}

// ResolveEntity is Resolve for an entity id in world w.
func ResolveEntity(w donburi.World, ent donburi.Entity) (SpriteData, bool) {
	if !w.Valid(ent) {
		return SpriteData{}, false
	}
	return Resolve(w.Entry(ent))
}
