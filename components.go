package genji

import (
	"github.com/yohamta/donburi"
)

// Angle is a sprite's rotation in degrees, clockwise-positive.
// Defaults to 0.
type Angle float32

// Depth is a sprite's z-level. Higher values draw further back; 0 hides the
// sprite. Defaults to 1.
type Depth uint32

// Fill reports whether a shape is drawn solid (true) or as an outline.
// Defaults to true.
type Fill bool

// StrokeWeight is the outline thickness used when Fill is false.
// Defaults to 4.
type StrokeWeight uint32

// Component types registered with donburi. PositionComponent is mandatory
// for a sprite to be drawn; every other attribute falls back to its default.
var (
	PositionComponent     = donburi.NewComponentType[Point]()
	AngleComponent        = donburi.NewComponentType[Angle]()
	ColorComponent        = donburi.NewComponentType[Color](ColorWhite)
	DepthComponent        = donburi.NewComponentType[Depth](Depth(defaultDepth))
	FillComponent         = donburi.NewComponentType[Fill](Fill(true))
	StrokeWeightComponent = donburi.NewComponentType[StrokeWeight](StrokeWeight(defaultStrokeWeight))

	RectComponent     = donburi.NewComponentType[Rect]()
	CircleComponent   = donburi.NewComponentType[Circle]()
	TriangleComponent = donburi.NewComponentType[Triangle]()
	TextComponent     = donburi.NewComponentType[Text]()
	TextureComponent  = donburi.NewComponentType[Texture]()
)

// Attr is an optional attribute applied by Spawn. Build them with
// WithAngle, WithColor, WithDepth, WithFill and WithStrokeWeight.
type Attr struct {
	ctype donburi.IComponentType
	apply func(*donburi.Entry)
}

// WithAngle attaches an Angle component.
func WithAngle(a float32) Attr {
	return Attr{AngleComponent, func(e *donburi.Entry) { AngleComponent.SetValue(e, Angle(a)) }}
}

// WithColor attaches a Color component.
func WithColor(c Color) Attr {
	return Attr{ColorComponent, func(e *donburi.Entry) { ColorComponent.SetValue(e, c) }}
}

// WithDepth attaches a Depth component.
func WithDepth(d uint32) Attr {
	return Attr{DepthComponent, func(e *donburi.Entry) { DepthComponent.SetValue(e, Depth(d)) }}
}

// WithFill attaches a Fill component.
func WithFill(f bool) Attr {
	return Attr{FillComponent, func(e *donburi.Entry) { FillComponent.SetValue(e, Fill(f)) }}
}

// WithStrokeWeight attaches a StrokeWeight component.
func WithStrokeWeight(w uint32) Attr {
	return Attr{StrokeWeightComponent, func(e *donburi.Entry) { StrokeWeightComponent.SetValue(e, StrokeWeight(w)) }}
}

// Spawn creates an entity carrying the shape, a position and the given
// attributes, and returns it.
func Spawn(w donburi.World, s Shape, pos Point, attrs ...Attr) donburi.Entity {
	shapeType := shapeComponent(s)
	types := make([]donburi.IComponentType, 0, len(attrs)+2)
	types = append(types, shapeType, PositionComponent)
	for _, a := range attrs {
		types = append(types, a.ctype)
	}
	ent := w.Create(types...)
	entry := w.Entry(ent)
	setShape(entry, s)
	PositionComponent.SetValue(entry, pos)
	for _, a := range attrs {
		a.apply(entry)
	}
	return ent
}

func shapeComponent(s Shape) donburi.IComponentType {
	switch s.Kind() {
	case KindRect:
		return RectComponent
	case KindCircle:
		return CircleComponent
	case KindTriangle:
		return TriangleComponent
	case KindText:
		return TextComponent
	default:
		return TextureComponent
	}
}

func setShape(e *donburi.Entry, s Shape) {
	switch v := s.(type) {
	case Rect:
		RectComponent.SetValue(e, v)
	case *Rect:
		RectComponent.SetValue(e, *v)
	case Circle:
		CircleComponent.SetValue(e, v)
	case *Circle:
		CircleComponent.SetValue(e, *v)
	case Triangle:
		TriangleComponent.SetValue(e, v)
	case *Triangle:
		TriangleComponent.SetValue(e, *v)
	case Text:
		TextComponent.SetValue(e, v)
	case *Text:
		TextComponent.SetValue(e, *v)
	case Texture:
		TextureComponent.SetValue(e, v)
	case *Texture:
		TextureComponent.SetValue(e, *v)
	}
}
