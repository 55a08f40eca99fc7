package genji

import (
	"math"

	"github.com/chewxy/math32"
)

// ShapeKind identifies one of the five drawable shape variants.
type ShapeKind uint8

const (
	KindRect     ShapeKind = iota // axis-aligned rectangle centered on its position
	KindCircle                    // circle centered on its position
	KindTriangle                  // isosceles-ish triangle with a movable tip
	KindText                      // rasterized text run
	KindTexture                   // RGBA image quad
)

var kindNames = [...]string{"rect", "circle", "triangle", "text", "texture"}

// String implements fmt.Stringer.
func (k ShapeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Shape is the closed set of drawable variants: Rect, Circle, Triangle,
// Text and Texture. Shapes carry only their own geometry; position, color,
// depth and the rest are attached as separate components.
type Shape interface {
	Kind() ShapeKind
	isShape()
}

// Rect is a rectangle of width W and height H in engine units.
type Rect struct {
	W, H int32
}

// Circle is a circle of radius R in engine units.
type Circle struct {
	R int32
}

// Triangle has a base of width W, a height H from base to tip, and the tip
// offset horizontally by O.
type Triangle struct {
	W, H, O int32
}

func (Rect) Kind() ShapeKind     { return KindRect }
func (Circle) Kind() ShapeKind   { return KindCircle }
func (Triangle) Kind() ShapeKind { return KindTriangle }
func (Text) Kind() ShapeKind     { return KindText }
func (Texture) Kind() ShapeKind  { return KindTexture }

func (Rect) isShape()     {}
func (Circle) isShape()   {}
func (Triangle) isShape() {}
func (Text) isShape()     {}
func (Texture) isShape()  {}

// NewRect returns a Rect.
func NewRect(w, h int32) Rect { return Rect{W: w, H: h} }

// NewCircle returns a Circle.
func NewCircle(r int32) Circle { return Circle{R: r} }

// NewTriangle returns a Triangle with base width w, height h and tip offset o.
func NewTriangle(w, h, o int32) Triangle { return Triangle{W: w, H: h, O: o} }

// --- Point containment ---

// Contains reports whether point lies within shape s drawn at pos and
// rotated by angle degrees. Text has no hit area and always reports false.
func Contains(s Shape, pos, point Point, angle float32) bool {
	return ContainsCorrected(s, pos, pivot(point, angle, pos))
}

// ContainsCorrected is Contains for a point already rotated into the
// shape's unrotated frame.
func ContainsCorrected(s Shape, pos, point Point) bool {
	switch v := s.(type) {
	case Rect:
		return rectContains(v.W, v.H, pos, point)
	case *Rect:
		return rectContains(v.W, v.H, pos, point)
	case Circle:
		return circleContains(v.R, pos, point)
	case *Circle:
		return circleContains(v.R, pos, point)
	case Triangle:
		return triangleContains(v, pos, point)
	case *Triangle:
		return triangleContains(*v, pos, point)
	case Texture:
		return textureContains(v.W, v.H, pos, point)
	case *Texture:
		return textureContains(v.W, v.H, pos, point)
	}
	return false
}

func circleContains(r int32, pos, point Point) bool {
	return pos.Sub(point).Len() < float32(r)
}

func rectContains(w, h int32, pos, point Point) bool {
	minX, minY := pos.X-w/2, pos.Y-h/2
	maxX, maxY := pos.X+w/2, pos.Y+h/2
	return minX <= point.X && point.X <= maxX && minY <= point.Y && point.Y <= maxY
}

// textureContains uses the strict point partial order, so edges are outside.
func textureContains(w, h int32, pos, point Point) bool {
	lo := Point{pos.X - w/2, pos.Y - h/2}
	hi := Point{pos.X + w/2, pos.Y + h/2}
	return lo.Less(point) && point.Less(hi)
}

func triangleContains(t Triangle, pos, point Point) bool {
	a, b, c := trianglePoints(pos, t.W, t.H, t.O)
	return orientation(a, b, point) && orientation(b, c, point) && orientation(c, a, point)
}

func trianglePoints(pos Point, w, h, o int32) (Point, Point, Point) {
	w /= 2
	h /= 2
	return Point{pos.X - w, pos.Y - h},
		Point{pos.X + w, pos.Y - h},
		Point{pos.X + o, pos.Y + h}
}

// orientation reports whether c is strictly left of the directed edge a→b.
func orientation(a, b, c Point) bool {
	return b.Sub(a).Cross(c.Sub(a)) > 0
}

// pivot rotates point around center by angle degrees, rounding to the
// nearest engine unit.
func pivot(point Point, angle float32, center Point) Point {
	rad := angle * (math32.Pi / 180)
	sin, cos := math32.Sin(rad), math32.Cos(rad)
	dx := float32(point.X - center.X)
	dy := float32(point.Y - center.Y)
	return Point{
		X: int32(math.Round(float64(dx*cos-dy*sin))) + center.X,
		Y: int32(math.Round(float64(dx*sin+dy*cos))) + center.Y,
	}
}
