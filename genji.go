package genji

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
)

// Color is an RGBA color in byte format. Not premultiplied.
// The zero value is transparent black; the engine default is ColorWhite.
type Color struct {
	R, G, B, A uint8
}

// ColorWhite is the default sprite color (opaque white).
var ColorWhite = Color{255, 255, 255, 255}

// NewColor returns a color from its four channels.
func NewColor(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// WithR returns a copy of c with the red channel replaced.
func (c Color) WithR(r uint8) Color {
	c.R = r
	return c
}

// WithG returns a copy of c with the green channel replaced.
func (c Color) WithG(g uint8) Color {
	c.G = g
	return c
}

// WithB returns a copy of c with the blue channel replaced.
func (c Color) WithB(b uint8) Color {
	c.B = b
	return c
}

// WithA returns a copy of c with the opacity replaced.
func (c Color) WithA(a uint8) Color {
	c.A = a
	return c
}

// ToF32 scales each channel from 0-255 to 0.0-1.0.
func (c Color) ToF32() [4]float32 {
	return [4]float32{
		float32(c.R) / 255.0,
		float32(c.G) / 255.0,
		float32(c.B) / 255.0,
		float32(c.A) / 255.0,
	}
}

// ColorFromF32 scales each channel from 0.0-1.0 to 0-255. The product is
// truncated toward zero and saturated to the byte range.
func ColorFromF32(r, g, b, a float32) Color {
	return Color{
		R: truncByte(r * 255.0),
		G: truncByte(g * 255.0),
		B: truncByte(b * 255.0),
		A: truncByte(a * 255.0),
	}
}

// ColorFromF32Rounded is ColorFromF32 with round-to-nearest instead of
// truncation. ColorFromF32Rounded(c.ToF32()...) == c for every c.
func ColorFromF32Rounded(r, g, b, a float32) Color {
	return Color{
		R: truncByte(float32(math.Round(float64(r * 255.0)))),
		G: truncByte(float32(math.Round(float64(g * 255.0)))),
		B: truncByte(float32(math.Round(float64(b * 255.0)))),
		A: truncByte(float32(math.Round(float64(a * 255.0)))),
	}
}

func truncByte(v float32) uint8 {
	switch {
	case v != v, v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

// NRGBA returns the color as a straight-alpha color.NRGBA.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Premultiplied returns the color as a premultiplied color.RGBA, the form
// ebiten and image/draw expect.
func (c Color) Premultiplied() color.RGBA {
	a := uint16(c.A)
	return color.RGBA{
		R: uint8(uint16(c.R) * a / 255),
		G: uint8(uint16(c.G) * a / 255),
		B: uint8(uint16(c.B) * a / 255),
		A: c.A,
	}
}

// Point is a 2D integer vector in engine coordinates, usually a position.
type Point struct {
	X, Y int32
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int32) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mul returns p scaled by k.
func (p Point) Mul(k int32) Point { return Point{p.X * k, p.Y * k} }

// Div returns p divided by k using integer division. k must be non-zero;
// Div(0) panics like any integer division by zero.
func (p Point) Div(k int32) Point { return Point{p.X / k, p.Y / k} }

// Cross returns the z component of the cross product p × q.
func (p Point) Cross(q Point) int32 {
	return p.X*q.Y - p.Y*q.X
}

// Len returns the length of the vector.
func (p Point) Len() float32 {
	x, y := float64(p.X), float64(p.Y)
	return float32(math.Sqrt(x*x + y*y))
}

// Norm returns the normalized vector. Normalizing with integers loses too
// much, so the result is float32. The zero vector yields NaN components.
func (p Point) Norm() (float32, float32) {
	l := p.Len()
	return float32(p.X) / l, float32(p.Y) / l
}

// Compare orders points by the partial order used for bounding-box checks.
// p < q only when both coordinates of p are smaller. ok is false when the
// points are incomparable.
func (p Point) Compare(q Point) (cmp int, ok bool) {
	switch {
	case q.X > p.X && q.Y > p.Y:
		return -1, true
	case q.X < p.X && q.Y < p.Y:
		return 1, true
	case q.X == p.X && q.Y == p.Y:
		return 0, true
	}
	return 0, false
}

// Less reports whether p < q under the partial order.
func (p Point) Less(q Point) bool {
	c, ok := p.Compare(q)
	return ok && c < 0
}

// String implements fmt.Stringer.
func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Sentinel errors returned (wrapped) by constructors and the renderer.
var (
	ErrEmptyText        = errors.New("genji: text has no glyphs")
	ErrZeroTexture      = errors.New("genji: texture has zero size")
	ErrUnknownFormat    = errors.New("genji: unknown image format")
	ErrSpritemapGrid    = errors.New("genji: spritemap grid does not divide the image")
	ErrSpriteOutOfRange = errors.New("genji: sprite is outside the spritemap")
)

// logf writes a prefixed diagnostic line to stderr.
func logf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[genji] "+format+"\n", args...)
}
