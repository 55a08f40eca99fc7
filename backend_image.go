package genji

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"
)

// ImageBackend is a headless software backend over an *image.RGBA. It draws
// the same triangles the GPU backend would, so frames can be checked pixel
// by pixel without a window.
type ImageBackend struct {
	Target *image.RGBA

	tess tessellator
	rast *vector.Rasterizer
	mask *image.Alpha
}

// NewImageBackend returns a backend over a fresh w×h transparent image.
func NewImageBackend(w, h int) *ImageBackend {
	return &ImageBackend{Target: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// Size implements Backend.
func (b *ImageBackend) Size() (int, int) {
	s := b.Target.Bounds().Size()
	return s.X, s.Y
}

// Clear implements Backend.
func (b *ImageBackend) Clear(c Color) {
	draw.Draw(b.Target, b.Target.Bounds(), image.NewUniform(c.Premultiplied()), image.Point{}, draw.Src)
}

// DrawMesh implements Backend. Untextured meshes take the color of their
// first vertex; textured ones are mapped with the affine transform implied
// by their first three non-collinear vertices and tinted by its color.
func (b *ImageBackend) DrawMesh(m *Mesh, mat *Mat4, tex *TextureData) error {
	w, h := b.Size()
	verts, inds := b.tess.build(m, mat, w, h)
	if len(inds) == 0 {
		return nil
	}
	bounds, ok := b.coverage(verts, inds)
	if !ok {
		return nil
	}
	col := verts[0].Color

	if tex == nil {
		src := image.NewUniform(ColorFromF32Rounded(col[0], col[1], col[2], col[3]).Premultiplied())
		draw.DrawMask(b.Target, bounds, src, image.Point{}, b.mask, bounds.Min, draw.Over)
		return nil
	}

	aff, ok := b.texAffine(tex)
	if !ok {
		return nil
	}
	src := tintNRGBA(tex.NRGBA(), col)
	draw.NearestNeighbor.Transform(b.Target, aff, src, src.Bounds(), draw.Over, &draw.Options{
		DstMask:  b.mask,
		DstMaskP: image.Point{},
	})
	return nil
}

// coverage rasterizes the triangles into b.mask, sized to the whole target,
// and returns the clipped bounding box of the geometry.
func (b *ImageBackend) coverage(verts []screenVertex, inds []uint32) (image.Rectangle, bool) {
	w, h := b.Size()
	minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxY := float32(-math.MaxFloat32), float32(-math.MaxFloat32)
	for _, v := range verts {
		minX, minY = min(minX, v.X), min(minY, v.Y)
		maxX, maxY = max(maxX, v.X), max(maxY, v.Y)
	}
	bounds := image.Rect(
		int(math.Floor(float64(minX))), int(math.Floor(float64(minY))),
		int(math.Ceil(float64(maxX))), int(math.Ceil(float64(maxY))),
	).Intersect(image.Rect(0, 0, w, h))
	if bounds.Empty() {
		return bounds, false
	}

	if b.rast == nil {
		b.rast = vector.NewRasterizer(w, h)
	} else {
		b.rast.Reset(w, h)
	}
	for i := 0; i+2 < len(inds); i += 3 {
		p0, p1, p2 := verts[inds[i]], verts[inds[i+1]], verts[inds[i+2]]
		area := (p1.X-p0.X)*(p2.Y-p0.Y) - (p1.Y-p0.Y)*(p2.X-p0.X)
		if area == 0 {
			continue
		}
		// Coverage accumulates signed area; one winding keeps overlaps additive.
		if area < 0 {
			p1, p2 = p2, p1
		}
		b.rast.MoveTo(p0.X, p0.Y)
		b.rast.LineTo(p1.X, p1.Y)
		b.rast.LineTo(p2.X, p2.Y)
		b.rast.ClosePath()
	}
	if b.mask == nil || b.mask.Rect.Dx() != w || b.mask.Rect.Dy() != h {
		b.mask = image.NewAlpha(image.Rect(0, 0, w, h))
	} else {
		clear(b.mask.Pix)
	}
	b.rast.DrawOp = draw.Src
	b.rast.Draw(b.mask, b.mask.Bounds(), image.Opaque, image.Point{})
	return bounds, true
}

// texAffine solves the source-to-target affine transform from the projected
// mesh vertices. ok is false for degenerate meshes.
func (b *ImageBackend) texAffine(tex *TextureData) (f64.Aff3, bool) {
	pts := b.tess.pts
	for i := 0; i+2 < len(pts); i++ {
		p0, p1, p2 := pts[i], pts[i+1], pts[i+2]
		s0x, s0y := texPixel(p0.U, p0.V, tex.Width, tex.Height)
		s1x, s1y := texPixel(p1.U, p1.V, tex.Width, tex.Height)
		s2x, s2y := texPixel(p2.U, p2.V, tex.Width, tex.Height)

		// Source edge matrix S and target edge matrix D; M = D * S^-1.
		a, c := float64(s1x-s0x), float64(s2x-s0x)
		bb, d := float64(s1y-s0y), float64(s2y-s0y)
		det := a*d - c*bb
		if math.Abs(det) < 1e-9 {
			continue
		}
		ia, ic := d/det, -c/det
		ib, id := -bb/det, a/det

		e, g := float64(p1.X-p0.X), float64(p2.X-p0.X)
		f, hh := float64(p1.Y-p0.Y), float64(p2.Y-p0.Y)
		m00, m01 := e*ia+g*ib, e*ic+g*id
		m10, m11 := f*ia+hh*ib, f*ic+hh*id
		tx := float64(p0.X) - (m00*float64(s0x) + m01*float64(s0y))
		ty := float64(p0.Y) - (m10*float64(s0x) + m11*float64(s0y))
		return f64.Aff3{m00, m01, tx, m10, m11, ty}, true
	}
	return f64.Aff3{}, false
}

// tintNRGBA multiplies every texel by col. White returns src unchanged.
func tintNRGBA(src *image.NRGBA, col [4]float32) *image.NRGBA {
	if col == [4]float32{1, 1, 1, 1} {
		return src
	}
	dst := image.NewNRGBA(src.Rect)
	for i := 0; i+3 < len(src.Pix) && i+3 < len(dst.Pix); i += 4 {
		for c := 0; c < 4; c++ {
			dst.Pix[i+c] = truncByte(float32(src.Pix[i+c])*col[c] + 0.5)
		}
	}
	return dst
}
