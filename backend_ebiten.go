package genji

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenBackend draws into an *ebiten.Image, normally the screen passed to
// ebiten's Draw. Textures are uploaded per draw and deallocated right after.
type EbitenBackend struct {
	target *ebiten.Image
	white  *ebiten.Image

	tess  tessellator
	verts []ebiten.Vertex
}

// NewEbitenBackend returns a backend drawing into target.
func NewEbitenBackend(target *ebiten.Image) *EbitenBackend {
	return &EbitenBackend{target: target}
}

// SetTarget replaces the image drawn into.
func (b *EbitenBackend) SetTarget(target *ebiten.Image) {
	b.target = target
}

// Size implements Backend.
func (b *EbitenBackend) Size() (int, int) {
	if b.target == nil {
		return 0, 0
	}
	s := b.target.Bounds().Size()
	return s.X, s.Y
}

// Clear implements Backend.
func (b *EbitenBackend) Clear(c Color) {
	if b.target != nil {
		b.target.Fill(c.Premultiplied())
	}
}

// ensureWhite returns a lazily-initialized 1x1 white pixel image used as the
// source of untextured meshes.
func (b *EbitenBackend) ensureWhite() *ebiten.Image {
	if b.white == nil {
		b.white = ebiten.NewImage(1, 1)
		b.white.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return b.white
}

// DrawMesh implements Backend with one DrawTriangles32 call.
func (b *EbitenBackend) DrawMesh(m *Mesh, mat *Mat4, tex *TextureData) error {
	if b.target == nil {
		return errNoTarget
	}
	w, h := b.Size()
	pts, inds := b.tess.build(m, mat, w, h)
	if len(inds) == 0 {
		return nil
	}

	src := b.ensureWhite()
	tw, th := 0, 0
	if tex != nil {
		src = ebiten.NewImageFromImage(tex.NRGBA())
		defer src.Deallocate()
		tw, th = tex.Width, tex.Height
	}

	b.verts = b.verts[:0]
	for _, p := range pts {
		sx, sy := float32(0.5), float32(0.5)
		if tex != nil {
			sx, sy = texPixel(p.U, p.V, tw, th)
		}
		b.verts = append(b.verts, ebiten.Vertex{
			DstX: p.X, DstY: p.Y,
			SrcX: sx, SrcY: sy,
			ColorR: p.Color[0], ColorG: p.Color[1], ColorB: p.Color[2], ColorA: p.Color[3],
		})
	}

	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModeStraightAlpha
	op.Blend = ebiten.BlendSourceOver
	b.target.DrawTriangles32(b.verts, inds, src, &op)
	return nil
}
