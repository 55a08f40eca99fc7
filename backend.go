package genji

import (
	"errors"
	"math"
)

var errNoTarget = errors.New("genji: backend has no target image")

// Backend receives the ordered draw calls of a frame. Implementations own
// the target surface; the renderer never touches it directly.
type Backend interface {
	// Size returns the target size in pixels.
	Size() (width, height int)
	// Clear fills the whole target with c.
	Clear(c Color)
	// DrawMesh draws m transformed by mat with alpha blending. tex is nil for
	// untextured shapes; otherwise it is sampled by the vertex TexCoords and
	// only valid for the duration of the call.
	DrawMesh(m *Mesh, mat *Mat4, tex *TextureData) error
}

// screenVertex is a mesh vertex after the sprite transform, in target pixels.
type screenVertex struct {
	X, Y  float32
	U, V  float32 // TexCoord as given, 0..1 with V up
	Color [4]float32
}

// tessellator flattens meshes into indexed triangles in pixel space. Its
// buffers grow to a high-water mark and are reused across draws.
type tessellator struct {
	pts   []screenVertex // transformed mesh vertices
	verts []screenVertex // triangle vertices
	inds  []uint32
}

// project transforms every mesh vertex to target pixels.
func (t *tessellator) project(m *Mesh, mat *Mat4, w, h int) []screenVertex {
	t.pts = t.pts[:0]
	for i := range m.Vertices {
		v := &m.Vertices[i]
		dx, dy := mat.Apply(v.Position[0], v.Position[1])
		px, py := deviceToPixel(dx, dy, w, h)
		t.pts = append(t.pts, screenVertex{X: px, Y: py, U: v.TexCoord[0], V: v.TexCoord[1], Color: v.Color})
	}
	return t.pts
}

// build produces the triangle list for m. Line strips are stroked as one
// quad per segment, LineWidth pixels wide. A strip triangle covering the
// same three points as the one before it is dropped, so fan-shaped strips
// never blend a wedge twice.
func (t *tessellator) build(m *Mesh, mat *Mat4, w, h int) ([]screenVertex, []uint32) {
	pts := t.project(m, mat, w, h)
	t.inds = t.inds[:0]

	switch m.Topology {
	case TriangleStrip:
		t.verts = append(t.verts[:0], pts...)
		for i := 0; i+2 < len(pts); i++ {
			if i > 0 && samePoint(pts[i-1], pts[i+2]) {
				continue
			}
			t.inds = append(t.inds, uint32(i), uint32(i+1), uint32(i+2))
		}
	case TriangleList:
		t.verts = append(t.verts[:0], pts...)
		for i := 0; i+2 < len(pts); i += 3 {
			t.inds = append(t.inds, uint32(i), uint32(i+1), uint32(i+2))
		}
	case LineStrip:
		t.verts = t.verts[:0]
		half := m.LineWidth / 2
		if half <= 0 {
			half = 0.5
		}
		for i := 0; i+1 < len(pts); i++ {
			a, b := pts[i], pts[i+1]
			nx, ny := perpendicular(a.X, a.Y, b.X, b.Y)
			nx, ny = nx*half, ny*half
			base := uint32(len(t.verts))
			t.verts = append(t.verts,
				offsetVertex(a, nx, ny), offsetVertex(a, -nx, -ny),
				offsetVertex(b, nx, ny), offsetVertex(b, -nx, -ny),
			)
			t.inds = append(t.inds, base, base+1, base+2, base+1, base+3, base+2)
		}
	}
	return t.verts, t.inds
}

func samePoint(a, b screenVertex) bool {
	return a.X == b.X && a.Y == b.Y
}

func offsetVertex(v screenVertex, dx, dy float32) screenVertex {
	v.X += dx
	v.Y += dy
	return v
}

// perpendicular returns the unit left-perpendicular of the segment from a to b.
func perpendicular(ax, ay, bx, by float32) (float32, float32) {
	dx := float64(bx - ax)
	dy := float64(by - ay)
	ln := math.Sqrt(dx*dx + dy*dy)
	if ln < 1e-10 {
		return 0, -1
	}
	return float32(-dy / ln), float32(dx / ln)
}

// texPixel maps a TexCoord to source pixel coordinates, row 0 on top.
func texPixel(u, v float32, w, h int) (float32, float32) {
	return u * float32(w), (1 - v) * float32(h)
}
