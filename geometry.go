package genji

import (
	"github.com/chewxy/math32"
)

// Topology is the primitive assembly mode of a mesh.
type Topology uint8

const (
	TriangleStrip Topology = iota // filled shapes and quads
	LineStrip                     // outlines, drawn LineWidth wide
	TriangleList                  // independent triangles
)

var topologyNames = [...]string{"triangle-strip", "line-strip", "triangle-list"}

// String implements fmt.Stringer.
func (t Topology) String() string {
	if int(t) < len(topologyNames) {
		return topologyNames[t]
	}
	return "unknown"
}

// Vertex is one mesh vertex in device units, before the sprite transform.
type Vertex struct {
	Position [2]float32
	Normal   [2]float32 // outward unit normal; zero for non-circles
	Color    [4]float32 // straight alpha, 0..1
	TexCoord [2]float32 // (0,0) bottom-left, (1,1) top-right of the image
}

// Mesh is the geometry of one draw entry.
type Mesh struct {
	Vertices  []Vertex
	Topology  Topology
	LineWidth float32 // pixels; set only for LineStrip meshes
	Fill      bool
}

const (
	defaultStrokeCalibration = 500
	defaultTextMeshScale     = 0.5

	circleStep  = 0.5 // degrees between tessellation vertices
	circleSteps = 720 // 360 / circleStep
)

// MeshOptions carries the tunable constants used by the generators. Zero
// fields take the defaults: StrokeCalibration 500 and TextMeshScale 0.5.
type MeshOptions struct {
	StrokeCalibration int32
	TextMeshScale     float32
}

func (o MeshOptions) withDefaults() MeshOptions {
	if o.StrokeCalibration == 0 {
		o.StrokeCalibration = defaultStrokeCalibration
	}
	if o.TextMeshScale == 0 {
		o.TextMeshScale = defaultTextMeshScale
	}
	return o
}

// lineWidth converts a logical stroke weight into a device line width.
func (o MeshOptions) lineWidth(stroke uint32) float32 {
	return Coord(int32(stroke) + o.StrokeCalibration)
}

// quadUV lists the quad corners in strip order: top-left, top-right,
// bottom-left, bottom-right.
var quadUV = [4][2]float32{{0, 1}, {1, 1}, {0, 0}, {1, 0}}

// outlineOrder traces the quad perimeter clockwise from top-left and closes it.
var outlineOrder = [5]int{0, 1, 3, 2, 0}

// QuadMesh builds a quad of half-extents hw, hh centered on the origin:
// a 4-vertex strip when filled, otherwise a closed 5-vertex outline.
func QuadMesh(hw, hh float32, col [4]float32, fill bool, lineWidth float32) Mesh {
	var corners [4]Vertex
	for i, uv := range quadUV {
		corners[i] = Vertex{
			Position: [2]float32{(uv[0]*2 - 1) * hw, (uv[1]*2 - 1) * hh},
			Color:    col,
			TexCoord: uv,
		}
	}
	if fill {
		return Mesh{Vertices: corners[:], Topology: TriangleStrip, Fill: true}
	}
	verts := make([]Vertex, len(outlineOrder))
	for i, c := range outlineOrder {
		verts[i] = corners[c]
	}
	return Mesh{Vertices: verts, Topology: LineStrip, LineWidth: lineWidth}
}

// RectMesh generates a rectangle.
func RectMesh(r Rect, sd SpriteData, opts MeshOptions) Mesh {
	opts = opts.withDefaults()
	return QuadMesh(Coord(r.W)/2, Coord(r.H)/2, sd.Color.ToF32(), sd.Fill, opts.lineWidth(sd.StrokeWeight))
}

// CircleMesh tessellates the boundary at 0.5° steps from 0° to 360°
// inclusive, 721 vertices. Filled circles also get a center vertex after
// every whole degree, which turns the strip into a fan.
func CircleMesh(c Circle, sd SpriteData, opts MeshOptions) Mesh {
	opts = opts.withDefaults()
	r := Coord(c.R)
	col := sd.Color.ToF32()

	n := circleSteps + 1
	if sd.Fill {
		n += circleSteps/2 + 1
	}
	verts := make([]Vertex, 0, n)
	for i := 0; i <= circleSteps; i++ {
		rad := float32(i) * circleStep * (math32.Pi / 180)
		sin, cos := math32.Sin(rad), math32.Cos(rad)
		pos := [2]float32{r * cos, r * sin}
		v := Vertex{
			Position: pos,
			Color:    col,
			TexCoord: [2]float32{pos[0] + 0.5, pos[1] + 0.5},
		}
		if r != 0 {
			v.Normal = [2]float32{cos, sin}
		}
		verts = append(verts, v)

		if sd.Fill && i%2 == 0 {
			verts = append(verts, Vertex{Color: col, TexCoord: [2]float32{0.5, 0.5}})
		}
	}
	if sd.Fill {
		return Mesh{Vertices: verts, Topology: TriangleStrip, Fill: true}
	}
	return Mesh{Vertices: verts, Topology: LineStrip, LineWidth: opts.lineWidth(sd.StrokeWeight)}
}

// TriangleMesh generates a triangle. Triangles are always filled.
func TriangleMesh(t Triangle, sd SpriteData) Mesh {
	w, h, o := Coord(t.W)/2, Coord(t.H)/2, Coord(t.O)
	col := sd.Color.ToF32()
	return Mesh{
		Vertices: []Vertex{
			{Position: [2]float32{-w, -h}, Color: col, TexCoord: [2]float32{0, 0}},
			{Position: [2]float32{w, -h}, Color: col, TexCoord: [2]float32{1, 0}},
			{Position: [2]float32{o, h}, Color: col, TexCoord: [2]float32{0.5, 1}},
		},
		Topology: TriangleList,
		Fill:     true,
	}
}

// TextureMesh generates a textured quad sized W×H engine units. The vertex
// color tints the image.
func TextureMesh(t Texture, sd SpriteData, opts MeshOptions) Mesh {
	opts = opts.withDefaults()
	return QuadMesh(Coord(t.W)/2, Coord(t.H)/2, sd.Color.ToF32(), sd.Fill, opts.lineWidth(sd.StrokeWeight))
}

// TextMesh generates the quad for a rasterized text run. Half-extents are
// the raster's pixel size mapped like engine units and scaled by
// TextMeshScale, so a larger raster is drawn smaller and stays sharp. The
// color is already baked into the raster, so vertices are white.
func TextMesh(g *GlyphRaster, sd SpriteData, opts MeshOptions) Mesh {
	opts = opts.withDefaults()
	hw := Coord(int32(g.Width)) * opts.TextMeshScale
	hh := Coord(int32(g.Height)) * opts.TextMeshScale
	return QuadMesh(hw, hh, ColorWhite.ToF32(), sd.Fill, opts.lineWidth(sd.StrokeWeight))
}

// Mat4 is a column-major 4×4 matrix: m[col][row].
type Mat4 [4][4]float32

// SpriteTransform builds the per-draw transform: rotation by -angle degrees
// (clockwise-positive), the X basis scaled by height/width for aspect
// correction, depth/256 in Z, and translation to the sprite position.
func SpriteTransform(sd SpriteData, screenW, screenH int) Mat4 {
	var ratio float32 = 1
	if screenW > 0 {
		ratio = float32(screenH) / float32(screenW)
	}
	a := -sd.Angle * (math32.Pi / 180)
	sin, cos := math32.Sin(a), math32.Cos(a)
	return Mat4{
		{cos * ratio, sin, 0, 0},
		{-sin, cos, 0, 0},
		{0, 0, float32(sd.Depth) / 256, 0},
		{Coord(sd.X), Coord(sd.Y), 0, 1},
	}
}

// Apply transforms a 2D point (z = 0, w = 1) and returns its device X, Y.
func (m *Mat4) Apply(x, y float32) (float32, float32) {
	return m[0][0]*x + m[1][0]*y + m[3][0],
		m[0][1]*x + m[1][1]*y + m[3][1]
}

// Depth returns the transformed Z for a depth-test-capable backend.
func (m *Mat4) Depth() float32 {
	return m[2][2]
}

// GenerateMesh dispatches to the generator for s. Text needs its raster and
// yields an empty mesh without one.
func GenerateMesh(s Shape, sd SpriteData, raster *GlyphRaster, opts MeshOptions) Mesh {
	switch v := s.(type) {
	case Rect:
		return RectMesh(v, sd, opts)
	case *Rect:
		return RectMesh(*v, sd, opts)
	case Circle:
		return CircleMesh(v, sd, opts)
	case *Circle:
		return CircleMesh(*v, sd, opts)
	case Triangle:
		return TriangleMesh(v, sd)
	case *Triangle:
		return TriangleMesh(*v, sd)
	case Texture:
		return TextureMesh(v, sd, opts)
	case *Texture:
		return TextureMesh(*v, sd, opts)
	case Text, *Text:
		if raster != nil {
			return TextMesh(raster, sd, opts)
		}
	}
	return Mesh{}
}
