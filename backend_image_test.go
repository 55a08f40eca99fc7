package genji

import (
	"image/color"
	"sort"
	"testing"
)

func rgbaAt(b *ImageBackend, x, y int) color.RGBA {
	return b.Target.RGBAAt(x, y)
}

func TestImageBackend_Clear(t *testing.T) {
	b := NewImageBackend(10, 10)
	if w, h := b.Size(); w != 10 || h != 10 {
		t.Fatalf("Size = %dx%d, want 10x10", w, h)
	}
	b.Clear(NewColor(0, 0, 255, 255))
	if got := rgbaAt(b, 5, 5); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("got %v, want opaque blue", got)
	}
	b.Clear(NewColor(255, 0, 0, 128))
	if got := rgbaAt(b, 0, 0); got != (color.RGBA{128, 0, 0, 128}) {
		t.Errorf("got %v, want premultiplied half red", got)
	}
}

func TestImageBackend_FilledRect(t *testing.T) {
	b := NewImageBackend(100, 100)
	b.Clear(NewColor(0, 0, 0, 255))

	sd := DefaultSpriteData()
	sd.Color = NewColor(255, 0, 0, 255)
	m := RectMesh(NewRect(200, 200), sd, MeshOptions{})
	mat := SpriteTransform(sd, 100, 100)
	if err := b.DrawMesh(&m, &mat, nil); err != nil {
		t.Fatalf("DrawMesh: %v", err)
	}

	if got := rgbaAt(b, 50, 50); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("center = %v, want red", got)
	}
	if got := rgbaAt(b, 30, 70); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("inside = %v, want red", got)
	}
	if got := rgbaAt(b, 5, 5); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("outside = %v, want black", got)
	}
}

func TestImageBackend_PositionIsYUp(t *testing.T) {
	b := NewImageBackend(100, 100)
	sd := DefaultSpriteData()
	sd.X, sd.Y = 0, 100 // upper half
	m := RectMesh(NewRect(40, 40), sd, MeshOptions{})
	mat := SpriteTransform(sd, 100, 100)
	if err := b.DrawMesh(&m, &mat, nil); err != nil {
		t.Fatal(err)
	}
	if got := rgbaAt(b, 50, 25); got.A == 0 {
		t.Error("expected the rect in the upper half")
	}
	if got := rgbaAt(b, 50, 75); got.A != 0 {
		t.Errorf("lower half = %v, want untouched", got)
	}
}

func TestImageBackend_Outline(t *testing.T) {
	b := NewImageBackend(100, 100)
	sd := DefaultSpriteData()
	sd.Fill = false
	sd.StrokeWeight = 200 // 700 with calibration, a 3.5px line
	m := RectMesh(NewRect(200, 200), sd, MeshOptions{})
	mat := SpriteTransform(sd, 100, 100)
	if err := b.DrawMesh(&m, &mat, nil); err != nil {
		t.Fatal(err)
	}
	if got := rgbaAt(b, 50, 25); got.A == 0 {
		t.Error("expected the top edge to be stroked")
	}
	if got := rgbaAt(b, 50, 50); got.A != 0 {
		t.Errorf("center = %v, want an unfilled interior", got)
	}
}

func TestImageBackend_Texture(t *testing.T) {
	// 2x2 image: red, green on top; blue, white below.
	pix := []byte{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 255, 255, 255, 255,
	}
	tex := TextureFromRaw(pix, 2, 2, TextureOptions{Width: 400, Height: 400})
	data, err := tex.data()
	if err != nil {
		t.Fatal(err)
	}

	b := NewImageBackend(100, 100)
	sd := DefaultSpriteData()
	m := TextureMesh(tex, sd, MeshOptions{})
	mat := SpriteTransform(sd, 100, 100)
	if err := b.DrawMesh(&m, &mat, data); err != nil {
		t.Fatalf("DrawMesh: %v", err)
	}

	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{10, 10, color.RGBA{255, 0, 0, 255}},
		{90, 10, color.RGBA{0, 255, 0, 255}},
		{10, 90, color.RGBA{0, 0, 255, 255}},
		{90, 90, color.RGBA{255, 255, 255, 255}},
	}
	for _, tt := range tests {
		if got := rgbaAt(b, tt.x, tt.y); got != tt.want {
			t.Errorf("(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestTintNRGBA(t *testing.T) {
	tex := TextureFromRaw([]byte{200, 100, 50, 255}, 1, 1, TextureOptions{})
	src := tex.NRGBA()
	if got := tintNRGBA(src, [4]float32{1, 1, 1, 1}); got != src {
		t.Error("white tint should return the source image")
	}
	got := tintNRGBA(src, [4]float32{0.5, 1, 0, 1})
	if want := []byte{100, 100, 0, 255}; string(got.Pix) != string(want) {
		t.Errorf("got %v, want %v", got.Pix, want)
	}
}

func TestPerpendicular(t *testing.T) {
	if x, y := perpendicular(0, 0, 10, 0); x != 0 || y != 1 {
		t.Errorf("got (%v, %v), want (0, 1)", x, y)
	}
	if x, y := perpendicular(3, 3, 3, 3); x != 0 || y != -1 {
		t.Errorf("degenerate segment = (%v, %v), want (0, -1)", x, y)
	}
}

func TestTessellator_FilledCircleHasNoDuplicateTriangles(t *testing.T) {
	sd := DefaultSpriteData()
	sd.Color = NewColor(255, 255, 255, 128)
	m := CircleMesh(NewCircle(100), sd, MeshOptions{})
	mat := SpriteTransform(sd, 400, 400)

	var tess tessellator
	verts, inds := tess.build(&m, &mat, 400, 400)
	if got := len(inds) / 3; got != 720 {
		t.Errorf("triangles = %d, want 720", got)
	}

	type pt struct{ x, y float32 }
	seen := make(map[[3]pt]bool)
	for i := 0; i+2 < len(inds); i += 3 {
		tri := [3]pt{}
		for j := range 3 {
			v := verts[inds[i+j]]
			tri[j] = pt{v.X, v.Y}
		}
		sort.Slice(tri[:], func(a, b int) bool {
			if tri[a].x != tri[b].x {
				return tri[a].x < tri[b].x
			}
			return tri[a].y < tri[b].y
		})
		if seen[tri] {
			t.Fatalf("triangle %d repeats %v", i/3, tri)
		}
		seen[tri] = true
	}
}

func TestTessellator_RectStripKeepsBothTriangles(t *testing.T) {
	sd := DefaultSpriteData()
	m := RectMesh(NewRect(100, 50), sd, MeshOptions{})
	mat := SpriteTransform(sd, 400, 400)
	var tess tessellator
	if _, inds := tess.build(&m, &mat, 400, 400); len(inds) != 6 {
		t.Errorf("indices = %d, want 6", len(inds))
	}
}

func TestImageBackend_TranslucentCircle(t *testing.T) {
	b := NewImageBackend(100, 100)
	sd := DefaultSpriteData()
	sd.Color = NewColor(255, 255, 255, 128)
	m := CircleMesh(NewCircle(100), sd, MeshOptions{})
	mat := SpriteTransform(sd, 100, 100)
	if err := b.DrawMesh(&m, &mat, nil); err != nil {
		t.Fatalf("DrawMesh: %v", err)
	}
	if got := rgbaAt(b, 50, 40); got.A < 126 || got.A > 130 {
		t.Errorf("alpha inside = %d, want about 128", got.A)
	}
}
