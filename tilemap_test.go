package genji

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/yohamta/donburi"
)

// twoCellSheet is an 8x4 sheet of two 4x4 cells: red then green.
func twoCellSheet(t *testing.T) *Spritemap {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			c := color.NRGBA{255, 0, 0, 255}
			if x >= 4 {
				c = color.NRGBA{0, 255, 0, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	m, err := SpritemapFromImage(img, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func tileData(t *testing.T, w donburi.World, l *TileLayer, col, row int) (SpriteData, Texture) {
	t.Helper()
	ent, ok := l.Entity(col, row)
	if !ok {
		t.Fatalf("no entity at (%d, %d)", col, row)
	}
	sd, ok := ResolveEntity(w, ent)
	if !ok {
		t.Fatalf("tile (%d, %d) does not resolve", col, row)
	}
	return sd, TextureComponent.GetValue(w.Entry(ent))
}

func newTestLayer(t *testing.T, w donburi.World, data []uint32) *TileLayer {
	t.Helper()
	l, err := NewTileLayer(w, twoCellSheet(t), data, TileLayerConfig{
		Cols: 2, Rows: 2, TileW: 20, TileH: 10, Origin: Pt(-20, 10), Depth: 5,
	})
	if err != nil {
		t.Fatal(err)
	}
	return l
}

// --- Layout ---

func TestTileLayer_Positions(t *testing.T) {
	w := donburi.NewWorld()
	l := newTestLayer(t, w, []uint32{1, 2, 0, 1})
	if w.Len() != 4 {
		t.Fatalf("world has %d entities, want 4", w.Len())
	}

	tests := []struct {
		col, row  int
		x, y      int32
		depth     uint32
		wantGreen bool
	}{
		{0, 0, -10, 5, 5, false},
		{1, 0, 10, 5, 5, true},
		{0, 1, -10, -5, 0, false},
		{1, 1, 10, -5, 5, false},
	}
	for _, tt := range tests {
		sd, tex := tileData(t, w, l, tt.col, tt.row)
		if sd.X != tt.x || sd.Y != tt.y {
			t.Errorf("(%d, %d) at (%d, %d), want (%d, %d)", tt.col, tt.row, sd.X, sd.Y, tt.x, tt.y)
		}
		if sd.Depth != tt.depth {
			t.Errorf("(%d, %d) depth = %d, want %d", tt.col, tt.row, sd.Depth, tt.depth)
		}
		if tt.depth == 0 {
			continue
		}
		if tex.W != 20 || tex.H != 10 || tex.PixW != 4 {
			t.Errorf("(%d, %d) texture %dx%d from %d px, want 20x10 from 4", tt.col, tt.row, tex.W, tex.H, tex.PixW)
		}
		if green := tex.Pix[1] == 255; green != tt.wantGreen {
			t.Errorf("(%d, %d) first pixel %v, want green %v", tt.col, tt.row, tex.Pix[:4], tt.wantGreen)
		}
	}
}

func TestTileLayer_Errors(t *testing.T) {
	w := donburi.NewWorld()
	sheet := twoCellSheet(t)
	cfg := TileLayerConfig{Cols: 2, Rows: 1, TileW: 10, TileH: 10}
	if _, err := NewTileLayer(w, sheet, []uint32{1}, cfg); err == nil {
		t.Error("short data: expected error")
	}
	if _, err := NewTileLayer(w, sheet, []uint32{1, 1}, TileLayerConfig{Cols: 2, Rows: 1}); err == nil {
		t.Error("zero tile size: expected error")
	}
	_, err := NewTileLayer(w, sheet, []uint32{1, 3}, cfg)
	if !errors.Is(err, ErrSpriteOutOfRange) {
		t.Errorf("GID past the sheet: got %v, want ErrSpriteOutOfRange", err)
	}
}

func TestTileLayer_CellAt(t *testing.T) {
	w := donburi.NewWorld()
	l := newTestLayer(t, w, []uint32{1, 1, 1, 1})
	tests := []struct {
		p        Point
		col, row int
		ok       bool
	}{
		{Pt(-20, 10), 0, 0, true},
		{Pt(-1, 1), 0, 0, true},
		{Pt(0, 0), 1, 1, true},
		{Pt(19, -9), 1, 1, true},
		{Pt(20, 0), 0, 0, false},
		{Pt(0, 11), 0, 0, false},
	}
	for _, tt := range tests {
		col, row, ok := l.CellAt(tt.p)
		if col != tt.col || row != tt.row || ok != tt.ok {
			t.Errorf("CellAt(%v) = (%d, %d, %v), want (%d, %d, %v)", tt.p, col, row, ok, tt.col, tt.row, tt.ok)
		}
	}
}

// --- Editing ---

func TestTileLayer_SetTile(t *testing.T) {
	w := donburi.NewWorld()
	l := newTestLayer(t, w, []uint32{1, 1, 1, 1})

	if err := l.SetTile(w, 1, 1, 2); err != nil {
		t.Fatal(err)
	}
	if got := l.Tile(1, 1); got != 2 {
		t.Errorf("Tile = %d, want 2", got)
	}
	if _, tex := tileData(t, w, l, 1, 1); tex.Pix[1] != 255 {
		t.Errorf("pixel %v, want green", tex.Pix[:4])
	}

	if err := l.SetTile(w, 0, 0, 0); err != nil {
		t.Fatal(err)
	}
	if sd, _ := tileData(t, w, l, 0, 0); sd.Depth != 0 {
		t.Errorf("cleared tile depth = %d, want 0", sd.Depth)
	}
	if err := l.SetTile(w, 0, 0, 1); err != nil {
		t.Fatal(err)
	}
	if sd, _ := tileData(t, w, l, 0, 0); sd.Depth != 5 {
		t.Errorf("restored tile depth = %d, want 5", sd.Depth)
	}

	if err := l.SetTile(w, 9, 9, 2); err != nil {
		t.Errorf("out of range: %v", err)
	}
	if got := l.Tile(9, 9); got != 0 {
		t.Errorf("Tile out of range = %d, want 0", got)
	}
}

// --- Animation ---

func TestTileLayer_Animation(t *testing.T) {
	w := donburi.NewWorld()
	l := newTestLayer(t, w, []uint32{1, 2, 2, 2})
	err := l.SetAnimations(w, map[uint32][]AnimFrame{
		1: {{GID: 1, Duration: 100}, {GID: 2, Duration: 100}},
	})
	if err != nil {
		t.Fatal(err)
	}

	red := func() bool {
		_, tex := tileData(t, w, l, 0, 0)
		return tex.Pix[0] == 255
	}
	if !red() {
		t.Fatal("frame 0 should be red")
	}
	if err := l.Update(w, 0.15); err != nil {
		t.Fatal(err)
	}
	if red() {
		t.Error("after 150ms frame should be green")
	}
	if err := l.Update(w, 0.1); err != nil {
		t.Fatal(err)
	}
	if !red() {
		t.Error("after 250ms animation should wrap to red")
	}
	if got := l.Tile(0, 0); got != 1 {
		t.Errorf("stored GID = %d, want 1", got)
	}
}

func TestTileLayer_RendersTiles(t *testing.T) {
	w := donburi.NewWorld()
	newTestLayer(t, w, []uint32{1, 2, 0, 1})

	b := newRecordingBackend()
	stats, err := NewRenderer(RenderConfig{}).RenderFrame(w, b, nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Drawn != 3 || stats.Hidden != 1 {
		t.Errorf("stats = %+v, want 3 drawn and 1 hidden", stats)
	}
	for _, d := range b.draws {
		if !d.textured {
			t.Errorf("draw %+v not textured", d)
		}
	}
}
