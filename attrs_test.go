package genji

import (
	"testing"

	"github.com/yohamta/donburi"
)

func TestResolveDefaults(t *testing.T) {
	w := donburi.NewWorld()
	ent := Spawn(w, NewRect(10, 10), Pt(3, -4))

	sd, ok := ResolveEntity(w, ent)
	if !ok {
		t.Fatal("expected a resolved sprite")
	}
	want := DefaultSpriteData()
	want.X, want.Y = 3, -4
	if sd != want {
		t.Errorf("got %+v, want %+v", sd, want)
	}
	if sd.Depth != 1 || !sd.Fill || sd.StrokeWeight != 4 || sd.Color != ColorWhite || sd.Angle != 0 {
		t.Errorf("defaults = %+v", sd)
	}
}

func TestResolveOverrides(t *testing.T) {
	w := donburi.NewWorld()
	red := NewColor(255, 0, 0, 128)
	ent := Spawn(w, NewCircle(5), Pt(0, 0),
		WithAngle(45),
		WithColor(red),
		WithDepth(7),
		WithFill(false),
		WithStrokeWeight(9),
	)

	sd, ok := ResolveEntity(w, ent)
	if !ok {
		t.Fatal("expected a resolved sprite")
	}
	if sd.Angle != 45 {
		t.Errorf("Angle = %v, want 45", sd.Angle)
	}
	if sd.Color != red {
		t.Errorf("Color = %v, want %v", sd.Color, red)
	}
	if sd.Depth != 7 {
		t.Errorf("Depth = %d, want 7", sd.Depth)
	}
	if sd.Fill {
		t.Error("Fill = true, want false")
	}
	if sd.StrokeWeight != 9 {
		t.Errorf("StrokeWeight = %d, want 9", sd.StrokeWeight)
	}
}

func TestResolveZeroValuesOverride(t *testing.T) {
	w := donburi.NewWorld()
	ent := Spawn(w, NewRect(1, 1), Pt(0, 0), WithDepth(0), WithStrokeWeight(0))

	sd, _ := ResolveEntity(w, ent)
	if sd.Depth != 0 {
		t.Errorf("Depth = %d, want 0", sd.Depth)
	}
	if sd.Visible() {
		t.Error("depth 0 should be invisible")
	}
	if sd.StrokeWeight != 0 {
		t.Errorf("StrokeWeight = %d, want 0", sd.StrokeWeight)
	}
}

func TestResolveNeedsPosition(t *testing.T) {
	w := donburi.NewWorld()
	ent := w.Create(RectComponent, ColorComponent)
	if _, ok := ResolveEntity(w, ent); ok {
		t.Error("entity without a position should not resolve")
	}
}

func TestResolveRemovedEntity(t *testing.T) {
	w := donburi.NewWorld()
	ent := Spawn(w, NewRect(1, 1), Pt(0, 0))
	w.Remove(ent)
	if _, ok := ResolveEntity(w, ent); ok {
		t.Error("removed entity should not resolve")
	}
	if _, ok := Resolve(nil); ok {
		t.Error("nil entry should not resolve")
	}
}

func TestSpawnStoresShape(t *testing.T) {
	w := donburi.NewWorld()
	tri := NewTriangle(10, 20, 3)
	e := w.Entry(Spawn(w, &tri, Pt(1, 2)))
	if got := TriangleComponent.GetValue(e); got != tri {
		t.Errorf("got %+v, want %+v", got, tri)
	}
	if got := PositionComponent.GetValue(e); got != Pt(1, 2) {
		t.Errorf("position = %v, want (1, 2)", got)
	}
}
