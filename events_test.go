package genji

import (
	"testing"

	"github.com/yohamta/donburi"
)

func TestPublishKeyEvents(t *testing.T) {
	w := donburi.NewWorld()
	var got []KeyEvent
	KeyEventType.Subscribe(w, func(_ donburi.World, e KeyEvent) {
		got = append(got, e)
	})

	var prev, cur Keys
	prev[KeyA] = true
	cur[KeyB] = true
	cur[KeyLClick] = true

	if n := publishKeyEvents(w, &prev, &cur, 10, -20); n != 3 {
		t.Fatalf("published %d events, want 3", n)
	}
	if len(got) != 0 {
		t.Fatal("events delivered before ProcessEvents")
	}
	KeyEventType.ProcessEvents(w)

	want := []KeyEvent{
		{Key: KeyA, Down: false, MouseX: 10, MouseY: -20},
		{Key: KeyB, Down: true, MouseX: 10, MouseY: -20},
		{Key: KeyLClick, Down: true, MouseX: 10, MouseY: -20},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPublishKeyEvents_NoChange(t *testing.T) {
	w := donburi.NewWorld()
	var keys Keys
	keys[KeySpace] = true
	if n := publishKeyEvents(w, &keys, &keys, 0, 0); n != 0 {
		t.Errorf("published %d events for unchanged keys", n)
	}
}
