package genji

import "testing"

func testEngine() *Engine {
	return newEngine(RunConfig{}.withDefaults())
}

// injectFrame runs one frame of injection over empty polled input.
func injectFrame(e *Engine) (Keys, Keys, int32, int32) {
	var keys, pressed Keys
	var mx, my int32
	e.applyInjected(&keys, &pressed, &mx, &my)
	return keys, pressed, mx, my
}

func TestInjectTap(t *testing.T) {
	e := testEngine()
	e.InjectTap(KeySpace)
	if got := e.pendingInjections(); got != 2 {
		t.Fatalf("expected 2 queued events, got %d", got)
	}

	keys, pressed, _, _ := injectFrame(e)
	if !keys[KeySpace] || !pressed[KeySpace] {
		t.Error("frame 1: expected Space down and pressed")
	}
	keys, pressed, _, _ = injectFrame(e)
	if keys[KeySpace] || pressed[KeySpace] {
		t.Error("frame 2: expected Space released")
	}
	if e.pendingInjections() != 0 {
		t.Error("queue should be empty")
	}
}

func TestInjectPress_Holds(t *testing.T) {
	e := testEngine()
	e.InjectPress(KeyRight)
	injectFrame(e)

	for frame := 0; frame < 3; frame++ {
		keys, pressed, _, _ := injectFrame(e)
		if !keys[KeyRight] {
			t.Fatalf("frame %d: held key released", frame)
		}
		if pressed[KeyRight] {
			t.Fatalf("frame %d: held key pressed again", frame)
		}
	}

	e.InjectRelease(KeyRight)
	if keys, _, _, _ := injectFrame(e); keys[KeyRight] {
		t.Error("expected Right released")
	}
}

func TestInjectCursor_Holds(t *testing.T) {
	e := testEngine()
	e.InjectCursor(Pt(120, -80))
	if _, _, mx, my := injectFrame(e); mx != 120 || my != -80 {
		t.Errorf("cursor = (%d, %d), want (120, -80)", mx, my)
	}
	if _, _, mx, my := injectFrame(e); mx != 120 || my != -80 {
		t.Errorf("cursor did not hold: (%d, %d)", mx, my)
	}
}

func TestInjectQueueOrder(t *testing.T) {
	e := testEngine()
	e.InjectPress(KeyA)
	e.InjectPress(KeyB)
	e.InjectRelease(KeyA)

	_, p1, _, _ := injectFrame(e)
	k2, p2, _, _ := injectFrame(e)
	k3, _, _, _ := injectFrame(e)
	if !p1[KeyA] || p1[KeyB] {
		t.Error("frame 1 should press only A")
	}
	if !p2[KeyB] || !k2[KeyA] {
		t.Error("frame 2 should press B with A still held")
	}
	if k3[KeyA] || !k3[KeyB] {
		t.Error("frame 3 should release A and keep B")
	}
}

func TestApplyInjected_EmptyQueue(t *testing.T) {
	e := testEngine()
	var keys, pressed Keys
	var mx, my int32 = 5, 6
	if e.applyInjected(&keys, &pressed, &mx, &my) {
		t.Error("expected false for an empty queue")
	}
	if keys.Any() || mx != 5 || my != 6 {
		t.Error("empty queue should leave polled input untouched")
	}
}
