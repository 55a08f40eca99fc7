package genji

// injectedEvent is one synthetic input event. Key events use engine keys;
// cursor moves use engine units, matching what game code reads.
type injectedEvent struct {
	key  Key
	down bool
	move bool
	pos  Point
}

// InjectPress queues a key press. The key stays down until InjectRelease.
// Events are consumed one per frame, after real input is polled.
func (e *Engine) InjectPress(k Key) {
	e.injectQueue = append(e.injectQueue, injectedEvent{key: k, down: true})
}

// InjectRelease queues a key release.
func (e *Engine) InjectRelease(k Key) {
	e.injectQueue = append(e.injectQueue, injectedEvent{key: k})
}

// InjectTap queues a press followed by a release. Consumes two frames.
func (e *Engine) InjectTap(k Key) {
	e.InjectPress(k)
	e.InjectRelease(k)
}

// InjectCursor queues a cursor move to p in engine units. The injected
// position holds until the next injected move.
func (e *Engine) InjectCursor(p Point) {
	e.injectQueue = append(e.injectQueue, injectedEvent{move: true, pos: p})
}

// pendingInjections reports whether queued events remain.
func (e *Engine) pendingInjections() int {
	return len(e.injectQueue)
}

// applyInjected overlays held synthetic keys on the polled state, then pops
// one queued event into it. It returns true if an event was consumed.
func (e *Engine) applyInjected(keys, pressed *Keys, mouseX, mouseY *int32) bool {
	for k, down := range e.held {
		if down {
			keys[k] = true
		}
	}
	if e.cursor != nil {
		*mouseX, *mouseY = e.cursor.X, e.cursor.Y
	}
	if len(e.injectQueue) == 0 {
		return false
	}
	evt := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]

	switch {
	case evt.move:
		pos := evt.pos
		e.cursor = &pos
		*mouseX, *mouseY = pos.X, pos.Y
	case evt.down:
		e.held[evt.key] = true
		keys[evt.key] = true
		pressed[evt.key] = true
	default:
		e.held[evt.key] = false
		keys[evt.key] = false
	}
	return true
}
