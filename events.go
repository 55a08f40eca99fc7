package genji

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// KeyEvent reports one key going down or up. Mouse buttons are keys too.
type KeyEvent struct {
	Key  Key
	Down bool
	// MouseX and MouseY are the cursor position when the event was polled.
	MouseX int32
	MouseY int32
}

// KeyEventType is the donburi event type the engine publishes key changes
// to. Subscribe in Init; events are delivered right before each Loop call.
//
//	genji.KeyEventType.Subscribe(world, func(w donburi.World, e genji.KeyEvent) {
//		if e.Key == genji.KeySpace && e.Down {
//			jump(w)
//		}
//	})
var KeyEventType = events.NewEventType[KeyEvent]()

// publishKeyEvents queues a KeyEvent for every key whose state differs
// between prev and cur. It returns the number queued.
func publishKeyEvents(w donburi.World, prev, cur *Keys, mouseX, mouseY int32) int {
	n := 0
	for k := Key(0); k < keyCount; k++ {
		if prev[k] == cur[k] {
			continue
		}
		KeyEventType.Publish(w, KeyEvent{Key: k, Down: cur[k], MouseX: mouseX, MouseY: mouseY})
		n++
	}
	return n
}
