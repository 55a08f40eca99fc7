package genji

import (
	"context"
	"time"

	"github.com/yohamta/donburi"
)

// Frame is an owned copy of one tick's draw entries, handed from the logic
// goroutine to the render goroutine. Asset bytes inside shapes are shared
// read-only; everything else belongs to the frame.
type Frame struct {
	Entries []DrawEntry
	// Changed reports whether the entries differ from the previous frame
	// taken by the same Snapshotter. The first frame is always changed.
	Changed bool
	Seq     uint64
}

// Snapshotter takes frames from a world on the logic goroutine. It is the
// only place the dirty state lives; nothing about it is global.
type Snapshotter struct {
	r    *Renderer
	prev []DrawEntry
	seq  uint64
}

// NewSnapshotter returns a snapshotter collecting with its own renderer
// buffers.
func NewSnapshotter() *Snapshotter {
	return &Snapshotter{r: NewRenderer(RenderConfig{})}
}

// Take collects w into a new frame.
func (s *Snapshotter) Take(w donburi.World) Frame {
	entries := Snapshot(w, s.r)
	s.seq++
	f := Frame{Entries: entries, Changed: s.seq == 1 || !sameEntries(s.prev, entries), Seq: s.seq}
	s.prev = entries
	return f
}

// Snapshot collects w with r and returns a copy the caller owns.
func Snapshot(w donburi.World, r *Renderer) []DrawEntry {
	collected := r.Collect(w)
	out := make([]DrawEntry, len(collected))
	copy(out, collected)
	return out
}

func sameEntries(a, b []DrawEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Attrs != b[i].Attrs || !sameShape(a[i].Shape, b[i].Shape) {
			return false
		}
	}
	return true
}

// sameShape compares shapes by value. Textures hold a slice, so they compare
// by pixel buffer identity and size instead of ==.
func sameShape(a, b Shape) bool {
	ta, aok := a.(Texture)
	tb, bok := b.(Texture)
	if aok || bok {
		if !aok || !bok {
			return false
		}
		return ta.PixW == tb.PixW && ta.PixH == tb.PixH && ta.W == tb.W && ta.H == tb.H &&
			len(ta.Pix) == len(tb.Pix) && (len(ta.Pix) == 0 || &ta.Pix[0] == &tb.Pix[0])
	}
	return a == b
}

// FrameExchange is a bounded single-slot channel between one logic
// goroutine and one render goroutine. Publishing never blocks and replaces
// any frame the renderer has not picked up yet, so only the latest frame
// matters.
type FrameExchange struct {
	ch   chan Frame
	last Frame
	has  bool
}

// NewFrameExchange returns an empty exchange.
func NewFrameExchange() *FrameExchange {
	return &FrameExchange{ch: make(chan Frame, 1)}
}

// Publish hands f to the renderer, dropping a stale unread frame.
// Only the logic goroutine may call it.
func (x *FrameExchange) Publish(f Frame) {
	for {
		select {
		case x.ch <- f:
			return
		default:
		}
		select {
		case <-x.ch:
		default:
		}
	}
}

// Latest returns the newest published frame without blocking. When nothing
// new arrived it returns the previous frame again with fresh set to false.
// ok is false until the first frame arrives. Only the render goroutine may
// call it.
func (x *FrameExchange) Latest() (f Frame, fresh, ok bool) {
	select {
	case f = <-x.ch:
		x.last, x.has = f, true
		return f, true, true
	default:
		return x.last, false, x.has
	}
}

// LogicStep advances the game by dt and returns the frame to publish. done
// ends RunLogic.
type LogicStep func(dt time.Duration) (frame Frame, done bool)

// RunLogic calls step every tick on the calling goroutine and publishes its
// frames until step reports done or ctx is canceled. It returns ctx.Err()
// on cancellation and nil otherwise.
func RunLogic(ctx context.Context, x *FrameExchange, tick time.Duration, step LogicStep) error {
	t := time.NewTicker(tick)
	defer t.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-t.C:
			frame, done := step(now.Sub(last))
			last = now
			x.Publish(frame)
			if done {
				return nil
			}
		}
	}
}
