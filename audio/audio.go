// Package audio loads and plays sounds and music for genji games.
//
// Sounds are decoded once and kept in memory, so they suit short effects
// played often. Music is decoded while it plays, straight from its source.
// Both play through one Audio mixer:
//
//	a, err := audio.New(audio.DefaultSampleRate)
//	if err != nil {
//		return err
//	}
//	defer a.Close()
//
//	hit, err := audio.SoundFromFile("hit.wav", audio.SoundSettings{})
//	if err != nil {
//		return err
//	}
//	a.Play(hit)
//
// A failed play is logged and dropped; it never stops the game.
package audio

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// DefaultSampleRate is the output rate used by the engine.
const DefaultSampleRate = beep.SampleRate(44100)

// resampleQuality is passed to beep.Resample when a source rate differs
// from the output rate.
const resampleQuality = 4

// Playable is anything Audio.Play accepts: *Sound and *Music.
type Playable interface {
	streamer(sr beep.SampleRate) (beep.Streamer, error)
}

// Audio mixes every playing sound into one output.
type Audio struct {
	mu     sync.Mutex
	sr     beep.SampleRate
	mixer  *beep.Mixer
	master *effects.Volume
	live   bool // mixer is attached to the speaker
}

// New opens the default output device at sr and starts playback.
func New(sr beep.SampleRate) (*Audio, error) {
	a := NewOffline(sr)
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("genji: audio: failed to open output: %w", err)
	}
	speaker.Play(keepAlive{a.master})
	a.live = true
	return a, nil
}

// NewOffline returns an Audio that mixes without an output device. Read
// pulls mixed samples from it, which suits tests and headless tools. Run
// does not fall back to it; Engine.Audio is nil when no device opens.
func NewOffline(sr beep.SampleRate) *Audio {
	if sr <= 0 {
		sr = DefaultSampleRate
	}
	mixer := &beep.Mixer{}
	return &Audio{
		sr:     sr,
		mixer:  mixer,
		master: &effects.Volume{Streamer: mixer, Base: 2},
	}
}

// SampleRate returns the output rate.
func (a *Audio) SampleRate() beep.SampleRate {
	return a.sr
}

func (a *Audio) lock() {
	if a.live {
		speaker.Lock()
		return
	}
	a.mu.Lock()
}

func (a *Audio) unlock() {
	if a.live {
		speaker.Unlock()
		return
	}
	a.mu.Unlock()
}

// Play starts p. Failures are logged, never returned.
func (a *Audio) Play(p Playable) {
	if a == nil {
		logf("play: audio is not initialized")
		return
	}
	if p == nil {
		logf("play: nothing to play")
		return
	}
	s, err := p.streamer(a.sr)
	if err != nil {
		logf("failed to play sound: %v", err)
		return
	}
	a.lock()
	a.mixer.Add(s)
	a.unlock()
}

// Playing returns the number of streams still in the mixer.
func (a *Audio) Playing() int {
	a.lock()
	defer a.unlock()
	return a.mixer.Len()
}

// SetVolume sets the master gain. 1 is unchanged and 0 is silent.
func (a *Audio) SetVolume(v float64) {
	a.lock()
	defer a.unlock()
	applyGain(a.master, v)
}

// Stop drops everything currently playing.
func (a *Audio) Stop() {
	a.lock()
	defer a.unlock()
	a.mixer.Clear()
}

// Read fills samples with mixed output. It is only meaningful for an
// offline Audio; a live one is read by the speaker.
func (a *Audio) Read(samples [][2]float64) int {
	a.lock()
	defer a.unlock()
	n, _ := a.master.Stream(samples)
	return n
}

// Close stops playback and releases the output device.
func (a *Audio) Close() {
	if a == nil {
		return
	}
	a.Stop()
	if a.live {
		speaker.Close()
		a.live = false
	}
}

// keepAlive pads short reads with silence so the speaker keeps the master
// stream while the mixer is empty.
type keepAlive struct {
	s beep.Streamer
}

func (k keepAlive) Stream(samples [][2]float64) (int, bool) {
	n, _ := k.s.Stream(samples)
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

func (k keepAlive) Err() error { return nil }

// applyGain sets v as a linear gain on an effects.Volume with base 2.
func applyGain(vol *effects.Volume, v float64) {
	if v <= 0 {
		vol.Silent = true
		vol.Volume = 0
		return
	}
	vol.Silent = false
	vol.Volume = math.Log2(v)
}

// withGain wraps s in a volume effect unless v leaves it unchanged.
func withGain(s beep.Streamer, v float64) beep.Streamer {
	if v == 0 || v == 1 {
		return s
	}
	vol := &effects.Volume{Streamer: s, Base: 2}
	applyGain(vol, v)
	return vol
}

// withRate resamples s from its own rate to sr.
func withRate(s beep.Streamer, from, to beep.SampleRate) beep.Streamer {
	if from == to {
		return s
	}
	return beep.Resample(resampleQuality, from, to, s)
}

// withLoops repeats s. loops is the number of extra plays; negative loops
// forever.
func withLoops(s beep.StreamSeeker, loops int) beep.Streamer {
	switch {
	case loops == 0:
		return s
	case loops < 0:
		return beep.Loop(-1, s)
	}
	return beep.Loop(loops+1, s)
}

func logf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[genji] audio: "+format+"\n", args...)
}
