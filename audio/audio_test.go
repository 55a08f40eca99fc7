package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constant streams n frames of the value v on both channels.
type constant struct {
	n int
	v float64
}

func (c *constant) Stream(samples [][2]float64) (int, bool) {
	if c.n <= 0 {
		return 0, false
	}
	k := min(len(samples), c.n)
	for i := 0; i < k; i++ {
		samples[i] = [2]float64{c.v, c.v}
	}
	c.n -= k
	return k, true
}

func (c *constant) Err() error { return nil }

func writeWAV(t *testing.T, sr beep.SampleRate, frames int, v float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	format := beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, &constant{n: frames, v: v}, format))
	require.NoError(t, f.Close())
	return path
}

func wavBytes(t *testing.T, sr beep.SampleRate, frames int, v float64) []byte {
	t.Helper()
	data, err := os.ReadFile(writeWAV(t, sr, frames, v))
	require.NoError(t, err)
	return data
}

// drain reads from a until nothing is playing, with a bound on reads.
func drain(a *Audio) int {
	buf := make([][2]float64, 256)
	for i := 0; i < 16 && a.Playing() > 0; i++ {
		a.Read(buf)
	}
	return a.Playing()
}

func TestNewSound(t *testing.T) {
	snd, err := NewSound(wavBytes(t, 22050, 2205, 0.5), SoundSettings{})
	require.NoError(t, err)
	assert.Equal(t, beep.SampleRate(22050), snd.SampleRate())
	assert.Equal(t, beep.SampleRate(22050).D(2205), snd.Duration())
}

func TestNewSoundUnknownFormat(t *testing.T) {
	_, err := NewSound([]byte("definitely not audio"), SoundSettings{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestSoundFromFile(t *testing.T) {
	path := writeWAV(t, DefaultSampleRate, 100, 0.25)
	snd, err := SoundFromFile(path, SoundSettings{})
	require.NoError(t, err)
	assert.Equal(t, DefaultSampleRate, snd.SampleRate())

	_, err = SoundFromFile(filepath.Join(t.TempDir(), "missing.wav"), SoundSettings{})
	assert.Error(t, err)
}

func TestPlayDrainsFromMixer(t *testing.T) {
	a := NewOffline(DefaultSampleRate)
	snd, err := NewSound(wavBytes(t, DefaultSampleRate, 300, 0.5), SoundSettings{})
	require.NoError(t, err)

	a.Play(snd)
	a.Play(snd)
	assert.Equal(t, 2, a.Playing())
	assert.Equal(t, 0, drain(a))
}

func TestPlayOutputsSamples(t *testing.T) {
	a := NewOffline(DefaultSampleRate)
	snd, err := NewSound(wavBytes(t, DefaultSampleRate, 64, 0.5), SoundSettings{})
	require.NoError(t, err)
	a.Play(snd)

	buf := make([][2]float64, 32)
	a.Read(buf)
	assert.InDelta(t, 0.5, buf[0][0], 0.01)
	assert.InDelta(t, 0.5, buf[31][1], 0.01)
}

func TestSetVolumeSilences(t *testing.T) {
	a := NewOffline(DefaultSampleRate)
	snd, err := NewSound(wavBytes(t, DefaultSampleRate, 64, 0.5), SoundSettings{})
	require.NoError(t, err)
	a.SetVolume(0)
	a.Play(snd)

	buf := make([][2]float64, 32)
	a.Read(buf)
	for i := range buf {
		require.Zero(t, buf[i][0])
		require.Zero(t, buf[i][1])
	}
}

func TestLoopForever(t *testing.T) {
	a := NewOffline(DefaultSampleRate)
	snd, err := NewSound(wavBytes(t, DefaultSampleRate, 10, 0.5), SoundSettings{Loops: -1})
	require.NoError(t, err)
	a.Play(snd)
	assert.Equal(t, 1, drain(a))
	a.Stop()
	assert.Equal(t, 0, a.Playing())
}

func TestMusicStreamsFromFile(t *testing.T) {
	path := writeWAV(t, DefaultSampleRate, 200, 0.5)
	m, err := MusicFromFile(path, MusicSettings{})
	require.NoError(t, err)

	a := NewOffline(DefaultSampleRate)
	a.Play(m)
	assert.Equal(t, 1, a.Playing())
	assert.Equal(t, 0, drain(a))
}

func TestPlayFailureIsDropped(t *testing.T) {
	path := writeWAV(t, DefaultSampleRate, 200, 0.5)
	m, err := MusicFromFile(path, MusicSettings{})
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	a := NewOffline(DefaultSampleRate)
	assert.NotPanics(t, func() { a.Play(m) })
	assert.Equal(t, 0, a.Playing())

	var missing *Audio
	assert.NotPanics(t, func() { missing.Play(m) })
}

func TestMusicFromMissingFile(t *testing.T) {
	_, err := MusicFromFile(filepath.Join(t.TempDir(), "missing.mp3"), MusicSettings{})
	assert.Error(t, err)
}

func TestStores(t *testing.T) {
	snd, err := NewSound(wavBytes(t, DefaultSampleRate, 10, 0.1), SoundSettings{})
	require.NoError(t, err)

	sounds := NewSoundStore().With("hit", snd)
	got, ok := sounds.Get("hit")
	require.True(t, ok)
	assert.Same(t, snd, got)
	_, ok = sounds.Get("miss")
	assert.False(t, ok)

	music := NewMusicStore()
	assert.Equal(t, 0, music.Len())
}
