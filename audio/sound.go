package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"
	"github.com/h2non/filetype"

	"github.com/phanxgames/genji/store"
)

// ErrUnknownFormat is returned for audio that is neither WAV nor MP3.
var ErrUnknownFormat = errors.New("genji: audio: unknown audio format")

// SoundSettings adjusts how a Sound plays.
type SoundSettings struct {
	// Volume is a linear gain. Zero leaves the sound unchanged.
	Volume float64
	// Loops is the number of extra plays after the first. Negative loops
	// forever.
	Loops int
}

// MusicSettings adjusts how Music plays.
type MusicSettings = SoundSettings

// SoundStore holds sounds by name.
type SoundStore = store.Store[*Sound]

// MusicStore holds music by name.
type MusicStore = store.Store[*Music]

// NewSoundStore returns an empty sound store.
func NewSoundStore() *SoundStore { return store.New[*Sound]() }

// NewMusicStore returns an empty music store.
func NewMusicStore() *MusicStore { return store.New[*Music]() }

// Sound is fully decoded audio kept in memory. One Sound may play many
// times at once.
type Sound struct {
	buf      *beep.Buffer
	Settings SoundSettings
}

// NewSound decodes WAV or MP3 data.
func NewSound(data []byte, settings SoundSettings) (*Sound, error) {
	kind, err := sniff(data)
	if err != nil {
		return nil, err
	}
	return decodeSound(io.NopCloser(bytes.NewReader(data)), kind, settings)
}

// SoundFromFile decodes a WAV or MP3 file.
func SoundFromFile(path string, settings SoundSettings) (*Sound, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("genji: audio: failed to read sound: %w", err)
	}
	kind, ok := kindFromExtension(path)
	if !ok {
		if kind, err = sniff(data); err != nil {
			return nil, fmt.Errorf("genji: audio: %s: %w", path, err)
		}
	}
	return decodeSound(io.NopCloser(bytes.NewReader(data)), kind, settings)
}

func decodeSound(rc io.ReadCloser, kind string, settings SoundSettings) (*Sound, error) {
	s, format, err := decode(rc, kind)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	buf := beep.NewBuffer(format)
	buf.Append(s)
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("genji: audio: failed to decode %s: %w", kind, err)
	}
	return &Sound{buf: buf, Settings: settings}, nil
}

// Duration returns the length of one play.
func (s *Sound) Duration() time.Duration {
	return s.buf.Format().SampleRate.D(s.buf.Len())
}

// SampleRate returns the rate the sound was decoded at.
func (s *Sound) SampleRate() beep.SampleRate {
	return s.buf.Format().SampleRate
}

func (s *Sound) streamer(sr beep.SampleRate) (beep.Streamer, error) {
	if s.buf.Len() == 0 {
		return nil, errors.New("genji: audio: sound is empty")
	}
	st := withLoops(s.buf.Streamer(0, s.buf.Len()), s.Settings.Loops)
	return withGain(withRate(st, s.buf.Format().SampleRate, sr), s.Settings.Volume), nil
}

// Music is decoded while it plays, opening its source again for every
// play.
type Music struct {
	open     func() (io.ReadCloser, error)
	kind     string
	Settings MusicSettings
}

// NewMusic streams WAV or MP3 data held in memory.
func NewMusic(data []byte, settings MusicSettings) (*Music, error) {
	kind, err := sniff(data)
	if err != nil {
		return nil, err
	}
	return &Music{
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
		kind:     kind,
		Settings: settings,
	}, nil
}

// MusicFromFile streams a WAV or MP3 file. The file must exist now; it is
// opened again on each play.
func MusicFromFile(path string, settings MusicSettings) (*Music, error) {
	kind, ok := kindFromExtension(path)
	if !ok {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("genji: audio: failed to open music: %w", err)
		}
		head := make([]byte, 262)
		n, _ := io.ReadFull(f, head)
		_ = f.Close()
		if kind, err = sniff(head[:n]); err != nil {
			return nil, fmt.Errorf("genji: audio: %s: %w", path, err)
		}
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("genji: audio: failed to open music: %w", err)
	}
	return &Music{
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
		kind:     kind,
		Settings: settings,
	}, nil
}

func (m *Music) streamer(sr beep.SampleRate) (beep.Streamer, error) {
	rc, err := m.open()
	if err != nil {
		return nil, fmt.Errorf("genji: audio: failed to open music: %w", err)
	}
	s, format, err := decode(rc, m.kind)
	if err != nil {
		return nil, err
	}
	st := withLoops(s, m.Settings.Loops)
	played := beep.Seq(st, beep.Callback(func() { _ = s.Close() }))
	return withGain(withRate(played, format.SampleRate, sr), m.Settings.Volume), nil
}

func decode(rc io.ReadCloser, kind string) (beep.StreamSeekCloser, beep.Format, error) {
	var (
		s      beep.StreamSeekCloser
		format beep.Format
		err    error
	)
	switch kind {
	case "wav":
		s, format, err = wav.Decode(rc)
	case "mp3":
		s, format, err = mp3.Decode(rc)
	default:
		_ = rc.Close()
		return nil, beep.Format{}, ErrUnknownFormat
	}
	if err != nil {
		_ = rc.Close()
		return nil, beep.Format{}, fmt.Errorf("genji: audio: failed to decode %s: %w", kind, err)
	}
	return s, format, nil
}

func kindFromExtension(path string) (string, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return "wav", true
	case ".mp3":
		return "mp3", true
	}
	return "", false
}

func sniff(data []byte) (string, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return "", ErrUnknownFormat
	}
	switch kind.Extension {
	case "wav", "mp3":
		return kind.Extension, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, kind.MIME.Value)
}
