package genji

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultWidth  = 640
	defaultHeight = 480
	defaultFPS    = 100
)

// RenderConfig tunes the frame renderer. Zero values take the defaults
// listed per field.
type RenderConfig struct {
	// TextMaxWidth is the line-wrap width of text in raster pixels.
	// Default 9999, which leaves wrapping effectively disabled.
	TextMaxWidth float32 `yaml:"text_max_width"`
	// GlyphAlphaBoost multiplies glyph coverage into alpha. Default 382.5;
	// 255 gives plain coverage.
	GlyphAlphaBoost float32 `yaml:"glyph_alpha_boost"`
	// TextMeshScale scales text quads relative to their raster. Default 0.5.
	TextMeshScale float32 `yaml:"text_mesh_scale"`
	// StrokeCalibration is added to stroke weights before mapping them to a
	// line width. Default 500.
	StrokeCalibration int32 `yaml:"stroke_calibration"`
	// CacheText keeps text rasters across frames keyed by font, size,
	// content and color. Off by default.
	CacheText bool `yaml:"cache_text"`
	// SkipFailedDraws logs a failed draw and continues the frame instead of
	// aborting it.
	SkipFailedDraws bool `yaml:"skip_failed_draws"`
}

func (c RenderConfig) meshOptions() MeshOptions {
	return MeshOptions{StrokeCalibration: c.StrokeCalibration, TextMeshScale: c.TextMeshScale}.withDefaults()
}

func (c RenderConfig) glyphOptions() GlyphOptions {
	return GlyphOptions{MaxWidth: c.TextMaxWidth, AlphaBoost: c.GlyphAlphaBoost}.withDefaults()
}

// RunConfig configures the window and frame loop started by Run.
type RunConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`  // default 640
	Height int    `yaml:"height"` // default 480
	FPS    int    `yaml:"fps"`    // default 100
	// ClearColor fills the window before each frame. Nil never clears, so the
	// previous frame shows through.
	ClearColor *Color `yaml:"clear_color"`
	// CloseOnRequest closes the window as soon as it is asked to. Otherwise
	// GameState.AskedToClose is set and the loop decides.
	CloseOnRequest bool         `yaml:"close_on_request"`
	Debug          bool         `yaml:"debug"`
	ScreenshotDir  string       `yaml:"screenshot_dir"` // default "screenshots"
	Render         RenderConfig `yaml:"render"`
}

// DefaultRunConfig returns the configuration used for zero fields.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Title:         "genji",
		Width:         defaultWidth,
		Height:        defaultHeight,
		FPS:           defaultFPS,
		ScreenshotDir: "screenshots",
	}
}

func (c RunConfig) withDefaults() RunConfig {
	d := DefaultRunConfig()
	if c.Title == "" {
		c.Title = d.Title
	}
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.FPS <= 0 {
		c.FPS = d.FPS
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = d.ScreenshotDir
	}
	return c
}

// ParseRunConfig reads a YAML document over the defaults.
func ParseRunConfig(data []byte) (RunConfig, error) {
	cfg := DefaultRunConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RunConfig{}, fmt.Errorf("genji: failed to parse run config: %w", err)
	}
	return cfg.withDefaults(), nil
}

// LoadRunConfig reads a YAML config file.
func LoadRunConfig(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("genji: failed to read run config: %w", err)
	}
	return ParseRunConfig(data)
}

// UnmarshalYAML accepts either a "#rrggbb" / "#rrggbbaa" string or a
// sequence of three or four channel values.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseHexColor(value.Value)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	case yaml.SequenceNode:
		var ch []uint8
		if err := value.Decode(&ch); err != nil {
			return fmt.Errorf("genji: color channels: %w", err)
		}
		if len(ch) != 3 && len(ch) != 4 {
			return fmt.Errorf("genji: color needs 3 or 4 channels, got %d", len(ch))
		}
		*c = Color{ch[0], ch[1], ch[2], 255}
		if len(ch) == 4 {
			c.A = ch[3]
		}
		return nil
	}
	return fmt.Errorf("genji: line %d: color must be a hex string or channel list", value.Line)
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa". The leading '#' is optional.
func ParseHexColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return Color{}, fmt.Errorf("genji: invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("genji: invalid hex color %q: %w", s, err)
	}
	if len(s) == 6 {
		v = v<<8 | 0xff
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
