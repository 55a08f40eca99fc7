package genji

import (
	"fmt"
	"image"
	"math"
	"os"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const (
	textInset              = 20  // pen origin inside the raster, both axes
	textMargin             = 50  // padding added to the measured run, both axes
	defaultTextMaxWidth    = 9999.0
	defaultGlyphAlphaBoost = 382.5
)

// Font is a parsed TrueType/OpenType font. A Font is immutable after
// loading and may be shared by any number of Text sprites and goroutines.
type Font struct {
	sf *sfnt.Font

	// unitsPerEm and unitsHeight (ascent+descent in font units) convert a
	// pixel height into the ppem the sfnt API expects.
	unitsPerEm  float32
	unitsHeight float32
}

// LoadFont parses TTF/OTF data.
func LoadFont(data []byte) (*Font, error) {
	sf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("genji: failed to parse font: %w", err)
	}
	upem := sf.UnitsPerEm()
	var b sfnt.Buffer
	m, err := sf.Metrics(&b, fixed.I(int(upem)), font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("genji: failed to read font metrics: %w", err)
	}
	h := fixedToF32(m.Ascent + m.Descent)
	if h <= 0 {
		h = float32(upem)
	}
	return &Font{sf: sf, unitsPerEm: float32(upem), unitsHeight: h}, nil
}

// LoadFontFile reads and parses a .ttf or .otf file.
func LoadFontFile(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("genji: failed to read font: %w", err)
	}
	return LoadFont(data)
}

// ppem returns the pixels-per-em at which ascent+descent spans size pixels.
func (f *Font) ppem(size float32) fixed.Int26_6 {
	return fixed.Int26_6(size*f.unitsPerEm/f.unitsHeight*64 + 0.5)
}

// Text is a text sprite: a string drawn with a font at a pixel size.
// Size is the pixel height of one line's ascent plus descent.
type Text struct {
	Content string
	Font    *Font
	Size    float32
}

// NewText returns a Text sprite.
func NewText(content string, f *Font, size float32) Text {
	return Text{Content: content, Font: f, Size: size}
}

// TextFromFile loads the font at path and returns a Text sprite using it.
func TextFromFile(content, path string, size float32) (Text, error) {
	f, err := LoadFontFile(path)
	if err != nil {
		return Text{}, err
	}
	return NewText(content, f, size), nil
}

// Glyph is one positioned glyph of a laid-out run. X, Y is the pen position
// on the baseline, in raster pixels (Y grows downward).
type Glyph struct {
	Rune    rune
	X, Y    float32
	Advance float32

	index sfnt.GlyphIndex
}

// GlyphOptions tunes text layout and rasterization. Zero fields take the
// defaults: MaxWidth 9999 (no practical wrapping) and AlphaBoost 382.5.
type GlyphOptions struct {
	MaxWidth   float32
	AlphaBoost float32
}

func (o GlyphOptions) withDefaults() GlyphOptions {
	if o.MaxWidth <= 0 {
		o.MaxWidth = defaultTextMaxWidth
	}
	if o.AlphaBoost <= 0 {
		o.AlphaBoost = defaultGlyphAlphaBoost
	}
	return o
}

// GlyphRaster is the straight-alpha RGBA coverage buffer of a text run.
// Rows are stored top row first.
type GlyphRaster struct {
	Pix           []uint8
	Width, Height int
}

// NRGBA wraps the raster as an image without copying.
func (g *GlyphRaster) NRGBA() *image.NRGBA {
	return &image.NRGBA{Pix: g.Pix, Stride: g.Width * 4, Rect: image.Rect(0, 0, g.Width, g.Height)}
}

// LayoutGlyphs places each printable rune of s left to right from the inset
// origin. Pens advance by the glyph advance plus kerning against the previous
// glyph. A newline or a non-space glyph crossing maxWidth starts a new line.
func (f *Font) LayoutGlyphs(size float32, s string, maxWidth float32) ([]Glyph, error) {
	var b sfnt.Buffer
	ppem := f.ppem(size)
	m, err := f.sf.Metrics(&b, ppem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("genji: failed to read font metrics: %w", err)
	}
	ascent := fixedToF32(m.Ascent)
	lineAdvance := fixedToF32(m.Height)

	penX, penY := float32(textInset), float32(textInset)+ascent
	glyphs := make([]Glyph, 0, len(s))
	var prev sfnt.GlyphIndex
	hasPrev := false

	for _, r := range s {
		if unicode.IsControl(r) {
			if r == '\n' {
				penX, penY = textInset, penY+lineAdvance
				hasPrev = false
			}
			continue
		}
		idx, err := f.sf.GlyphIndex(&b, r)
		if err != nil {
			return nil, fmt.Errorf("genji: glyph index for %q: %w", r, err)
		}
		if hasPrev {
			// Fonts without a kern table report ErrNotFound.
			if k, err := f.sf.Kern(&b, prev, idx, ppem, font.HintingNone); err == nil {
				penX += fixedToF32(k)
			}
		}
		adv, err := f.sf.GlyphAdvance(&b, idx, ppem, font.HintingNone)
		if err != nil {
			return nil, fmt.Errorf("genji: glyph advance for %q: %w", r, err)
		}
		g := Glyph{Rune: r, X: penX, Y: penY, Advance: fixedToF32(adv), index: idx}
		prev, hasPrev = idx, true
		penX += g.Advance

		if !unicode.IsSpace(r) && penX > textInset+maxWidth {
			penY += lineAdvance
			g.X, g.Y = textInset, penY
			penX = textInset + g.Advance
			hasPrev = false
		}
		glyphs = append(glyphs, g)
	}
	return glyphs, nil
}

// RenderGlyphs lays out s and rasterizes it into a buffer sized to the run's
// bounding box plus a fixed margin. Every covered pixel takes col's RGB and an
// alpha of col.A * coverage * AlphaBoost, clamped to a byte. Where glyph boxes
// overlap the higher alpha wins. Text without printable runes, or with a
// size that is not positive, returns ErrEmptyText.
func RenderGlyphs(f *Font, size float32, s string, col Color, opts GlyphOptions) (*GlyphRaster, error) {
	if f == nil {
		return nil, fmt.Errorf("genji: render glyphs: nil font")
	}
	if size <= 0 {
		return nil, ErrEmptyText
	}
	opts = opts.withDefaults()
	glyphs, err := f.LayoutGlyphs(size, s, opts.MaxWidth)
	if err != nil {
		return nil, err
	}
	if len(glyphs) == 0 {
		return nil, ErrEmptyText
	}

	var b sfnt.Buffer
	ppem := f.ppem(size)
	m, err := f.sf.Metrics(&b, ppem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("genji: failed to read font metrics: %w", err)
	}

	minX, maxX, maxY := glyphs[0].X, glyphs[0].X+glyphs[0].Advance, glyphs[0].Y
	for _, g := range glyphs[1:] {
		minX = min(minX, g.X)
		maxX = max(maxX, g.X+g.Advance)
		maxY = max(maxY, g.Y)
	}
	bottom := maxY + fixedToF32(m.Descent)
	w := int(math.Ceil(float64(maxX-minX))) + textMargin
	h := int(math.Ceil(float64(bottom-textInset))) + textMargin

	out := &GlyphRaster{Pix: make([]uint8, w*h*4), Width: w, Height: h}
	baseAlpha := col.ToF32()[3]
	gr := glyphRasterizer{font: f, buf: &b, ppem: ppem}

	for _, g := range glyphs {
		mask, x0, y0, err := gr.coverage(g)
		if err != nil {
			return nil, err
		}
		if mask == nil {
			continue
		}
		mw, mh := mask.Rect.Dx(), mask.Rect.Dy()
		for py := 0; py < mh; py++ {
			by := y0 + py
			if by < 0 || by >= h {
				continue
			}
			for px := 0; px < mw; px++ {
				bx := x0 + px
				if bx < 0 || bx >= w {
					continue
				}
				cov := mask.Pix[py*mask.Stride+px]
				if cov == 0 {
					continue
				}
				a := truncByte(baseAlpha * (float32(cov) / 255) * opts.AlphaBoost)
				i := (by*w + bx) * 4
				if a <= out.Pix[i+3] {
					continue
				}
				out.Pix[i+0] = col.R
				out.Pix[i+1] = col.G
				out.Pix[i+2] = col.B
				out.Pix[i+3] = a
			}
		}
	}
	return out, nil
}

// glyphRasterizer turns glyph outlines into coverage masks, reusing one
// vector.Rasterizer across the glyphs of a run.
type glyphRasterizer struct {
	font *Font
	buf  *sfnt.Buffer
	ppem fixed.Int26_6
	rast *vector.Rasterizer
}

// coverage rasterizes g's outline. It returns the mask and the raster pixel
// of its top-left corner, or a nil mask for outline-less glyphs like space.
func (r *glyphRasterizer) coverage(g Glyph) (*image.Alpha, int, int, error) {
	segs, err := r.font.sf.LoadGlyph(r.buf, g.index, r.ppem, nil)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("genji: load glyph %q: %w", g.Rune, err)
	}
	if len(segs) == 0 {
		return nil, 0, 0, nil
	}
	bb := segs.Bounds()
	x0 := int(math.Floor(float64(g.X + fixedToF32(bb.Min.X))))
	y0 := int(math.Floor(float64(g.Y + fixedToF32(bb.Min.Y))))
	x1 := int(math.Ceil(float64(g.X + fixedToF32(bb.Max.X))))
	y1 := int(math.Ceil(float64(g.Y + fixedToF32(bb.Max.Y))))
	gw, gh := x1-x0, y1-y0
	if gw <= 0 || gh <= 0 {
		return nil, 0, 0, nil
	}
	if r.rast == nil {
		r.rast = vector.NewRasterizer(gw, gh)
	} else {
		r.rast.Reset(gw, gh)
	}

	// Segment coordinates are relative to the pen and already y-down.
	ox, oy := g.X-float32(x0), g.Y-float32(y0)
	for _, seg := range segs {
		a := seg.Args
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			r.rast.MoveTo(ox+fixedToF32(a[0].X), oy+fixedToF32(a[0].Y))
		case sfnt.SegmentOpLineTo:
			r.rast.LineTo(ox+fixedToF32(a[0].X), oy+fixedToF32(a[0].Y))
		case sfnt.SegmentOpQuadTo:
			r.rast.QuadTo(
				ox+fixedToF32(a[0].X), oy+fixedToF32(a[0].Y),
				ox+fixedToF32(a[1].X), oy+fixedToF32(a[1].Y),
			)
		case sfnt.SegmentOpCubeTo:
			r.rast.CubeTo(
				ox+fixedToF32(a[0].X), oy+fixedToF32(a[0].Y),
				ox+fixedToF32(a[1].X), oy+fixedToF32(a[1].Y),
				ox+fixedToF32(a[2].X), oy+fixedToF32(a[2].Y),
			)
		}
	}
	mask := image.NewAlpha(image.Rect(0, 0, gw, gh))
	r.rast.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask, x0, y0, nil
}

func fixedToF32(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
