package genji

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
)

// Spritemap is a sprite sheet laid out on a regular grid of cells. Sprites
// are copied out of the sheet; they do not reference it.
type Spritemap struct {
	sheet *image.NRGBA

	cellW, cellH int // size of one grid cell in pixels
	cols, rows   int
}

// NewSpritemap decodes a sheet whose dimensions must be whole multiples of the
// cell size. FormatUnknown sniffs the format.
func NewSpritemap(data []byte, format ImageFormat, cellW, cellH int) (*Spritemap, error) {
	img, err := DecodeImage(data, format)
	if err != nil {
		return nil, err
	}
	return SpritemapFromImage(img, cellW, cellH)
}

// SpritemapFromFile loads a sheet from an image file.
func SpritemapFromFile(path string, cellW, cellH int) (*Spritemap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("genji: read spritemap: %w", err)
	}
	format, _ := FormatFromExtension(filepath.Ext(path))
	return NewSpritemap(data, format, cellW, cellH)
}

// SpritemapFromImage builds a spritemap over an already-decoded sheet.
func SpritemapFromImage(img image.Image, cellW, cellH int) (*Spritemap, error) {
	n := toNRGBA(img)
	w, h := n.Rect.Dx(), n.Rect.Dy()
	if cellW <= 0 || cellH <= 0 || w%cellW != 0 || h%cellH != 0 {
		return nil, fmt.Errorf("%w: %dx%d sheet, %dx%d cells", ErrSpritemapGrid, w, h, cellW, cellH)
	}
	return &Spritemap{sheet: n, cellW: cellW, cellH: cellH, cols: w / cellW, rows: h / cellH}, nil
}

// Len returns the number of grid cells.
func (m *Spritemap) Len() int {
	return m.cols * m.rows
}

// Sprite returns cell id, counted left to right then top to bottom.
func (m *Spritemap) Sprite(id int, opts TextureOptions) (Texture, error) {
	if id < 0 || id >= m.Len() {
		return Texture{}, fmt.Errorf("%w: id %d of %d", ErrSpriteOutOfRange, id, m.Len())
	}
	x := (id % m.cols) * m.cellW
	y := (id / m.cols) * m.cellH
	return m.sample(x, y, m.cellW, m.cellH, opts), nil
}

// Region returns an arbitrary w×h pixel rectangle at (x, y), which must lie
// inside the sheet.
func (m *Spritemap) Region(x, y, w, h int, opts TextureOptions) (Texture, error) {
	b := m.sheet.Rect
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > b.Dx() || y+h > b.Dy() {
		return Texture{}, fmt.Errorf("%w: %dx%d at (%d, %d)", ErrSpriteOutOfRange, w, h, x, y)
	}
	return m.sample(x, y, w, h, opts), nil
}

func (m *Spritemap) sample(x, y, w, h int, opts TextureOptions) Texture {
	pix := make([]byte, w*h*4)
	for row := 0; row < h; row++ {
		src := m.sheet.PixOffset(x, y+row)
		copy(pix[row*w*4:(row+1)*w*4], m.sheet.Pix[src:src+w*4])
	}
	return TextureFromRaw(pix, w, h, opts)
}
