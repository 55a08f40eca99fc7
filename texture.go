package genji

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// ImageFormat names an encoded image container.
type ImageFormat uint8

const (
	FormatUnknown ImageFormat = iota
	FormatPNG
	FormatJPEG
	FormatGIF
	FormatBMP
	FormatWebP
	FormatTIFF
)

var formatNames = [...]string{"unknown", "png", "jpeg", "gif", "bmp", "webp", "tiff"}

// String implements fmt.Stringer.
func (f ImageFormat) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown"
}

// FormatFromExtension maps a file extension (with or without the dot, any
// case) to its format.
func FormatFromExtension(ext string) (ImageFormat, bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png":
		return FormatPNG, true
	case "jpg", "jpeg", "jpe", "jfif":
		return FormatJPEG, true
	case "gif":
		return FormatGIF, true
	case "bmp":
		return FormatBMP, true
	case "webp":
		return FormatWebP, true
	case "tif", "tiff":
		return FormatTIFF, true
	}
	return FormatUnknown, false
}

// DetectImageFormat sniffs the format from the leading bytes of data.
func DetectImageFormat(data []byte) (ImageFormat, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return FormatUnknown, fmt.Errorf("genji: detect image format: %w", err)
	}
	if kind == filetype.Unknown {
		return FormatUnknown, ErrUnknownFormat
	}
	f, ok := FormatFromExtension(kind.Extension)
	if !ok {
		return FormatUnknown, fmt.Errorf("%w: %s", ErrUnknownFormat, kind.MIME.Value)
	}
	return f, nil
}

// DecodeImage decodes data in the given format to a straight-alpha RGBA
// image whose origin is (0, 0). FormatUnknown sniffs the format first.
func DecodeImage(data []byte, format ImageFormat) (*image.NRGBA, error) {
	if format == FormatUnknown {
		f, err := DetectImageFormat(data)
		if err != nil {
			return nil, err
		}
		format = f
	}
	img, err := decodeAs(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("genji: decode %s image: %w", format, err)
	}
	return toNRGBA(img), nil
}

func decodeAs(r io.Reader, format ImageFormat) (image.Image, error) {
	switch format {
	case FormatPNG:
		return png.Decode(r)
	case FormatJPEG:
		return jpeg.Decode(r)
	case FormatGIF:
		return gif.Decode(r)
	case FormatBMP:
		return bmp.Decode(r)
	case FormatWebP:
		return webp.Decode(r)
	case FormatTIFF:
		return tiff.Decode(r)
	}
	return nil, ErrUnknownFormat
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// TextureOptions sizes a texture in engine units. They work like HTML image
// dimensions: a zero field is derived from the other so the image keeps its
// aspect ratio, and with both zero the image maps one pixel to one unit.
type TextureOptions struct {
	Width, Height int32
}

func (o TextureOptions) size(pw, ph int) (int32, int32) {
	switch {
	case o.Width == 0 && o.Height == 0:
		return int32(pw), int32(ph)
	case o.Width == 0:
		if ph == 0 {
			return 0, o.Height
		}
		return roundF32(float32(pw) * (float32(o.Height) / float32(ph))), o.Height
	case o.Height == 0:
		if pw == 0 {
			return o.Width, 0
		}
		return o.Width, roundF32(float32(ph) * (float32(o.Width) / float32(pw)))
	}
	return o.Width, o.Height
}

func roundF32(v float32) int32 {
	return int32(math.Round(float64(v)))
}

// Texture is an image sprite. Pix holds PixW×PixH straight-alpha RGBA
// pixels, top row first; W and H are the drawn size in engine units.
type Texture struct {
	Pix        []byte
	PixW, PixH int
	W, H       int32
}

// NewTexture decodes encoded image data. FormatUnknown sniffs the format.
func NewTexture(data []byte, format ImageFormat, opts TextureOptions) (Texture, error) {
	img, err := DecodeImage(data, format)
	if err != nil {
		return Texture{}, err
	}
	return TextureFromImage(img, opts), nil
}

// TextureFromFile decodes the image at path. The format comes from the file
// extension, falling back to content sniffing.
func TextureFromFile(path string, opts TextureOptions) (Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Texture{}, fmt.Errorf("genji: read texture: %w", err)
	}
	format, _ := FormatFromExtension(filepath.Ext(path))
	return NewTexture(data, format, opts)
}

// TextureFromRaw wraps already-decoded RGBA pixels. The data is not
// validated here; a short buffer fails when the texture is drawn.
func TextureFromRaw(pix []byte, w, h int, opts TextureOptions) Texture {
	tw, th := opts.size(w, h)
	return Texture{Pix: pix, PixW: w, PixH: h, W: tw, H: th}
}

// TextureFromImage copies any image into a Texture.
func TextureFromImage(img image.Image, opts TextureOptions) Texture {
	n := toNRGBA(img)
	w, h := n.Rect.Dx(), n.Rect.Dy()
	if n.Stride != w*4 {
		n = cloneNRGBA(n)
	}
	return TextureFromRaw(n.Pix, w, h, opts)
}

func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, src.Rect.Dx(), src.Rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, src.Rect.Min, draw.Src)
	return dst
}

// Empty reports whether the texture has nothing to draw.
func (t Texture) Empty() bool {
	return t.PixW <= 0 || t.PixH <= 0 || t.W == 0 || t.H == 0
}

// NRGBA wraps the pixels as an image without copying.
func (t Texture) NRGBA() *image.NRGBA {
	return &image.NRGBA{Pix: t.Pix, Stride: t.PixW * 4, Rect: image.Rect(0, 0, t.PixW, t.PixH)}
}

// TextureData is the pixel payload a backend uploads for one draw.
type TextureData struct {
	Pix           []byte // straight-alpha RGBA, top row first
	Width, Height int
}

func (t Texture) data() (*TextureData, error) {
	if t.Empty() {
		return nil, ErrZeroTexture
	}
	if want := t.PixW * t.PixH * 4; len(t.Pix) < want {
		return nil, fmt.Errorf("genji: texture has %d bytes of pixel data, want %d", len(t.Pix), want)
	}
	return &TextureData{Pix: t.Pix, Width: t.PixW, Height: t.PixH}, nil
}

// NRGBA wraps the payload as an image without copying.
func (d *TextureData) NRGBA() *image.NRGBA {
	return &image.NRGBA{Pix: d.Pix, Stride: d.Width * 4, Rect: image.Rect(0, 0, d.Width, d.Height)}
}
