package genji

import (
	"encoding/json"
	"fmt"
	"image"
)

// AtlasRegion describes a sub-rectangle within an atlas page.
type AtlasRegion struct {
	Page      int  // atlas page index
	X, Y      int  // top-left corner of the packed rect within the page
	Width     int  // packed width in the page (may differ from OriginalW if trimmed)
	Height    int  // packed height (may differ from OriginalH if trimmed)
	OriginalW int  // untrimmed sprite width as authored
	OriginalH int  // untrimmed sprite height as authored
	OffsetX   int  // horizontal trim offset from TexturePacker
	OffsetY   int  // vertical trim offset from TexturePacker
	Rotated   bool // true if the region is stored 90 degrees clockwise in the page
}

// Atlas holds decoded TexturePacker pages and a map of named regions.
type Atlas struct {
	Pages   []*image.NRGBA
	regions map[string]AtlasRegion
}

// Region returns the named region. ok is false if the atlas has no such name.
func (a *Atlas) Region(name string) (AtlasRegion, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// Len returns the number of named regions.
func (a *Atlas) Len() int {
	return len(a.regions)
}

// Texture copies the named region out of its page, undoing rotation and
// restoring trimmed transparent borders. A missing name logs a warning and
// yields a 1×1 magenta placeholder so the sprite stays visible.
func (a *Atlas) Texture(name string, opts TextureOptions) Texture {
	r, ok := a.regions[name]
	if !ok || r.Page < 0 || r.Page >= len(a.Pages) || a.Pages[r.Page] == nil {
		logf("atlas region %q not found, using magenta placeholder", name)
		return magentaTexture(opts)
	}
	page := a.Pages[r.Page]

	// Sprite size as packed; rotated frames report their page footprint.
	sw, sh := r.Width, r.Height
	if r.Rotated {
		sw, sh = sh, sw
	}
	ow, oh := r.OriginalW, r.OriginalH
	if ow == 0 || oh == 0 {
		ow, oh = sw, sh
	}
	dst := image.NewNRGBA(image.Rect(0, 0, ow, oh))
	for y := 0; y < sh; y++ {
		for x := 0; x < sw; x++ {
			sx, sy := r.X+x, r.Y+y
			if r.Rotated {
				// Stored rotated clockwise: sprite row y is footprint column sh-1-y.
				sx, sy = r.X+(sh-1-y), r.Y+x
			}
			dx, dy := x+r.OffsetX, y+r.OffsetY
			if !image.Pt(sx, sy).In(page.Rect) || !image.Pt(dx, dy).In(dst.Rect) {
				continue
			}
			si, di := page.PixOffset(sx, sy), dst.PixOffset(dx, dy)
			copy(dst.Pix[di:di+4], page.Pix[si:si+4])
		}
	}
	return TextureFromRaw(dst.Pix, ow, oh, opts)
}

func magentaTexture(opts TextureOptions) Texture {
	return TextureFromRaw([]byte{255, 0, 255, 255}, 1, 1, opts)
}

// LoadAtlas parses TexturePacker JSON data and associates the given decoded
// page images. Supports both the hash format (single "frames" object) and the
// array format ("textures" array with per-page frame lists).
func LoadAtlas(jsonData []byte, pages []*image.NRGBA) (*Atlas, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("genji: failed to parse atlas JSON: %w", err)
	}

	atlas := &Atlas{
		Pages:   pages,
		regions: make(map[string]AtlasRegion),
	}

	switch {
	case probe.Textures != nil:
		if err := parseArrayFormat(probe.Textures, atlas); err != nil {
			return nil, err
		}
	case probe.Frames != nil:
		if err := parseHashFrames(probe.Frames, 0, atlas); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("genji: atlas JSON has neither \"frames\" nor \"textures\" key")
	}
	return atlas, nil
}

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

func parseHashFrames(raw json.RawMessage, page int, atlas *Atlas) error {
	var frames map[string]jsonFrame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return fmt.Errorf("genji: failed to parse atlas frames: %w", err)
	}
	for name, f := range frames {
		atlas.regions[name] = frameToRegion(f, page)
	}
	return nil
}

func parseArrayFormat(raw json.RawMessage, atlas *Atlas) error {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return fmt.Errorf("genji: failed to parse atlas textures array: %w", err)
	}
	for i, tex := range textures {
		for name, f := range tex.Frames {
			atlas.regions[name] = frameToRegion(f, i)
		}
	}
	return nil
}

func frameToRegion(f jsonFrame, page int) AtlasRegion {
	return AtlasRegion{
		Page:      page,
		X:         f.Frame.X,
		Y:         f.Frame.Y,
		Width:     f.Frame.W,
		Height:    f.Frame.H,
		OriginalW: f.SourceSize.W,
		OriginalH: f.SourceSize.H,
		OffsetX:   f.SpriteSourceSize.X,
		OffsetY:   f.SpriteSourceSize.Y,
		Rotated:   f.Rotated,
	}
}
