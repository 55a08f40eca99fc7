package genji

import (
	"errors"
	"fmt"
	"time"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"
)

// One query per shape kind, each requiring a position. Collect runs them in
// this order, which is the tiebreak order among equal depths.
var shapeQueries = [...]*query.Query{
	KindRect:     query.NewQuery(filter.Contains(RectComponent, PositionComponent)),
	KindCircle:   query.NewQuery(filter.Contains(CircleComponent, PositionComponent)),
	KindTriangle: query.NewQuery(filter.Contains(TriangleComponent, PositionComponent)),
	KindText:     query.NewQuery(filter.Contains(TextComponent, PositionComponent)),
	KindTexture:  query.NewQuery(filter.Contains(TextureComponent, PositionComponent)),
}

// FrameStats reports what one rendered frame did.
type FrameStats struct {
	Collected int // draw entries gathered from the world
	Hidden    int // entries dropped for depth 0
	Drawn     int // draw calls issued
	Skipped   int // empty text and zero-size textures
	Failed    int // backend failures logged under SkipFailedDraws

	ByKind [len(kindNames)]int // visible entries per ShapeKind

	ResolveTime time.Duration
	SortTime    time.Duration
	SubmitTime  time.Duration
}

// Renderer turns a world into ordered backend draw calls. It keeps scratch
// buffers between frames and is not safe for concurrent use.
type Renderer struct {
	cfg   RenderConfig
	mesh  MeshOptions
	glyph GlyphOptions

	comp    Compositor
	entries []DrawEntry

	textCache map[textKey]*cachedRaster
	frame     uint64

	debug bool
}

// textKey identifies a text raster. Fonts compare by pointer.
type textKey struct {
	font    *Font
	size    float32
	content string
	color   Color
}

type cachedRaster struct {
	raster   *GlyphRaster
	lastUsed uint64
}

// NewRenderer returns a renderer with the given tuning.
func NewRenderer(cfg RenderConfig) *Renderer {
	r := &Renderer{
		cfg:   cfg,
		mesh:  cfg.meshOptions(),
		glyph: cfg.glyphOptions(),
	}
	if cfg.CacheText {
		r.textCache = make(map[textKey]*cachedRaster)
	}
	return r
}

// Config returns the renderer's tuning.
func (r *Renderer) Config() RenderConfig {
	return r.cfg
}

// SetDebugMode enables per-frame timing and count logging to stderr.
func (r *Renderer) SetDebugMode(enabled bool) {
	r.debug = enabled
}

// Collect gathers one draw entry per drawable entity, shape kinds in
// declaration order. Entities without a position are skipped. The returned
// slice is reused by the next call.
func (r *Renderer) Collect(w donburi.World) []DrawEntry {
	r.entries = r.entries[:0]
	for kind, q := range shapeQueries {
		q.Each(w, func(e *donburi.Entry) {
			sd, ok := Resolve(e)
			if !ok {
				return
			}
			r.entries = append(r.entries, DrawEntry{Shape: entryShape(ShapeKind(kind), e), Attrs: sd})
		})
	}
	return r.entries
}

func entryShape(kind ShapeKind, e *donburi.Entry) Shape {
	switch kind {
	case KindRect:
		return RectComponent.GetValue(e)
	case KindCircle:
		return CircleComponent.GetValue(e)
	case KindTriangle:
		return TriangleComponent.GetValue(e)
	case KindText:
		return TextComponent.GetValue(e)
	}
	return TextureComponent.GetValue(e)
}

// RenderFrame draws one frame of w: clear, collect, compose, then one draw
// call per visible entry. A nil clearColor keeps the previous frame's pixels.
func (r *Renderer) RenderFrame(w donburi.World, b Backend, clearColor *Color) (FrameStats, error) {
	if clearColor != nil {
		b.Clear(*clearColor)
	}
	start := time.Now()
	entries := r.Collect(w)
	resolveTime := time.Since(start)

	stats, err := r.RenderEntries(entries, b)
	stats.ResolveTime = resolveTime
	r.debugLog(stats)
	return stats, err
}

// RenderEntries composes and draws entries that were collected earlier,
// such as a snapshot handed over by a logic goroutine.
func (r *Renderer) RenderEntries(entries []DrawEntry, b Backend) (FrameStats, error) {
	var stats FrameStats
	stats.Collected = len(entries)
	r.frame++

	start := time.Now()
	ordered := r.comp.Compose(entries)
	stats.SortTime = time.Since(start)
	stats.Hidden = len(entries) - len(ordered)
	stats.ByKind = countKinds(ordered)

	start = time.Now()
	defer r.evictText()

	w, h := b.Size()
	for i := range ordered {
		e := &ordered[i]
		err := r.drawEntry(e, b, w, h)
		switch {
		case err == nil:
			stats.Drawn++
		case errors.Is(err, ErrEmptyText), errors.Is(err, ErrZeroTexture):
			stats.Skipped++
		case r.cfg.SkipFailedDraws:
			stats.Failed++
			logf("skipping %s at %v: %v", e.Shape.Kind(), Pt(e.Attrs.X, e.Attrs.Y), err)
		default:
			stats.SubmitTime = time.Since(start)
			return stats, fmt.Errorf("genji: draw %s entry: %w", e.Shape.Kind(), err)
		}
	}
	stats.SubmitTime = time.Since(start)
	return stats, nil
}

func (r *Renderer) drawEntry(e *DrawEntry, b Backend, w, h int) error {
	mat := SpriteTransform(e.Attrs, w, h)
	switch s := e.Shape.(type) {
	case Text:
		return r.drawText(s, e.Attrs, b, &mat)
	case *Text:
		return r.drawText(*s, e.Attrs, b, &mat)
	case Texture:
		return r.drawTexture(s, e.Attrs, b, &mat)
	case *Texture:
		return r.drawTexture(*s, e.Attrs, b, &mat)
	}
	mesh := GenerateMesh(e.Shape, e.Attrs, nil, r.mesh)
	if len(mesh.Vertices) == 0 {
		return nil
	}
	return b.DrawMesh(&mesh, &mat, nil)
}

func (r *Renderer) drawText(t Text, sd SpriteData, b Backend, mat *Mat4) error {
	raster, err := r.textRaster(t, sd.Color)
	if err != nil {
		return err
	}
	mesh := TextMesh(raster, sd, r.mesh)
	return b.DrawMesh(&mesh, mat, &TextureData{Pix: raster.Pix, Width: raster.Width, Height: raster.Height})
}

func (r *Renderer) drawTexture(t Texture, sd SpriteData, b Backend, mat *Mat4) error {
	data, err := t.data()
	if err != nil {
		return err
	}
	mesh := TextureMesh(t, sd, r.mesh)
	return b.DrawMesh(&mesh, mat, data)
}

// textRaster rasterizes t, or returns the cached raster when caching is on.
func (r *Renderer) textRaster(t Text, col Color) (*GlyphRaster, error) {
	if t.Content == "" {
		return nil, ErrEmptyText
	}
	if r.textCache == nil {
		return RenderGlyphs(t.Font, t.Size, t.Content, col, r.glyph)
	}
	key := textKey{font: t.Font, size: t.Size, content: t.Content, color: col}
	if c, ok := r.textCache[key]; ok {
		c.lastUsed = r.frame
		return c.raster, nil
	}
	raster, err := RenderGlyphs(t.Font, t.Size, t.Content, col, r.glyph)
	if err != nil {
		return nil, err
	}
	r.textCache[key] = &cachedRaster{raster: raster, lastUsed: r.frame}
	return raster, nil
}

// evictText drops rasters no entry used this frame.
func (r *Renderer) evictText() {
	for k, c := range r.textCache {
		if c.lastUsed != r.frame {
			delete(r.textCache, k)
		}
	}
}

// CachedTexts returns the number of text rasters currently cached.
func (r *Renderer) CachedTexts() int {
	return len(r.textCache)
}
