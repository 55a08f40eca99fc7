package genji

import (
	"fmt"
	"math"

	"github.com/yohamta/donburi"
)

// AnimFrame is one frame of a tile animation.
type AnimFrame struct {
	GID      uint32 // tile GID shown during this frame
	Duration int    // milliseconds
}

// TileLayer is a grid of spritemap cells drawn as texture entities. Tiles
// are addressed by GID, as in Tiled maps: 0 is an empty cell and GID n
// shows spritemap cell n-1. Every cell owns one entity for the life of the
// layer; empty cells are hidden with depth 0.
type TileLayer struct {
	sheet      *Spritemap
	cols, rows int
	tileW      int32 // engine units
	tileH      int32
	origin     Point // top-left corner of the map
	depth      uint32

	data     []uint32 // row-major GIDs, len = cols * rows
	shown    []uint32 // GID currently on each entity, after animation
	entities []donburi.Entity
	textures map[uint32]Texture

	anims       map[uint32][]AnimFrame // base GID -> frames
	animElapsed int                    // milliseconds
}

// TileLayerConfig places a tile layer in engine units.
type TileLayerConfig struct {
	Cols, Rows   int
	TileW, TileH int32
	// Origin is the top-left corner of tile (0, 0). Rows grow downwards.
	Origin Point
	// Depth of every non-empty tile. Default 1.
	Depth uint32
}

// NewTileLayer spawns one entity per cell of data into w. data is row-major
// and must hold exactly Cols*Rows GIDs.
func NewTileLayer(w donburi.World, sheet *Spritemap, data []uint32, cfg TileLayerConfig) (*TileLayer, error) {
	if cfg.Cols <= 0 || cfg.Rows <= 0 || cfg.TileW <= 0 || cfg.TileH <= 0 {
		return nil, fmt.Errorf("genji: tile layer: %dx%d tiles of %dx%d", cfg.Cols, cfg.Rows, cfg.TileW, cfg.TileH)
	}
	if len(data) != cfg.Cols*cfg.Rows {
		return nil, fmt.Errorf("genji: tile layer: %d GIDs for %dx%d tiles", len(data), cfg.Cols, cfg.Rows)
	}
	if cfg.Depth == 0 {
		cfg.Depth = defaultDepth
	}
	l := &TileLayer{
		sheet:    sheet,
		cols:     cfg.Cols,
		rows:     cfg.Rows,
		tileW:    cfg.TileW,
		tileH:    cfg.TileH,
		origin:   cfg.Origin,
		depth:    cfg.Depth,
		data:     append([]uint32(nil), data...),
		shown:    make([]uint32, len(data)),
		entities: make([]donburi.Entity, len(data)),
		textures: make(map[uint32]Texture),
	}
	for i, gid := range l.data {
		l.entities[i] = Spawn(w, Texture{}, l.tileCenter(i%l.cols, i/l.cols), WithDepth(0))
		if err := l.show(w, i, gid); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Size returns the layer's dimensions in tiles.
func (l *TileLayer) Size() (cols, rows int) {
	return l.cols, l.rows
}

// Tile returns the GID stored at (col, row), or 0 outside the layer.
func (l *TileLayer) Tile(col, row int) uint32 {
	if col < 0 || col >= l.cols || row < 0 || row >= l.rows {
		return 0
	}
	return l.data[row*l.cols+col]
}

// Entity returns the entity drawing (col, row).
func (l *TileLayer) Entity(col, row int) (donburi.Entity, bool) {
	if col < 0 || col >= l.cols || row < 0 || row >= l.rows {
		return donburi.Null, false
	}
	return l.entities[row*l.cols+col], true
}

// SetTile changes one tile. Out-of-range cells are ignored.
func (l *TileLayer) SetTile(w donburi.World, col, row int, gid uint32) error {
	if col < 0 || col >= l.cols || row < 0 || row >= l.rows {
		return nil
	}
	i := row*l.cols + col
	l.data[i] = gid
	return l.show(w, i, l.frameGID(gid))
}

// SetAnimations sets animation frames keyed by base GID. Tiles holding a
// keyed GID cycle through its frames as Update advances.
func (l *TileLayer) SetAnimations(w donburi.World, anims map[uint32][]AnimFrame) error {
	l.anims = anims
	return l.refresh(w)
}

// Update advances tile animations by dt seconds.
func (l *TileLayer) Update(w donburi.World, dt float64) error {
	dtMs := int(dt * 1000)
	if dtMs <= 0 || len(l.anims) == 0 {
		return nil
	}
	l.animElapsed += dtMs
	return l.refresh(w)
}

// CellAt returns the tile under an engine-unit position.
func (l *TileLayer) CellAt(p Point) (col, row int, ok bool) {
	dx := float64(p.X - l.origin.X)
	dy := float64(l.origin.Y - p.Y)
	col = int(math.Floor(dx / float64(l.tileW)))
	row = int(math.Floor(dy / float64(l.tileH)))
	if col < 0 || col >= l.cols || row < 0 || row >= l.rows {
		return 0, 0, false
	}
	return col, row, true
}

func (l *TileLayer) refresh(w donburi.World) error {
	for i, gid := range l.data {
		if err := l.show(w, i, l.frameGID(gid)); err != nil {
			return err
		}
	}
	return nil
}

// frameGID resolves an animated GID to the frame due at the current time.
func (l *TileLayer) frameGID(gid uint32) uint32 {
	frames, ok := l.anims[gid]
	if !ok || len(frames) == 0 {
		return gid
	}
	total := 0
	for _, f := range frames {
		total += f.Duration
	}
	if total <= 0 {
		return frames[0].GID
	}
	elapsed := l.animElapsed % total
	acc := 0
	for _, f := range frames {
		acc += f.Duration
		if elapsed < acc {
			return f.GID
		}
	}
	return frames[0].GID
}

func (l *TileLayer) show(w donburi.World, i int, gid uint32) error {
	if l.shown[i] == gid && gid != 0 {
		return nil
	}
	ent := l.entities[i]
	if !w.Valid(ent) {
		return nil
	}
	entry := w.Entry(ent)
	l.shown[i] = gid
	if gid == 0 {
		DepthComponent.SetValue(entry, 0)
		return nil
	}
	tex, err := l.texture(gid)
	if err != nil {
		return err
	}
	TextureComponent.SetValue(entry, tex)
	DepthComponent.SetValue(entry, Depth(l.depth))
	return nil
}

func (l *TileLayer) texture(gid uint32) (Texture, error) {
	if t, ok := l.textures[gid]; ok {
		return t, nil
	}
	t, err := l.sheet.Sprite(int(gid)-1, TextureOptions{Width: l.tileW, Height: l.tileH})
	if err != nil {
		return Texture{}, fmt.Errorf("genji: tile %d: %w", gid, err)
	}
	l.textures[gid] = t
	return t, nil
}

func (l *TileLayer) tileCenter(col, row int) Point {
	return Pt(
		l.origin.X+int32(col)*l.tileW+l.tileW/2,
		l.origin.Y-int32(row)*l.tileH-l.tileH/2,
	)
}
