// Package genji is a small declarative 2D game engine built on [Ebitengine]
// and the [Donburi] entity-component world.
//
// A game is three hooks. Init builds a world of entities, Loop changes them
// once per frame, and Close runs at the end. Genji draws whatever the world
// holds after each Loop:
//
//	type state struct{ player donburi.Entity }
//
//	func main() {
//		err := genji.Run(genji.Game[state]{
//			Init: func(e *genji.Engine) (state, donburi.World, error) {
//				w := donburi.NewWorld()
//				p := genji.Spawn(w, genji.NewRect(40, 40), genji.Pt(0, 0),
//					genji.WithColor(genji.NewColor(255, 80, 80, 255)))
//				return state{player: p}, w, nil
//			},
//			Loop: func(s *genji.GameState[state], w donburi.World, e *genji.Engine) bool {
//				if s.Keys[genji.KeyRight] {
//					pos := genji.PositionComponent.Get(w.Entry(s.State.player))
//					pos.X += 2
//				}
//				return s.Keys[genji.KeyEsc]
//			},
//		}, genji.RunConfig{Title: "demo"})
//		if err != nil {
//			log.Fatal(err)
//		}
//	}
//
// # Sprites
//
// An entity is drawn when it has a [PositionComponent] and one shape
// component: [Rect], [Circle], [Triangle], [Text] or [Texture]. Its
// appearance comes from optional attribute components, each with a
// default: [AngleComponent] (0 degrees), [ColorComponent] (opaque white),
// [DepthComponent] (1), [FillComponent] (true) and [StrokeWeightComponent]
// (4). [Spawn] attaches them in one call.
//
// # Coordinates
//
// Positions and sizes are engine units. The window always spans -200 to
// 200 on both axes with the origin at its center and Y pointing up,
// whatever its pixel size.
//
// # Depth
//
// Depth orders sprites. Higher values draw further back; sprites with equal
// depth keep the order the world yielded them in. Depth 0 hides a sprite
// without removing it.
//
// # Headless rendering
//
// [Renderer] runs the same pipeline against any [Backend]. [ImageBackend]
// draws into an *image.RGBA, which is how tests and golden images render
// frames without a window.
//
// # Threaded logic
//
// Games that tick logic on their own goroutine publish [Frame] snapshots
// through a [FrameExchange]; the render side always draws the newest one
// and reuses the previous frame when nothing new arrived. See [RunLogic].
//
// # Particles and tiles
//
// [ParticleEmitter] and [TileLayer] create their entities once and hide
// unused ones with depth 0, so the world's entity count stays fixed while
// they run.
//
// # Audio
//
// Sounds and music live in the genji/audio package. The running engine
// hands its mixer to Loop through [Engine.Audio].
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package genji
