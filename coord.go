package genji

import "math"

// engineUnitsPerDevice is the fixed scale between engine units and device
// units. Engine ±400 maps to device ±2.0, so only ±200 is on screen.
const engineUnitsPerDevice = 200.0

// Coord converts an engine coordinate to a device (normalized) coordinate.
// No rounding or clamping is applied.
func Coord(x int32) float32 {
	return float32(x) / engineUnitsPerDevice
}

// Coords converts an engine position to device coordinates.
func Coords(x, y int32) [2]float32 {
	return [2]float32{Coord(x), Coord(y)}
}

// PixelToEngineX converts a window pixel column to engine units.
func PixelToEngineX(px float64, width int) int32 {
	if width <= 0 {
		return 0
	}
	ndc := px/float64(width)*2 - 1
	return int32(math.Round(ndc * engineUnitsPerDevice))
}

// PixelToEngineY converts a window pixel row to engine units. Pixel rows grow
// downward while engine Y grows upward.
func PixelToEngineY(py float64, height int) int32 {
	if height <= 0 {
		return 0
	}
	ndc := 1 - py/float64(height)*2
	return int32(math.Round(ndc * engineUnitsPerDevice))
}

// deviceToPixel maps a device coordinate pair to pixel space on a target of
// the given size.
func deviceToPixel(x, y float32, w, h int) (float32, float32) {
	return (x + 1) * 0.5 * float32(w), (1 - y) * 0.5 * float32(h)
}
