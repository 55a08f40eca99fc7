package genji

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Key identifies a keyboard key or mouse button. Keyboard keys and mouse
// buttons share one table so game code reads both the same way.
type Key uint8

const (
	KeyA Key = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeyZero
	KeyOne
	KeyTwo
	KeyThree
	KeyFour
	KeyFive
	KeySix
	KeySeven
	KeyEight
	KeyNine
	KeyUp
	KeyLeft
	KeyDown
	KeyRight
	KeyTab
	KeyShift
	KeyRShift
	KeyCaps
	KeySpace
	KeyEsc
	KeyCtrl
	KeyRCtrl
	KeyAlt
	KeyRAlt
	KeySuper
	KeyRSuper
	KeyBackspace
	KeyEnter
	KeyBacktick
	KeyMinus
	KeyEquals
	KeyBackslash
	KeyLBracket
	KeyRBracket
	KeySemicolon
	KeyApostrophe
	KeyComma
	KeyPeriod
	KeySlash
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyLClick
	KeyRClick
	KeyMClick
	KeyM1
	KeyM2
	KeyM3
	KeyM4

	keyCount // number of named keys
)

// KeyTableSize is the length of a Keys table. The last slots past the named
// keys are spare and never set by the engine.
const KeyTableSize = 87

var keyNames = [keyCount]string{
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
	"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
	"Up", "Left", "Down", "Right",
	"Tab", "Shift", "RShift", "Caps", "Space", "Esc",
	"Ctrl", "RCtrl", "Alt", "RAlt", "Super", "RSuper",
	"Backspace", "Enter", "Backtick", "Minus", "Equals", "Backslash",
	"LBracket", "RBracket", "Semicolon", "Apostrophe", "Comma", "Period", "Slash",
	"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10", "F11", "F12",
	"LClick", "RClick", "MClick", "M1", "M2", "M3", "M4",
}

// String returns the key name, such as "Space" or "LClick".
func (k Key) String() string {
	if k < keyCount {
		return keyNames[k]
	}
	return "Key(?)"
}

// ParseKey looks a key up by its String name. Matching is exact.
func ParseKey(name string) (Key, bool) {
	for i, n := range keyNames {
		if n == name {
			return Key(i), true
		}
	}
	return 0, false
}

// Keys is a fixed table of key states indexed by Key.
type Keys [KeyTableSize]bool

// Any reports whether any key in the table is set.
func (k *Keys) Any() bool {
	for _, down := range k {
		if down {
			return true
		}
	}
	return false
}

// Reset clears every key.
func (k *Keys) Reset() {
	*k = Keys{}
}

// keyBinding maps an ebiten key to the engine key it sets. Several ebiten
// keys may feed one engine key; numpad digits read as the top-row digits.
type keyBinding struct {
	from ebiten.Key
	to   Key
}

var keyBindings = []keyBinding{
	{ebiten.KeyA, KeyA}, {ebiten.KeyB, KeyB}, {ebiten.KeyC, KeyC}, {ebiten.KeyD, KeyD},
	{ebiten.KeyE, KeyE}, {ebiten.KeyF, KeyF}, {ebiten.KeyG, KeyG}, {ebiten.KeyH, KeyH},
	{ebiten.KeyI, KeyI}, {ebiten.KeyJ, KeyJ}, {ebiten.KeyK, KeyK}, {ebiten.KeyL, KeyL},
	{ebiten.KeyM, KeyM}, {ebiten.KeyN, KeyN}, {ebiten.KeyO, KeyO}, {ebiten.KeyP, KeyP},
	{ebiten.KeyQ, KeyQ}, {ebiten.KeyR, KeyR}, {ebiten.KeyS, KeyS}, {ebiten.KeyT, KeyT},
	{ebiten.KeyU, KeyU}, {ebiten.KeyV, KeyV}, {ebiten.KeyW, KeyW}, {ebiten.KeyX, KeyX},
	{ebiten.KeyY, KeyY}, {ebiten.KeyZ, KeyZ},

	{ebiten.KeyDigit0, KeyZero}, {ebiten.KeyDigit1, KeyOne}, {ebiten.KeyDigit2, KeyTwo},
	{ebiten.KeyDigit3, KeyThree}, {ebiten.KeyDigit4, KeyFour}, {ebiten.KeyDigit5, KeyFive},
	{ebiten.KeyDigit6, KeySix}, {ebiten.KeyDigit7, KeySeven}, {ebiten.KeyDigit8, KeyEight},
	{ebiten.KeyDigit9, KeyNine},
	{ebiten.KeyNumpad0, KeyZero}, {ebiten.KeyNumpad1, KeyOne}, {ebiten.KeyNumpad2, KeyTwo},
	{ebiten.KeyNumpad3, KeyThree}, {ebiten.KeyNumpad4, KeyFour}, {ebiten.KeyNumpad5, KeyFive},
	{ebiten.KeyNumpad6, KeySix}, {ebiten.KeyNumpad7, KeySeven}, {ebiten.KeyNumpad8, KeyEight},
	{ebiten.KeyNumpad9, KeyNine},

	{ebiten.KeyArrowUp, KeyUp}, {ebiten.KeyArrowLeft, KeyLeft},
	{ebiten.KeyArrowDown, KeyDown}, {ebiten.KeyArrowRight, KeyRight},

	{ebiten.KeyTab, KeyTab},
	{ebiten.KeyShiftLeft, KeyShift}, {ebiten.KeyShiftRight, KeyRShift},
	{ebiten.KeyCapsLock, KeyCaps},
	{ebiten.KeySpace, KeySpace},
	{ebiten.KeyEscape, KeyEsc},
	{ebiten.KeyControlLeft, KeyCtrl}, {ebiten.KeyControlRight, KeyRCtrl},
	{ebiten.KeyAltLeft, KeyAlt}, {ebiten.KeyAltRight, KeyRAlt},
	{ebiten.KeyMetaLeft, KeySuper}, {ebiten.KeyMetaRight, KeyRSuper},
	{ebiten.KeyBackspace, KeyBackspace},
	{ebiten.KeyEnter, KeyEnter}, {ebiten.KeyNumpadEnter, KeyEnter},

	{ebiten.KeyBackquote, KeyBacktick},
	{ebiten.KeyMinus, KeyMinus}, {ebiten.KeyNumpadSubtract, KeyMinus},
	{ebiten.KeyEqual, KeyEquals}, {ebiten.KeyNumpadEqual, KeyEquals}, {ebiten.KeyNumpadAdd, KeyEquals},
	{ebiten.KeyBackslash, KeyBackslash},
	{ebiten.KeyBracketLeft, KeyLBracket}, {ebiten.KeyBracketRight, KeyRBracket},
	{ebiten.KeySemicolon, KeySemicolon},
	{ebiten.KeyQuote, KeyApostrophe},
	{ebiten.KeyComma, KeyComma},
	{ebiten.KeyPeriod, KeyPeriod}, {ebiten.KeyNumpadDecimal, KeyPeriod},
	{ebiten.KeySlash, KeySlash}, {ebiten.KeyNumpadDivide, KeySlash},
	{ebiten.KeyNumpadMultiply, KeyEight},

	{ebiten.KeyF1, KeyF1}, {ebiten.KeyF2, KeyF2}, {ebiten.KeyF3, KeyF3}, {ebiten.KeyF4, KeyF4},
	{ebiten.KeyF5, KeyF5}, {ebiten.KeyF6, KeyF6}, {ebiten.KeyF7, KeyF7}, {ebiten.KeyF8, KeyF8},
	{ebiten.KeyF9, KeyF9}, {ebiten.KeyF10, KeyF10}, {ebiten.KeyF11, KeyF11}, {ebiten.KeyF12, KeyF12},
}

type mouseBinding struct {
	from ebiten.MouseButton
	to   Key
}

var mouseBindings = []mouseBinding{
	{ebiten.MouseButtonLeft, KeyLClick},
	{ebiten.MouseButtonRight, KeyRClick},
	{ebiten.MouseButtonMiddle, KeyMClick},
	{ebiten.MouseButton3, KeyM1},
	{ebiten.MouseButton4, KeyM2},
}

// scrollLinePixels converts wheel lines to scroll units.
const scrollLinePixels = 40

// inputFrame is one tick of raw input, polled before game logic runs.
type inputFrame struct {
	keys    Keys
	pressed Keys
	scroll  int32
	cursorX float64
	cursorY float64
}

// pollInput reads the current ebiten input state.
func pollInput() inputFrame {
	var in inputFrame
	for _, b := range keyBindings {
		if ebiten.IsKeyPressed(b.from) {
			in.keys[b.to] = true
		}
		if inpututil.IsKeyJustPressed(b.from) {
			in.pressed[b.to] = true
		}
	}
	for _, b := range mouseBindings {
		if ebiten.IsMouseButtonPressed(b.from) {
			in.keys[b.to] = true
		}
		if inpututil.IsMouseButtonJustPressed(b.from) {
			in.pressed[b.to] = true
		}
	}
	in.scroll = scrollUnits(ebiten.Wheel())
	cx, cy := ebiten.CursorPosition()
	in.cursorX, in.cursorY = float64(cx), float64(cy)
	return in
}

// scrollUnits converts a wheel delta in lines to scroll units, rounding up.
func scrollUnits(x, y float64) int32 {
	if x == 0 && y == 0 {
		return 0
	}
	return int32(math.Ceil((x + y) * scrollLinePixels))
}
