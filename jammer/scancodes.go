package jammer

import "go-jammer/layout"

// ScanCode is a hardware key code as reported by the Linux input subsystem
// (input-event-codes.h). It names a physical key position, not a character.
type ScanCode uint16

const (
	KeyGrave      ScanCode = 41
	Key1          ScanCode = 2
	Key2          ScanCode = 3
	Key3          ScanCode = 4
	Key4          ScanCode = 5
	Key5          ScanCode = 6
	Key6          ScanCode = 7
	Key7          ScanCode = 8
	Key8          ScanCode = 9
	Key9          ScanCode = 10
	Key0          ScanCode = 11
	KeyMinus      ScanCode = 12
	KeyEqual      ScanCode = 13
	KeyQ          ScanCode = 16
	KeyW          ScanCode = 17
	KeyE          ScanCode = 18
	KeyR          ScanCode = 19
	KeyT          ScanCode = 20
	KeyY          ScanCode = 21
	KeyU          ScanCode = 22
	KeyI          ScanCode = 23
	KeyO          ScanCode = 24
	KeyP          ScanCode = 25
	KeyLeftBrace  ScanCode = 26
	KeyRightBrace ScanCode = 27
	KeyA          ScanCode = 30
	KeyS          ScanCode = 31
	KeyD          ScanCode = 32
	KeyF          ScanCode = 33
	KeyG          ScanCode = 34
	KeyH          ScanCode = 35
	KeyJ          ScanCode = 36
	KeyK          ScanCode = 37
	KeyL          ScanCode = 38
	KeySemicolon  ScanCode = 39
	KeyApostrophe ScanCode = 40
	KeyBackslash  ScanCode = 43
	KeyZ          ScanCode = 44
	KeyX          ScanCode = 45
	KeyC          ScanCode = 46
	KeyV          ScanCode = 47
	KeyB          ScanCode = 48
	KeyN          ScanCode = 49
	KeyM          ScanCode = 50
	KeyComma      ScanCode = 51
	KeyDot        ScanCode = 52
	KeySlash      ScanCode = 53
	Key102nd      ScanCode = 86
)

// Keys outside the note grid, used for the control bindings
const (
	KeyEsc        ScanCode = 1
	KeyTab        ScanCode = 15
	KeyLeftCtrl   ScanCode = 29
	KeyLeftShift  ScanCode = 42
	KeyRightShift ScanCode = 54
	KeyF1         ScanCode = 59
	KeyRightCtrl  ScanCode = 97
)

// scanCodeSymbols gives the unshifted legend printed on each key of the ISO
// Swiss-German keyboard the grid was laid out on. Names above follow the US
// legend, hence KeyY -> "z" and KeyZ -> "y".
var scanCodeSymbols = map[ScanCode]layout.Symbol{
	KeyGrave: "§",
	Key1:     "1", Key2: "2", Key3: "3", Key4: "4", Key5: "5",
	Key6: "6", Key7: "7", Key8: "8", Key9: "9", Key0: "0",
	KeyMinus: "'", KeyEqual: "^",

	KeyQ: "q", KeyW: "w", KeyE: "e", KeyR: "r", KeyT: "t",
	KeyY: "z", KeyU: "u", KeyI: "i", KeyO: "o", KeyP: "p",
	KeyLeftBrace: "ü", KeyRightBrace: "¨",

	KeyA: "a", KeyS: "s", KeyD: "d", KeyF: "f", KeyG: "g",
	KeyH: "h", KeyJ: "j", KeyK: "k", KeyL: "l",
	KeySemicolon: "ö", KeyApostrophe: "ä", KeyBackslash: "$",

	Key102nd: "<",
	KeyZ:     "y", KeyX: "x", KeyC: "c", KeyV: "v", KeyB: "b",
	KeyN: "n", KeyM: "m", KeyComma: ",", KeyDot: ".", KeySlash: "-",
}

// SymbolForScanCode returns the key legend for a hardware code.
func SymbolForScanCode(code ScanCode) (layout.Symbol, bool) {
	s, ok := scanCodeSymbols[code]
	return s, ok
}
