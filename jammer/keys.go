package jammer

import (
	"fmt"
	"unicode"

	"go-jammer/layout"
)

// RawKey is a key identifier as delivered by an input source: either a
// printable character or a hardware scan code.
type RawKey struct {
	Char rune
	Code ScanCode
}

// CharKey wraps a printable character
func CharKey(r rune) RawKey {
	return RawKey{Char: r}
}

// ScanKey wraps a hardware scan code
func ScanKey(code ScanCode) RawKey {
	return RawKey{Code: code}
}

func (k RawKey) String() string {
	if k.Char != 0 {
		return fmt.Sprintf("%q", k.Char)
	}
	return fmt.Sprintf("scan:%d", k.Code)
}

// Normalize maps a raw key to its case-insensitive symbol. Characters are
// lower-cased so shift never changes the result; scan codes go through the
// fixed hardware table.
func Normalize(k RawKey) (layout.Symbol, bool) {
	if k.Char != 0 {
		if !unicode.IsPrint(k.Char) || unicode.IsSpace(k.Char) {
			return "", false
		}
		return layout.Symbol(unicode.ToLower(k.Char)), true
	}
	if k.Code != 0 {
		return SymbolForScanCode(k.Code)
	}
	return "", false
}
