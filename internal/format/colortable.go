package format

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// aciTable is the 9-entry ACI->hex table of spec.md §4.4.
var aciTable = map[int]ColorHex{
	1: "#FF0000", // red
	2: "#FFFF00", // yellow
	3: "#00FF00", // green
	4: "#00FFFF", // cyan
	5: "#0000FF", // blue
	6: "#FF00FF", // magenta
	7: "#FFFFFF", // white
	8: "#414141", // dark gray
	9: "#808080", // light gray
}

// hexToACITable is the 11-entry exact reverse mapping of spec.md §4.4.
var hexToACITable = map[ColorHex]int{
	"#FF0000": 1,
	"#FFFF00": 2,
	"#00FF00": 3,
	"#00FFFF": 4,
	"#0000FF": 5,
	"#FF00FF": 6,
	"#FFFFFF": 7,
	"#414141": 8,
	"#808080": 9,
	"#000000": 250,
	"#777777": 251,
}

// cssColorNames is the 16 basic CSS named colors this engine accepts when
// normalizing a hole's colorHexDecimal field (spec.md Open Question, resolved
// in SPEC_FULL.md §D.3).
var cssColorNames = map[string]ColorHex{
	"black":   "#000000",
	"silver":  "#C0C0C0",
	"gray":    "#808080",
	"grey":    "#808080",
	"white":   "#FFFFFF",
	"maroon":  "#800000",
	"red":     "#FF0000",
	"purple":  "#800080",
	"fuchsia": "#FF00FF",
	"green":   "#008000",
	"lime":    "#00FF00",
	"olive":   "#808000",
	"yellow":  "#FFFF00",
	"navy":    "#000080",
	"blue":    "#0000FF",
	"teal":    "#008080",
	"aqua":    "#00FFFF",
	"cyan":    "#00FFFF",
}

// ColorTable provides ACI<->hex mapping and a deterministic hex->ACI fallback.
type ColorTable struct{}

// NewColorTable returns a color table. It holds no state.
func NewColorTable() *ColorTable { return &ColorTable{} }

// ACIToHex maps an AutoCAD Color Index to a hex color per spec.md §4.4.
func (*ColorTable) ACIToHex(idx int) ColorHex {
	if idx < 0 {
		return DefaultColorHex
	}
	if hex, ok := aciTable[idx]; ok {
		return hex
	}
	if idx > 255 {
		// Interpreted as a packed 24-bit RGB value.
		return ColorHex(fmt.Sprintf("#%06X", idx&0xFFFFFF))
	}
	if idx >= 10 {
		hue := float64((idx * 137) % 360)
		c := colorful.Hsl(hue, 0.70, 0.50)
		return ColorHex(strings.ToUpper(c.Hex()))
	}
	return DefaultColorHex
}

// HexToACI maps a hex color to an ACI code per spec.md §4.4: an 11-entry
// exact-match table, then a deterministic fallback hash, stable across
// runs (no randomness). Returns 7 for empty/malformed input.
func (*ColorTable) HexToACI(hex ColorHex) int {
	normalized := ColorHex(strings.ToUpper(string(hex)))
	if !isWellFormedHex(string(normalized)) {
		return 7
	}
	if aci, ok := hexToACITable[normalized]; ok {
		return aci
	}

	var hash int32
	for i := 0; i < len(normalized); i++ {
		hash = int32(normalized[i]) + (hash << 5) - hash
	}
	if hash < 0 {
		hash = -hash
	}
	return int(hash%255) + 1
}

func isWellFormedHex(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !((r >= '0' && r <= '9') || (r >= 'A' && r <= 'F') || (r >= 'a' && r <= 'f')) {
			return false
		}
	}
	return true
}

// NormalizeColor accepts either a "#RRGGBB" string or a CSS-level color name
// and always returns the hex form. Resolves spec.md's colorHexDecimal Open
// Question (SPEC_FULL.md §D.3).
func (*ColorTable) NormalizeColor(s string) ColorHex {
	trimmed := strings.TrimSpace(s)
	if isWellFormedHex(strings.ToUpper(trimmed)) {
		return ColorHex(strings.ToUpper(trimmed))
	}
	if hex, ok := cssColorNames[strings.ToLower(trimmed)]; ok {
		return hex
	}
	return DefaultColorHex
}
