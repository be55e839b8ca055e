package core

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// plantUMLColorNames covers the common named colours PlantUML accepts
// on a skinparam/colour directive. PlantUML's real table is larger;
// this is the practical subset seen in diagram source in the wild.
var plantUMLColorNames = map[string]string{
	"white":      "#FFFFFF",
	"black":      "#000000",
	"red":        "#FF0000",
	"green":      "#008000",
	"blue":       "#0000FF",
	"yellow":     "#FFFF00",
	"orange":     "#FFA500",
	"purple":     "#800080",
	"pink":       "#FFC0CB",
	"gray":       "#808080",
	"grey":       "#808080",
	"lightblue":  "#ADD8E6",
	"lightgreen": "#90EE90",
	"lightgray":  "#D3D3D3",
	"lightgrey":  "#D3D3D3",
	"lightyellow": "#FFFFE0",
	"darkgray":   "#A9A9A9",
	"darkgrey":   "#A9A9A9",
	"darkgreen":  "#006400",
	"darkblue":   "#00008B",
	"darkred":    "#8B0000",
	"gold":       "#FFD700",
	"silver":     "#C0C0C0",
	"brown":      "#A52A2A",
	"cyan":       "#00FFFF",
	"magenta":    "#FF00FF",
	"navy":       "#000080",
	"teal":       "#008080",
	"olive":      "#808000",
	"maroon":     "#800000",
	"beige":      "#F5F5DC",
	"wheat":      "#F5DEB3",
	"salmon":     "#FA8072",
	"khaki":      "#F0E68C",
	"coral":      "#FF7F50",
	"transparent": "none",
}

// NormalizeColor resolves a Color that is either a "#RRGGBB"/"#RGB" hex
// literal or a PlantUML colour name to canonical uppercase "#RRGGBB".
// Unrecognised input is returned unchanged (§7: the core never rejects
// input over a cosmetic detail like colour).
func NormalizeColor(c Color) Color {
	s := strings.TrimSpace(string(c))
	if s == "" {
		return c
	}
	if strings.EqualFold(s, "none") || strings.EqualFold(s, "transparent") {
		return "none"
	}
	if strings.HasPrefix(s, "#") {
		if hex, ok := expandAndValidateHex(s); ok {
			return Color(hex)
		}
		return c
	}
	if hex, ok := plantUMLColorNames[strings.ToLower(s)]; ok {
		if hex == "none" {
			return "none"
		}
		return Color(strings.ToUpper(hex))
	}
	return c
}

// expandAndValidateHex normalizes "#RGB" to "#RRGGBB" and validates the
// result by round-tripping it through go-colorful, which is stricter
// than a bespoke regexp and also gives us a colour space to grow into
// (e.g. blending two colours for an override) without adding a second
// dependency later.
func expandAndValidateHex(s string) (string, bool) {
	hex := s
	if len(hex) == 4 { // "#RGB"
		r, g, b := hex[1], hex[2], hex[3]
		hex = fmt.Sprintf("#%c%c%c%c%c%c", r, r, g, g, b, b)
	}
	col, err := colorful.Hex(hex)
	if err != nil {
		return "", false
	}
	return strings.ToUpper(col.Hex()), true
}
