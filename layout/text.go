// Package layout holds the small, family-independent measurement
// helpers every emitter's geometry pass relies on: text width estimation
// and multi-line label height estimation.
package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// CharWidth is the pixel width budgeted per monospace-equivalent column
// when estimating label widths. Emitters multiply TextWidth's column
// count by this to get a pixel box width.
const CharWidth = 7

// LineHeight is the pixel height budgeted per text line.
const LineHeight = 16

// TextWidth estimates the on-screen column width of s using east-asian
// aware rune widths (double-width CJK glyphs count as two columns,
// combining marks count as zero), via mattn/go-runewidth.
func TextWidth(s string) int {
	return runewidth.StringWidth(s)
}

// PixelWidth estimates a box width in pixels wide enough to hold s,
// including a left+right margin, clamped to a minimum.
func PixelWidth(s string, minWidth, paddingEachSide int) int {
	w := TextWidth(s)*CharWidth + paddingEachSide*2
	if w < minWidth {
		return minWidth
	}
	return w
}

// WrapColumns is the approximate number of grapheme clusters a single
// visual line holds before draw.io's whiteSpace=wrap note/label style
// wraps it onto an additional line.
const WrapColumns = 60

// LineCount returns the number of visual lines s will occupy, splitting
// first on newlines and then, per line, estimating further wrapping
// from its grapheme-cluster length via rivo/uniseg rather than raw
// rune count, so that combining-mark-heavy or wide-glyph text doesn't
// throw off the wrap estimate the way counting runes would.
func LineCount(s string) int {
	if s == "" {
		return 0
	}
	count := 0
	for _, line := range strings.Split(s, "\n") {
		count += GraphemeLen(line)/WrapColumns + 1
	}
	return count
}

// GraphemeLen returns the number of user-perceived characters in s.
func GraphemeLen(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// BoxHeight estimates a box height in pixels for a multi-line label,
// given a fixed per-diagram padding (top+bottom).
func BoxHeight(s string, minHeight, paddingTopBottom int) int {
	h := LineCount(s)*LineHeight + paddingTopBottom*2
	if h < minHeight {
		return minHeight
	}
	return h
}
