package core

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DeriveCode turns a display name into a stable identifier by NFKD-
// normalizing it (so accented letters decompose to ASCII base + mark)
// and then dropping whitespace and any rune that isn't a letter, digit
// or underscore. It is deterministic and idempotent: DeriveCode(s) ==
// DeriveCode(DeriveCode(s)) for every s.
func DeriveCode(name string) string {
	decomposed := norm.NFKD.String(name)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue // combining mark stripped by the NFKD decomposition
		}
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
