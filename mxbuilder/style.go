package mxbuilder

import (
	"fmt"
	"regexp"
	"strings"
)

// StyleMap is an ordered key=value list that serializes to a draw.io
// "style" attribute: "key1=value1;key2=value2;" with a trailing
// semicolon when non-empty, matching the drawio style-string wire
// format. Order is preserved because style dictionaries in the
// emitters are declared as literal key orderings and callers may rely
// on the serialized form for golden-file comparisons in tests.
type StyleMap struct {
	keys   []string
	values map[string]string
}

// NewStyle builds a StyleMap from alternating key, value pairs.
func NewStyle(pairs ...string) StyleMap {
	s := StyleMap{values: make(map[string]string)}
	for i := 0; i+1 < len(pairs); i += 2 {
		s.Set(pairs[i], pairs[i+1])
	}
	return s
}

// NewBareStyle builds a StyleMap whose first token is a bare shape
// keyword (e.g. "ellipse", "swimlane") followed by alternating
// key, value pairs — the common shape of a draw.io style string that
// opens with a base shape name before its properties.
func NewBareStyle(bare string, pairs ...string) StyleMap {
	s := NewStyle(pairs...)
	s.setBare(bare)
	// the bare token belongs at the front, matching draw.io convention
	s.keys = append([]string{bareMarker + bare}, removeKey(s.keys, bareMarker+bare)...)
	return s
}

func removeKey(keys []string, target string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != target {
			out = append(out, k)
		}
	}
	return out
}

// SetBare appends a bare (valueless) token to the style, such as a
// base shape keyword that has no "=value" suffix.
func (s *StyleMap) SetBare(key string) { s.setBare(key) }

// ParseStyle parses an existing "key=value;..." string into a StyleMap,
// preserving the order keys first appear in. A bare token with no "="
// (e.g. a leading shape name like "rounded") is kept as a key with an
// empty value and serializes back without a trailing "=".
func ParseStyle(s string) StyleMap {
	out := StyleMap{values: make(map[string]string)}
	for _, part := range strings.Split(s, ";") {
		if part == "" {
			continue
		}
		if eq := strings.IndexByte(part, '='); eq >= 0 {
			out.Set(part[:eq], part[eq+1:])
		} else {
			out.setBare(part)
		}
	}
	return out
}

func (s *StyleMap) setBare(key string) {
	if _, ok := s.values[bareMarker+key]; !ok {
		s.keys = append(s.keys, bareMarker+key)
	}
	s.values[bareMarker+key] = ""
}

// bareMarker distinguishes a bare token ("rounded") from a key with an
// explicit empty value ("rounded=") in the internal map without a
// second map.
const bareMarker = "\x00bare\x00"

// Set assigns key=value, appending key to the order if it is new and
// overwriting the value in place if key already exists — this is the
// "string-substitute operation" spec.md describes for per-instance
// colour overrides on a style dictionary.
func (s *StyleMap) Set(key, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Get returns the value for key and whether it was present.
func (s StyleMap) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Clone returns an independent copy of s.
func (s StyleMap) Clone() StyleMap {
	out := StyleMap{keys: append([]string(nil), s.keys...), values: make(map[string]string, len(s.values))}
	for k, v := range s.values {
		out.values[k] = v
	}
	return out
}

// String serializes the style map to drawio wire format.
func (s StyleMap) String() string {
	if len(s.keys) == 0 {
		return ""
	}
	var b strings.Builder
	for _, k := range s.keys {
		if strings.HasPrefix(k, bareMarker) {
			b.WriteString(strings.TrimPrefix(k, bareMarker))
		} else {
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(s.values[k])
		}
		b.WriteByte(';')
	}
	return b.String()
}

// OverrideStyleProperty replaces an existing "key=value" segment of a
// serialized style string with a new value, or appends "key=value;" if
// the key is absent. This mirrors the per-instance colour override
// spec.md §4.3 describes against a constant style-dictionary string,
// for call sites that hold a style string rather than a StyleMap.
func OverrideStyleProperty(style, key, value string) string {
	replacement := fmt.Sprintf("${1}%s=%s", key, value)
	pattern := regexp.MustCompile(`(^|;)` + regexp.QuoteMeta(key) + `=[^;]*`)
	if pattern.MatchString(style) {
		return pattern.ReplaceAllString(style, replacement)
	}
	if style != "" && !strings.HasSuffix(style, ";") {
		style += ";"
	}
	return style + key + "=" + value + ";"
}
