package core

import "testing"

func TestDeriveCodeStripsWhitespaceAndPunctuation(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Alice", "Alice"},
		{"Order Service", "OrderService"},
		{"user-db", "userdb"},
		{"Café", "Cafe"},
		{"a.b.c", "abc"},
	}
	for _, tt := range tests {
		if got := DeriveCode(tt.name); got != tt.want {
			t.Errorf("DeriveCode(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDeriveCodeIsIdempotent(t *testing.T) {
	names := []string{"Alice", "Order Service", "Café", "already_a_code123"}
	for _, n := range names {
		once := DeriveCode(n)
		twice := DeriveCode(once)
		if once != twice {
			t.Errorf("DeriveCode not idempotent for %q: %q != %q", n, once, twice)
		}
	}
}

func TestNormalizeColorHexPassthrough(t *testing.T) {
	if got := NormalizeColor("#ff0000"); got != "#FF0000" {
		t.Errorf("got %q, want #FF0000", got)
	}
}

func TestNormalizeColorShortHex(t *testing.T) {
	if got := NormalizeColor("#f00"); got != "#FF0000" {
		t.Errorf("got %q, want #FF0000", got)
	}
}

func TestNormalizeColorName(t *testing.T) {
	if got := NormalizeColor("LightBlue"); got != "#ADD8E6" {
		t.Errorf("got %q, want #ADD8E6", got)
	}
}

func TestNormalizeColorUnknownPassesThrough(t *testing.T) {
	if got := NormalizeColor("Chartreuse"); got != "Chartreuse" {
		t.Errorf("got %q, want unchanged", got)
	}
}

func TestBoundsUnion(t *testing.T) {
	a := Bounds{Min: Point{0, 0}, Max: Point{10, 10}}
	b := Bounds{Min: Point{5, -5}, Max: Point{20, 8}}
	u := a.Union(b)
	want := Bounds{Min: Point{0, -5}, Max: Point{20, 10}}
	if u != want {
		t.Errorf("Union = %+v, want %+v", u, want)
	}
}
