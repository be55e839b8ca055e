package component

import (
	"strings"
	"testing"
)

func TestEmitComponentDiagram(t *testing.T) {
	d := Parse(`[Web] as W
[DB] as D
W --> D`)
	out, err := Emit(d, "[Web] as W")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "shape=component") {
		t.Errorf("expected component shape: %s", out)
	}
}

func TestEmitContainerBeforeChildrenInZOrder(t *testing.T) {
	d := Parse(`node "Server" {
  [App]
}`)
	out, err := Emit(d, "node Server")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	containerIdx := strings.Index(out, "Server")
	appIdx := strings.Index(out, "App")
	if containerIdx < 0 || appIdx < 0 || containerIdx > appIdx {
		t.Errorf("expected container before child in document order: %s", out)
	}
}
