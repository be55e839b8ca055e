package state

import (
	"strings"
	"testing"
)

func TestEmitSimpleStateMachine(t *testing.T) {
	d := Parse(`[*] --> Idle
Idle --> Running : start
Running --> [*]`)
	out, err := Emit(d, "[*] --> Idle")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "plantUml=") {
		t.Errorf("expected plantUml round-trip attribute: %s", out)
	}
	if !strings.Contains(out, "Idle") || !strings.Contains(out, "Running") {
		t.Errorf("expected state labels in output: %s", out)
	}
}

func TestEmitInitialAndFinalStyling(t *testing.T) {
	d := Parse(`[*] --> A
A --> [*]`)
	out, err := Emit(d, "[*] --> A")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "fillColor=#000000") {
		t.Errorf("expected filled pseudostate styling: %s", out)
	}
	if !strings.Contains(out, "doubleEllipse") {
		t.Errorf("expected final-state double ellipse shape: %s", out)
	}
}

func TestEmitCompositeStateContainerBeforeChildren(t *testing.T) {
	d := Parse(`state Active {
  state A1
  state A2
}`)
	out, err := Emit(d, "state Active")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	containerIdx := strings.Index(out, `value="Active"`)
	childIdx := strings.Index(out, `value="A1"`)
	if containerIdx < 0 || childIdx < 0 || containerIdx > childIdx {
		t.Errorf("expected composite container before its children in document order: %s", out)
	}
}

func TestEmitMissingSourceFails(t *testing.T) {
	d := Parse(`state A`)
	if _, err := Emit(d, ""); err == nil {
		t.Fatalf("expected error for empty PlantUML source")
	}
}
