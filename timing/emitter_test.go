package timing

import (
	"strings"
	"testing"
)

func TestEmitRobustWaveform(t *testing.T) {
	d := Parse(`robust "WB" as WB
@0
WB is idle
@100
WB is processing`)
	out, err := Emit(d, "robust WB")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "WB") {
		t.Errorf("expected lane label in output: %s", out)
	}
	if !strings.Contains(out, "plantUml=") {
		t.Errorf("expected plantUml round-trip attribute: %s", out)
	}
}

func TestEmitConciseWaveformBars(t *testing.T) {
	d := Parse(`concise "AP" as AP
@0
AP is "Starting up"
@100
AP is Ready`)
	out, err := Emit(d, "concise AP")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "Starting up") || !strings.Contains(out, "Ready") {
		t.Errorf("expected concise segment labels: %s", out)
	}
}

func TestEmitMissingSourceFails(t *testing.T) {
	d := Parse(`robust "WB" as WB`)
	if _, err := Emit(d, ""); err == nil {
		t.Fatalf("expected error for empty PlantUML source")
	}
}

func TestEmitTimeAxisPresentByDefault(t *testing.T) {
	d := Parse(`robust "WB" as WB
@0
WB is idle
@100
WB is processing`)
	out, err := Emit(d, "robust WB")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if strings.Count(out, "startArrow=none;strokeColor=#000000") == 0 {
		t.Errorf("expected time axis line in output: %s", out)
	}
}
