package sequence

import (
	"strings"
	"testing"
)

func TestEmitProducesWellFormedDocument(t *testing.T) {
	d := Parse(`@startuml
Alice -> Bob: hi
Bob --> Alice: hello back
@enduml`)

	out, err := Emit(d, "Alice -> Bob: hi")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "<mxfile") || !strings.Contains(out, "</mxfile>") {
		t.Errorf("missing mxfile envelope: %s", out)
	}
	if !strings.Contains(out, `plantUml="Alice -&gt; Bob: hi"`) {
		t.Errorf("missing round-trip plantUml attribute: %s", out)
	}
	if !strings.Contains(out, "Alice") || !strings.Contains(out, "Bob") {
		t.Errorf("missing participant headers: %s", out)
	}
}

func TestEmitActivationProducesBar(t *testing.T) {
	d := Parse(`Alice -> Bob ++: call
Bob --> Alice --: reply`)
	out, err := Emit(d, "Alice -> Bob ++: call")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "fillColor=#f5f5f5") {
		t.Errorf("expected activation bar style present: %s", out)
	}
}

func TestEmitFragmentProducesHeader(t *testing.T) {
	d := Parse(`alt success
Alice -> Bob: ok
else failure
Alice -> Bob: fail
end`)
	out, err := Emit(d, "alt success")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "alt [success]") {
		t.Errorf("expected fragment header label: %s", out)
	}
}

func TestEmitReturnMessageResolvesActivationStack(t *testing.T) {
	d := Parse(`Alice -> Bob ++: call
return done`)
	out, err := Emit(d, "Alice -> Bob ++: call")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "dashed=1") {
		t.Errorf("return arrow should be dotted: %s", out)
	}
	if !strings.Contains(out, "fillColor=#f5f5f5") {
		t.Errorf("return should close Bob's activation bar: %s", out)
	}
	if !strings.Contains(out, "done") {
		t.Errorf("return label missing: %s", out)
	}
}

func TestEmitReturnWithInterleavedActivationsPicksNextDistinctParticipant(t *testing.T) {
	d := Parse(`Alice -> Bob ++: call
Bob -> Carol ++: delegate
return inner done
return outer done`)
	out, err := Emit(d, "Alice -> Bob ++: call")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "inner done") || !strings.Contains(out, "outer done") {
		t.Errorf("expected both return labels present: %s", out)
	}
}

func TestEmitUnclosedActivationIsImplicitlyClosedAtEndOfDiagram(t *testing.T) {
	d := Parse(`Alice -> Bob ++: call`)
	out, err := Emit(d, "Alice -> Bob ++: call")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "fillColor=#f5f5f5") {
		t.Errorf("expected the never-deactivated activation bar to still be emitted: %s", out)
	}
}

func TestEmitMissingSourceFails(t *testing.T) {
	d := Parse(`Alice -> Bob: hi`)
	_, err := Emit(d, "")
	if err == nil {
		t.Fatalf("expected error for empty plantUML source")
	}
}
