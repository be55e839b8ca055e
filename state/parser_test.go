package state

import "testing"

func TestParseSimpleTransition(t *testing.T) {
	d := Parse(`[*] --> Idle
Idle --> Running : start
Running --> [*]`)

	if len(d.Transitions) != 3 {
		t.Fatalf("expected 3 transitions, got %d", len(d.Transitions))
	}
	if d.Elements["Idle"] == nil || d.Elements["Running"] == nil {
		t.Fatalf("expected Idle and Running states, got %+v", d.Elements)
	}
	if d.Transitions[1].Label != "start" {
		t.Errorf("expected label %q, got %q", "start", d.Transitions[1].Label)
	}
	if !d.Transitions[0].CrossStart {
		t.Errorf("expected first transition to be flagged as starting from the initial pseudostate")
	}
	if !d.Transitions[2].CircleEnd {
		t.Errorf("expected last transition to be flagged as ending at the final pseudostate")
	}
}

func TestParseNamedState(t *testing.T) {
	d := Parse(`state "Waiting For Input" as WFI #yellow`)
	e := d.Elements["WFI"]
	if e == nil {
		t.Fatalf("expected element WFI")
	}
	if e.DisplayName != "Waiting For Input" {
		t.Errorf("got display name %q", e.DisplayName)
	}
	if e.Color != "#yellow" {
		t.Errorf("got color %q", e.Color)
	}
}

func TestParsePseudostateStereotypes(t *testing.T) {
	d := Parse(`state choice1 <<choice>>
state fork1 <<fork>>
state hist1 <<history>>`)

	if d.Elements["choice1"].Type != TypeChoice {
		t.Errorf("expected choice type, got %v", d.Elements["choice1"].Type)
	}
	if d.Elements["fork1"].Type != TypeForkJoin {
		t.Errorf("expected fork/join type, got %v", d.Elements["fork1"].Type)
	}
	if d.Elements["hist1"].Type != TypeHistory {
		t.Errorf("expected history type, got %v", d.Elements["hist1"].Type)
	}
}

func TestParseCompositeWithConcurrentRegions(t *testing.T) {
	d := Parse(`state Active {
  state A1
  state A2
  --
  state B1
}`)
	active := d.Elements["Active"]
	if active == nil {
		t.Fatalf("expected composite Active")
	}
	if len(active.ConcurrentRegions) != 2 {
		t.Fatalf("expected 2 concurrent regions, got %d", len(active.ConcurrentRegions))
	}
	if len(active.ConcurrentRegions[0]) != 2 || len(active.ConcurrentRegions[1]) != 1 {
		t.Errorf("got regions %+v", active.ConcurrentRegions)
	}
	if d.Elements["A1"].ParentCode != "Active" {
		t.Errorf("expected A1 parented to Active, got %q", d.Elements["A1"].ParentCode)
	}
}

func TestParseLineStyleFromArrow(t *testing.T) {
	d := Parse(`A ..> B
C ==> D`)
	if got := d.Transitions[0].LineStyle; got.String() != "dotted" {
		t.Errorf("expected dotted, got %v", got)
	}
	if got := d.Transitions[1].LineStyle; got.String() != "bold" {
		t.Errorf("expected bold, got %v", got)
	}
}

func TestParseNoteOnState(t *testing.T) {
	d := Parse(`state Idle
note right of Idle : waiting for event`)
	if len(d.Notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(d.Notes))
	}
	if d.Notes[0].EntityCode != "Idle" || d.Notes[0].Text != "waiting for event" {
		t.Errorf("got %+v", d.Notes[0])
	}
}

func TestParseDirectionHint(t *testing.T) {
	d := Parse(`left to right direction
[*] --> A`)
	if d.Direction != DirLeftToRight {
		t.Errorf("expected left-to-right direction, got %v", d.Direction)
	}
}
