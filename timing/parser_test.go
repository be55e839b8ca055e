package timing

import "testing"

func TestParsePlayerDeclarations(t *testing.T) {
	d := Parse(`robust "Web Browser" as WB
concise "App" as AP
binary "Signal" as SG`)
	if len(d.Players) != 3 {
		t.Fatalf("expected 3 players, got %d", len(d.Players))
	}
	if d.Players[0].Type != PlayerRobust || d.Players[0].DisplayName != "Web Browser" {
		t.Errorf("got %+v", d.Players[0])
	}
	if d.Players[1].Type != PlayerConcise {
		t.Errorf("expected concise, got %v", d.Players[1].Type)
	}
}

func TestParseStateChangesWithAtContext(t *testing.T) {
	d := Parse(`robust "WB" as WB
@0
WB is idle
@100
WB is processing
@+50
WB is idle`)
	pl, ok := d.Player("WB")
	if !ok {
		t.Fatalf("expected player WB")
	}
	if len(pl.StateChanges) != 3 {
		t.Fatalf("expected 3 state changes, got %d", len(pl.StateChanges))
	}
	if pl.StateChanges[1].Time != 100 {
		t.Errorf("expected time 100, got %v", pl.StateChanges[1].Time)
	}
	if pl.StateChanges[2].Time != 150 {
		t.Errorf("expected relative time 150, got %v", pl.StateChanges[2].Time)
	}
}

func TestParseTimeContextStateChange(t *testing.T) {
	d := Parse(`robust "WB" as WB
@WB
0 is idle
100 is processing`)
	pl, _ := d.Player("WB")
	if len(pl.StateChanges) != 2 {
		t.Fatalf("expected 2 state changes, got %d", len(pl.StateChanges))
	}
	if pl.StateChanges[0].State != "idle" || pl.StateChanges[1].State != "processing" {
		t.Errorf("got %+v", pl.StateChanges)
	}
}

func TestParseSortsStateChangesByTime(t *testing.T) {
	d := Parse(`robust "WB" as WB
@100
WB is late
@0
WB is early`)
	pl, _ := d.Player("WB")
	if pl.StateChanges[0].State != "early" || pl.StateChanges[1].State != "late" {
		t.Errorf("expected sorted by time, got %+v", pl.StateChanges)
	}
}

func TestParseClockPeriodAndPulse(t *testing.T) {
	d := Parse(`clock "CL" as CL with period 2 pulse 0.5`)
	pl, ok := d.Player("CL")
	if !ok {
		t.Fatalf("expected player CL")
	}
	if pl.Type != PlayerClock || pl.ClockPeriod != 2 || pl.ClockPulse != 0.5 {
		t.Errorf("got %+v", pl)
	}
}

func TestParseHighlightAndNote(t *testing.T) {
	d := Parse(`robust "WB" as WB
highlight 0 to 100 #red : busy window
note top of WB : starting state`)
	if len(d.Highlights) != 1 || d.Highlights[0].Caption != "busy window" {
		t.Fatalf("got highlights %+v", d.Highlights)
	}
	if len(d.Notes) != 1 || d.Notes[0].Text != "starting state" {
		t.Fatalf("got notes %+v", d.Notes)
	}
}

func TestParseMessage(t *testing.T) {
	d := Parse(`robust "WB" as WB
robust "SV" as SV
WB@0 -> SV@50 : request`)
	if len(d.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(d.Messages))
	}
	m := d.Messages[0]
	if m.FromPlayer != "WB" || m.ToPlayer != "SV" || m.FromTime != 0 || m.ToTime != 50 {
		t.Errorf("got %+v", m)
	}
}
