package sequence

import "testing"

func TestParseParticipantDeclarationWithAlias(t *testing.T) {
	d := Parse(`@startuml
participant "Order Service" as OS #lightblue
Alice -> OS: place order
@enduml`)

	p, ok := d.Participants.Get("OS")
	if !ok {
		t.Fatalf("expected participant OS")
	}
	if p.DisplayName != "Order Service" {
		t.Errorf("DisplayName = %q", p.DisplayName)
	}
	if p.Color != "#lightblue" {
		t.Errorf("Color = %q", p.Color)
	}

	if _, ok := d.Participants.Get("Alice"); !ok {
		t.Errorf("expected Alice auto-created")
	}
}

func TestParseSimpleMessage(t *testing.T) {
	d := Parse(`Alice -> Bob: hello`)
	if len(d.Elements) != 1 || d.Elements[0].Message == nil {
		t.Fatalf("expected one message element, got %+v", d.Elements)
	}
	m := d.Elements[0].Message
	if m.From != "Alice" || m.To != "Bob" || m.Label != "hello" {
		t.Errorf("got %+v", m)
	}
}

func TestParseActivationSuffix(t *testing.T) {
	d := Parse(`Alice -> Bob ++: start`)
	m := d.Elements[0].Message
	if len(m.ActivateAfter) != 1 || m.ActivateAfter[0].Type != EventActivate {
		t.Errorf("expected one activate event, got %+v", m.ActivateAfter)
	}
}

func TestParseAltFragmentWithElse(t *testing.T) {
	d := Parse(`alt success
Alice -> Bob: ok
else failure
Alice -> Bob: fail
end`)
	if len(d.Elements) != 1 || d.Elements[0].Fragment == nil {
		t.Fatalf("expected one fragment, got %+v", d.Elements)
	}
	f := d.Elements[0].Fragment
	if f.Type != FragAlt {
		t.Errorf("type = %v", f.Type)
	}
	if len(f.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(f.Sections))
	}
	if len(f.Sections[0].Elements) != 1 || len(f.Sections[1].Elements) != 1 {
		t.Errorf("sections not populated: %+v", f.Sections)
	}
}

func TestParseNoteOverSingleParticipant(t *testing.T) {
	d := Parse(`note right of Bob: he is busy`)
	n := d.Elements[0].Note
	if n == nil {
		t.Fatalf("expected note element")
	}
	if len(n.Participants) != 1 || n.Participants[0] != "Bob" {
		t.Errorf("participants = %+v", n.Participants)
	}
	if n.Text != "he is busy" {
		t.Errorf("text = %q", n.Text)
	}
}

func TestParseMultilineNote(t *testing.T) {
	d := Parse(`note over Alice, Bob
line one
line two
end note`)
	n := d.Elements[0].Note
	if n == nil {
		t.Fatalf("expected note element")
	}
	if n.Text != "line one\nline two" {
		t.Errorf("text = %q", n.Text)
	}
}

func TestParseReturnResolvesLater(t *testing.T) {
	d := Parse(`Alice -> Bob: call
return done`)
	if len(d.Elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(d.Elements))
	}
	if !d.Elements[1].Message.IsReturn {
		t.Errorf("expected second element to be a return message")
	}
}

func TestParseDividerAndDelay(t *testing.T) {
	d := Parse(`== Init ==
...5 minutes later...`)
	if d.Elements[0].Divider == nil || d.Elements[0].Divider.Label != "Init" {
		t.Errorf("divider not parsed: %+v", d.Elements[0])
	}
	if d.Elements[1].Delay == nil || d.Elements[1].Delay.Label != "5 minutes later" {
		t.Errorf("delay not parsed: %+v", d.Elements[1])
	}
}

func TestParseBoxGroupsParticipants(t *testing.T) {
	d := Parse(`box "Cluster" #LightBlue
participant A
participant B
end box
A -> B: ping`)
	if len(d.Boxes) != 1 {
		t.Fatalf("expected one box, got %d", len(d.Boxes))
	}
	if d.Boxes[0].Title != "Cluster" {
		t.Errorf("title = %q", d.Boxes[0].Title)
	}
	if len(d.Boxes[0].Participants) != 2 {
		t.Errorf("participants = %+v", d.Boxes[0].Participants)
	}
}

func TestParseExoMessage(t *testing.T) {
	d := Parse(`[-> Alice: incoming`)
	if len(d.Elements) != 1 || d.Elements[0].ExoMessage == nil {
		t.Fatalf("expected exo message, got %+v", d.Elements)
	}
	if d.Elements[0].ExoMessage.Participant != "Alice" {
		t.Errorf("participant = %q", d.Elements[0].ExoMessage.Participant)
	}
}

func TestParticipantOrderOverridesDeclarationOrder(t *testing.T) {
	d := Parse(`participant B order 1
participant A order 0`)
	ordered := d.OrderedParticipants()
	if ordered[0].Code != "A" || ordered[1].Code != "B" {
		t.Errorf("got order %v, %v", ordered[0].Code, ordered[1].Code)
	}
}
