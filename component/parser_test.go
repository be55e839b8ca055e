package component

import "testing"

func TestParseShorthandComponent(t *testing.T) {
	d := Parse(`[Order Service] as OS`)
	e, ok := d.Elements["OS"]
	if !ok {
		t.Fatalf("expected element OS")
	}
	if e.Type != TypeComponent || e.DisplayName != "Order Service" {
		t.Errorf("got %+v", e)
	}
}

func TestParseUseCaseShorthand(t *testing.T) {
	d := Parse(`(Place order) as UC1
:Customer: as Actor1
Actor1 --> UC1`)
	if d.Elements["UC1"].Type != TypeUseCase {
		t.Errorf("expected use case, got %+v", d.Elements["UC1"])
	}
	if d.Elements["Actor1"].Type != TypeActor {
		t.Errorf("expected actor, got %+v", d.Elements["Actor1"])
	}
	if len(d.Relationships) != 1 {
		t.Fatalf("expected 1 relationship, got %d", len(d.Relationships))
	}
}

func TestParseContainerNesting(t *testing.T) {
	d := Parse(`node "Server" {
  [App]
  database "DB"
}`)
	if len(d.Containers) != 1 {
		t.Fatalf("expected 1 container, got %d", len(d.Containers))
	}
	if len(d.Containers[0].Elements) != 2 {
		t.Fatalf("expected 2 elements in container, got %d", len(d.Containers[0].Elements))
	}
}

func TestParseKeywordDeclaration(t *testing.T) {
	d := Parse(`interface "REST API" as API`)
	e := d.Elements["API"]
	if e == nil || e.Type != TypeInterface {
		t.Fatalf("expected interface API, got %+v", e)
	}
}
