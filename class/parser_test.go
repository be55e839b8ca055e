package class

import "testing"

func TestParseClassWithMembers(t *testing.T) {
	d := Parse(`class Order {
  +id: int
  -total: float
  --
  +compute(): float
}`)
	e, ok := d.Entities["Order"]
	if !ok {
		t.Fatalf("expected entity Order")
	}
	if len(e.Members) != 4 {
		t.Fatalf("expected 4 body members, got %d: %+v", len(e.Members), e.Members)
	}
	if e.Members[0].Member == nil || e.Members[0].Member.Visibility != VisPublic {
		t.Errorf("first member = %+v", e.Members[0])
	}
	if e.Members[2].Separator == nil {
		t.Errorf("expected separator at index 2, got %+v", e.Members[2])
	}
	if e.Members[3].Member == nil || e.Members[3].Member.Kind != MemberMethod {
		t.Errorf("expected method at index 3, got %+v", e.Members[3])
	}
}

func TestParseAbstractClassBeforeAbstract(t *testing.T) {
	d := Parse(`abstract class Shape`)
	e, ok := d.Entities["Shape"]
	if !ok || e.Type != TypeAbstractClass {
		t.Fatalf("expected abstract class Shape, got %+v", e)
	}
}

func TestParseInheritanceRelationship(t *testing.T) {
	d := Parse(`Dog --|> Animal`)
	if len(d.Relationships) != 1 {
		t.Fatalf("expected 1 relationship, got %d", len(d.Relationships))
	}
	rel := d.Relationships[0]
	if rel.From != "Dog" || rel.To != "Animal" {
		t.Errorf("got %+v", rel)
	}
	if rel.RightDecor != DecorExtends {
		t.Errorf("expected DecorExtends, got %v", rel.RightDecor)
	}
	if _, ok := d.Entities["Dog"]; !ok {
		t.Errorf("expected Dog auto-created")
	}
}

func TestParseMapBody(t *testing.T) {
	d := Parse(`map Config {
  host => localhost
  port => 8080
}`)
	e := d.Entities["Config"]
	if e == nil {
		t.Fatalf("expected Config entity")
	}
	if len(e.MapEntries) != 2 {
		t.Fatalf("expected 2 map entries, got %d", len(e.MapEntries))
	}
}

func TestParseJSONBody(t *testing.T) {
	d := Parse(`json Payload {
  "name": "Alice",
  "age": 30
}`)
	e := d.Entities["Payload"]
	if e == nil || e.JSONNode == nil {
		t.Fatalf("expected Payload with JSONNode")
	}
	if e.JSONNode.Type != JSONObject {
		t.Errorf("expected JSONObject, got %v", e.JSONNode.Type)
	}
	if len(e.JSONNode.Entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(e.JSONNode.Entries))
	}
}

func TestParsePackageNesting(t *testing.T) {
	d := Parse(`package "com.example" {
  class Foo
}`)
	if len(d.Packages) != 1 {
		t.Fatalf("expected 1 package, got %d", len(d.Packages))
	}
	if len(d.Packages[0].Entities) != 1 {
		t.Fatalf("expected 1 entity in package, got %d", len(d.Packages[0].Entities))
	}
}
