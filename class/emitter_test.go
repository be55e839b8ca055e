package class

import (
	"strings"
	"testing"
)

func TestEmitClassProducesSwimlane(t *testing.T) {
	d := Parse(`class Order {
  +id: int
}
class Customer
Order --> Customer`)
	out, err := Emit(d, "class Order")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "swimlane") {
		t.Errorf("expected swimlane shape in output: %s", out)
	}
	if !strings.Contains(out, "Order") || !strings.Contains(out, "Customer") {
		t.Errorf("expected both entity labels present: %s", out)
	}
}

func TestEmitMapEntityRendersKeyValueRows(t *testing.T) {
	d := Parse(`map Config {
  host => localhost
  port => 8080
}`)
	out, err := Emit(d, "map Config")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "host =&gt; localhost") {
		t.Errorf("expected host row rendered: %s", out)
	}
	if !strings.Contains(out, "port =&gt; 8080") {
		t.Errorf("expected port row rendered: %s", out)
	}
}

func TestEmitJSONEntityFlattensTree(t *testing.T) {
	d := Parse(`json Payload {
  "name": "Alice",
  "age": 30
}`)
	out, err := Emit(d, "json Payload")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "name:") || !strings.Contains(out, "Alice") {
		t.Errorf("expected name row rendered: %s", out)
	}
	if !strings.Contains(out, "age:") || !strings.Contains(out, "30") {
		t.Errorf("expected age row rendered: %s", out)
	}
}

func TestEmitPackageContainerWraps(t *testing.T) {
	d := Parse(`package "svc" {
  class Foo
}`)
	out, err := Emit(d, "package svc")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "svc") {
		t.Errorf("expected package label: %s", out)
	}
}
