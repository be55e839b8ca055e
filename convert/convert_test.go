package convert

import (
	"strings"
	"testing"
)

func TestDetectFamilyFromStartDirective(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   Family
	}{
		{"sequence directive", "@startsequence\nAlice -> Bob: hi\n@endsequence", FamilySequence},
		{"class directive", "@startclass\nclass Foo\n@endclass", FamilyClass},
		{"component directive", "@startcomponent\ncomponent Foo\n@endcomponent", FamilyComponent},
		{"usecase directive maps to component family", "@startusecase\nusecase Foo\n@endusecase", FamilyComponent},
		{"state directive", "@startstate\nstate Foo\n@endstate", FamilyState},
		{"timing directive", "@starttiming\nrobust Foo\n@endtiming", FamilyTiming},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectFamily(tc.source)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDetectFamilyFromKeywordSniffingUnderGenericWrapper(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   Family
	}{
		{"generic sequence", "@startuml\nAlice -> Bob: hi\n@enduml", FamilySequence},
		{"generic class", "@startuml\nclass Foo {\n}\n@enduml", FamilyClass},
		{"generic component", "@startuml\ncomponent Foo\n@enduml", FamilyComponent},
		{"generic state", "@startuml\nstate Foo\n[*] --> Foo\n@enduml", FamilyState},
		{"generic timing", "@startuml\nrobust \"A\" as A\n@enduml", FamilyTiming},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectFamily(tc.source)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDetectFamilyUnrecognizedReturnsError(t *testing.T) {
	_, err := DetectFamily("@startuml\ntitle nothing else\n@enduml")
	if err == nil {
		t.Fatal("expected an error for unrecognized content")
	}
}

func TestConvertSequenceProducesDocument(t *testing.T) {
	out, err := Convert("@startuml\nAlice -> Bob: hi\n@enduml", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "<mxfile>") {
		t.Errorf("expected an mxfile document, got: %s", out)
	}
}

func TestConvertWithExplicitFamilyOverridesDetection(t *testing.T) {
	out, err := Convert("class Foo", FamilyClass)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "<mxfile>") {
		t.Errorf("expected an mxfile document, got: %s", out)
	}
}
