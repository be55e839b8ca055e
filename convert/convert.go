// Package convert dispatches raw PlantUML source to the correct
// per-family parser/emitter pair and produces draw.io XML, mirroring
// edd's importer.ImporterRegistry format-detection pattern but for a
// single PlantUML input with six internal diagram families instead of
// several competing external formats.
package convert

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jgraph/plantuml-drawio/class"
	"github.com/jgraph/plantuml-drawio/component"
	"github.com/jgraph/plantuml-drawio/sequence"
	"github.com/jgraph/plantuml-drawio/state"
	"github.com/jgraph/plantuml-drawio/timing"
)

// Family identifies which per-family pipeline should handle a source.
type Family string

const (
	FamilySequence  Family = "sequence"
	FamilyClass     Family = "class"
	FamilyComponent Family = "component"
	FamilyState     Family = "state"
	FamilyTiming    Family = "timing"
)

var (
	startDirectiveRE = regexp.MustCompile(`(?m)^\s*@start(\w+)`)

	sequenceArrowRE = regexp.MustCompile(`(?m)^\s*\S+\s*[\-.=~]+(>>?|\\|\\\\|/|//)\s*\S+`)
	timingKeywordRE = regexp.MustCompile(`(?mi)^\s*(robust|concise|clock|binary|analog)\s+`)
	stateKeywordRE  = regexp.MustCompile(`(?mi)^\s*state\s+|[\-.=~]{2,}>\s*\[\*\]|\[\*\]\s*[\-.=~]{2,}>`)
	classKeywordRE  = regexp.MustCompile(`(?mi)^\s*(class|interface|enum|abstract)\s+`)
	componentKeywordRE = regexp.MustCompile(`(?mi)^\s*(component|usecase|node|cloud|database|folder|rectangle|actor)\s+`)
)

// DetectFamily inspects the `@start<kind>` directive first (the
// explicit signal PlantUML itself uses to select a diagram renderer),
// then falls back to keyword sniffing for sources that only use the
// generic `@startuml` wrapper, the same two-tier strategy edd's
// PlantUMLImporter uses (prefix check, then content-marker check).
func DetectFamily(source string) (Family, error) {
	if m := startDirectiveRE.FindStringSubmatch(source); m != nil {
		switch strings.ToLower(m[1]) {
		case "sequence":
			return FamilySequence, nil
		case "class":
			return FamilyClass, nil
		case "component", "usecase", "deployment":
			return FamilyComponent, nil
		case "state":
			return FamilyState, nil
		case "timing":
			return FamilyTiming, nil
		}
	}

	switch {
	case timingKeywordRE.MatchString(source):
		return FamilyTiming, nil
	case stateKeywordRE.MatchString(source):
		return FamilyState, nil
	case classKeywordRE.MatchString(source):
		return FamilyClass, nil
	case componentKeywordRE.MatchString(source):
		return FamilyComponent, nil
	case sequenceArrowRE.MatchString(source):
		return FamilySequence, nil
	}

	return "", fmt.Errorf("convert: unable to detect diagram family")
}

// Convert runs the full parse+emit pipeline for source, auto-detecting
// its family unless family is non-empty.
func Convert(source string, family Family) (string, error) {
	if family == "" {
		detected, err := DetectFamily(source)
		if err != nil {
			return "", err
		}
		family = detected
	}

	switch family {
	case FamilySequence:
		return sequence.Emit(sequence.Parse(source), source)
	case FamilyClass:
		return class.Emit(class.Parse(source), source)
	case FamilyComponent:
		return component.Emit(component.Parse(source), source)
	case FamilyState:
		return state.Emit(state.Parse(source), source)
	case FamilyTiming:
		return timing.Emit(timing.Parse(source), source)
	default:
		return "", fmt.Errorf("convert: unknown family %q", family)
	}
}

// Families lists every supported family, in the fixed order spec.md
// §1 enumerates them (use-case shares the component family).
func Families() []Family {
	return []Family{FamilySequence, FamilyClass, FamilyComponent, FamilyState, FamilyTiming}
}
