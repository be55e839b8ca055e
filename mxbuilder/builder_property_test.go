package mxbuilder

import (
	"regexp"
	"testing"

	"github.com/jgraph/plantuml-drawio/core"
	"pgregory.net/rapid"
)

var cellIDAttrRE = regexp.MustCompile(`<mxCell id="([^"]*)"(?:[^>]*parent="([^"]*)")?`)

// TestIDAllocatorNeverRepeats is property P1 (spec.md §8): cell ids
// allocated from one IDAllocator are pairwise distinct no matter how
// many are drawn.
func TestIDAllocatorNeverRepeats(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		prefix := rapid.StringMatching(`[a-z]{1,6}`).Draw(t, "prefix")
		n := rapid.IntRange(1, 500).Draw(t, "n")

		alloc := NewIDAllocator(prefix)
		seen := make(map[string]bool, n)
		for i := 0; i < n; i++ {
			id := alloc.Next()
			if seen[id] {
				t.Fatalf("duplicate id %q after %d draws", id, i)
			}
			seen[id] = true
		}
	})
}

// TestBuildCellAlwaysWellFormedParent is property P2: every cell built
// with a non-empty Parent serializes a parent attribute equal to that
// value, and a cell never has itself as its own parent.
func TestBuildCellAlwaysWellFormedParent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.StringMatching(`puml-[0-9]{1,4}`).Draw(t, "id")
		parent := rapid.SampledFrom([]string{"0", "1", "puml-1", "puml-2"}).Draw(t, "parent")
		rapid.Assume(id != parent)

		out, err := BuildCell(CellOptions{
			ID:     id,
			Parent: parent,
			Vertex: true,
			Geometry: &core.Geometry{
				X: rapid.IntRange(0, 1000).Draw(t, "x"),
				Y: rapid.IntRange(0, 1000).Draw(t, "y"),
				Width:  rapid.IntRange(1, 500).Draw(t, "w"),
				Height: rapid.IntRange(1, 500).Draw(t, "h"),
			},
		})
		if err != nil {
			t.Fatalf("BuildCell: %v", err)
		}

		m := cellIDAttrRE.FindStringSubmatch(out)
		if m == nil {
			t.Fatalf("cell fragment has no recognizable id/parent: %s", out)
		}
		if m[1] != id {
			t.Fatalf("serialized id %q != requested %q", m[1], id)
		}
		if m[2] != parent {
			t.Fatalf("serialized parent %q != requested %q", m[2], parent)
		}
		if m[2] == m[1] {
			t.Fatalf("cell %q is its own parent", id)
		}
	})
}

// TestBuildCellMissingIDFails checks the §7 structural error: an empty
// ID must never silently produce a cell.
func TestBuildCellMissingIDFails(t *testing.T) {
	_, err := BuildCell(CellOptions{Vertex: true})
	if err != ErrMissingID {
		t.Fatalf("got err %v, want ErrMissingID", err)
	}
}

func TestBuildDocumentMissingPlantUMLFails(t *testing.T) {
	_, err := BuildDocument(DocumentOptions{GroupCellID: "puml-1"})
	if err != ErrMissingPlantUML {
		t.Fatalf("got err %v, want ErrMissingPlantUML", err)
	}
}

func TestBuildDocumentRoundTripsSource(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		src := rapid.StringMatching(`[a-zA-Z0-9 \n@>-]{0,40}`).Draw(t, "src")
		rapid.Assume(src != "")

		out, err := BuildDocument(DocumentOptions{
			GroupCellID:    "puml-1",
			GroupWidth:     100,
			GroupHeight:    100,
			PlantUMLSource: src,
		})
		if err != nil {
			t.Fatalf("BuildDocument: %v", err)
		}
		if got := EscapeXMLAttr(src); !containsSubstring(out, got) {
			t.Fatalf("document does not contain escaped source %q", got)
		}
	})
}

func containsSubstring(haystack, needle string) bool {
	return len(needle) == 0 || (len(haystack) >= len(needle) && indexOf(haystack, needle) >= 0)
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
