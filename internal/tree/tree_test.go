package tree

import (
	"testing"

	"github.com/Vampire-js/techfiesta/internal/dto"
)

func doc(id, name, kind, parentID string, sort int64) *dto.Document {
	return &dto.Document{ID: id, Name: name, Kind: kind, ParentID: parentID, Sort: sort}
}

func names(docs []*dto.Document) []string {
	var out []string
	for _, d := range docs {
		out = append(out, d.Name)
	}
	return out
}

func TestBuildRootSentinels(t *testing.T) {
	tests := []struct {
		name     string
		parentID string
	}{
		{"empty string", ""},
		{"null literal", "null"},
		{"root", "root"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := Build([]*dto.Document{doc("a", "a", "note", tt.parentID, 0)})
			if got := len(tr.Children("root")); got != 1 {
				t.Errorf("sentinel %q should map to root, got %d root children", tt.parentID, got)
			}
		})
	}
}

func TestBuildStableSiblingOrder(t *testing.T) {
	docs := []*dto.Document{
		doc("w", "w", "note", "", 30),
		doc("x", "x", "note", "", 10),
		doc("y", "y", "note", "", 10),
		doc("z", "z", "note", "", 20),
	}
	tr := Build(docs)

	got := names(tr.Children("root"))
	want := []string{"x", "y", "z", "w"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch: got %v, want %v", got, want)
		}
	}
}

func TestBuildOrphanFallsBackToRoot(t *testing.T) {
	docs := []*dto.Document{
		doc("f", "folder", "folder", "", 0),
		doc("n", "nested", "note", "f", 0),
		doc("o", "orphan", "note", "missing-parent", 0),
	}
	tr := Build(docs)

	roots := names(tr.Children("root"))
	if len(roots) != 2 {
		t.Fatalf("orphan should surface at root, got %v", roots)
	}

	// nothing dropped, nothing duplicated
	seen := map[string]int{}
	tr.Walk(func(d *dto.Document, depth int) {
		seen[d.ID]++
	})
	if len(seen) != 3 {
		t.Errorf("walk should visit all 3 documents, saw %v", seen)
	}
	for id, count := range seen {
		if count != 1 {
			t.Errorf("document %s visited %d times", id, count)
		}
	}
}

func TestWalkDepths(t *testing.T) {
	docs := []*dto.Document{
		doc("a", "a", "folder", "", 0),
		doc("b", "b", "folder", "a", 0),
		doc("c", "c", "note", "b", 0),
	}
	tr := Build(docs)

	depths := map[string]int{}
	tr.Walk(func(d *dto.Document, depth int) {
		depths[d.ID] = depth
	})
	if depths["a"] != 0 || depths["b"] != 1 || depths["c"] != 2 {
		t.Errorf("unexpected depths: %v", depths)
	}
}

func TestViewRespectsExpansion(t *testing.T) {
	docs := []*dto.Document{
		doc("f1", "open", "folder", "", 0),
		doc("n1", "inside-open", "note", "f1", 0),
		doc("f2", "closed", "folder", "", 1),
		doc("n2", "inside-closed", "note", "f2", 0),
		doc("n3", "top", "note", "", 2),
	}
	tr := Build(docs)

	e := NewExpansion()
	e.Expand("f1")

	var got []string
	for _, row := range View(tr, e) {
		got = append(got, row.Doc.Name)
	}
	want := []string{"open", "inside-open", "closed", "top"}
	if len(got) != len(want) {
		t.Fatalf("view mismatch: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("view mismatch: got %v, want %v", got, want)
		}
	}

	// collapsed folder contents appear after toggling
	e.Toggle("f2")
	rows := View(tr, e)
	if len(rows) != 5 {
		t.Errorf("expanded view should show all rows, got %d", len(rows))
	}
}

func TestExpansionDefaults(t *testing.T) {
	e := NewExpansion()
	if !e.IsExpanded("root") {
		t.Error("root should start expanded")
	}
	if e.IsExpanded("some-folder") {
		t.Error("folders should start collapsed")
	}
	if e.Toggle("some-folder") != true {
		t.Error("first toggle should expand")
	}
	if e.Toggle("some-folder") != false {
		t.Error("second toggle should collapse")
	}
}
