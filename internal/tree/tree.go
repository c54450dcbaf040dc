// Package tree builds the hierarchical view over the flat document
// collection. The server never materializes the hierarchy; clients
// derive it from the parent references.
package tree

import (
	"sort"

	"github.com/Vampire-js/techfiesta/internal/domain"
	"github.com/Vampire-js/techfiesta/internal/dto"
)

// Tree is a parent-keyed index over one user's documents.
type Tree struct {
	byID     map[string]*dto.Document
	children map[string][]*dto.Document
}

// Build indexes the collection. Parent sentinels normalize to root, a
// parent reference that resolves to nothing reparents the document under
// root, and siblings order by their sort value with input order breaking
// ties.
func Build(docs []*dto.Document) *Tree {
	t := &Tree{
		byID:     make(map[string]*dto.Document, len(docs)),
		children: make(map[string][]*dto.Document),
	}

	for _, d := range docs {
		t.byID[d.ID] = d
	}

	for _, d := range docs {
		pid := domain.NormalizeParentID(d.ParentID)
		if pid != domain.RootParentID {
			if _, ok := t.byID[pid]; !ok {
				pid = domain.RootParentID
			}
		}
		t.children[pid] = append(t.children[pid], d)
	}

	for pid := range t.children {
		siblings := t.children[pid]
		sort.SliceStable(siblings, func(i, j int) bool {
			return siblings[i].Sort < siblings[j].Sort
		})
	}

	return t
}

// Node returns the document by id, nil when absent.
func (t *Tree) Node(id string) *dto.Document {
	return t.byID[id]
}

// Children returns the ordered children of a parent. Use
// domain.RootParentID for the top level.
func (t *Tree) Children(parentID string) []*dto.Document {
	return t.children[domain.NormalizeParentID(parentID)]
}

// Len returns the number of indexed documents.
func (t *Tree) Len() int {
	return len(t.byID)
}

// Walk visits every document depth-first in display order.
func (t *Tree) Walk(fn func(doc *dto.Document, depth int)) {
	t.walk(domain.RootParentID, 0, fn)
}

func (t *Tree) walk(parentID string, depth int, fn func(doc *dto.Document, depth int)) {
	for _, d := range t.children[parentID] {
		fn(d, depth)
		t.walk(d.ID, depth+1, fn)
	}
}

// Expansion tracks which folders are unfolded. The top level starts
// expanded so a fresh view is never empty.
type Expansion struct {
	expanded map[string]bool
}

func NewExpansion() *Expansion {
	return &Expansion{
		expanded: map[string]bool{domain.RootParentID: true},
	}
}

func (e *Expansion) IsExpanded(id string) bool {
	return e.expanded[domain.NormalizeParentID(id)]
}

// Toggle flips a folder and reports the new state.
func (e *Expansion) Toggle(id string) bool {
	id = domain.NormalizeParentID(id)
	e.expanded[id] = !e.expanded[id]
	return e.expanded[id]
}

func (e *Expansion) Expand(id string) {
	e.expanded[domain.NormalizeParentID(id)] = true
}

func (e *Expansion) Collapse(id string) {
	e.expanded[domain.NormalizeParentID(id)] = false
}

// Row is one visible line of the rendered tree.
type Row struct {
	Doc   *dto.Document
	Depth int
}

// View flattens the tree into the rows a client would render, skipping
// the contents of collapsed folders.
func View(t *Tree, e *Expansion) []Row {
	var rows []Row
	var visit func(parentID string, depth int)
	visit = func(parentID string, depth int) {
		for _, d := range t.Children(parentID) {
			rows = append(rows, Row{Doc: d, Depth: depth})
			if d.Kind == string(domain.DocumentKindFolder) && e.IsExpanded(d.ID) {
				visit(d.ID, depth+1)
			}
		}
	}
	visit(domain.RootParentID, 0)
	return rows
}
