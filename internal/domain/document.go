// Package domain defines the domain models and repository interfaces.
package domain

import "github.com/Vampire-js/techfiesta/pkg/timex"

// DocumentKind distinguishes folders from notes.
type DocumentKind string

const (
	DocumentKindFolder DocumentKind = "folder"
	DocumentKindNote   DocumentKind = "note"
)

// IsValid reports whether k is a known kind.
func (k DocumentKind) IsValid() bool {
	return k == DocumentKindFolder || k == DocumentKindNote
}

// RootParentID is the canonical sentinel for top-level documents. The
// store also accepts "" and "null" on input; they normalize to this.
const RootParentID = "root"

// NormalizeParentID maps the accepted root sentinels to RootParentID.
func NormalizeParentID(parentID string) string {
	switch parentID {
	case "", "null", RootParentID:
		return RootParentID
	}
	return parentID
}

// Document is the unit entity of the hierarchy: a folder or a note owned
// by one user. The tree is implicit through ParentID; the stored
// collection stays flat.
type Document struct {
	ID        string
	UID       int64
	Name      string
	Kind      DocumentKind
	ParentID  string
	Content   string
	Sort      int64
	CreatedAt timex.Time
	UpdatedAt timex.Time
}

func (d *Document) IsFolder() bool {
	return d.Kind == DocumentKindFolder
}

func (d *Document) IsNote() bool {
	return d.Kind == DocumentKindNote
}

// IsRoot reports whether the document sits at the top level.
func (d *Document) IsRoot() bool {
	return NormalizeParentID(d.ParentID) == RootParentID
}
