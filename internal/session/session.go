// Package session models the editing workspace: open tabs, their
// dirty/saved state and the close-confirmation flow.
package session

import (
	"context"

	"github.com/Vampire-js/techfiesta/internal/dto"

	"github.com/pkg/errors"
)

// TabState tracks whether a tab's buffer matches the stored content.
type TabState int

const (
	TabSaved TabState = iota
	TabDirty
)

func (s TabState) String() string {
	if s == TabDirty {
		return "dirty"
	}
	return "saved"
}

// Tab is one open note. Content is the editing buffer, not necessarily
// what the server has.
type Tab struct {
	ID      string
	Name    string
	Content string
	State   TabState
}

// Store is the document access the workspace needs. The API client
// satisfies it.
type Store interface {
	GetDocument(ctx context.Context, id string) (*dto.Document, error)
	SaveContent(ctx context.Context, id, content string) (*dto.Document, error)
}

var (
	// ErrTabNotOpen is returned for operations on an id with no tab.
	ErrTabNotOpen = errors.New("tab is not open")
	// ErrConfirmPending means closing a dirty tab needs a decision
	// through ConfirmClose before anything else can touch that tab.
	ErrConfirmPending = errors.New("close confirmation pending")
	// ErrNoPendingClose means ConfirmClose was called with nothing to
	// decide.
	ErrNoPendingClose = errors.New("no close confirmation pending")
)

// Workspace is the tab strip plus the active selection. Not safe for
// concurrent use; it models one user's UI state.
type Workspace struct {
	store        Store
	tabs         []*Tab
	activeID     string
	pendingClose string
}

func NewWorkspace(store Store) *Workspace {
	return &Workspace{store: store}
}

// Tabs returns the open tabs in opening order.
func (w *Workspace) Tabs() []*Tab {
	return w.tabs
}

// Active returns the focused tab, nil when none is open.
func (w *Workspace) Active() *Tab {
	return w.find(w.activeID)
}

// PendingClose returns the id awaiting a close decision, empty when
// none.
func (w *Workspace) PendingClose() string {
	return w.pendingClose
}

func (w *Workspace) find(id string) *Tab {
	for _, t := range w.tabs {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Open focuses the document's tab, fetching content only when the tab
// is not already open. Reopening an open tab never clobbers unsaved
// edits.
func (w *Workspace) Open(ctx context.Context, id string) (*Tab, error) {
	if w.pendingClose != "" {
		return nil, ErrConfirmPending
	}
	if t := w.find(id); t != nil {
		w.activeID = id
		return t, nil
	}

	doc, err := w.store.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	t := &Tab{
		ID:      doc.ID,
		Name:    doc.Name,
		Content: doc.Content,
		State:   TabSaved,
	}
	w.tabs = append(w.tabs, t)
	w.activeID = id
	return t, nil
}

// Edit replaces the tab's buffer and marks it dirty.
func (w *Workspace) Edit(id, content string) error {
	t := w.find(id)
	if t == nil {
		return ErrTabNotOpen
	}
	t.Content = content
	t.State = TabDirty
	return nil
}

// Save pushes the buffer to the store. On failure the tab stays dirty
// so the edits survive for a retry.
func (w *Workspace) Save(ctx context.Context, id string) error {
	t := w.find(id)
	if t == nil {
		return ErrTabNotOpen
	}
	if t.State == TabSaved {
		return nil
	}

	doc, err := w.store.SaveContent(ctx, t.ID, t.Content)
	if err != nil {
		return err
	}
	t.Name = doc.Name
	t.State = TabSaved
	return nil
}

// Close removes a tab. A dirty tab is not closed immediately: the
// workspace enters a pending state and the caller must resolve it with
// ConfirmClose.
func (w *Workspace) Close(ctx context.Context, id string) error {
	t := w.find(id)
	if t == nil {
		return ErrTabNotOpen
	}
	if w.pendingClose != "" {
		return ErrConfirmPending
	}

	if t.State == TabDirty {
		w.pendingClose = id
		return ErrConfirmPending
	}

	return w.remove(ctx, id)
}

// ConfirmClose resolves a pending dirty close. discard true drops the
// edits and closes the tab; false keeps the tab open and dirty.
func (w *Workspace) ConfirmClose(ctx context.Context, discard bool) error {
	if w.pendingClose == "" {
		return ErrNoPendingClose
	}
	id := w.pendingClose
	w.pendingClose = ""

	if !discard {
		return nil
	}
	return w.remove(ctx, id)
}

// remove drops the tab and, when it was active, falls back to the last
// remaining tab refetched from the store so stale buffers never come
// back.
func (w *Workspace) remove(ctx context.Context, id string) error {
	idx := -1
	for i, t := range w.tabs {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrTabNotOpen
	}

	w.tabs = append(w.tabs[:idx], w.tabs[idx+1:]...)

	if w.activeID != id {
		return nil
	}
	if len(w.tabs) == 0 {
		w.activeID = ""
		return nil
	}

	next := w.tabs[len(w.tabs)-1]
	w.activeID = next.ID
	if next.State == TabSaved {
		doc, err := w.store.GetDocument(ctx, next.ID)
		if err == nil {
			next.Name = doc.Name
			next.Content = doc.Content
		}
	}
	return nil
}

// CloseAll force-closes every tab, discarding pending state. Used on
// logout.
func (w *Workspace) CloseAll() {
	w.tabs = nil
	w.activeID = ""
	w.pendingClose = ""
}
