package session

import (
	"context"
	"errors"
	"testing"

	"github.com/Vampire-js/techfiesta/internal/dto"
)

type mockStore struct {
	docs       map[string]*dto.Document
	saveErr    error
	getCount   map[string]int
	savedValue map[string]string
}

func newMockStore(docs ...*dto.Document) *mockStore {
	m := &mockStore{
		docs:       map[string]*dto.Document{},
		getCount:   map[string]int{},
		savedValue: map[string]string{},
	}
	for _, d := range docs {
		m.docs[d.ID] = d
	}
	return m
}

func (m *mockStore) GetDocument(ctx context.Context, id string) (*dto.Document, error) {
	m.getCount[id]++
	d, ok := m.docs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copy := *d
	return &copy, nil
}

func (m *mockStore) SaveContent(ctx context.Context, id, content string) (*dto.Document, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	d, ok := m.docs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	d.Content = content
	m.savedValue[id] = content
	copy := *d
	return &copy, nil
}

func note(id, name, content string) *dto.Document {
	return &dto.Document{ID: id, Name: name, Kind: "note", Content: content}
}

func TestOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newMockStore(note("a", "a.md", "v1"))
	w := NewWorkspace(store)

	tab, err := w.Open(ctx, "a")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if tab.State != TabSaved {
		t.Error("fresh tab should be saved")
	}

	if err := w.Edit("a", "edited"); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}

	// reopening must neither refetch nor clobber the buffer
	tab2, err := w.Open(ctx, "a")
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if tab2.Content != "edited" || tab2.State != TabDirty {
		t.Errorf("reopen clobbered the buffer: %+v", tab2)
	}
	if store.getCount["a"] != 1 {
		t.Errorf("reopen should not refetch, got %d fetches", store.getCount["a"])
	}
	if len(w.Tabs()) != 1 {
		t.Errorf("reopen should not duplicate tabs, got %d", len(w.Tabs()))
	}
}

func TestSaveTransitionsAndFailure(t *testing.T) {
	ctx := context.Background()
	store := newMockStore(note("a", "a.md", "v1"))
	w := NewWorkspace(store)

	if _, err := w.Open(ctx, "a"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := w.Edit("a", "v2"); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}

	// failed save keeps the tab dirty and the buffer intact
	store.saveErr = errors.New("connection refused")
	if err := w.Save(ctx, "a"); err == nil {
		t.Fatal("save should propagate the store error")
	}
	tab := w.Active()
	if tab.State != TabDirty || tab.Content != "v2" {
		t.Errorf("failed save must leave tab dirty with buffer intact: %+v", tab)
	}

	// retry succeeds
	store.saveErr = nil
	if err := w.Save(ctx, "a"); err != nil {
		t.Fatalf("retry save failed: %v", err)
	}
	if w.Active().State != TabSaved {
		t.Error("successful save should mark tab saved")
	}
	if store.savedValue["a"] != "v2" {
		t.Errorf("store should hold the saved buffer, got %q", store.savedValue["a"])
	}

	// saving a clean tab is a no-op
	if err := w.Save(ctx, "a"); err != nil {
		t.Errorf("saving a clean tab should succeed: %v", err)
	}
}

func TestCloseCleanTab(t *testing.T) {
	ctx := context.Background()
	store := newMockStore(note("a", "a.md", "v1"), note("b", "b.md", "v1"))
	w := NewWorkspace(store)

	if _, err := w.Open(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Open(ctx, "b"); err != nil {
		t.Fatal(err)
	}

	if err := w.Close(ctx, "b"); err != nil {
		t.Fatalf("closing a clean tab should not need confirmation: %v", err)
	}
	if len(w.Tabs()) != 1 || w.Active().ID != "a" {
		t.Errorf("remaining tab should be active: %+v", w.Active())
	}
}

func TestCloseDirtyTabConfirmFlow(t *testing.T) {
	ctx := context.Background()
	store := newMockStore(note("a", "a.md", "v1"))
	w := NewWorkspace(store)

	if _, err := w.Open(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if err := w.Edit("a", "unsaved"); err != nil {
		t.Fatal(err)
	}

	if err := w.Close(ctx, "a"); !errors.Is(err, ErrConfirmPending) {
		t.Fatalf("dirty close should require confirmation, got %v", err)
	}
	if w.PendingClose() != "a" {
		t.Errorf("pending close should record the tab, got %q", w.PendingClose())
	}

	// other operations are blocked while pending
	if _, err := w.Open(ctx, "a"); !errors.Is(err, ErrConfirmPending) {
		t.Errorf("open during pending close should fail, got %v", err)
	}

	// keep the tab
	if err := w.ConfirmClose(ctx, false); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if len(w.Tabs()) != 1 || w.Active().Content != "unsaved" {
		t.Errorf("cancelled close must keep the dirty buffer: %+v", w.Active())
	}

	// now discard
	if err := w.Close(ctx, "a"); !errors.Is(err, ErrConfirmPending) {
		t.Fatal("second dirty close should still require confirmation")
	}
	if err := w.ConfirmClose(ctx, true); err != nil {
		t.Fatalf("discard failed: %v", err)
	}
	if len(w.Tabs()) != 0 || w.Active() != nil {
		t.Error("discarded tab should be gone")
	}

	if err := w.ConfirmClose(ctx, true); !errors.Is(err, ErrNoPendingClose) {
		t.Errorf("confirm without pending close should fail, got %v", err)
	}
}

func TestCloseActiveFallsBackWithRefetch(t *testing.T) {
	ctx := context.Background()
	store := newMockStore(note("a", "a.md", "v1"), note("b", "b.md", "v1"))
	w := NewWorkspace(store)

	if _, err := w.Open(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Open(ctx, "b"); err != nil {
		t.Fatal(err)
	}

	// the stored content of a changes behind the workspace's back
	store.docs["a"].Content = "v2-remote"

	if err := w.Close(ctx, "b"); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	active := w.Active()
	if active == nil || active.ID != "a" {
		t.Fatalf("fallback should activate the last remaining tab, got %+v", active)
	}
	if active.Content != "v2-remote" {
		t.Errorf("fallback should refetch the clean tab, got %q", active.Content)
	}
	if store.getCount["a"] != 2 {
		t.Errorf("expected a refetch of the fallback tab, got %d fetches", store.getCount["a"])
	}
}

func TestCloseAllResets(t *testing.T) {
	ctx := context.Background()
	store := newMockStore(note("a", "a.md", "v1"))
	w := NewWorkspace(store)

	if _, err := w.Open(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if err := w.Edit("a", "x"); err != nil {
		t.Fatal(err)
	}
	_ = w.Close(ctx, "a")

	w.CloseAll()
	if len(w.Tabs()) != 0 || w.Active() != nil || w.PendingClose() != "" {
		t.Error("CloseAll should reset everything")
	}
}
