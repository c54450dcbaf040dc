package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Vampire-js/techfiesta/internal/domain"
	"github.com/Vampire-js/techfiesta/internal/dto"
	"github.com/Vampire-js/techfiesta/pkg/code"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// memDocumentRepo is an in-memory DocumentRepository preserving insertion
// order, which is what breaks sort ties in the real store.
type memDocumentRepo struct {
	nextID int
	docs   []*domain.Document
	gone   map[string]bool
}

func newMemDocumentRepo() *memDocumentRepo {
	return &memDocumentRepo{gone: map[string]bool{}}
}

func (m *memDocumentRepo) Create(ctx context.Context, doc *domain.Document, uid int64) (*domain.Document, error) {
	m.nextID++
	d := *doc
	d.ID = fmt.Sprintf("doc-%d", m.nextID)
	d.UID = uid
	d.ParentID = domain.NormalizeParentID(d.ParentID)
	m.docs = append(m.docs, &d)
	return &d, nil
}

func (m *memDocumentRepo) ListByUID(ctx context.Context, uid int64) ([]*domain.Document, error) {
	var out []*domain.Document
	for _, d := range m.docs {
		if d.UID == uid && !m.gone[d.ID] {
			copy := *d
			out = append(out, &copy)
		}
	}
	// stable sort by Sort, insertion order preserved for ties
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Sort > out[j].Sort; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out, nil
}

func (m *memDocumentRepo) find(id string, uid int64) *domain.Document {
	for _, d := range m.docs {
		if d.ID == id && d.UID == uid && !m.gone[d.ID] {
			return d
		}
	}
	return nil
}

func (m *memDocumentRepo) GetByDocumentID(ctx context.Context, id string, uid int64) (*domain.Document, error) {
	if d := m.find(id, uid); d != nil {
		copy := *d
		return &copy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memDocumentRepo) UpdateContent(ctx context.Context, id string, uid int64, content string) (*domain.Document, error) {
	d := m.find(id, uid)
	if d == nil {
		return nil, gorm.ErrRecordNotFound
	}
	d.Content = content
	copy := *d
	return &copy, nil
}

func (m *memDocumentRepo) UpdateName(ctx context.Context, id string, uid int64, name string) (*domain.Document, error) {
	d := m.find(id, uid)
	if d == nil {
		return nil, gorm.ErrRecordNotFound
	}
	d.Name = name
	copy := *d
	return &copy, nil
}

func (m *memDocumentRepo) UpdateParent(ctx context.Context, id string, uid int64, parentID string, sort int64) (*domain.Document, error) {
	d := m.find(id, uid)
	if d == nil {
		return nil, gorm.ErrRecordNotFound
	}
	d.ParentID = domain.NormalizeParentID(parentID)
	d.Sort = sort
	copy := *d
	return &copy, nil
}

func (m *memDocumentRepo) SoftDelete(ctx context.Context, ids []string, uid int64) error {
	hit := false
	for _, id := range ids {
		if d := m.find(id, uid); d != nil {
			m.gone[id] = true
			hit = true
		}
	}
	if !hit {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (m *memDocumentRepo) PurgeDeletedBefore(ctx context.Context, cutoff int64) (int64, error) {
	return 0, nil
}

func newTestDocumentService(repo domain.DocumentRepository) DocumentService {
	return NewDocumentService(repo, zap.NewNop())
}

func mustCreate(t *testing.T, svc DocumentService, uid int64, req *dto.DocumentCreateRequest) *dto.Document {
	t.Helper()
	d, err := svc.Create(context.Background(), uid, req)
	if err != nil {
		t.Fatalf("Create(%q) failed: %v", req.Name, err)
	}
	return d
}

func TestDocumentCreateAndGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTestDocumentService(newMemDocumentRepo())

	created := mustCreate(t, svc, 1, &dto.DocumentCreateRequest{
		Name: "notes.md", Kind: "note", ParentID: "", Sort: 10, Content: "hello",
	})
	if created.ParentID != "root" {
		t.Errorf("empty parentId should normalize to root, got %q", created.ParentID)
	}

	got, err := svc.Get(ctx, 1, &dto.DocumentGetRequest{ID: created.ID})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "notes.md" || got.Content != "hello" || got.Kind != "note" {
		t.Errorf("round trip mismatch: %+v", got)
	}

	// reads do not mutate
	again, err := svc.Get(ctx, 1, &dto.DocumentGetRequest{ID: created.ID})
	if err != nil {
		t.Fatalf("second Get failed: %v", err)
	}
	if again.Content != got.Content || again.Name != got.Name {
		t.Errorf("repeated read changed the document: %+v vs %+v", again, got)
	}
}

func TestDocumentCreateInvalidKind(t *testing.T) {
	svc := newTestDocumentService(newMemDocumentRepo())
	_, err := svc.Create(context.Background(), 1, &dto.DocumentCreateRequest{
		Name: "x", Kind: "workspace",
	})
	if !errors.Is(err, code.ErrorDocumentKindInvalid) {
		t.Errorf("want ErrorDocumentKindInvalid, got %v", err)
	}
}

func TestDocumentFolderContentStripped(t *testing.T) {
	ctx := context.Background()
	svc := newTestDocumentService(newMemDocumentRepo())

	folder := mustCreate(t, svc, 1, &dto.DocumentCreateRequest{
		Name: "projects", Kind: "folder", Content: "should be ignored",
	})
	if folder.Content != "" {
		t.Errorf("folder content should be empty, got %q", folder.Content)
	}

	got, err := svc.Get(ctx, 1, &dto.DocumentGetRequest{ID: folder.ID})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Content != "" {
		t.Errorf("folder read should carry no content, got %q", got.Content)
	}

	_, err = svc.UpdateContent(ctx, 1, &dto.DocumentUpdateRequest{ID: folder.ID, Content: "x"})
	if !errors.Is(err, code.ErrorDocumentKindInvalid) {
		t.Errorf("folder content save should fail with kind error, got %v", err)
	}
}

func TestDocumentOwnerIsolation(t *testing.T) {
	ctx := context.Background()
	svc := newTestDocumentService(newMemDocumentRepo())

	mine := mustCreate(t, svc, 1, &dto.DocumentCreateRequest{Name: "mine", Kind: "note"})
	mustCreate(t, svc, 2, &dto.DocumentCreateRequest{Name: "theirs", Kind: "note"})

	list, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].Name != "mine" {
		t.Errorf("list should only contain the owner's documents: %+v", list)
	}

	cases := []struct {
		name string
		run  func() error
	}{
		{"get", func() error {
			_, err := svc.Get(ctx, 2, &dto.DocumentGetRequest{ID: mine.ID})
			return err
		}},
		{"update", func() error {
			_, err := svc.UpdateContent(ctx, 2, &dto.DocumentUpdateRequest{ID: mine.ID, Content: "x"})
			return err
		}},
		{"rename", func() error {
			_, err := svc.Rename(ctx, 2, &dto.DocumentRenameRequest{ID: mine.ID, Name: "x"})
			return err
		}},
		{"move", func() error {
			_, err := svc.Move(ctx, 2, &dto.DocumentMoveRequest{ID: mine.ID})
			return err
		}},
		{"delete", func() error {
			return svc.Delete(ctx, 2, &dto.DocumentDeleteRequest{ID: mine.ID})
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.run(); !errors.Is(err, code.ErrorDocumentNotFound) {
				t.Errorf("another user's %s should look like not-found, got %v", tc.name, err)
			}
		})
	}
}

func TestDocumentUpdateContentLastWriteWins(t *testing.T) {
	ctx := context.Background()
	svc := newTestDocumentService(newMemDocumentRepo())

	note := mustCreate(t, svc, 1, &dto.DocumentCreateRequest{Name: "n", Kind: "note", Content: "v1"})

	if _, err := svc.UpdateContent(ctx, 1, &dto.DocumentUpdateRequest{ID: note.ID, Content: "v2"}); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if _, err := svc.UpdateContent(ctx, 1, &dto.DocumentUpdateRequest{ID: note.ID, Content: ""}); err != nil {
		t.Fatalf("empty-content save failed: %v", err)
	}

	got, err := svc.Get(ctx, 1, &dto.DocumentGetRequest{ID: note.ID})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Content != "" {
		t.Errorf("last write should win, got %q", got.Content)
	}
}

func TestDocumentMoveValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestDocumentService(newMemDocumentRepo())

	a := mustCreate(t, svc, 1, &dto.DocumentCreateRequest{Name: "a", Kind: "folder"})
	b := mustCreate(t, svc, 1, &dto.DocumentCreateRequest{Name: "b", Kind: "folder", ParentID: a.ID})
	c := mustCreate(t, svc, 1, &dto.DocumentCreateRequest{Name: "c", Kind: "folder", ParentID: b.ID})
	note := mustCreate(t, svc, 1, &dto.DocumentCreateRequest{Name: "n", Kind: "note", ParentID: a.ID})

	tests := []struct {
		name     string
		id       string
		parentID string
		wantErr  error
	}{
		{"into own grandchild", a.ID, c.ID, code.ErrorDocumentMoveCycle},
		{"into itself", a.ID, a.ID, code.ErrorDocumentMoveCycle},
		{"into a note", b.ID, note.ID, code.ErrorDocumentParentInvalid},
		{"into missing parent", b.ID, "no-such-id", code.ErrorDocumentParentInvalid},
		{"to root", c.ID, "", nil},
		{"note into folder", note.ID, b.ID, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Move(ctx, 1, &dto.DocumentMoveRequest{ID: tt.id, ParentID: tt.parentID})
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("move should succeed, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("want %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDocumentDeleteCascades(t *testing.T) {
	ctx := context.Background()
	svc := newTestDocumentService(newMemDocumentRepo())

	root := mustCreate(t, svc, 1, &dto.DocumentCreateRequest{Name: "root", Kind: "folder"})
	sub := mustCreate(t, svc, 1, &dto.DocumentCreateRequest{Name: "sub", Kind: "folder", ParentID: root.ID})
	deep := mustCreate(t, svc, 1, &dto.DocumentCreateRequest{Name: "deep", Kind: "note", ParentID: sub.ID})
	outside := mustCreate(t, svc, 1, &dto.DocumentCreateRequest{Name: "outside", Kind: "note"})

	if err := svc.Delete(ctx, 1, &dto.DocumentDeleteRequest{ID: root.ID}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	for _, id := range []string{root.ID, sub.ID, deep.ID} {
		if _, err := svc.Get(ctx, 1, &dto.DocumentGetRequest{ID: id}); !errors.Is(err, code.ErrorDocumentNotFound) {
			t.Errorf("document %s should be gone, got %v", id, err)
		}
	}
	if _, err := svc.Get(ctx, 1, &dto.DocumentGetRequest{ID: outside.ID}); err != nil {
		t.Errorf("unrelated document should survive: %v", err)
	}

	// deleting again reports not-found
	if err := svc.Delete(ctx, 1, &dto.DocumentDeleteRequest{ID: root.ID}); !errors.Is(err, code.ErrorDocumentNotFound) {
		t.Errorf("second delete should be not-found, got %v", err)
	}
}

// TestDocumentLifecycleScenario runs a whole editing session against the
// service: build a small hierarchy, edit, reorganize, then tear down.
func TestDocumentLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	svc := newTestDocumentService(newMemDocumentRepo())
	uid := int64(7)

	projects := mustCreate(t, svc, uid, &dto.DocumentCreateRequest{Name: "projects", Kind: "folder", Sort: 10})
	ideas := mustCreate(t, svc, uid, &dto.DocumentCreateRequest{Name: "ideas.md", Kind: "note", Sort: 20, Content: "draft"})
	todo := mustCreate(t, svc, uid, &dto.DocumentCreateRequest{Name: "todo.md", Kind: "note", ParentID: projects.ID, Content: "- ship it"})

	// edit and save the nested note
	if _, err := svc.UpdateContent(ctx, uid, &dto.DocumentUpdateRequest{ID: todo.ID, Content: "- ship it\n- write docs"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// reorganize: move the loose note into the folder and rename it
	if _, err := svc.Move(ctx, uid, &dto.DocumentMoveRequest{ID: ideas.ID, ParentID: projects.ID, Sort: 5}); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if _, err := svc.Rename(ctx, uid, &dto.DocumentRenameRequest{ID: ideas.ID, Name: "roadmap.md"}); err != nil {
		t.Fatalf("rename failed: %v", err)
	}

	list, err := svc.List(ctx, uid)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(list))
	}
	for _, d := range list {
		if d.ID == ideas.ID {
			if d.Name != "roadmap.md" || d.ParentID != projects.ID || d.Sort != 5 {
				t.Errorf("reorganized note out of shape: %+v", d)
			}
		}
	}

	got, err := svc.Get(ctx, uid, &dto.DocumentGetRequest{ID: todo.ID})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Content != "- ship it\n- write docs" {
		t.Errorf("saved content lost: %q", got.Content)
	}

	// tear down the folder; everything under it goes too
	if err := svc.Delete(ctx, uid, &dto.DocumentDeleteRequest{ID: projects.ID}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	list, err = svc.List(ctx, uid)
	if err != nil {
		t.Fatalf("List after delete failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("collection should be empty after cascade delete, got %+v", list)
	}
}

func TestDocumentListStableOrder(t *testing.T) {
	ctx := context.Background()
	svc := newTestDocumentService(newMemDocumentRepo())

	names := []string{"w", "x", "y", "z"}
	sorts := []int64{30, 10, 10, 20}
	for i, n := range names {
		mustCreate(t, svc, 1, &dto.DocumentCreateRequest{Name: n, Kind: "note", Sort: sorts[i]})
	}

	list, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	var got []string
	for _, d := range list {
		got = append(got, d.Name)
	}
	want := []string{"x", "y", "z", "w"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch: got %v, want %v", got, want)
		}
	}
}
