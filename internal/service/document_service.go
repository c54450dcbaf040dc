package service

import (
	"context"
	"errors"

	"github.com/Vampire-js/techfiesta/internal/domain"
	"github.com/Vampire-js/techfiesta/internal/dto"
	"github.com/Vampire-js/techfiesta/pkg/code"
	"github.com/Vampire-js/techfiesta/pkg/convert"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DocumentService defines the document business service interface. Every
// operation is scoped to the calling user; documents of other users are
// indistinguishable from missing ones.
type DocumentService interface {
	// Create inserts a folder or note. The parent reference is stored
	// as given after sentinel normalization; it is not required to
	// resolve, the tree builder reparents orphans under root.
	Create(ctx context.Context, uid int64, params *dto.DocumentCreateRequest) (*dto.Document, error)

	// List returns the user's whole live collection ordered by sort,
	// insertion order breaking ties.
	List(ctx context.Context, uid int64) ([]*dto.Document, error)

	// Get returns one document with its content.
	Get(ctx context.Context, uid int64, params *dto.DocumentGetRequest) (*dto.Document, error)

	// UpdateContent replaces a note's content wholesale, last write wins.
	UpdateContent(ctx context.Context, uid int64, params *dto.DocumentUpdateRequest) (*dto.Document, error)

	// Rename changes the display name.
	Rename(ctx context.Context, uid int64, params *dto.DocumentRenameRequest) (*dto.Document, error)

	// Move reparents a document, rejecting unowned or non-folder
	// targets and moves that would create a cycle.
	Move(ctx context.Context, uid int64, params *dto.DocumentMoveRequest) (*dto.Document, error)

	// Delete soft-deletes a document and, for folders, every descendant.
	Delete(ctx context.Context, uid int64, params *dto.DocumentDeleteRequest) error

	// PurgeDeletedBefore permanently removes soft-deleted documents
	// older than cutoff. Used by the cleanup task.
	PurgeDeletedBefore(ctx context.Context, cutoff int64) (int64, error)
}

type documentService struct {
	documentRepo domain.DocumentRepository
	logger       *zap.Logger
}

func NewDocumentService(documentRepo domain.DocumentRepository, logger *zap.Logger) DocumentService {
	return &documentService{
		documentRepo: documentRepo,
		logger:       logger,
	}
}

// domainToDTO converts, stripping content from folders so list and read
// payloads never carry folder bodies.
func (s *documentService) domainToDTO(d *domain.Document) *dto.Document {
	if d == nil {
		return nil
	}
	out := &dto.Document{}
	convert.StructAssign(d, out)
	out.Kind = string(d.Kind)
	out.ParentID = domain.NormalizeParentID(d.ParentID)
	if d.IsFolder() {
		out.Content = ""
	}
	return out
}

func (s *documentService) Create(ctx context.Context, uid int64, params *dto.DocumentCreateRequest) (*dto.Document, error) {
	kind := domain.DocumentKind(params.Kind)
	if !kind.IsValid() {
		return nil, code.ErrorDocumentKindInvalid
	}

	doc := &domain.Document{
		Name:     params.Name,
		Kind:     kind,
		ParentID: domain.NormalizeParentID(params.ParentID),
		Sort:     params.Sort,
	}
	if kind == domain.DocumentKindNote {
		doc.Content = params.Content
	}

	created, err := s.documentRepo.Create(ctx, doc, uid)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	s.logger.Info("document created",
		zap.Int64("uid", uid),
		zap.String("documentId", created.ID),
		zap.String("kind", string(created.Kind)))

	return s.domainToDTO(created), nil
}

func (s *documentService) List(ctx context.Context, uid int64) ([]*dto.Document, error) {
	docs, err := s.documentRepo.ListByUID(ctx, uid)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	res := make([]*dto.Document, 0, len(docs))
	for _, d := range docs {
		res = append(res, s.domainToDTO(d))
	}
	return res, nil
}

func (s *documentService) Get(ctx context.Context, uid int64, params *dto.DocumentGetRequest) (*dto.Document, error) {
	doc, err := s.documentRepo.GetByDocumentID(ctx, params.ID, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorDocumentNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return s.domainToDTO(doc), nil
}

func (s *documentService) UpdateContent(ctx context.Context, uid int64, params *dto.DocumentUpdateRequest) (*dto.Document, error) {
	doc, err := s.documentRepo.GetByDocumentID(ctx, params.ID, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorDocumentNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if doc.IsFolder() {
		return nil, code.ErrorDocumentKindInvalid.WithDetails("folders have no content")
	}

	updated, err := s.documentRepo.UpdateContent(ctx, params.ID, uid, params.Content)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorDocumentNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return s.domainToDTO(updated), nil
}

func (s *documentService) Rename(ctx context.Context, uid int64, params *dto.DocumentRenameRequest) (*dto.Document, error) {
	updated, err := s.documentRepo.UpdateName(ctx, params.ID, uid, params.Name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorDocumentNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return s.domainToDTO(updated), nil
}

func (s *documentService) Move(ctx context.Context, uid int64, params *dto.DocumentMoveRequest) (*dto.Document, error) {
	doc, err := s.documentRepo.GetByDocumentID(ctx, params.ID, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorDocumentNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	parentID := domain.NormalizeParentID(params.ParentID)
	if parentID != domain.RootParentID {
		if parentID == doc.ID {
			return nil, code.ErrorDocumentMoveCycle
		}
		parent, err := s.documentRepo.GetByDocumentID(ctx, parentID, uid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, code.ErrorDocumentParentInvalid
			}
			return nil, code.ErrorDBQuery.WithDetails(err.Error())
		}
		if !parent.IsFolder() {
			return nil, code.ErrorDocumentParentInvalid
		}
		if doc.IsFolder() {
			cycle, err := s.wouldCycle(ctx, uid, doc.ID, parent)
			if err != nil {
				return nil, err
			}
			if cycle {
				return nil, code.ErrorDocumentMoveCycle
			}
		}
	}

	updated, err := s.documentRepo.UpdateParent(ctx, params.ID, uid, parentID, params.Sort)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorDocumentNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	s.logger.Info("document moved",
		zap.Int64("uid", uid),
		zap.String("documentId", updated.ID),
		zap.String("parentId", updated.ParentID))

	return s.domainToDTO(updated), nil
}

// wouldCycle walks from the target parent up to root and reports whether
// the walk passes through the moved folder. The walk is bounded by the
// collection size so a pre-existing broken chain cannot loop forever.
func (s *documentService) wouldCycle(ctx context.Context, uid int64, movedID string, parent *domain.Document) (bool, error) {
	docs, err := s.documentRepo.ListByUID(ctx, uid)
	if err != nil {
		return false, code.ErrorDBQuery.WithDetails(err.Error())
	}
	byID := make(map[string]*domain.Document, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}

	cur := parent
	for steps := 0; steps <= len(docs); steps++ {
		if cur.ID == movedID {
			return true, nil
		}
		pid := domain.NormalizeParentID(cur.ParentID)
		if pid == domain.RootParentID {
			return false, nil
		}
		next, ok := byID[pid]
		if !ok {
			return false, nil
		}
		cur = next
	}
	return true, nil
}

func (s *documentService) Delete(ctx context.Context, uid int64, params *dto.DocumentDeleteRequest) error {
	doc, err := s.documentRepo.GetByDocumentID(ctx, params.ID, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code.ErrorDocumentNotFound
		}
		return code.ErrorDBQuery.WithDetails(err.Error())
	}

	ids := []string{doc.ID}
	if doc.IsFolder() {
		descendants, err := s.collectDescendants(ctx, uid, doc.ID)
		if err != nil {
			return err
		}
		ids = append(ids, descendants...)
	}

	if err := s.documentRepo.SoftDelete(ctx, ids, uid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code.ErrorDocumentNotFound
		}
		return code.ErrorDBQuery.WithDetails(err.Error())
	}

	s.logger.Info("document deleted",
		zap.Int64("uid", uid),
		zap.String("documentId", doc.ID),
		zap.Int("cascade", len(ids)-1))

	return nil
}

// collectDescendants gathers every document under rootID breadth-first
// using the parent index of the user's live collection.
func (s *documentService) collectDescendants(ctx context.Context, uid int64, rootID string) ([]string, error) {
	docs, err := s.documentRepo.ListByUID(ctx, uid)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	children := make(map[string][]string, len(docs))
	for _, d := range docs {
		pid := domain.NormalizeParentID(d.ParentID)
		children[pid] = append(children[pid], d.ID)
	}

	var out []string
	queue := []string{rootID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, id := range children[cur] {
			out = append(out, id)
			queue = append(queue, id)
		}
	}
	return out, nil
}

func (s *documentService) PurgeDeletedBefore(ctx context.Context, cutoff int64) (int64, error) {
	return s.documentRepo.PurgeDeletedBefore(ctx, cutoff)
}
