package dao

import (
	"context"
	"errors"

	"github.com/Vampire-js/techfiesta/internal/domain"
	"github.com/Vampire-js/techfiesta/internal/model"
	"github.com/Vampire-js/techfiesta/pkg/timex"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type documentRepository struct {
	dao *Dao
}

// NewDocumentRepository returns the gorm-backed document repository.
func NewDocumentRepository(d *Dao) domain.DocumentRepository {
	return &documentRepository{dao: d}
}

func documentToDomain(m *model.Document) *domain.Document {
	return &domain.Document{
		ID:        m.DocumentID,
		UID:       m.UID,
		Name:      m.Name,
		Kind:      domain.DocumentKind(m.Kind),
		ParentID:  m.ParentID,
		Content:   m.Content,
		Sort:      m.Sort,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *documentRepository) Create(ctx context.Context, doc *domain.Document, uid int64) (*domain.Document, error) {
	m := &model.Document{
		DocumentID: uuid.NewString(),
		UID:        uid,
		Name:       doc.Name,
		Kind:       string(doc.Kind),
		ParentID:   domain.NormalizeParentID(doc.ParentID),
		Content:    doc.Content,
		Sort:       doc.Sort,
		CreatedAt:  timex.Now(),
		UpdatedAt:  timex.Now(),
	}
	err := r.dao.write(ctx, uid, func() error {
		return r.dao.db.WithContext(ctx).Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return documentToDomain(m), nil
}

func (r *documentRepository) ListByUID(ctx context.Context, uid int64) ([]*domain.Document, error) {
	var rows []*model.Document
	err := r.dao.db.WithContext(ctx).
		Where("uid = ? AND is_deleted = 0", uid).
		Order("sort ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	docs := make([]*domain.Document, 0, len(rows))
	for _, m := range rows {
		docs = append(docs, documentToDomain(m))
	}
	return docs, nil
}

func (r *documentRepository) GetByDocumentID(ctx context.Context, id string, uid int64) (*domain.Document, error) {
	var m model.Document
	err := r.dao.db.WithContext(ctx).
		Where("document_id = ? AND uid = ? AND is_deleted = 0", id, uid).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return documentToDomain(&m), nil
}

// update applies values to one owned live row and returns the refreshed
// row, mapping a zero-row update to gorm.ErrRecordNotFound.
func (r *documentRepository) update(ctx context.Context, id string, uid int64, values map[string]any) (*domain.Document, error) {
	values["updated_at"] = timex.Now()
	err := r.dao.write(ctx, uid, func() error {
		result := r.dao.db.WithContext(ctx).
			Model(&model.Document{}).
			Where("document_id = ? AND uid = ? AND is_deleted = 0", id, uid).
			Updates(values)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByDocumentID(ctx, id, uid)
}

func (r *documentRepository) UpdateContent(ctx context.Context, id string, uid int64, content string) (*domain.Document, error) {
	return r.update(ctx, id, uid, map[string]any{"content": content})
}

func (r *documentRepository) UpdateName(ctx context.Context, id string, uid int64, name string) (*domain.Document, error) {
	return r.update(ctx, id, uid, map[string]any{"name": name})
}

func (r *documentRepository) UpdateParent(ctx context.Context, id string, uid int64, parentID string, sort int64) (*domain.Document, error) {
	return r.update(ctx, id, uid, map[string]any{
		"parent_id": domain.NormalizeParentID(parentID),
		"sort":      sort,
	})
}

func (r *documentRepository) SoftDelete(ctx context.Context, ids []string, uid int64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.dao.write(ctx, uid, func() error {
		result := r.dao.db.WithContext(ctx).
			Model(&model.Document{}).
			Where("document_id IN ? AND uid = ? AND is_deleted = 0", ids, uid).
			Updates(map[string]any{
				"is_deleted":        1,
				"deleted_timestamp": timex.Now().Unix(),
				"updated_at":        timex.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// PurgeDeletedBefore permanently removes soft-deleted rows whose deletion
// timestamp is older than cutoff. Runs outside the per-owner queue since
// it touches every owner.
func (r *documentRepository) PurgeDeletedBefore(ctx context.Context, cutoff int64) (int64, error) {
	result := r.dao.db.WithContext(ctx).
		Where("is_deleted = 1 AND deleted_timestamp > 0 AND deleted_timestamp < ?", cutoff).
		Delete(&model.Document{})
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
