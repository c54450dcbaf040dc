package domain

import "context"

// DocumentRepository is the persistence port for documents. Every method
// is scoped by uid; a row owned by someone else behaves exactly like a
// missing row.
type DocumentRepository interface {
	Create(ctx context.Context, doc *Document, uid int64) (*Document, error)
	ListByUID(ctx context.Context, uid int64) ([]*Document, error)
	GetByDocumentID(ctx context.Context, id string, uid int64) (*Document, error)
	UpdateContent(ctx context.Context, id string, uid int64, content string) (*Document, error)
	UpdateName(ctx context.Context, id string, uid int64, name string) (*Document, error)
	UpdateParent(ctx context.Context, id string, uid int64, parentID string, sort int64) (*Document, error)
	SoftDelete(ctx context.Context, ids []string, uid int64) error
	PurgeDeletedBefore(ctx context.Context, cutoff int64) (int64, error)
}

// UserRepository is the persistence port for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByUID(ctx context.Context, uid int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	UpdatePassword(ctx context.Context, uid int64, passwordHash string) error
}
