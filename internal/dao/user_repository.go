package dao

import (
	"context"

	"github.com/Vampire-js/techfiesta/internal/domain"
	"github.com/Vampire-js/techfiesta/internal/model"
	"github.com/Vampire-js/techfiesta/pkg/timex"
)

type userRepository struct {
	dao *Dao
}

// NewUserRepository returns the gorm-backed user repository.
func NewUserRepository(d *Dao) domain.UserRepository {
	return &userRepository{dao: d}
}

func userToDomain(m *model.User) *domain.User {
	return &domain.User{
		UID:       m.UID,
		Email:     m.Email,
		Username:  m.Username,
		Password:  m.Password,
		Avatar:    m.Avatar,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m := &model.User{
		Email:     user.Email,
		Username:  user.Username,
		Password:  user.Password,
		Avatar:    user.Avatar,
		CreatedAt: timex.Now(),
		UpdatedAt: timex.Now(),
	}
	err := r.dao.write(ctx, 0, func() error {
		return r.dao.db.WithContext(ctx).Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return userToDomain(m), nil
}

func (r *userRepository) GetByUID(ctx context.Context, uid int64) (*domain.User, error) {
	var m model.User
	if err := r.dao.db.WithContext(ctx).Where("uid = ?", uid).First(&m).Error; err != nil {
		return nil, err
	}
	return userToDomain(&m), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m model.User
	if err := r.dao.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, err
	}
	return userToDomain(&m), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var m model.User
	if err := r.dao.db.WithContext(ctx).Where("username = ?", username).First(&m).Error; err != nil {
		return nil, err
	}
	return userToDomain(&m), nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, uid int64, passwordHash string) error {
	return r.dao.write(ctx, uid, func() error {
		return r.dao.db.WithContext(ctx).
			Model(&model.User{}).
			Where("uid = ?", uid).
			Updates(map[string]any{
				"password":   passwordHash,
				"updated_at": timex.Now(),
			}).Error
	})
}
