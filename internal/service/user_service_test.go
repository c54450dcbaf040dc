package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Vampire-js/techfiesta/internal/domain"
	"github.com/Vampire-js/techfiesta/internal/dto"
	"github.com/Vampire-js/techfiesta/pkg/app"
	"github.com/Vampire-js/techfiesta/pkg/code"
	"github.com/Vampire-js/techfiesta/pkg/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type memUserRepo struct {
	nextUID int64
	users   []*domain.User
}

func (m *memUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m.nextUID++
	u := *user
	u.UID = m.nextUID
	m.users = append(m.users, &u)
	copy := u
	return &copy, nil
}

func (m *memUserRepo) GetByUID(ctx context.Context, uid int64) (*domain.User, error) {
	for _, u := range m.users {
		if u.UID == uid {
			copy := *u
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			copy := *u
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserRepo) UpdatePassword(ctx context.Context, uid int64, passwordHash string) error {
	for _, u := range m.users {
		if u.UID == uid {
			u.Password = passwordHash
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func newTestUserService(repo domain.UserRepository, registerEnabled bool) UserService {
	tm := app.NewTokenManager(app.TokenConfig{SecretKey: "test-secret"})
	cfg := &ServiceConfig{User: UserServiceConfig{RegisterIsEnable: registerEnabled}}
	return NewUserService(repo, tm, zap.NewNop(), cfg)
}

func TestUserRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestUserService(&memUserRepo{}, true)

	created, err := svc.Register(ctx, &dto.UserRegisterRequest{
		Email: "a@example.com", Username: "alice", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if created.Token == "" {
		t.Error("register should return a token")
	}

	tests := []struct {
		name        string
		credentials string
		password    string
		wantErr     error
	}{
		{"by email", "a@example.com", "secret123", nil},
		{"by username", "alice", "secret123", nil},
		{"wrong password", "alice", "nope", code.ErrorUserPasswordError},
		{"unknown user", "bob", "secret123", code.ErrorUserNotExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Login(ctx, &dto.UserLoginRequest{
				Credentials: tt.credentials, Password: tt.password,
			}, "127.0.0.1")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("want %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login failed: %v", err)
			}
			if got.UID != created.UID || got.Token == "" {
				t.Errorf("login result mismatch: %+v", got)
			}
		})
	}
}

func TestUserRegisterRejections(t *testing.T) {
	ctx := context.Background()
	repo := &memUserRepo{}
	svc := newTestUserService(repo, true)

	if _, err := svc.Register(ctx, &dto.UserRegisterRequest{
		Email: "a@example.com", Username: "alice", Password: "secret123",
	}); err != nil {
		t.Fatalf("seed register failed: %v", err)
	}

	tests := []struct {
		name    string
		req     *dto.UserRegisterRequest
		wantErr error
	}{
		{"duplicate email", &dto.UserRegisterRequest{Email: "a@example.com", Username: "alice2", Password: "secret123"}, code.ErrorUserEmailExists},
		{"duplicate username", &dto.UserRegisterRequest{Email: "b@example.com", Username: "alice", Password: "secret123"}, code.ErrorUserAlreadyExists},
		{"bad username", &dto.UserRegisterRequest{Email: "c@example.com", Username: "no spaces here", Password: "secret123"}, code.ErrorUserUsernameNotValid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("want %v, got %v", tt.wantErr, err)
			}
		})
	}

	disabled := newTestUserService(repo, false)
	if _, err := disabled.Register(ctx, &dto.UserRegisterRequest{
		Email: "d@example.com", Username: "dave", Password: "secret123",
	}); !errors.Is(err, code.ErrorUserRegisterDisabled) {
		t.Errorf("want ErrorUserRegisterDisabled, got %v", err)
	}
}

func TestUserChangePassword(t *testing.T) {
	ctx := context.Background()
	repo := &memUserRepo{}
	svc := newTestUserService(repo, true)

	created, err := svc.Register(ctx, &dto.UserRegisterRequest{
		Email: "a@example.com", Username: "alice", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := svc.ChangePassword(ctx, created.UID, &dto.UserChangePasswordRequest{
		OldPassword: "wrong", NewPassword: "newsecret",
	}); !errors.Is(err, code.ErrorUserPasswordError) {
		t.Errorf("wrong old password should fail, got %v", err)
	}

	if err := svc.ChangePassword(ctx, created.UID, &dto.UserChangePasswordRequest{
		OldPassword: "secret123", NewPassword: "newsecret",
	}); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	stored, _ := repo.GetByUID(ctx, created.UID)
	if !util.CheckPasswordHash("newsecret", stored.Password) {
		t.Error("stored hash should match the new password")
	}
}
