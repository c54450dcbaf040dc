package service

import (
	"context"
	"errors"

	"github.com/Vampire-js/techfiesta/internal/domain"
	"github.com/Vampire-js/techfiesta/internal/dto"
	"github.com/Vampire-js/techfiesta/pkg/app"
	"github.com/Vampire-js/techfiesta/pkg/code"
	"github.com/Vampire-js/techfiesta/pkg/convert"
	"github.com/Vampire-js/techfiesta/pkg/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserService defines the user business service interface.
type UserService interface {
	// Register creates an account and returns it with a signed token.
	Register(ctx context.Context, params *dto.UserRegisterRequest) (*dto.User, error)

	// Login authenticates by email or username.
	Login(ctx context.Context, params *dto.UserLoginRequest, clientIP string) (*dto.User, error)

	// ChangePassword verifies the old password before setting the new one.
	ChangePassword(ctx context.Context, uid int64, params *dto.UserChangePasswordRequest) error

	// GetInfo returns the account profile without a token.
	GetInfo(ctx context.Context, uid int64) (*dto.User, error)
}

type userService struct {
	userRepo     domain.UserRepository
	tokenManager app.TokenManager
	logger       *zap.Logger
	config       *ServiceConfig
}

func NewUserService(userRepo domain.UserRepository, tokenManager app.TokenManager, logger *zap.Logger, config *ServiceConfig) UserService {
	return &userService{
		userRepo:     userRepo,
		tokenManager: tokenManager,
		logger:       logger,
		config:       config,
	}
}

func (s *userService) domainToDTO(user *domain.User) *dto.User {
	if user == nil {
		return nil
	}
	out := &dto.User{}
	convert.StructAssign(user, out)
	return out
}

func (s *userService) Register(ctx context.Context, params *dto.UserRegisterRequest) (*dto.User, error) {
	if s.config == nil || !s.config.User.RegisterIsEnable {
		return nil, code.ErrorUserRegisterDisabled
	}

	if !util.IsValidUsername(params.Username) {
		return nil, code.ErrorUserUsernameNotValid
	}

	emailUser, err := s.userRepo.GetByEmail(ctx, params.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if emailUser != nil {
		return nil, code.ErrorUserEmailExists
	}

	nameUser, err := s.userRepo.GetByUsername(ctx, params.Username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if nameUser != nil {
		return nil, code.ErrorUserAlreadyExists
	}

	password, err := util.GeneratePasswordHash(params.Password)
	if err != nil {
		return nil, code.ErrorServerInternal.WithDetails(err.Error())
	}

	user, err := s.userRepo.Create(ctx, &domain.User{
		Username: params.Username,
		Email:    params.Email,
		Password: password,
	})
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	token, err := s.tokenManager.Generate(user.UID, user.Username, "")
	if err != nil {
		return nil, code.ErrorServerInternal.WithDetails(err.Error())
	}

	out := s.domainToDTO(user)
	out.Token = token
	return out, nil
}

func (s *userService) Login(ctx context.Context, params *dto.UserLoginRequest, clientIP string) (*dto.User, error) {
	var user *domain.User
	var err error

	if util.IsValidEmail(params.Credentials) {
		user, err = s.userRepo.GetByEmail(ctx, params.Credentials)
	} else {
		user, err = s.userRepo.GetByUsername(ctx, params.Credentials)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorUserNotExists
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	if !util.CheckPasswordHash(params.Password, user.Password) {
		return nil, code.ErrorUserPasswordError
	}

	token, err := s.tokenManager.Generate(user.UID, user.Username, clientIP)
	if err != nil {
		return nil, code.ErrorServerInternal.WithDetails(err.Error())
	}

	s.logger.Info("user login",
		zap.Int64("uid", user.UID),
		zap.String("ip", clientIP))

	out := s.domainToDTO(user)
	out.Token = token
	return out, nil
}

func (s *userService) ChangePassword(ctx context.Context, uid int64, params *dto.UserChangePasswordRequest) error {
	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code.ErrorUserNotExists
		}
		return code.ErrorDBQuery.WithDetails(err.Error())
	}

	if !util.CheckPasswordHash(params.OldPassword, user.Password) {
		return code.ErrorUserPasswordError
	}

	hash, err := util.GeneratePasswordHash(params.NewPassword)
	if err != nil {
		return code.ErrorServerInternal.WithDetails(err.Error())
	}

	if err := s.userRepo.UpdatePassword(ctx, uid, hash); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	return nil
}

func (s *userService) GetInfo(ctx context.Context, uid int64) (*dto.User, error) {
	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorUserNotExists
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return s.domainToDTO(user), nil
}
