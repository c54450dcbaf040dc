// Package app provides the application container holding every
// dependency and service.
package app

import (
	"context"
	"fmt"

	"github.com/Vampire-js/techfiesta/global"
	"github.com/Vampire-js/techfiesta/internal/dao"
	"github.com/Vampire-js/techfiesta/internal/domain"
	"github.com/Vampire-js/techfiesta/internal/service"
	pkgapp "github.com/Vampire-js/techfiesta/pkg/app"
	"github.com/Vampire-js/techfiesta/pkg/writequeue"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the application container. Everything handlers and tasks need
// comes through it instead of package globals.
type App struct {
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	writeQueueMgr *writequeue.Manager

	DocumentRepo domain.DocumentRepository
	UserRepo     domain.UserRepository

	DocumentService service.DocumentService
	UserService     service.UserService

	TokenManager pkgapp.TokenManager
}

// NewApp wires the container. cfg, logger and db are all required.
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config: cfg,
		logger: logger,
		DB:     db,
	}

	wqConfig := cfg.GetWriteQueueConfig()
	a.writeQueueMgr = writequeue.New(&wqConfig, logger)

	daoOpts := []dao.Option{dao.WithLogger(logger)}
	if cfg.Database.Type == "sqlite" {
		daoOpts = append(daoOpts, dao.WithWriteQueueManager(a.writeQueueMgr))
	}
	a.Dao = dao.New(db, daoOpts...)

	a.TokenManager = pkgapp.NewTokenManager(pkgapp.TokenConfig{
		SecretKey: cfg.Security.AuthTokenKey,
		Issuer:    "techfiesta-notes",
		Expiry:    cfg.GetTokenExpiry(),
	})

	a.DocumentRepo = dao.NewDocumentRepository(a.Dao)
	a.UserRepo = dao.NewUserRepository(a.Dao)

	svcConfig := &service.ServiceConfig{
		User: service.UserServiceConfig{
			RegisterIsEnable: cfg.User.RegisterIsEnable,
		},
		App: service.AppServiceConfig{
			SoftDeleteRetentionTime: cfg.App.SoftDeleteRetentionTime,
		},
	}

	a.DocumentService = service.NewDocumentService(a.DocumentRepo, logger)
	a.UserService = service.NewUserService(a.UserRepo, a.TokenManager, logger, svcConfig)

	logger.Info("App container initialized",
		zap.String("database", cfg.Database.Type),
		zap.Int("writeQueueCapacity", wqConfig.QueueCapacity))

	return a, nil
}

// Close releases resources held by the container.
func (a *App) Close() error {
	if a.writeQueueMgr != nil {
		if err := a.writeQueueMgr.Close(context.Background()); err != nil {
			a.logger.Warn("write queue close", zap.Error(err))
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("Database connection closed")
	}
	return nil
}

func (a *App) Config() *AppConfig {
	return a.config
}

func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version returns the build metadata.
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   global.Version,
		GitTag:    global.GitTag,
		BuildTime: global.BuildTime,
	}
}
