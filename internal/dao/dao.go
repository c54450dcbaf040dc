package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/Vampire-js/techfiesta/internal/model"
	"github.com/Vampire-js/techfiesta/pkg/util"
	"github.com/Vampire-js/techfiesta/pkg/writequeue"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// DatabaseConfig database connection settings.
type DatabaseConfig struct {
	Type            string
	Path            string
	UserName        string
	Password        string
	Host            string
	Name            string
	TablePrefix     string
	AutoMigrate     bool
	Charset         string
	ParseTime       bool
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime string
	ConnMaxIdleTime string
	RunMode         string
}

// Dao bundles the database handle with the per-owner write queue.
type Dao struct {
	db     *gorm.DB
	logger *zap.Logger
	wq     *writequeue.Manager
}

type Option func(*Dao)

func WithLogger(lg *zap.Logger) Option {
	return func(d *Dao) { d.logger = lg }
}

// WithWriteQueueManager serializes each owner's writes. Required for the
// sqlite backend, optional for mysql.
func WithWriteQueueManager(wq *writequeue.Manager) Option {
	return func(d *Dao) { d.wq = wq }
}

func New(db *gorm.DB, opts ...Option) *Dao {
	d := &Dao{db: db, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dao) DB() *gorm.DB {
	return d.db
}

// write runs fn through the owner's write queue when one is configured.
func (d *Dao) write(ctx context.Context, uid int64, fn func() error) error {
	if d.wq == nil {
		return fn()
	}
	return d.wq.Submit(ctx, uid, fn)
}

func dialector(c DatabaseConfig) (gorm.Dialector, error) {
	switch c.Type {
	case "sqlite":
		return sqlite.Open(c.Path), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
			c.UserName, c.Password, c.Host, c.Name, c.Charset, c.ParseTime)
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.Type)
	}
}

// NewDBEngineWithConfig opens the database, applies pool settings and runs
// the automatic migration when enabled.
func NewDBEngineWithConfig(c DatabaseConfig, lg *zap.Logger) (*gorm.DB, error) {
	dial, err := dialector(c)
	if err != nil {
		return nil, err
	}

	logMode := logger.Silent
	if c.RunMode == "debug" {
		logMode = logger.Info
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix,
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if c.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	}
	if lifetime, err := util.ParseDuration(c.ConnMaxLifetime); err == nil {
		sqlDB.SetConnMaxLifetime(lifetime)
	} else {
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	if idle, err := util.ParseDuration(c.ConnMaxIdleTime); err == nil {
		sqlDB.SetConnMaxIdleTime(idle)
	} else {
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	if c.AutoMigrate {
		if err := model.AutoMigrateAll(db); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}

	if lg != nil {
		lg.Info("database engine initialized", zap.String("type", c.Type))
	}

	return db, nil
}
