package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/Vampire-js/techfiesta/global"
	internalApp "github.com/Vampire-js/techfiesta/internal/app"
	"github.com/Vampire-js/techfiesta/internal/dao"
	"github.com/Vampire-js/techfiesta/internal/routers"
	"github.com/Vampire-js/techfiesta/internal/task"
	"github.com/Vampire-js/techfiesta/pkg/logger"
	"github.com/Vampire-js/techfiesta/pkg/safe_close"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	validatorV10 "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// wellKnownSecretKeys are token keys that must never survive into a real
// deployment. Startup warns when one of them is configured.
var wellKnownSecretKeys = []string{
	"techfiesta-Auth-Token",
	"",
}

const httpShutdownTimeout = 5 * time.Second

type Server struct {
	logger     *zap.Logger
	config     *internalApp.AppConfig
	db         *gorm.DB
	ut         *ut.UniversalTranslator
	httpServer *http.Server
	sc         *safe_close.SafeClose
	app        *internalApp.App
}

func NewServer(runEnv *runFlags) (*Server, error) {
	appConfig, configRealpath, err := internalApp.LoadConfig(runEnv.config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if runEnv.port != "" {
		appConfig.Server.HttpPort = runEnv.port
	}
	applyGinMode(runEnv.runMode, appConfig.Server.RunMode)

	s := &Server{
		config: appConfig,
		sc:     safe_close.NewSafeClose(),
	}

	if err := s.setupLogger(); err != nil {
		return nil, fmt.Errorf("setupLogger: %w", err)
	}
	global.Logger = s.logger
	s.warnOnDefaultSecret()

	if err := s.ensureDataDirs(); err != nil {
		return nil, fmt.Errorf("ensureDataDirs: %w", err)
	}
	if err := s.openDatabase(); err != nil {
		return nil, fmt.Errorf("openDatabase: %w", err)
	}

	s.app, err = internalApp.NewApp(appConfig, s.logger, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to create app container: %w", err)
	}

	s.ut, err = buildTranslator()
	if err != nil {
		return nil, fmt.Errorf("buildTranslator: %w", err)
	}

	s.startScheduler()

	s.logger.Warn(fmt.Sprintf("%s v%s Git:%s BuildTime:%s", global.Name, global.Version, global.GitTag, global.BuildTime))
	s.logger.Warn("config loaded", zap.String("path", configRealpath))

	s.serveHTTP()
	s.attachAppClose()

	return s, nil
}

// applyGinMode resolves the run mode, flag over config, release when
// neither is set.
func applyGinMode(flagMode, configMode string) {
	mode := flagMode
	if mode == "" {
		mode = configMode
	}
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
}

func (s *Server) setupLogger() error {
	lg, err := logger.NewLogger(logger.Config{
		Level:      s.config.Log.Level,
		File:       s.config.Log.File,
		Production: s.config.Log.Production,
	})
	if err != nil {
		return err
	}
	s.logger = lg
	return nil
}

func (s *Server) warnOnDefaultSecret() {
	for _, key := range wellKnownSecretKeys {
		if s.config.Security.AuthTokenKey != key {
			continue
		}
		banner := strings.Repeat("=", 60)
		fmt.Println()
		fmt.Println(banner)
		fmt.Println("SECURITY WARNING: Using default secret key!")
		fmt.Println()
		fmt.Println("Please modify 'security.auth-token-key' in config.yaml")
		fmt.Println("Generate a secure key with:")
		fmt.Println("  openssl rand -base64 32")
		fmt.Println(banner)
		fmt.Println()
		s.logger.Warn("default secret key in use, change security.auth-token-key in config.yaml")
		return
	}
}

// ensureDataDirs creates the directories the log file and the sqlite
// database live in.
func (s *Server) ensureDataDirs() error {
	for _, dir := range []string{
		filepath.Dir(s.config.Log.File),
		filepath.Dir(s.config.Database.Path),
	} {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0754); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func (s *Server) openDatabase() error {
	cfg := s.config
	db, err := dao.NewDBEngineWithConfig(dao.DatabaseConfig{
		Type:            cfg.Database.Type,
		Path:            cfg.Database.Path,
		UserName:        cfg.Database.UserName,
		Password:        cfg.Database.Password,
		Host:            cfg.Database.Host,
		Name:            cfg.Database.Name,
		TablePrefix:     cfg.Database.TablePrefix,
		AutoMigrate:     cfg.Database.AutoMigrate,
		Charset:         cfg.Database.Charset,
		ParseTime:       cfg.Database.ParseTime,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		RunMode:         cfg.Server.RunMode,
	}, s.logger)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

// buildTranslator hooks json field names and en/zh message translations
// into gin's validator engine.
func buildTranslator() (*ut.UniversalTranslator, error) {
	validate, ok := binding.Validator.Engine().(*validatorV10.Validate)
	if !ok {
		return nil, nil
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	uni := ut.New(en.New(), en.New(), zh.New())
	zhTran, _ := uni.GetTranslator("zh")
	enTran, _ := uni.GetTranslator("en")
	if err := zh_translations.RegisterDefaultTranslations(validate, zhTran); err != nil {
		return nil, err
	}
	if err := en_translations.RegisterDefaultTranslations(validate, enTran); err != nil {
		return nil, err
	}
	return uni, nil
}

func (s *Server) startScheduler() {
	manager := task.NewManager(s.logger, s.sc)
	manager.RegisterTasks(s.app)
	if err := manager.Start(); err != nil {
		s.logger.Error("failed to start task scheduler", zap.Error(err))
	}
}

func (s *Server) serveHTTP() {
	addr := s.config.Server.HttpPort
	if addr == "" {
		return
	}
	s.logger.Warn("api_router", zap.String("config.server.HttpPort", addr))

	s.httpServer = &http.Server{
		Addr:           addr,
		Handler:        routers.NewRouter(s.app, s.ut),
		ReadTimeout:    time.Duration(s.config.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(s.config.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		errChan := make(chan error, 1)
		go func() {
			errChan <- s.httpServer.ListenAndServe()
		}()
		select {
		case err := <-errChan:
			s.logger.Error("api service err", zap.Error(err))
			s.sc.SendCloseSignal(err)
		case <-closeSignal:
			ctx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
			defer cancel()
			if err := s.httpServer.Shutdown(ctx); err != nil {
				s.logger.Error("api service shutdown error", zap.Error(err))
			}
		}
	})
}

func (s *Server) attachAppClose() {
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal
		if s.app == nil {
			return
		}
		if err := s.app.Close(); err != nil {
			s.logger.Error("failed to close app container", zap.Error(err))
			return
		}
		s.logger.Info("app container closed")
	})
}

// GetApp gets the App container.
func (s *Server) GetApp() *internalApp.App {
	return s.app
}

// GetConfig gets the app configuration.
func (s *Server) GetConfig() *internalApp.AppConfig {
	return s.config
}
