package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/Vampire-js/techfiesta/pkg/util"
	"github.com/Vampire-js/techfiesta/pkg/writequeue"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppConfig application configuration.
type AppConfig struct {
	File     string         `yaml:"-"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	App      AppSettings    `yaml:"app"`
	User     UserConfig     `yaml:"user"`
	Security SecurityConfig `yaml:"security"`
	Tracer   TracerConfig   `yaml:"tracer"`
}

// LogConfig log configuration.
type LogConfig struct {
	// Level log level, see zapcore.ParseLevel
	Level string `yaml:"level" default:"warn"`
	// File log file path
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production enables JSON output
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig HTTP server configuration.
type ServerConfig struct {
	RunMode      string `yaml:"run-mode" default:"release"`
	HttpPort     string `yaml:"http-port" default:":9000"`
	ReadTimeout  int    `yaml:"read-timeout" default:"60"`
	WriteTimeout int    `yaml:"write-timeout" default:"60"`
}

// SecurityConfig auth configuration.
type SecurityConfig struct {
	AuthTokenKey string `yaml:"auth-token-key" default:"techfiesta-Auth-Token"`
	// TokenExpiry supports formats like 7d, 24h, 30m
	TokenExpiry string `yaml:"token-expiry" default:"30d"`
	// AuthCookieName session cookie carrying the token for browsers
	AuthCookieName string `yaml:"auth-cookie-name" default:"access_token"`
}

// DatabaseConfig database configuration.
type DatabaseConfig struct {
	// Type sqlite or mysql
	Type string `yaml:"type" default:"sqlite"`
	// Path SQLite database file path
	Path        string `yaml:"path" default:"storage/database/db.sqlite3"`
	UserName    string `yaml:"username"`
	Password    string `yaml:"password"`
	Host        string `yaml:"host"`
	Name        string `yaml:"name"`
	TablePrefix string `yaml:"table-prefix"`
	AutoMigrate bool   `yaml:"auto-migrate" default:"true"`
	Charset     string `yaml:"charset"`
	ParseTime   bool   `yaml:"parse-time"`
	// MaxIdleConns defaults to 10
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns defaults to 100
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
	// ConnMaxLifetime formats like 30m, 1h
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
	ConnMaxIdleTime string `yaml:"conn-max-idle-time" default:"10m"`
}

// UserConfig user configuration.
type UserConfig struct {
	RegisterIsEnable bool `yaml:"register-is-enable" default:"true"`
}

// AppSettings application settings.
type AppSettings struct {
	// DefaultContextTimeout per-request timeout in seconds
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`
	// SoftDeleteRetentionTime how long deleted documents are kept
	SoftDeleteRetentionTime string `yaml:"soft-delete-retention-time" default:"7d"`

	WriteQueueCapacity int    `yaml:"write-queue-capacity" default:"100"`
	WriteQueueTimeout  string `yaml:"write-queue-timeout" default:"30s"`
	WriteQueueIdleTime string `yaml:"write-queue-idle-time" default:"10m"`
}

// TracerConfig request tracing configuration.
type TracerConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Header  string `yaml:"header" default:"X-Trace-ID"`
}

// LoadConfig loads configuration from a file, filling defaults before and
// after unmarshal so empty YAML fields still pick up their defaults.
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	c := new(AppConfig)
	c.File = realpath

	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "set default config failed")
	}

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	if err = yaml.Unmarshal(file, c); err != nil {
		return nil, realpath, errors.Wrap(err, "parse config file failed")
	}

	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "re-set default config failed")
	}

	return c, realpath, nil
}

// Save writes the configuration back to its file.
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	if err = os.WriteFile(c.File, data, 0644); err != nil {
		return errors.Wrap(err, "write config file failed")
	}

	return nil
}

// GetWriteQueueConfig builds the write queue settings.
func (c *AppConfig) GetWriteQueueConfig() writequeue.Config {
	cfg := writequeue.DefaultConfig()

	if c.App.WriteQueueCapacity > 0 {
		cfg.QueueCapacity = c.App.WriteQueueCapacity
	}
	if c.App.WriteQueueTimeout != "" {
		if timeout, err := util.ParseDuration(c.App.WriteQueueTimeout); err == nil {
			cfg.WriteTimeout = timeout
		}
	}
	if c.App.WriteQueueIdleTime != "" {
		if idleTime, err := util.ParseDuration(c.App.WriteQueueIdleTime); err == nil {
			cfg.IdleTimeout = idleTime
		}
	}

	return cfg
}

// GetTokenExpiry parses the configured token expiry.
func (c *AppConfig) GetTokenExpiry() time.Duration {
	if expiry, err := util.ParseDuration(c.Security.TokenExpiry); err == nil {
		return expiry
	}
	return 30 * 24 * time.Hour
}

// GetSoftDeleteRetention parses the retention window; zero disables the
// cleanup task.
func (c *AppConfig) GetSoftDeleteRetention() time.Duration {
	if c.App.SoftDeleteRetentionTime == "" || c.App.SoftDeleteRetentionTime == "0" {
		return 0
	}
	if d, err := util.ParseDuration(c.App.SoftDeleteRetentionTime); err == nil {
		return d
	}
	return 0
}
