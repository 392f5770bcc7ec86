package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when no explicit path is given.
const DefaultPath = "foundit.yaml"

// Config holds all application settings.
type Config struct {
	Port                string        `yaml:"port"`
	Timezone            string        `yaml:"timezone"`
	UploadDir           string        `yaml:"upload_dir"`
	MaxUploadMB         int           `yaml:"max_upload_mb"`
	BcryptCost          int           `yaml:"bcrypt_cost"`
	RegistrationEnabled bool          `yaml:"registration_enabled"`
	Session             SessionConfig `yaml:"session"`
	Database            DBConfig      `yaml:"database"`
	Redis               RedisConfig   `yaml:"redis"`
	Log                 LogConfig     `yaml:"log"`
}

// SessionConfig configures session cookies and their backing store.
type SessionConfig struct {
	Secret       string        `yaml:"secret"`
	TTL          time.Duration `yaml:"ttl"`
	Store        string        `yaml:"store"` // sql, redis
	CookieSecure bool          `yaml:"cookie_secure"`
}

// DBConfig selects the SQL driver and its connection parameters.
type DBConfig struct {
	Driver   string `yaml:"driver"` // sqlite, mysql
	Path     string `yaml:"path"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// RedisConfig is used when Session.Store is "redis".
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LogConfig controls the level and the optional rotated log file.
type LogConfig struct {
	Level      string `yaml:"level"`
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:                "3000",
		Timezone:            "UTC",
		UploadDir:           "public/uploads",
		MaxUploadMB:         5,
		BcryptCost:          10,
		RegistrationEnabled: true,
		Session: SessionConfig{
			TTL:   24 * time.Hour,
			Store: "sql",
		},
		Database: DBConfig{
			Driver: "sqlite",
			Path:   "foundit.sqlite3",
			Host:   "127.0.0.1",
			Port:   "3306",
			Name:   "foundit",
		},
		Redis: RedisConfig{Addr: "127.0.0.1:6379"},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// Load builds the configuration. Precedence, lowest first: defaults, the YAML
// file at path, variables from a .env file, the process environment.
// A missing YAML or .env file is not an error.
func Load(path string) (Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	if err := loadFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	// godotenv never overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides cfg with any variable lookup reports as set.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	str("PORT", &cfg.Port)
	str("TIMEZONE", &cfg.Timezone)
	str("UPLOAD_DIR", &cfg.UploadDir)
	num("MAX_UPLOAD_MB", &cfg.MaxUploadMB)
	num("BCRYPT_COST", &cfg.BcryptCost)
	flag("REGISTRATION_ENABLED", &cfg.RegistrationEnabled)

	str("SESSION_SECRET", &cfg.Session.Secret)
	str("SESSION_STORE", &cfg.Session.Store)
	flag("COOKIE_SECURE", &cfg.Session.CookieSecure)
	if v, ok := lookup("SESSION_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SESSION_TTL: %w", err))
		} else {
			cfg.Session.TTL = d
		}
	}

	str("DB_DRIVER", &cfg.Database.Driver)
	str("DB_PATH", &cfg.Database.Path)
	str("DATABASE_URL", &cfg.Database.URL)
	str("DB_HOST", &cfg.Database.Host)
	str("DB_PORT", &cfg.Database.Port)
	str("DB_USER", &cfg.Database.User)
	str("DB_PASSWORD", &cfg.Database.Password)
	str("DB_NAME", &cfg.Database.Name)

	str("REDIS_ADDR", &cfg.Redis.Addr)
	str("REDIS_PASSWORD", &cfg.Redis.Password)
	num("REDIS_DB", &cfg.Redis.DB)

	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_PATH", &cfg.Log.Path)
	num("LOG_MAX_SIZE_MB", &cfg.Log.MaxSizeMB)
	num("LOG_MAX_BACKUPS", &cfg.Log.MaxBackups)
	num("LOG_MAX_AGE_DAYS", &cfg.Log.MaxAgeDays)
	flag("LOG_COMPRESS", &cfg.Log.Compress)

	return errors.Join(errs...)
}

// Validate checks values that would otherwise fail late at runtime.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Session.Store {
	case "sql", "redis":
	default:
		return fmt.Errorf("unsupported session store %q", c.Session.Store)
	}
	if c.Session.TTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if c.MaxUploadMB <= 0 {
		return errors.New("max upload size must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("bcrypt cost %d out of range 4..31", c.BcryptCost)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Addr returns the listen address for Port.
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// Location resolves Timezone, used to interpret form times without an offset.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// MaxUploadBytes is the request body limit for multipart item forms.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// DSN returns the data source name for the configured driver.
func (c DBConfig) DSN() string {
	if c.URL != "" {
		if c.Driver != "mysql" {
			return c.URL
		}
		// Scanning DATETIME columns into time.Time needs parseTime.
		mc, err := mysql.ParseDSN(c.URL)
		if err != nil {
			return c.URL
		}
		mc.ParseTime = true
		mc.Loc = time.UTC
		return mc.FormatDSN()
	}
	if c.Driver == "mysql" {
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.Host, c.Port)
		mc.DBName = c.Name
		mc.ParseTime = true
		mc.Loc = time.UTC
		return mc.FormatDSN()
	}
	return c.Path
}

// Redacted returns the DSN with any password masked, for logging.
func (c DBConfig) Redacted() string {
	dsn := c.DSN()
	if c.Driver != "mysql" {
		return dsn
	}
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "(unparseable dsn)"
	}
	u := url.URL{Scheme: "mysql", User: url.User(mc.User), Host: mc.Addr, Path: "/" + mc.DBName}
	return u.String()
}
