package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// StorageConfig selects and configures the key-value backend
type StorageConfig struct {
	Driver        string `yaml:"driver" json:"driver" env:"DRIVER"`             // sqlite, redis or memory
	Path          string `yaml:"path" json:"path" env:"PATH"`                   // SQLite file; defaults to <data_dir>/ironlist.db
	RedisAddr     string `yaml:"redis_addr" json:"redis_addr" env:"REDIS_ADDR"` // host:port
	RedisPassword string `yaml:"redis_password" json:"-" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" json:"redis_db" env:"REDIS_DB"`
	RedisPrefix   string `yaml:"redis_prefix" json:"redis_prefix" env:"REDIS_PREFIX"` // Prepended to every key
}

// Config holds user preferences and runtime settings
type Config struct {
	DataDir string        `yaml:"data_dir" json:"data_dir" env:"IRONLIST_DATA_DIR"`
	Storage StorageConfig `yaml:"storage" json:"storage" envPrefix:"IRONLIST_STORAGE_"`

	GracePeriod    time.Duration `yaml:"grace_period" json:"grace_period" env:"IRONLIST_GRACE_PERIOD"`          // Delay before a removed task is deleted
	NoticeDuration time.Duration `yaml:"notice_duration" json:"notice_duration" env:"IRONLIST_NOTICE_DURATION"` // How long "added to cart" stays visible
	Currency       string        `yaml:"currency" json:"currency" env:"IRONLIST_CURRENCY"`
	CatalogPath    string        `yaml:"catalog_path" json:"catalog_path" env:"IRONLIST_CATALOG_PATH"`
	HTTPAddr       string        `yaml:"http_addr" json:"http_addr" env:"IRONLIST_HTTP_ADDR"`
	ConfirmClear   bool          `yaml:"confirm_clear" json:"confirm_clear" env:"IRONLIST_CONFIRM_CLEAR"` // Ask before clearing the cart

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level" env:"IRONLIST_LOG_LEVEL"`       // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file" env:"IRONLIST_LOG_FILE"`          // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console" env:"IRONLIST_LOG_CONSOLE"` // Enable console logging
}

// DefaultDir returns ~/.ironlist
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".ironlist"
	}
	return filepath.Join(home, ".ironlist")
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	dir := DefaultDir()
	return &Config{
		DataDir: dir,
		Storage: StorageConfig{
			Driver:      DriverSQLite,
			RedisAddr:   "localhost:6379",
			RedisPrefix: "ironlist:",
		},
		GracePeriod:    300 * time.Millisecond,
		NoticeDuration: 3 * time.Second,
		Currency:       "KSh",
		HTTPAddr:       ":8080",
		ConfirmClear:   true,
		LogLevel:       "INFO",
		LogFile:        filepath.Join(dir, "logs", "ironlist.log"),
		LogConsole:     false,
	}
}

// Path returns the default config file location
func Path() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Load loads config from ~/.ironlist/config.yaml
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the YAML file at path over the defaults, then applies
// IRONLIST_* environment overrides. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate checks the settings that would otherwise fail later at runtime
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.GracePeriod <= 0 {
		return fmt.Errorf("grace_period must be positive, got %s", c.GracePeriod)
	}
	if c.NoticeDuration <= 0 {
		return fmt.Errorf("notice_duration must be positive, got %s", c.NoticeDuration)
	}
	return nil
}

// DBPath returns the SQLite file used by the sqlite driver
func (c *Config) DBPath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	return filepath.Join(c.DataDir, "ironlist.db")
}

// Catalog returns the product catalog file
func (c *Config) Catalog() string {
	if c.CatalogPath != "" {
		return c.CatalogPath
	}
	return filepath.Join(c.DataDir, "products.json")
}

// SaveTo writes the config as YAML
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Save saves config to ~/.ironlist/config.yaml
func (c *Config) Save() error {
	return c.SaveTo(Path())
}
