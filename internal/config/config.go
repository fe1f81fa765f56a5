// Package config loads toyrobot settings from defaults, a YAML file, the
// environment and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fentz26/toyrobot/internal/engine"
)

// EnvPrefix prefixes environment overrides, e.g. TOYROBOT_BOARD_SIZE.
const EnvPrefix = "TOYROBOT"

// Config holds toyrobot settings.
type Config struct {
	// BoardSize is the side length of the square board.
	BoardSize int `mapstructure:"board_size" yaml:"board_size"`
	// Listen is the address the HTTP API binds to.
	Listen string `mapstructure:"listen" yaml:"listen"`
	// API is the base URL clients use to reach a running daemon.
	API string `mapstructure:"api" yaml:"api"`
	// AuditDB is the journal path. Empty disables the journal.
	AuditDB string `mapstructure:"audit_db" yaml:"audit_db"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// LogFile redirects logs; "-" discards them.
	LogFile string `mapstructure:"log_file" yaml:"log_file,omitempty"`
}

// ErrInvalid wraps validation failures.
var ErrInvalid = errors.New("invalid config")

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BoardSize: engine.DefaultSize,
		Listen:    "127.0.0.1:7467",
		API:       "http://127.0.0.1:7467",
		LogLevel:  "info",
	}
}

// Dir returns ~/.toyrobot.
func Dir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".toyrobot")
}

// DefaultPath returns ~/.toyrobot/config.yaml.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// SetDefaults registers Default() on v so that every key is known to viper
// and therefore overridable from the environment.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("board_size", d.BoardSize)
	v.SetDefault("listen", d.Listen)
	v.SetDefault("api", d.API)
	v.SetDefault("audit_db", d.AuditDB)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
}

// Load reads path (DefaultPath when empty) into v and decodes the result. A
// missing file is not an error; flags must already be bound on v.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !(errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if c.BoardSize < 1 {
		return fmt.Errorf("%w: board_size must be at least 1, got %d", ErrInvalid, c.BoardSize)
	}
	if c.Listen == "" {
		return fmt.Errorf("%w: listen must not be empty", ErrInvalid)
	}
	return nil
}

// Marshal renders c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Write saves c as YAML at path, creating the directory if needed.
func Write(path string, c *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
