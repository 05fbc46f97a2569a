package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Backend  BackendConfig  `toml:"backend"`
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
}

// BackendConfig describes how to reach the search / playlist / auth API.
type BackendConfig struct {
	URL            string  `toml:"url"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RateLimit      float64 `toml:"rate_limit"`
	RateBurst      int     `toml:"rate_burst"`
}

// Timeout returns the per-request timeout, defaulting to 15 seconds.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the local callback view and landing page.
type ServerConfig struct {
	Host                string `toml:"host"`
	Port                int    `toml:"port"`
	LandingPath         string `toml:"landing_path"`
	LoginTimeoutSeconds int    `toml:"login_timeout_seconds"`
}

// Addr returns host:port for [http.Server].
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoginTimeout is how long the CLI waits for the provider to redirect back.
func (s ServerConfig) LoginTimeout() time.Duration {
	if s.LoginTimeoutSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(s.LoginTimeoutSeconds) * time.Second
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Validate reports the first setting that would make the client unusable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: backend.url %q must be an absolute URL", ErrInvalidConfig, c.Backend.URL)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Backend.RateLimit < 0 {
		return fmt.Errorf("%w: backend.rate_limit must not be negative", ErrInvalidConfig)
	}
	if err := validateLandingPath(c.Server.LandingPath); err != nil {
		return err
	}
	return nil
}

// ReservedPaths are the local server's own routes; the landing page cannot take one of them.
var ReservedPaths = []string{"/login", "/logout", "/callback", "/api/session"}

// validateLandingPath accepts an empty path (meaning "/") or an absolute path
// without a query, fragment or pattern syntax that does not shadow a reserved route.
func validateLandingPath(p string) error {
	if p == "" {
		return nil
	}
	if !strings.HasPrefix(p, "/") {
		return fmt.Errorf("%w: server.landing_path %q must start with /", ErrInvalidConfig, p)
	}
	if strings.ContainsAny(p, "?#{} \t") {
		return fmt.Errorf("%w: server.landing_path %q must be a plain path", ErrInvalidConfig, p)
	}

	trimmed := strings.TrimRight(p, "/")
	for _, reserved := range ReservedPaths {
		if trimmed == reserved {
			return fmt.Errorf("%w: server.landing_path %q is a reserved route", ErrInvalidConfig, p)
		}
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their defaults from the embedded example config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// LoadConfigOrDefault loads path, falling back to [DefaultConfig] only when the file does not exist.
//
// Any other failure to reach the file is returned.
func LoadConfigOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return LoadConfig(path)
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
