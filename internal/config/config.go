// Package config loads the typed application configuration from viper.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/cardspend/internal/common"
	"github.com/Veraticus/cardspend/internal/model"
	"github.com/Veraticus/cardspend/internal/service"
	"github.com/Veraticus/cardspend/internal/storage"
	"github.com/Veraticus/cardspend/internal/tui/themes"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Default values for keys the config file may leave out.
const (
	DefaultBaseURL        = "http://127.0.0.1:8000"
	DefaultTimeout        = 60 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	DefaultRetryAttempts  = 3
	DefaultDir            = "~/.config/cardspend"
)

// Config is the resolved application configuration.
type Config struct {
	Logging LoggingConfig
	State   StateConfig
	API     APIConfig
	TUI     TUIConfig
	Roster  []model.Person
}

// TUIConfig holds display settings for the interactive browser.
type TUIConfig struct {
	Theme string
}

// APIConfig describes how to reach the transaction service.
type APIConfig struct {
	BaseURL string
	// Timeout bounds a whole HTTP exchange; RequestTimeout bounds one
	// update or delete issued by the edit workflow.
	Timeout        time.Duration
	RequestTimeout time.Duration
	RetryAttempts  int
}

// StateConfig selects where filter preferences are kept.
type StateConfig struct {
	Backend string
	Path    string
}

// LoggingConfig mirrors the logging.* keys.
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.timeout", DefaultTimeout)
	v.SetDefault("api.request_timeout", DefaultRequestTimeout)
	v.SetDefault("api.retry_attempts", DefaultRetryAttempts)
	v.SetDefault("state.backend", storage.BackendSQLite)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("tui.theme", "default")
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		API: APIConfig{
			BaseURL:        v.GetString("api.base_url"),
			Timeout:        v.GetDuration("api.timeout"),
			RequestTimeout: v.GetDuration("api.request_timeout"),
			RetryAttempts:  v.GetInt("api.retry_attempts"),
		},
		State: StateConfig{
			Backend: v.GetString("state.backend"),
			Path:    ExpandPath(v.GetString("state.path")),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
			File:   ExpandPath(v.GetString("logging.file")),
		},
		TUI:    TUIConfig{Theme: v.GetString("tui.theme")},
		Roster: model.RosterFromNames(v.GetStringSlice("roster")),
	}

	if cfg.State.Path == "" {
		cfg.State.Path = defaultStatePath(cfg.State.Backend)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: api.base_url %q", common.ErrInvalidConfig, c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", common.ErrInvalidConfig)
	}
	if c.API.RequestTimeout <= 0 {
		return fmt.Errorf("%w: api.request_timeout must be positive", common.ErrInvalidConfig)
	}
	if c.API.RetryAttempts < 1 {
		return fmt.Errorf("%w: api.retry_attempts must be at least 1", common.ErrInvalidConfig)
	}
	switch c.State.Backend {
	case storage.BackendSQLite, storage.BackendDiskv:
	default:
		return fmt.Errorf("%w: state.backend %q", common.ErrInvalidConfig, c.State.Backend)
	}
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if _, err := themes.ByName(c.TUI.Theme); err != nil {
		return fmt.Errorf("%w: tui.theme: %w", common.ErrInvalidConfig, err)
	}
	return nil
}

// RetryOptions returns the retry policy for read-only requests.
func (c *Config) RetryOptions() service.RetryOptions {
	opts := service.DefaultRetryOptions()
	opts.MaxAttempts = c.API.RetryAttempts
	return opts
}

// RosterOrDefault returns the configured roster, or the built-in one when
// none is configured.
func (c *Config) RosterOrDefault() []model.Person {
	if len(c.Roster) == 0 {
		return model.DefaultRoster()
	}
	return c.Roster
}

func defaultStatePath(backend string) string {
	dir := ExpandPath(DefaultDir)
	if backend == storage.BackendDiskv {
		return filepath.Join(dir, "state")
	}
	return filepath.Join(dir, "state.db")
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if expanded, err := homedir.Expand(path); err == nil {
		path = expanded
	}

	return os.ExpandEnv(path)
}
