package tui

import (
	"time"

	"github.com/Veraticus/cardspend/internal/model"
	"github.com/Veraticus/cardspend/internal/service"
	"github.com/Veraticus/cardspend/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme       themes.Theme
	Service     service.TransactionService
	Preferences service.PreferenceStore
	// Roster is used when the service cannot list people.
	Roster         []model.Person
	LoadTimeout    time.Duration
	RequestTimeout time.Duration
	// StatusTimeout clears the status line after a notification. Zero keeps
	// messages until the next one.
	StatusTimeout time.Duration
	Width         int
	Height        int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:          themes.Default,
		Roster:         model.DefaultRoster(),
		LoadTimeout:    60 * time.Second,
		RequestTimeout: 30 * time.Second,
		StatusTimeout:  4 * time.Second,
		Width:          80,
		Height:         24,
	}
}

// WithService sets the remote transaction service.
func WithService(svc service.TransactionService) Option {
	return func(c *Config) {
		c.Service = svc
	}
}

// WithPreferences sets where filter state is persisted.
func WithPreferences(prefs service.PreferenceStore) Option {
	return func(c *Config) {
		c.Preferences = prefs
	}
}

// WithRoster sets the fallback roster.
func WithRoster(roster []model.Person) Option {
	return func(c *Config) {
		if len(roster) > 0 {
			c.Roster = roster
		}
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithTimeouts sets the bulk load and per-mutation request timeouts.
func WithTimeouts(load, request time.Duration) Option {
	return func(c *Config) {
		if load > 0 {
			c.LoadTimeout = load
		}
		if request > 0 {
			c.RequestTimeout = request
		}
	}
}

// WithStatusTimeout sets how long notifications stay on the status line.
func WithStatusTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.StatusTimeout = d
	}
}
