// Package sheets exports the transaction view to Google Sheets.
package sheets

import (
	"errors"
	"time"
)

// AuthMethod names how the writer authenticates to Google.
type AuthMethod string

// Supported auth methods.
const (
	AuthOAuth          AuthMethod = "oauth"
	AuthServiceAccount AuthMethod = "service_account"
)

// Config errors.
var (
	ErrNoAuth        = errors.New("no authentication method configured")
	ErrAmbiguousAuth = errors.New("multiple authentication methods configured; use either OAuth2 or service account")
)

// Credentials are either an OAuth client plus refresh token or a service
// account key file, never both.
type Credentials struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
}

// Method reports which auth method c configures.
func (c Credentials) Method() (AuthMethod, error) {
	oauth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	account := c.ServiceAccountPath != ""
	switch {
	case oauth && account:
		return "", ErrAmbiguousAuth
	case oauth:
		return AuthOAuth, nil
	case account:
		return AuthServiceAccount, nil
	default:
		return "", ErrNoAuth
	}
}

// Config controls where and how a report is written.
type Config struct {
	Credentials

	// SpreadsheetID selects an existing spreadsheet. Empty creates a new
	// one named SpreadsheetName.
	SpreadsheetID   string
	SpreadsheetName string
	TimeZone        string
	TokenFile       string

	BatchSize        int
	RetryAttempts    int
	RetryDelay       time.Duration
	EnableFormatting bool
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName:  "Card Spending",
		TimeZone:         "America/New_York",
		BatchSize:        1000,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
		EnableFormatting: true,
	}
}

// Validate checks credentials and batching settings.
func (c *Config) Validate() error {
	if _, err := c.Method(); err != nil {
		return err
	}
	switch {
	case c.BatchSize <= 0:
		return errors.New("batch size must be positive")
	case c.RetryAttempts < 0:
		return errors.New("retry attempts cannot be negative")
	case c.RetryDelay < 0:
		return errors.New("retry delay cannot be negative")
	}
	return nil
}
