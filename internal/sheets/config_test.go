package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	oauthCreds   = Credentials{ClientID: "client", ClientSecret: "secret", RefreshToken: "refresh"}
	accountCreds = Credentials{ServiceAccountPath: "/keys/sheets.json"}
)

func TestCredentials_Method(t *testing.T) {
	tests := []struct {
		name    string
		creds   Credentials
		want    AuthMethod
		wantErr error
	}{
		{name: "oauth", creds: oauthCreds, want: AuthOAuth},
		{name: "service account", creds: accountCreds, want: AuthServiceAccount},
		{name: "nothing", wantErr: ErrNoAuth},
		{name: "oauth missing secret", creds: Credentials{ClientID: "client", RefreshToken: "refresh"}, wantErr: ErrNoAuth},
		{
			name:    "both",
			creds:   Credentials{ClientID: "client", ClientSecret: "secret", RefreshToken: "refresh", ServiceAccountPath: "/k.json"},
			wantErr: ErrAmbiguousAuth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.creds.Method()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		errMsg string
		config Config
	}{
		{name: "oauth", config: Config{Credentials: oauthCreds, BatchSize: 100, RetryAttempts: 3, RetryDelay: time.Second}},
		{name: "service account with zero retries", config: Config{Credentials: accountCreds, BatchSize: 100}},
		{name: "missing auth", config: Config{BatchSize: 100}, errMsg: "no authentication method configured"},
		{name: "zero batch size", config: Config{Credentials: accountCreds}, errMsg: "batch size must be positive"},
		{name: "negative retries", config: Config{Credentials: accountCreds, BatchSize: 10, RetryAttempts: -1}, errMsg: "retry attempts cannot be negative"},
		{name: "negative delay", config: Config{Credentials: accountCreds, BatchSize: 10, RetryDelay: -time.Second}, errMsg: "retry delay cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 1000, cfg.BatchSize)
	assert.Equal(t, "Card Spending", cfg.SpreadsheetName)
	assert.True(t, cfg.EnableFormatting)

	_, err := cfg.Method()
	assert.ErrorIs(t, err, ErrNoAuth)
}
