package config

import (
	"os"

	"github.com/Veraticus/cardspend/internal/sheets"
	"github.com/spf13/viper"
)

// sheetsSetting maps a sheets.* key, and optionally a GOOGLE_SHEETS_*
// fallback variable, onto a field of sheets.Config.
type sheetsSetting struct {
	key    string
	env    string
	field  func(*sheets.Config) *string
	isPath bool
}

var sheetsSettings = []sheetsSetting{
	{key: "sheets.service_account_path", env: "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", isPath: true,
		field: func(c *sheets.Config) *string { return &c.ServiceAccountPath }},
	{key: "sheets.client_id", env: "GOOGLE_SHEETS_CLIENT_ID",
		field: func(c *sheets.Config) *string { return &c.ClientID }},
	{key: "sheets.client_secret", env: "GOOGLE_SHEETS_CLIENT_SECRET",
		field: func(c *sheets.Config) *string { return &c.ClientSecret }},
	{key: "sheets.refresh_token", env: "GOOGLE_SHEETS_REFRESH_TOKEN",
		field: func(c *sheets.Config) *string { return &c.RefreshToken }},
	{key: "sheets.spreadsheet_id", env: "GOOGLE_SHEETS_SPREADSHEET_ID",
		field: func(c *sheets.Config) *string { return &c.SpreadsheetID }},
	{key: "sheets.spreadsheet_name",
		field: func(c *sheets.Config) *string { return &c.SpreadsheetName }},
	{key: "sheets.timezone",
		field: func(c *sheets.Config) *string { return &c.TimeZone }},
	{key: "sheets.token_file", isPath: true,
		field: func(c *sheets.Config) *string { return &c.TokenFile }},
}

// LoadSheetsConfig resolves the export settings. A sheets.* key (config
// file or CARDSPEND_SHEETS_* variable) wins over the matching
// GOOGLE_SHEETS_* variable, which wins over the default.
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()

	for _, s := range sheetsSettings {
		value := v.GetString(s.key)
		if value == "" && s.env != "" {
			value = os.Getenv(s.env)
		}
		if value == "" {
			continue
		}
		if s.isPath {
			value = ExpandPath(value)
		}
		*s.field(&cfg) = value
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
