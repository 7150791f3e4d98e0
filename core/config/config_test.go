package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Sheets.CredentialsFile = "creds.json"
	cfg.Sheets.Spreadsheet = "Заявки"
	return cfg
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %q, want longpoll", cfg.Telegram.RunMode)
	}
	if cfg.Sheets.Worksheet != "Лист1" {
		t.Fatalf("worksheet = %q, want Лист1", cfg.Sheets.Worksheet)
	}
}

func TestNormalizeAcceptsPollingAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %q, want longpoll", cfg.Telegram.RunMode)
	}
}

func TestNormalizeRequiredFields(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"missing token", func(c *Config) { c.Telegram.Token = "" }, "token"},
		{"missing creds", func(c *Config) { c.Sheets.CredentialsFile = "" }, "credentials_file"},
		{"missing spreadsheet", func(c *Config) { c.Sheets.Spreadsheet = "" }, "spreadsheet"},
		{"bad run mode", func(c *Config) { c.Telegram.RunMode = "carrier-pigeon" }, "run_mode"},
		{"webhook without url", func(c *Config) { c.Telegram.RunMode = "webhook" }, "webhook.url"},
		{"db enabled without host", func(c *Config) { c.Database.Enabled = true }, "database"},
		{"bad exclusion", func(c *Config) { c.RateLimit.ExcludeUpdates = []string{"carrier"} }, "exclude_updates"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := Normalize(cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestNormalizeDatabaseDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Enabled = true
	cfg.Database.Host = "localhost"
	cfg.Database.Name = "leads"
	cfg.Database.User = "bot"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Database.Port != "5432" || cfg.Database.SSLMode != "disable" || cfg.Database.MaxConnections != 4 {
		t.Fatalf("unexpected database defaults: %+v", cfg.Database)
	}
}
