package rating_sync

import (
	"testing"
	"time"
)

func TestLoadModuleConfig_Defaults(t *testing.T) {
	t.Setenv("FACEIT_API_KEY", "key")

	cfg, err := LoadModuleConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.FaceitBaseURL != "https://open.faceit.com/data/v4" {
		t.Errorf("unexpected base URL %q", cfg.FaceitBaseURL)
	}
	if cfg.FaceitTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.FaceitTimeout)
	}
	if cfg.FaceitRetries != 3 {
		t.Errorf("expected 3 retries, got %d", cfg.FaceitRetries)
	}
	if cfg.RoleCacheTTL != 5*time.Minute {
		t.Errorf("expected 5m cache TTL, got %v", cfg.RoleCacheTTL)
	}
	if cfg.MaxIdentifierLength != 50 {
		t.Errorf("expected max length 50, got %d", cfg.MaxIdentifierLength)
	}
	if cfg.AllowedRoleName != "Verified" || cfg.CommandPrefix != "!elo" {
		t.Errorf("unexpected gate defaults: %q %q", cfg.AllowedRoleName, cfg.CommandPrefix)
	}
}

func TestLoadModuleConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing api key", map[string]string{"FACEIT_API_KEY": ""}},
		{"non numeric owner", map[string]string{"OWNER_ID": "admin"}},
		{"zero retries", map[string]string{"FACEIT_RETRIES": "0"}},
		{"zero retry delay", map[string]string{"FACEIT_RETRY_BASE_DELAY": "0s"}},
		{"bad base url", map[string]string{"FACEIT_BASE_URL": "not a url"}},
		{"zero cache ttl", map[string]string{"ROLE_CACHE_TTL": "0s"}},
		{"unparsable timeout", map[string]string{"FACEIT_TIMEOUT": "soon"}},
		{"missing tier table file", map[string]string{"TIER_TABLE_FILE": "/nonexistent/tiers.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FACEIT_API_KEY", "key")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := LoadModuleConfig(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
