package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `{"boss_list":[{"name":"Iron Warden","level":5,"max_hp":1000}]}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Bosses) != 1 || cfg.Bosses[0].Name != "Iron Warden" {
		t.Fatalf("unexpected bosses %+v", cfg.Bosses)
	}
	if cfg.ServerAddress != ":8080" {
		t.Fatalf("expected default address, got %q", cfg.ServerAddress)
	}
	if cfg.FleeCost != 50 || cfg.SweepIntervalMinutes != 10 || cfg.SessionStore != "memory" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadConfig_Rejections(t *testing.T) {
	cases := map[string]string{
		"empty boss list":   `{"boss_list":[]}`,
		"missing name":      `{"boss_list":[{"level":5,"max_hp":1000}]}`,
		"duplicate name":    `{"boss_list":[{"name":"A","level":1,"max_hp":100},{"name":"a","level":2,"max_hp":200}]}`,
		"non-positive hp":   `{"boss_list":[{"name":"A","level":1,"max_hp":0}]}`,
		"bad session store": `{"boss_list":[{"name":"A","level":1,"max_hp":100}],"session_store":"redis"}`,
	}
	for name, body := range cases {
		if _, err := LoadConfig(writeConfig(t, body)); err == nil {
			t.Fatalf("expected %s to be rejected", name)
		}
	}
}
