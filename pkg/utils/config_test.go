package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"FIXHUB_CONFIG", "FIXHUB_DATA", "FIXHUB_HTTP_ADDR", "FIXHUB_FEED_ADDR", "FIXHUB_LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, DefaultConfig())
	}
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixhub.yaml")
	content := "data_path: /srv/fixhub/solutions.json\nhttp_addr: \":9090\"\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FIXHUB_CONFIG", path)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.DataPath != "/srv/fixhub/solutions.json" {
		t.Errorf("DataPath = %q", cfg.DataPath)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	// untouched keys keep their defaults
	if cfg.FeedAddr != ":7070" {
		t.Errorf("FeedAddr = %q, want default", cfg.FeedAddr)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixhub.yaml")
	if err := os.WriteFile(path, []byte("http_addr: \":9090\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FIXHUB_CONFIG", path)
	t.Setenv("FIXHUB_HTTP_ADDR", ":9999")
	t.Setenv("FIXHUB_DATA", "other.json")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.HTTPAddr != ":9999" {
		t.Errorf("HTTPAddr = %q, env must win over file", cfg.HTTPAddr)
	}
	if cfg.DataPath != "other.json" {
		t.Errorf("DataPath = %q", cfg.DataPath)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	t.Setenv("FIXHUB_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := LoadConfig(); err == nil {
		t.Error("expected an error for a missing config file")
	}
}
