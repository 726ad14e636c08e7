package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("got %+v, want defaults", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config was not written: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
max_limit = 10
case_insensitive = true

[dict]
max_words = 500
normalize = false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.MaxLimit != 10 || !cfg.Server.CaseInsensitive {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Dict.MaxWords != 500 || cfg.Dict.Normalize {
		t.Errorf("dict = %+v", cfg.Dict)
	}
	// unset keys keep their defaults
	if cfg.Server.MaxPrefix != 60 || cfg.Dict.CacheSize != 2048 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
max_limit = "lots"
min_prefix = 2

[cli]
default_limit = 5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.MaxLimit != 64 {
		t.Errorf("bad max_limit should fall back to default, got %d", cfg.Server.MaxLimit)
	}
	if cfg.Server.MinPrefix != 2 {
		t.Errorf("min_prefix = %d, want 2", cfg.Server.MinPrefix)
	}
	if cfg.CLI.DefaultLimit != 5 {
		t.Errorf("default_limit = %d, want 5", cfg.CLI.DefaultLimit)
	}
}

func TestLoadConfigGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server\nmax_limit = = 3"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.MaxLimit = 0
	cfg.Server.MinPrefix = 5
	cfg.Server.MaxPrefix = 3
	cfg.Dict.MaxWords = -1
	cfg.CLI.DefaultLimit = -3

	cfg.Validate()

	if cfg.Server.MaxLimit != 64 {
		t.Errorf("MaxLimit = %d", cfg.Server.MaxLimit)
	}
	if cfg.Server.MaxPrefix != 60 {
		t.Errorf("MaxPrefix = %d", cfg.Server.MaxPrefix)
	}
	if cfg.Dict.MaxWords != 0 {
		t.Errorf("MaxWords = %d", cfg.Dict.MaxWords)
	}
	if cfg.CLI.DefaultLimit != 24 {
		t.Errorf("DefaultLimit = %d", cfg.CLI.DefaultLimit)
	}
}

func TestUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()

	limit := 12
	fold := true
	if err := cfg.Update(path, &limit, nil, nil, &fold); err != nil {
		t.Fatalf("Update: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Server.MaxLimit != 12 || !loaded.Server.CaseInsensitive {
		t.Errorf("update not saved: %+v", loaded.Server)
	}
	if loaded.Server.MinPrefix != 1 {
		t.Errorf("nil fields should be left alone, MinPrefix = %d", loaded.Server.MinPrefix)
	}
}
