package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/printforge/gangsheet/pkg/units"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gangsheet.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("explicit missing path must error")
	}

	// An unset path with no file present falls back to defaults.
	cwd, _ := os.Getwd()
	defer os.Chdir(cwd)
	os.Chdir(t.TempDir())
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load with no file = %v, want defaults", err)
	}
	if cfg.Store.Backend != StoreFile || cfg.Server.Addr != ":8080" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.DefaultDPI != 300 {
		t.Errorf("DefaultDPI = %v, want 300", cfg.DefaultDPI)
	}
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := writeConfig(t, `
default_unit = "centimeter"

[store]
backend = "redis"
redis_addr = "localhost:6379"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.DefaultUnit != "centimeter" {
		t.Errorf("DefaultUnit = %q", cfg.DefaultUnit)
	}
	if cfg.Store.Backend != StoreRedis || cfg.Store.RedisAddr != "localhost:6379" {
		t.Errorf("store config = %+v", cfg.Store)
	}
	// Untouched fields keep defaults.
	if cfg.DefaultDPI != 300 || cfg.Store.RedisPrefix != "gangsheet:" || cfg.Server.Addr != ":8080" {
		t.Errorf("defaults missing from partial load: %+v", cfg)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := writeConfig(t, "this is = not [valid toml")
	if _, err := Load(path); err == nil {
		t.Error("malformed config must error")
	}
}

func TestEnvOverridesPath(t *testing.T) {
	path := writeConfig(t, `default_dpi = 150.0`)
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.DefaultDPI != 150 {
		t.Errorf("DefaultDPI = %v, want 150 from env-pointed file", cfg.DefaultDPI)
	}
}

func TestSheetPresets(t *testing.T) {
	cfg := Default()
	if got := cfg.SheetPresets(); len(got) != 3 {
		t.Errorf("no configured presets should yield the 3 built-ins, got %d", len(got))
	}

	cfg.Presets = []SheetPreset{
		{Name: "A4", Width: 21, Height: 29.7, Unit: "centimeter", Price: 9.99, MaxItems: 20},
		{Name: "odd", Width: 5, Height: 5, Unit: "furlong"},
	}
	got := cfg.SheetPresets()
	if len(got) != 2 {
		t.Fatalf("got %d presets", len(got))
	}
	if got[0].Unit != units.Centimeter || got[0].ExportDPI != 300 {
		t.Errorf("A4 preset = %+v", got[0])
	}
	// Unknown units fall back to the configured default.
	if got[1].Unit != units.Inch {
		t.Errorf("invalid unit should fall back to default, got %q", got[1].Unit)
	}
}
