package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sasutils/sastopo2svg/pkg/errors"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg.Outdir != want.Outdir || cfg.Listen != want.Listen {
		t.Errorf("missing file did not yield defaults: %+v", cfg)
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
outdir = "/var/tmp/topo"
formats = ["svg", "html", "json"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Outdir != "/var/tmp/topo" {
		t.Errorf("Outdir = %q", cfg.Outdir)
	}
	if len(cfg.Formats) != 3 || cfg.Formats[2] != "json" {
		t.Errorf("Formats = %v", cfg.Formats)
	}
	// Unset keys keep their defaults.
	if cfg.Listen != "localhost:8080" {
		t.Errorf("Listen = %q, want default", cfg.Listen)
	}
}

func TestLoadBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("outdir = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %q, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestPathHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	path, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join("/custom/config", "sastopo2svg", "config.toml")
	if path != want {
		t.Errorf("Path() = %q, want %q", path, want)
	}
}
