package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := Config{
		P4Binary: "p4",
		Syntax:   "relative",
		Format:   "text",
		Color:    "auto",
		Theme:    "auto",
		Timeout:  30 * time.Second,
		Watch:    true,
	}
	if *cfg != want {
		t.Fatalf("Load() = %+v, want %+v", *cfg, want)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "p4_binary: /opt/p4/bin/p4\nformat: yaml\ntimeout: 5s\nwatch: false\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("P4X_FORMAT", "json")
	t.Setenv("P4X_SYNTAX", "depot")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.P4Binary != "/opt/p4/bin/p4" {
		t.Fatalf("P4Binary = %q", cfg.P4Binary)
	}
	if cfg.Format != "json" {
		t.Fatalf("env should override file, Format = %q", cfg.Format)
	}
	if cfg.Syntax != "depot" {
		t.Fatalf("Syntax = %q", cfg.Syntax)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("Timeout = %v", cfg.Timeout)
	}
	if cfg.Watch {
		t.Fatal("Watch should be false")
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "ok", cfg: Config{Format: "TEXT", Color: "never", Theme: "dark"}},
		{name: "bad_format", cfg: Config{Format: "xml", Color: "auto", Theme: "auto"}, wantErr: true},
		{name: "bad_color", cfg: Config{Format: "text", Color: "rainbow", Theme: "auto"}, wantErr: true},
		{name: "bad_theme", cfg: Config{Format: "text", Color: "auto", Theme: "solarized"}, wantErr: true},
		{name: "negative_timeout", cfg: Config{Format: "text", Color: "auto", Theme: "auto", Timeout: -time.Second}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := tt.cfg
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
