package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	w := cfg.Web
	if w.Addr() != "127.0.0.1:5000" {
		t.Errorf("Addr() = %q, want 127.0.0.1:5000", w.Addr())
	}
	if !w.Debug {
		t.Error("expected debug mode on by default")
	}
	if w.TemplatesDir != "templates" || w.IndexTemplate != "index.html" {
		t.Errorf("unexpected template location %s/%s", w.TemplatesDir, w.IndexTemplate)
	}
	if err := w.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "homepage.toml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadOverlaysDefaults(t *testing.T) {
	p := writeConfig(t, `
[web]
port = 8080
debug = false
reload_interval = "250ms"
log_file = "homepage.log"
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	w := cfg.Web
	if w.Port != 8080 {
		t.Errorf("Port = %d, want 8080", w.Port)
	}
	if w.Debug {
		t.Error("Debug = true, want false")
	}
	if w.ReloadInterval != 250*time.Millisecond {
		t.Errorf("ReloadInterval = %s, want 250ms", w.ReloadInterval)
	}
	if w.LogFile != "homepage.log" {
		t.Errorf("LogFile = %q", w.LogFile)
	}
	// untouched keys keep their defaults
	if w.Host != DefaultHost || w.TemplatesDir != DefaultTemplatesDir {
		t.Errorf("defaults lost: host=%q templates=%q", w.Host, w.TemplatesDir)
	}
	if w.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("ShutdownTimeout = %s", w.ShutdownTimeout)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeConfig(t, "[web\nport = ")); err == nil {
		t.Error("expected error for malformed toml")
	}
	_, err := Load(writeConfig(t, "[web]\nshutdown_timeout = \"soon\"\n"))
	if err == nil || !strings.Contains(err.Error(), "shutdown_timeout") {
		t.Errorf("expected shutdown_timeout error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(w *WebConfig)
		want   string
	}{
		{"port zero", func(w *WebConfig) { w.Port = 0 }, "invalid port"},
		{"port too high", func(w *WebConfig) { w.Port = 70000 }, "invalid port"},
		{"empty host", func(w *WebConfig) { w.Host = "" }, "host"},
		{"empty templates dir", func(w *WebConfig) { w.TemplatesDir = "" }, "templates dir"},
		{"empty index", func(w *WebConfig) { w.IndexTemplate = "" }, "index template"},
		{"zero reload", func(w *WebConfig) { w.ReloadInterval = 0 }, "reload interval"},
		{"negative shutdown", func(w *WebConfig) { w.ShutdownTimeout = -time.Second }, "shutdown timeout"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := NewDefaultConfig().Web
			tc.mutate(w)
			err := w.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, tc.want)
			}
		})
	}
}

func TestAddrIPv6(t *testing.T) {
	w := NewDefaultConfig().Web
	w.Host = "::1"
	if got := w.Addr(); got != "[::1]:5000" {
		t.Errorf("Addr() = %q, want [::1]:5000", got)
	}
}
