package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-go/recipes/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// chdir moves into an empty directory so no stray recipes.yaml is found.
func chdir(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Upload.MaxFileSize != 10*1024*1024 {
		t.Errorf("Upload.MaxFileSize = %d", cfg.Upload.MaxFileSize)
	}
	if len(cfg.Upload.AllowedTypes) != 0 {
		t.Errorf("Upload.AllowedTypes = %v, want none", cfg.Upload.AllowedTypes)
	}
	if cfg.Session.IdleTimeout != 30*time.Minute || cfg.Session.MaxSessions != 10000 {
		t.Errorf("Session = %+v", cfg.Session)
	}
	if cfg.Resource.MaxPerSession != 64 {
		t.Errorf("Resource.MaxPerSession = %d", cfg.Resource.MaxPerSession)
	}
	if !cfg.Metrics.Enabled || cfg.Tracing.Enabled {
		t.Errorf("Metrics = %+v, Tracing = %+v", cfg.Metrics, cfg.Tracing)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoad_NoFile(t *testing.T) {
	chdir(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.File() != "" {
		t.Errorf("File() = %q, want empty", cfg.File())
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeFile(t, "recipes.yaml", `
server:
  addr: "127.0.0.1:9090"
  shutdown_timeout: 3s
upload:
  max_file_size: 2048
  allowed_types: ["image/*", "application/pdf"]
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.File() != path {
		t.Errorf("File() = %q, want %q", cfg.File(), path)
	}
	if cfg.Server.Addr != "127.0.0.1:9090" || cfg.Server.ShutdownTimeout != 3*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
	// Unset keys keep their defaults.
	if cfg.Server.ReadHeaderTimeout != 5*time.Second {
		t.Errorf("Server.ReadHeaderTimeout = %v", cfg.Server.ReadHeaderTimeout)
	}
	if cfg.Upload.MaxFileSize != 2048 {
		t.Errorf("Upload.MaxFileSize = %d", cfg.Upload.MaxFileSize)
	}
	if strings.Join(cfg.Upload.AllowedTypes, ",") != "image/*,application/pdf" {
		t.Errorf("Upload.AllowedTypes = %v", cfg.Upload.AllowedTypes)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoad_DefaultFileInWorkingDir(t *testing.T) {
	chdir(t)
	if err := os.WriteFile("recipes.yaml", []byte("session:\n  max_sessions: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session.MaxSessions != 5 {
		t.Errorf("Session.MaxSessions = %d, want 5", cfg.Session.MaxSessions)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "recipes.yaml", "server:\n  addr: \":9000\"\n")
	t.Setenv("RECIPES_SERVER_ADDR", ":7000")
	t.Setenv("RECIPES_UPLOAD_MAX_FILE_SIZE", "4096")
	t.Setenv("RECIPES_UPLOAD_ALLOWED_TYPES", "image/png, image/jpeg")
	t.Setenv("RECIPES_SESSION_IDLE_TIMEOUT", "90s")
	t.Setenv("RECIPES_METRICS_ENABLED", "false")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Server.Addr = %q, want env value", cfg.Server.Addr)
	}
	if cfg.Upload.MaxFileSize != 4096 {
		t.Errorf("Upload.MaxFileSize = %d", cfg.Upload.MaxFileSize)
	}
	if strings.Join(cfg.Upload.AllowedTypes, ",") != "image/png,image/jpeg" {
		t.Errorf("Upload.AllowedTypes = %q", cfg.Upload.AllowedTypes)
	}
	if cfg.Session.IdleTimeout != 90*time.Second {
		t.Errorf("Session.IdleTimeout = %v", cfg.Session.IdleTimeout)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled not overridden")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		code string
	}{
		{
			name: "missing explicit file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") },
			code: "E200",
		},
		{
			name: "malformed file",
			path: func(t *testing.T) string { return writeFile(t, "bad.yaml", "server: [unclosed") },
			code: "E200",
		},
		{
			name: "invalid value",
			path: func(t *testing.T) string { return writeFile(t, "v.yaml", "log:\n  level: loud\n") },
			code: "E202",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t))
			if !errors.HasCode(err, tt.code) {
				t.Errorf("Load error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		code   string
		field  string
	}{
		{"bad addr", func(c *Config) { c.Server.Addr = "8080" }, "E300", "server.addr"},
		{"zero shutdown", func(c *Config) { c.Server.ShutdownTimeout = 0 }, "E201", "server.shutdown_timeout"},
		{"negative idle", func(c *Config) { c.Session.IdleTimeout = -time.Second }, "E201", "session.idle_timeout"},
		{"zero upload size", func(c *Config) { c.Upload.MaxFileSize = 0 }, "E100", "upload.max_file_size"},
		{"bare type", func(c *Config) { c.Upload.AllowedTypes = []string{"image"} }, "E101", "upload.allowed_types"},
		{"wildcard major", func(c *Config) { c.Upload.AllowedTypes = []string{"*/png"} }, "E101", "upload.allowed_types"},
		{"zero sessions", func(c *Config) { c.Session.MaxSessions = 0 }, "E204", "session.max_sessions"},
		{"zero resources", func(c *Config) { c.Resource.MaxPerSession = 0 }, "E204", "resource.max_per_session"},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, "E202", "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "E203", "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			ae, ok := err.(*errors.AppError)
			if !ok {
				t.Fatalf("Validate() = %v, want *errors.AppError", err)
			}
			if ae.Code != tt.code || ae.Field != tt.field {
				t.Errorf("Validate() = %s on %q, want %s on %q", ae.Code, ae.Field, tt.code, tt.field)
			}
		})
	}

	ok := Default()
	ok.Upload.AllowedTypes = []string{"image/*", "application/pdf"}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid patterns rejected: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info line logged at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("json output = %q", out)
	}

	buf.Reset()
	text, _ := LogConfig{Level: "info", Format: "text"}.NewLogger(&buf)
	text.Info("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("text output = %q", buf.String())
	}
}
