package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/responses"
	"github.com/goliatone/go-formbuilder/pkg/store"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: sqlite
  path: /tmp/forms.db
validation:
  textMaxLength: 0
  strictOptions: true
responses:
  unsavedPolicy: autosave
log:
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Driver() != DriverSQLite {
		t.Errorf("expected sqlite driver, got %q", cfg.Driver())
	}
	if got, _ := cfg.StoragePath(); got != "/tmp/forms.db" {
		t.Errorf("unexpected storage path %q", got)
	}
	if cfg.TextMaxLength() != 0 {
		t.Errorf("expected text limit disabled, got %d", cfg.TextMaxLength())
	}
	if len(cfg.ValidationOptions()) != 2 {
		t.Errorf("expected text limit and strict options, got %d options", len(cfg.ValidationOptions()))
	}
	if cfg.Policy() != responses.AutoSave {
		t.Errorf("expected autosave policy, got %q", cfg.Policy())
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected debug level, got %q", cfg.Log.Level)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log:\n  level: warn\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TextMaxLength() != 20 {
		t.Errorf("expected default text limit 20, got %d", cfg.TextMaxLength())
	}
	if cfg.Driver() != DriverFile {
		t.Errorf("expected file driver, got %q", cfg.Driver())
	}
	if cfg.Policy() != responses.RejectUnsaved {
		t.Errorf("expected reject policy, got %q", cfg.Policy())
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "driver", body: "storage:\n  driver: redis\n", want: "unknown storage driver"},
		{name: "policy", body: "responses:\n  unsavedPolicy: drop\n", want: "unknown unsaved-form policy"},
		{name: "level", body: "log:\n  level: loud\n", want: "invalid log level"},
		{name: "ids", body: "storage:\n  ids: serial\n", want: "unknown id source"},
		{name: "limit", body: "validation:\n  textMaxLength: -1\n", want: "must not be negative"},
		{name: "yaml", body: "storage: [\n", want: "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestConfig_IDSource(t *testing.T) {
	cfg, err := Load(writeConfig(t, "storage:\n  ids: UUID\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := cfg.IDSource().(store.UUIDSource); !ok {
		t.Fatalf("expected uuid source, got %T", cfg.IDSource())
	}
	if _, ok := Default().IDSource().(*store.TimeIDSource); !ok {
		t.Fatalf("expected time source by default, got %T", Default().IDSource())
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit file")
	}
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	path, err := cfg.StoragePath()
	if err != nil {
		t.Fatalf("storage path: %v", err)
	}
	if filepath.Base(path) != ".formbuilder" {
		t.Fatalf("unexpected default storage path %q", path)
	}
}

func TestApply_FlagsWin(t *testing.T) {
	limit := 50
	cfg := Default().Apply(Overrides{
		StorageDriver: DriverMemory,
		LogLevel:      "error",
		TextMaxLength: &limit,
	})
	if cfg.Driver() != DriverMemory || cfg.Log.Level != "error" || cfg.TextMaxLength() != 50 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if Default().TextMaxLength() != 20 {
		t.Fatalf("apply must not mutate defaults")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelInfo,
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for raw, want := range tests {
		got, err := ParseLevel(raw)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", raw, got, err, want)
		}
	}
	if _, err := ParseLevel("trace"); err == nil {
		t.Errorf("expected error for unknown level")
	}
}
