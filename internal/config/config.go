// Package config loads the CLI configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/responses"
	"github.com/goliatone/go-formbuilder/pkg/store"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Storage drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Id sources.
const (
	IDsTime = "time"
	IDsUUID = "uuid"
)

// Config is the resolved CLI configuration.
type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	Validation ValidationConfig `yaml:"validation"`
	Responses  ResponsesConfig  `yaml:"responses"`
	Log        LogConfig        `yaml:"log"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	// IDs selects how form and field ids are issued: time (default) or uuid.
	IDs string `yaml:"ids"`
}

type ValidationConfig struct {
	// TextMaxLength caps plain text answers; 0 disables the cap. Absent means
	// the default of 20.
	TextMaxLength *int `yaml:"textMaxLength"`
	StrictOptions bool `yaml:"strictOptions"`
}

type ResponsesConfig struct {
	UnsavedPolicy string `yaml:"unsavedPolicy"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Overrides carries flag values. Empty strings and nil pointers leave the
// file or default value in place.
type Overrides struct {
	StorageDriver string
	StoragePath   string
	LogLevel      string
	TextMaxLength *int
}

// Default returns the configuration used when no file is present.
func Default() Config {
	limit := validation.DefaultTextMaxLength
	return Config{
		Storage:    StorageConfig{Driver: DriverFile, IDs: IDsTime},
		Validation: ValidationConfig{TextMaxLength: &limit},
		Responses:  ResponsesConfig{UnsavedPolicy: string(responses.RejectUnsaved)},
		Log:        LogConfig{Level: "info"},
	}
}

// Dir returns the per-user formbuilder directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".formbuilder"), nil
}

// DefaultPath returns the location of the config file used when none is
// named explicitly.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads path over the defaults. An empty path reads DefaultPath and
// tolerates its absence; a named file must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Apply layers flag overrides on top of cfg.
func (c Config) Apply(o Overrides) Config {
	if o.StorageDriver != "" {
		c.Storage.Driver = o.StorageDriver
	}
	if o.StoragePath != "" {
		c.Storage.Path = o.StoragePath
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.TextMaxLength != nil {
		limit := *o.TextMaxLength
		c.Validation.TextMaxLength = &limit
	}
	return c
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	switch strings.ToLower(c.Storage.Driver) {
	case DriverFile, DriverSQLite, DriverMemory, "":
	default:
		return fmt.Errorf("unknown storage driver %q (want file, sqlite or memory)", c.Storage.Driver)
	}
	switch strings.ToLower(strings.TrimSpace(c.Storage.IDs)) {
	case IDsTime, IDsUUID, "":
	default:
		return fmt.Errorf("unknown id source %q (want time or uuid)", c.Storage.IDs)
	}
	if c.Validation.TextMaxLength != nil && *c.Validation.TextMaxLength < 0 {
		return fmt.Errorf("validation.textMaxLength must not be negative")
	}
	if _, err := responses.ParsePolicy(c.Responses.UnsavedPolicy); err != nil {
		return err
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Driver returns the normalised storage driver.
func (c Config) Driver() string {
	driver := strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if driver == "" {
		return DriverFile
	}
	return driver
}

// StoragePath returns the configured path or the per-driver default: Dir
// itself for the file driver, Dir/state.db for sqlite.
func (c Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if c.Driver() == DriverSQLite {
		return filepath.Join(dir, "state.db"), nil
	}
	return dir, nil
}

// IDSource returns the configured store id source.
func (c Config) IDSource() store.IDSource {
	if strings.EqualFold(strings.TrimSpace(c.Storage.IDs), IDsUUID) {
		return store.UUIDSource{}
	}
	return store.NewTimeIDSource(nil)
}

// TextMaxLength returns the effective plain text limit.
func (c Config) TextMaxLength() int {
	if c.Validation.TextMaxLength == nil {
		return validation.DefaultTextMaxLength
	}
	return *c.Validation.TextMaxLength
}

// ValidationOptions converts the validation section into engine options.
func (c Config) ValidationOptions() []validation.Option {
	opts := []validation.Option{validation.WithTextMaxLength(c.TextMaxLength())}
	if c.Validation.StrictOptions {
		opts = append(opts, validation.WithStrictOptions())
	}
	return opts
}

// Policy returns the unsaved-form response policy.
func (c Config) Policy() responses.Policy {
	policy, err := responses.ParsePolicy(c.Responses.UnsavedPolicy)
	if err != nil {
		return responses.RejectUnsaved
	}
	return policy
}

// ParseLevel resolves debug, info, warn or error. An empty value is info.
func ParseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", raw)
	}
}
