// Package cli implements the formbuilder command tree. Every command restores
// the persisted builder state, runs store operations and persists the result
// when it changed anything.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/goliatone/go-formbuilder/internal/config"
	"github.com/goliatone/go-formbuilder/pkg/filler"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
	"github.com/goliatone/go-formbuilder/pkg/responses"
	"github.com/goliatone/go-formbuilder/pkg/storage"
	"github.com/goliatone/go-formbuilder/pkg/storage/sqlite"
	"github.com/goliatone/go-formbuilder/pkg/store"
)

// App carries the resolved configuration and the open store for one
// invocation.
type App struct {
	out    io.Writer
	errOut io.Writer

	// injected for tests; nil means build from config
	backend storage.Backend
	ids     store.IDSource
	driver  tui.PromptDriver

	configPath string
	overrides  config.Overrides

	cfg    config.Config
	logger *slog.Logger
	store  *store.Store
	closer io.Closer
}

// AppOption customises an App.
type AppOption func(*App)

// WithOutput redirects command output.
func WithOutput(out, errOut io.Writer) AppOption {
	return func(a *App) {
		if out != nil {
			a.out = out
		}
		if errOut != nil {
			a.errOut = errOut
		}
	}
}

// WithBackend bypasses the configured storage driver.
func WithBackend(backend storage.Backend) AppOption {
	return func(a *App) {
		a.backend = backend
	}
}

// WithIDSource overrides the store id source.
func WithIDSource(ids store.IDSource) AppOption {
	return func(a *App) {
		a.ids = ids
	}
}

// WithPromptDriver overrides the terminal driver used by fill.
func WithPromptDriver(driver tui.PromptDriver) AppOption {
	return func(a *App) {
		a.driver = driver
	}
}

// NewApp constructs an App writing to stdout and stderr.
func NewApp(opts ...AppOption) *App {
	a := &App{
		out:    os.Stdout,
		errOut: os.Stderr,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Run builds the command tree, executes args and releases resources.
func Run(ctx context.Context, args []string, opts ...AppOption) error {
	app := NewApp(opts...)
	defer app.Close()
	root := NewRootCmd(app)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// setup resolves configuration, opens the backend and restores state.
func (a *App) setup(ctx context.Context) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	cfg = cfg.Apply(a.overrides)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	a.cfg = cfg

	level, _ := config.ParseLevel(cfg.Log.Level)
	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))

	backend, err := a.openBackend()
	if err != nil {
		return err
	}

	ids := a.ids
	if ids == nil {
		ids = cfg.IDSource()
	}
	opts := []store.Option{store.WithBackend(backend), store.WithLogger(a.logger), store.WithIDSource(ids)}
	a.store = store.New(opts...)
	if err := a.store.Restore(ctx); err != nil {
		return err
	}
	a.logger.Debug("cli: state restored", "driver", cfg.Driver(), "forms", len(a.store.Forms()))
	return nil
}

func (a *App) openBackend() (storage.Backend, error) {
	if a.backend != nil {
		return a.backend, nil
	}
	if a.cfg.Driver() == config.DriverMemory {
		return storage.NewMemory(), nil
	}
	path, err := a.cfg.StoragePath()
	if err != nil {
		return nil, err
	}
	switch a.cfg.Driver() {
	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("cli: create %s: %w", filepath.Dir(path), err)
		}
		backend, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		a.closer = backend
		return backend, nil
	default:
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("cli: create %s: %w", path, err)
		}
		return storage.NewFile(path), nil
	}
}

// commit persists the store after a mutating command.
func (a *App) commit(ctx context.Context) error {
	if err := a.store.Persist(ctx); err != nil {
		if errors.Is(err, store.ErrPersistenceUnavailable) {
			return fmt.Errorf("changes were not saved: %w", err)
		}
		return err
	}
	return nil
}

// recorder builds the response recorder with the configured policy.
func (a *App) recorder() *responses.Recorder {
	return responses.NewRecorder(a.store,
		responses.WithPolicy(a.cfg.Policy()),
		responses.WithLogger(a.logger),
	)
}

// fillerOptions returns the filler options shared by fill and render.
func (a *App) fillerOptions(record bool) []filler.Option {
	opts := []filler.Option{
		filler.WithValidationOptions(a.cfg.ValidationOptions()...),
		filler.WithLogger(a.logger),
	}
	if record {
		opts = append(opts, filler.WithRecorder(a.recorder()))
	}
	return opts
}

func (a *App) promptDriver() tui.PromptDriver {
	if a.driver != nil {
		return a.driver
	}
	return tui.NewSurveyDriver(a.errOut)
}

// Close releases the storage backend.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}
