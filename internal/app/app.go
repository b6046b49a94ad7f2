package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"murmur/internal/backend"
	"murmur/internal/config"
	"murmur/internal/hooks"
	"murmur/internal/ui"
)

// startTimeout bounds the pre-spawn liveness probe and resolution during
// an asynchronous backend start.
const startTimeout = 30 * time.Second

// Options are the command-line level knobs for the application.
type Options struct {
	// ConfigPath overrides the config file location. Empty means the
	// conventional per-user path.
	ConfigPath string

	// LogLevel overrides the configured log level when non-empty.
	LogLevel string

	// LogFile overrides the configured log file when non-empty.
	LogFile string

	// Debug forces debug-level logging.
	Debug bool
}

// Application is the murmur host. It owns the supervisor, the hook
// runner, the output tail and the window, and coordinates their
// startup and teardown.
type Application struct {
	cfg    config.Config
	logger *Logger

	supervisor *backend.Supervisor
	hooks      *hooks.Runner
	tail       *ui.Tail

	logFile *os.File

	// newWindow builds the host window; replaceable for headless tests.
	newWindow func() (windowRunner, error)

	running      atomic.Bool
	done         chan struct{}
	shutdownOnce sync.Once
}

// windowRunner is what Run needs from the window.
type windowRunner interface {
	Run(done <-chan struct{}, onClose func())
}

// New builds the application: configuration, logging, hooks and the
// supervisor. The backend is not started yet.
func New(opts Options) (*Application, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}

	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.LogFile != "" {
		cfg.Logging.File = opts.LogFile
	}
	if opts.Debug {
		cfg.Logging.Level = "debug"
	}

	logger := NewLogger(LoggerConfig{
		Level:  ParseLogLevel(cfg.Logging.Level),
		Prefix: "murmur",
	})

	app := &Application{
		cfg:    cfg,
		logger: logger,
		tail:   ui.NewTail(cfg.UI.TailLines),
		done:   make(chan struct{}),
	}
	app.newWindow = func() (windowRunner, error) {
		return ui.NewWindow(app.tail, app.status)
	}

	if cfg.Logging.File != "" {
		f, err := openLogFile(cfg.Logging.File)
		if err != nil {
			return nil, &InitError{Component: "log file", Err: err}
		}
		app.logFile = f
		logger.SetOutput(f)
	}

	// A broken hook script is not fatal; the host runs without hooks.
	if cfg.Hooks.Enabled && cfg.Hooks.Path != "" {
		runner, err := hooks.Load(cfg.Hooks.Path)
		if err != nil {
			logger.Warn("lifecycle hooks disabled: %v", err)
		} else {
			app.hooks = runner
		}
	}

	sink := newOutputSink(logger, app.tail, app.hooks)
	app.supervisor = backend.NewSupervisor(backend.Config{
		Command:      cfg.Backend.Command,
		Args:         cfg.Backend.Args,
		Endpoint:     cfg.Backend.Endpoint(),
		ProbeTimeout: cfg.Backend.ProbeTimeout(),
		WorkDir:      cfg.Backend.WorkDir,
	}, sink, backend.WithResolver(backend.Resolver{
		Override: cfg.Backend.Path,
	}))

	return app, nil
}

func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// Run starts the backend asynchronously, then blocks in the window loop
// until Shutdown. It returns ErrAlreadyRunning on a second concurrent
// call.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	app.logger.Info("starting murmur host")

	// The window must not wait on the backend; spawning and probing
	// happen behind the scenes.
	go app.startBackend()

	window, err := app.newWindow()
	if err != nil {
		app.Shutdown()
		return &InitError{Component: "window", Err: err}
	}

	window.Run(app.done, app.Shutdown)
	app.logger.Info("host window closed")
	return nil
}

// startBackend performs one asynchronous start attempt. Failure is logged
// and the host keeps running without a backend.
func (app *Application) startBackend() {
	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()

	outcome, err := app.supervisor.Start(ctx)
	if err != nil {
		app.logger.Error("backend start failed: %v", err)
		return
	}

	switch outcome {
	case backend.OutcomeSpawned:
		pid := app.supervisor.PID()
		app.logger.Info("backend spawned (pid %d, endpoint %s)", pid, app.supervisor.Endpoint())
		if err := app.hooks.OnBackendStart(pid); err != nil {
			app.logger.Warn("start hook failed: %v", err)
		}
	case backend.OutcomeAlreadyServing:
		app.logger.Info("backend already serving on %s, not spawning", app.supervisor.Endpoint())
	case backend.OutcomeAlreadySpawned:
		app.logger.Info("backend already spawned, not spawning")
	}
}

// Shutdown tears the host down: the window loop is released, the backend
// is killed, hooks are closed. Idempotent and safe from any goroutine.
func (app *Application) Shutdown() {
	app.shutdownOnce.Do(func() {
		app.logger.Info("shutting down")

		close(app.done)
		app.supervisor.Stop()
		app.hooks.Close()

		if app.logFile != nil {
			_ = app.logFile.Close()
		}
	})
}

// Supervisor exposes the backend supervisor.
func (app *Application) Supervisor() *backend.Supervisor {
	return app.supervisor
}

// Done is closed when shutdown begins.
func (app *Application) Done() <-chan struct{} {
	return app.done
}

// status snapshots the supervisor state for the window.
func (app *Application) status() ui.Status {
	return ui.Status{
		Endpoint: app.supervisor.Endpoint(),
		Running:  app.supervisor.Running(),
		PID:      app.supervisor.PID(),
	}
}
