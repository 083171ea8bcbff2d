package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/remdocs/remdocs/internal/activity"
	"github.com/remdocs/remdocs/internal/config"
	"github.com/remdocs/remdocs/internal/logging"
	"github.com/remdocs/remdocs/internal/service"
	"github.com/remdocs/remdocs/internal/store"
)

// Options controls how Bootstrap wires the application.
type Options struct {
	ConfigPath string
	UserID     string    // overrides the configured user when set
	LogWriter  io.Writer // ignored when LogToFile is set
	LogToFile  bool
}

// App is the wired set of components behind both the CLI and the TUI.
type App struct {
	Config   config.Config
	Log      *slog.Logger
	DB       *store.DB
	Service  *service.Service
	Activity *activity.Logger
	UserID   string

	closers []func() error
}

// Bootstrap loads configuration and opens the store.
func Bootstrap(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.UserID != "" {
		cfg.UserID = opts.UserID
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, err
	}

	a := &App{Config: cfg, UserID: cfg.UserID}

	if opts.LogToFile {
		log, closeLog, err := logging.NewFile(cfg.LogLevel, cfg.LogFilePath())
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		a.Log = log
		a.closers = append(a.closers, closeLog)
	} else {
		w := opts.LogWriter
		if w == nil {
			w = io.Discard
		}
		a.Log = logging.New(cfg.LogLevel, w)
	}

	db, err := store.Open(a.Log, cfg.DBDriver, cfg.DBAddress)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.DB = db
	a.closers = append(a.closers, db.Close)

	a.Activity = activity.NewLogger(cfg.ActivityLogPath())
	a.Service = service.NewService(db, a.Log, a.Activity)
	a.Log.Debug("app ready", "driver", cfg.DBDriver, "data_dir", cfg.DataDir, "user", a.UserID)
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
