package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/stefanpenner/unfold/pkg/companion"
	"github.com/stefanpenner/unfold/pkg/config"
	"github.com/stefanpenner/unfold/pkg/oracle"
	"github.com/stefanpenner/unfold/pkg/store"
)

// LogFileName is the log file inside the data directory. The TUI owns the
// terminal, so logs never go to stderr.
const LogFileName = "unfold.log"

// App holds everything a command needs.
type App struct {
	DataDir   string
	Config    config.Config
	Log       *slog.Logger
	Store     *store.Store
	Journal   *store.Journal
	Companion *companion.Companion

	closers []func() error
}

// OpenApp resolves the data directory, loads config and wires the store,
// oracle and companion.
func OpenApp(dirFlag string) (*App, error) {
	dataDir := store.ResolveDataDir(dirFlag)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, err
	}

	a := &App{DataDir: dataDir, Config: cfg}

	logFile, err := os.OpenFile(filepath.Join(dataDir, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	a.closers = append(a.closers, logFile.Close)
	a.Log = slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.Level()}))

	kv, err := openKV(cfg, dataDir)
	if err != nil {
		a.Close()
		return nil, err
	}
	if c, ok := kv.(interface{ Close() error }); ok {
		a.closers = append(a.closers, c.Close)
	}

	o, err := oracle.New(cfg.OracleSettings(), a.Log.With("component", "oracle"))
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Store = store.Open(kv, store.WithLogger(a.Log.With("component", "store")))
	a.Journal = store.NewJournal(dataDir)
	a.Companion = companion.New(a.Store, o, a.Journal,
		companion.WithLogger(a.Log.With("component", "companion")),
		companion.WithTimeout(cfg.Timeout()),
	)

	a.Log.Debug("app opened", "dir", dataDir, "storage", cfg.Storage, "provider", cfg.Oracle.Provider)
	return a, nil
}

func openKV(cfg config.Config, dataDir string) (store.KV, error) {
	if cfg.Storage == config.StorageSQLite {
		return store.NewSQLiteKV(dbPath(dataDir))
	}
	return store.NewFileKV(dataDir)
}

func dbPath(dataDir string) string {
	return filepath.Join(dataDir, "unfold.db")
}

// Close releases the database and the log file. It is safe to call twice.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
