package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/internal/config"
	"github.com/prepdeck/prepdeck/internal/gamestate"
	"github.com/prepdeck/prepdeck/internal/logging"
	"github.com/prepdeck/prepdeck/internal/spacedrep"
	"github.com/prepdeck/prepdeck/internal/store"
)

// deps are the long-lived objects most commands share.
type deps struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *store.Store
	engine  *gamestate.Engine
	reviews *spacedrep.Scheduler

	closers []func() error
}

// openDeps loads config, opens the log file and database, and builds the
// engine with XP history recording attached and the review scheduler.
func openDeps(cmd *cobra.Command) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	d := &deps{cfg: cfg}

	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		return nil, err
	}
	d.logger = logger
	d.closers = append(d.closers, closeLog)
	if cfg.File != "" {
		logger.Debug("config loaded", "file", cfg.File)
	}

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	d.store = st
	d.closers = append(d.closers, st.Close)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	d.engine = gamestate.NewEngine(ctx, st.StateRepo(),
		gamestate.WithLogger(logging.Component(logger, "gamestate")))
	d.engine.Subscribe(store.NewHistoryRecorder(st.EventRepo(), logging.Component(logger, "history")))
	d.reviews = spacedrep.NewScheduler(ctx, st.ReviewRepo(),
		spacedrep.WithLogger(logging.Component(logger, "reviews")))
	return d, nil
}

// Close releases resources in reverse order of acquisition.
func (d *deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}

// resolveDBPath returns the configured database path, then PREPDECK_DB,
// then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

func openLogger(cfg *config.Config) (*slog.Logger, func() error, error) {
	lvl, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	path := cfg.Log.File
	if path == "" {
		dir, err := store.DataDir()
		if err != nil {
			return nil, nil, err
		}
		path = filepath.Join(dir, logging.FileName)
	}
	return logging.Open(path, lvl)
}
