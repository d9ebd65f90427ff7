package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/five82/marquee/internal/api"
	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/controller"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/ui"
)

// Options configure the Marquee application.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses default ~/.config/marquee/prefs.toml
	Refresh    time.Duration // overrides refresh_interval when positive
}

// Run boots the Marquee TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, _ := prefs.Load(prefsPath)

	logger, closeLog, err := openLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := api.NewClient(cfg.APIURL, api.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	wf := controller.New(client, controller.Options{
		NotificationTTL:          cfg.NotificationTTL,
		ReconcileOnDeleteFailure: cfg.ReconcileOnDeleteFailure,
		Logger:                   logger,
	})
	defer wf.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interval := cfg.RefreshInterval
	if opts.Refresh > 0 {
		interval = opts.Refresh
	}
	if interval > 0 {
		StartPoller(ctx, wf, interval, logger)
	}

	logger.Info("marquee started", "api_url", client.BaseURL(), "refresh", interval)

	err = ui.Run(ui.Options{
		Context:    ctx,
		Workflow:   wf,
		APIURL:     client.BaseURL(),
		ThemeName:  userPrefs.Theme,
		KindFilter: userPrefs.KindFilter,
		PrefsPath:  prefsPath,
	})
	if err != nil {
		logger.Error("ui exited", "err", err)
		return fmt.Errorf("run ui: %w", err)
	}
	logger.Info("marquee stopped")
	return nil
}

// openLogger returns a text logger writing to path. The terminal belongs
// to the UI, so an empty path discards log output instead of printing it.
func openLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return logger, func() { _ = file.Close() }, nil
}
