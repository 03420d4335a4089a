package app

import (
	"context"
	"fmt"

	"github.com/five82/popview/internal/config"
	"github.com/five82/popview/internal/kv"
	"github.com/five82/popview/internal/logging"
	"github.com/five82/popview/internal/ui"
)

// Options configure the popview TUI.
type Options struct {
	// Config is fully resolved: file, environment and flags applied.
	Config config.Config
	// Ephemeral keeps preferences in memory only.
	Ephemeral bool
	// Version is the build version, sent in the User-Agent.
	Version string
}

// Run boots the popview TUI until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log, logCloser, err := logging.OpenFile(cfg.LogFile, level)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	session, err := Open(cfg, SessionOptions{Ephemeral: opts.Ephemeral, Version: opts.Version}, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn().Err(err).Msg("close store failed")
		}
	}()

	ctrl := session.Controller
	ctrl.Hydrate(ctx)

	if path := session.WatchPath(); path != "" {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := kv.Watch(watchCtx, path, log, func() { ctrl.Reload(watchCtx) }); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("store watcher disabled")
		}
	}

	theme := cfg.Theme
	if theme == "" {
		theme = ctrl.Theme(ctx)
	}

	log.Info().Str("api_url", cfg.APIURL).Str("storage", cfg.Storage).Msg("popview starting")
	if err := ui.Run(ui.Options{
		Context:   ctx,
		Actions:   ctrl,
		Store:     ctrl.Store(),
		ThemeName: theme,
		LogFile:   cfg.LogFile,
		Log:       log,
	}); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
