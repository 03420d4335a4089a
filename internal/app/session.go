package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/five82/popview/internal/config"
	"github.com/five82/popview/internal/datausa"
	"github.com/five82/popview/internal/kv"
	"github.com/five82/popview/internal/prefs"
	"github.com/five82/popview/internal/state"
)

// Session bundles the long-lived pieces shared by the TUI and the CLI
// subcommands.
type Session struct {
	Config     config.Config
	Controller *Controller
	KV         kv.Store
	Prefs      *prefs.Prefs
	Log        zerolog.Logger
}

// SessionOptions adjust how Open builds a Session.
type SessionOptions struct {
	// Ephemeral keeps preferences in memory; nothing is read from or
	// written to disk.
	Ephemeral bool
	// Version is reported in the User-Agent header.
	Version string
}

// UserAgent returns the User-Agent sent for version.
func UserAgent(version string) string {
	if version = strings.TrimSpace(version); version == "" {
		version = "dev"
	}
	return "popview/" + version
}

// Open builds a Session from cfg.
func Open(cfg config.Config, opts SessionOptions, log zerolog.Logger) (*Session, error) {
	store, err := openStore(cfg, opts.Ephemeral, log)
	if err != nil {
		return nil, err
	}

	client, err := datausa.NewClient(cfg.APIURL,
		datausa.WithTimeout(cfg.RequestTimeout),
		datausa.WithUserAgent(UserAgent(opts.Version)),
	)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("init datausa client: %w", err)
	}

	p := prefs.New(store)
	return &Session{
		Config:     cfg,
		Controller: NewController(state.NewStore(state.State{}), client, p, log),
		KV:         store,
		Prefs:      p,
		Log:        log,
	}, nil
}

// WatchPath returns the file to watch for external writes, or "" when the
// backend cannot be shared between processes.
func (s *Session) WatchPath() string {
	if fs, ok := s.KV.(*kv.FileStore); ok {
		return fs.Path()
	}
	return ""
}

// Close releases the key-value store.
func (s *Session) Close() error {
	if s == nil || s.KV == nil {
		return nil
	}
	return s.KV.Close()
}

func openStore(cfg config.Config, ephemeral bool, log zerolog.Logger) (kv.Store, error) {
	backend := cfg.Storage
	if ephemeral {
		backend = config.StorageMemory
	}
	var (
		store kv.Store
		err   error
	)
	switch backend {
	case config.StorageMemory:
		store = kv.NewMemoryStore(nil)
	case config.StorageBadger:
		store, err = kv.OpenBadger(kv.BadgerConfig{Dir: cfg.StorageLocation(), Logger: &log})
	case config.StorageFile, "":
		store, err = kv.OpenFile(cfg.StorageLocation(), kv.WithFileLogger(log))
	default:
		err = fmt.Errorf("unknown storage %q", backend)
	}
	if err != nil {
		if errors.Is(err, kv.ErrStorage) {
			return nil, err
		}
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug().Str("backend", backend).Str("path", cfg.StorageLocation()).Msg("store opened")
	return store, nil
}
