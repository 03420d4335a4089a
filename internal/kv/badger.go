package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// BadgerConfig configures a BadgerStore.
type BadgerConfig struct {
	// Dir holds the database files. Ignored when InMemory is true.
	Dir string
	// InMemory keeps everything in RAM. Used by tests.
	InMemory bool
	// Logger receives badger's internal messages. Nil disables them.
	Logger *zerolog.Logger
}

// BadgerStore is a Store backed by an embedded badger database.
type BadgerStore struct {
	db *badger.DB
}

var _ Store = (*BadgerStore)(nil)

// badgerLogger adapts zerolog to badger's Logger interface.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Trace().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// OpenBadger opens (or creates) a badger database.
func OpenBadger(cfg BadgerConfig) (*BadgerStore, error) {
	if !cfg.InMemory && strings.TrimSpace(cfg.Dir) == "" {
		return nil, &StorageError{Op: "open", Err: errors.New("badger dir is required")}
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
			return nil, &StorageError{Op: "open", Err: fmt.Errorf("create badger dir: %w", err)}
		}
		opts = badger.DefaultOptions(cfg.Dir)
	}
	opts = opts.WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(badgerLogger{log: cfg.Logger.With().Str("component", "badger").Logger()})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, &StorageError{Op: "open", Err: fmt.Errorf("open badger: %w", err)}
	}
	return &BadgerStore{db: db}, nil
}

func (b *BadgerStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, &StorageError{Op: "get", Key: key, Err: err}
	}
	var (
		value []byte
		found bool
	)
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return "", false, &StorageError{Op: "get", Key: key, Err: err}
	}
	return string(value), found, nil
}

func (b *BadgerStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return &StorageError{Op: "set", Key: key, Err: err}
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return &StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}

func (b *BadgerStore) Close() error {
	if err := b.db.Close(); err != nil {
		return &StorageError{Op: "close", Err: err}
	}
	return nil
}
