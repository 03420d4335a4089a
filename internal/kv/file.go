package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
)

// FileStore keeps every key in one TOML document:
//
//	[values]
//	selected_state = "Ohio"
//	favorite_state_list = '["Ohio","Texas"]'
//
// The file is re-read on every Get so writes from another process are seen.
//
// A file that no longer parses is moved to <path>.corrupt on the next Set
// and a warning is logged, so a hand-edited file is never lost silently.
type FileStore struct {
	path string
	log  zerolog.Logger

	mu     sync.Mutex
	closed bool
}

var _ Store = (*FileStore)(nil)

type fileDocument struct {
	Values map[string]string `toml:"values"`
}

// FileOption customizes a FileStore.
type FileOption func(*FileStore)

// WithFileLogger sets the logger used for recovery warnings.
func WithFileLogger(log zerolog.Logger) FileOption {
	return func(f *FileStore) { f.log = log }
}

// OpenFile returns a FileStore at path, creating the parent directory. The
// file itself is created on the first Set.
func OpenFile(path string, opts ...FileOption) (*FileStore, error) {
	if path == "" {
		return nil, &StorageError{Op: "open", Err: fmt.Errorf("path is empty")}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &StorageError{Op: "open", Err: fmt.Errorf("create store dir: %w", err)}
	}
	f := &FileStore{path: path, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, &StorageError{Op: "get", Key: key, Err: err}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", false, &StorageError{Op: "get", Key: key, Err: ErrClosed}
	}

	doc, err := f.read()
	if err != nil {
		return "", false, &StorageError{Op: "get", Key: key, Err: err}
	}
	v, ok := doc.Values[key]
	return v, ok, nil
}

func (f *FileStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return &StorageError{Op: "set", Key: key, Err: err}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return &StorageError{Op: "set", Key: key, Err: ErrClosed}
	}

	doc, err := f.read()
	if errors.Is(err, errCorrupt) {
		backup, moveErr := f.quarantine()
		if moveErr != nil {
			return &StorageError{Op: "set", Key: key, Err: fmt.Errorf("%w; %w", err, moveErr)}
		}
		f.log.Warn().Err(err).Str("path", f.path).Str("backup", backup).
			Msg("store file unreadable, starting a new one")
		doc = fileDocument{}
	} else if err != nil {
		return &StorageError{Op: "set", Key: key, Err: err}
	}
	if doc.Values == nil {
		doc.Values = make(map[string]string)
	}
	doc.Values[key] = value

	if err := f.write(doc); err != nil {
		return &StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}

func (f *FileStore) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *FileStore) read() (fileDocument, error) {
	var doc fileDocument
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("read store: %w", err)
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return fileDocument{}, fmt.Errorf("%w: %w", errCorrupt, err)
	}
	return doc, nil
}

var errCorrupt = errors.New("parse store")

// quarantine moves the unreadable file aside and returns its new path.
func (f *FileStore) quarantine() (string, error) {
	backup := f.path + ".corrupt"
	if err := os.Rename(f.path, backup); err != nil {
		return "", fmt.Errorf("move corrupt store: %w", err)
	}
	return backup, nil
}

func (f *FileStore) write(doc fileDocument) error {
	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".store-*.toml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}
