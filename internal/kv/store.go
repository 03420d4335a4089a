package kv

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Store is a string key-value store that survives restarts.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	Close() error
}

// ErrStorage matches any *StorageError via errors.Is.
var ErrStorage = errors.New("storage error")

// StorageError records a failed store operation.
type StorageError struct {
	Op  string // get, set, open, decode
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// MemoryStore keeps values in a map. The zero value is ready to use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns a MemoryStore seeded with values.
func NewMemoryStore(values map[string]string) *MemoryStore {
	m := &MemoryStore{values: make(map[string]string, len(values))}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, &StorageError{Op: "get", Key: key, Err: err}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, &StorageError{Op: "get", Key: key, Err: ErrClosed}
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return &StorageError{Op: "set", Key: key, Err: err}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return &StorageError{Op: "set", Key: key, Err: ErrClosed}
	}
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
