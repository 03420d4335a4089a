// Package prefs maps popview's persisted preferences onto a kv.Store.
//
// Three keys are kept: the selected state (plain string), the favorite
// state list (JSON array of strings) and the UI theme name.
package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/five82/popview/internal/kv"
)

// Persisted keys.
const (
	KeySelectedState = "selected_state"
	KeyFavorites     = "favorite_state_list"
	KeyTheme         = "theme"
)

// DefaultTheme is used when no theme has been saved.
const DefaultTheme = "Nightfox"

// Prefs reads and writes preferences through a kv.Store.
type Prefs struct {
	store kv.Store
}

// New wraps store.
func New(store kv.Store) *Prefs {
	return &Prefs{store: store}
}

// LoadSelected returns the saved selected state.
func (p *Prefs) LoadSelected(ctx context.Context) (string, bool, error) {
	v, ok, err := p.store.Get(ctx, KeySelectedState)
	if err != nil || !ok {
		return "", false, err
	}
	return v, true, nil
}

// SaveSelected persists the selected state.
func (p *Prefs) SaveSelected(ctx context.Context, name string) error {
	return p.store.Set(ctx, KeySelectedState, name)
}

// LoadFavorites returns the saved favorites list.
func (p *Prefs) LoadFavorites(ctx context.Context) ([]string, bool, error) {
	raw, ok, err := p.store.Get(ctx, KeyFavorites)
	if err != nil || !ok {
		return nil, false, err
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, false, &kv.StorageError{Op: "decode", Key: KeyFavorites, Err: err}
	}
	if list == nil {
		list = []string{}
	}
	return list, true, nil
}

// SaveFavorites persists list as a JSON array. A nil list is written as [].
func (p *Prefs) SaveFavorites(ctx context.Context, list []string) error {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return &kv.StorageError{Op: "encode", Key: KeyFavorites, Err: fmt.Errorf("marshal favorites: %w", err)}
	}
	return p.store.Set(ctx, KeyFavorites, string(data))
}

// LoadTheme returns the saved theme name, or DefaultTheme when nothing usable
// is stored.
func (p *Prefs) LoadTheme(ctx context.Context) string {
	v, ok, err := p.store.Get(ctx, KeyTheme)
	if err != nil || !ok || strings.TrimSpace(v) == "" {
		return DefaultTheme
	}
	return strings.TrimSpace(v)
}

// SaveTheme persists the theme name.
func (p *Prefs) SaveTheme(ctx context.Context, name string) error {
	return p.store.Set(ctx, KeyTheme, name)
}
