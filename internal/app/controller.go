package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/five82/popview/internal/datausa"
	"github.com/five82/popview/internal/kv"
	"github.com/five82/popview/internal/prefs"
	"github.com/five82/popview/internal/state"
)

// Controller runs the side effects around state commands: fetching from
// DataUSA and persisting preferences. It is safe for concurrent use.
type Controller struct {
	store   *state.Store
	fetcher datausa.Fetcher
	prefs   *prefs.Prefs
	log     zerolog.Logger

	seq atomic.Uint64
	// favMu orders favorites changes, their writes and reloads so a reload
	// never applies a list read before an in-flight change was written.
	favMu sync.Mutex
}

// NewController wires a controller over store. fetcher and p must be non-nil.
func NewController(store *state.Store, fetcher datausa.Fetcher, p *prefs.Prefs, log zerolog.Logger) *Controller {
	if store == nil {
		store = &state.Store{}
	}
	return &Controller{store: store, fetcher: fetcher, prefs: p, log: log}
}

// Store returns the state store the controller dispatches into.
func (c *Controller) Store() *state.Store {
	return c.store
}

// FetchPopulation loads every record. Only the result of the most recently
// started fetch is applied; the error is returned for callers that want it.
func (c *Controller) FetchPopulation(ctx context.Context) error {
	seq := c.seq.Add(1)
	c.store.Dispatch(state.FetchStarted{Seq: seq})

	records, err := c.fetcher.FetchPopulation(ctx)
	if err != nil {
		c.log.Warn().Err(err).Uint64("seq", seq).Msg("population fetch failed")
		c.store.Dispatch(state.FetchFailed{Seq: seq, Err: err})
		return err
	}
	c.log.Info().Int("records", len(records)).Uint64("seq", seq).Msg("population fetched")
	c.store.Dispatch(state.FetchSucceeded{Seq: seq, Records: records})
	return nil
}

// SetSelectedState persists name and selects it. The selection is applied
// even when persisting fails.
func (c *Controller) SetSelectedState(ctx context.Context, name string) {
	if err := c.prefs.SaveSelected(ctx, name); err != nil {
		c.warnStorage(err, "persist selected state failed")
	}
	c.store.Dispatch(state.SelectState{Name: name})
}

// InitFavorites replaces the favorites list without persisting it.
func (c *Controller) InitFavorites(list []string) {
	c.store.Dispatch(state.InitFavorites{List: list})
}

// AddFavorite appends name to favorites and persists the list when it
// changed.
func (c *Controller) AddFavorite(ctx context.Context, name string) {
	c.favMu.Lock()
	defer c.favMu.Unlock()
	before := c.store.Snapshot()
	after := c.store.Dispatch(state.AddFavorite{Name: name})
	if !after.FavoritesChanged(before) {
		return
	}
	c.persistFavorites(ctx)
}

// RemoveFavorite drops name from favorites and persists the result.
func (c *Controller) RemoveFavorite(ctx context.Context, name string) {
	c.favMu.Lock()
	defer c.favMu.Unlock()
	c.store.Dispatch(state.RemoveFavorite{Name: name})
	c.persistFavorites(ctx)
}

// ToggleFavorite removes name when it is a favorite and adds it otherwise.
func (c *Controller) ToggleFavorite(ctx context.Context, name string) {
	if c.store.Snapshot().IsFavorite(name) {
		c.RemoveFavorite(ctx, name)
		return
	}
	c.AddFavorite(ctx, name)
}

// Hydrate restores the selected state and favorites saved by a previous run.
// Missing keys leave the state untouched.
func (c *Controller) Hydrate(ctx context.Context) {
	if name, ok, err := c.prefs.LoadSelected(ctx); err != nil {
		c.warnStorage(err, "load selected state failed")
	} else if ok {
		c.store.Dispatch(state.SelectState{Name: name})
	}
	c.reloadFavorites(ctx)
}

// Reload re-reads favorites after another process changed the store.
func (c *Controller) Reload(ctx context.Context) {
	c.reloadFavorites(ctx)
}

// Theme returns the persisted theme name.
func (c *Controller) Theme(ctx context.Context) string {
	return c.prefs.LoadTheme(ctx)
}

// SetTheme persists the theme name.
func (c *Controller) SetTheme(ctx context.Context, name string) {
	if err := c.prefs.SaveTheme(ctx, name); err != nil {
		c.warnStorage(err, "persist theme failed")
	}
}

func (c *Controller) reloadFavorites(ctx context.Context) {
	c.favMu.Lock()
	defer c.favMu.Unlock()
	list, ok, err := c.prefs.LoadFavorites(ctx)
	if err != nil {
		c.warnStorage(err, "load favorites failed")
		return
	}
	if !ok {
		return
	}
	if !c.store.Snapshot().FavoritesChanged(state.State{Favorites: list}) {
		return
	}
	c.store.Dispatch(state.InitFavorites{List: list})
}

// persistFavorites writes the store's current list. Callers hold favMu.
func (c *Controller) persistFavorites(ctx context.Context) {
	list := c.store.Snapshot().Favorites
	if err := c.prefs.SaveFavorites(ctx, list); err != nil {
		c.warnStorage(err, "persist favorites failed")
	}
}

func (c *Controller) warnStorage(err error, msg string) {
	ev := c.log.Warn().Err(err)
	var se *kv.StorageError
	if errors.As(err, &se) {
		ev = ev.Str("op", se.Op).Str("key", se.Key)
	}
	ev.Msg(msg)
}
