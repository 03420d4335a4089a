package state

import (
	"time"

	"github.com/five82/popview/internal/population"
)

// FetchStatus tracks the population request lifecycle.
type FetchStatus int

const (
	StatusIdle FetchStatus = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

func (s FetchStatus) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// State is the application state. An empty Error, empty Selected and nil
// Favorites mean "not set".
type State struct {
	Records     []population.Record
	Status      FetchStatus
	IsLoading   bool
	Error       string
	Selected    string
	Favorites   []string
	FetchSeq    uint64 // sequence of the most recently started fetch
	LastUpdated time.Time
}

// HasSelection reports whether a state is selected.
func (s State) HasSelection() bool {
	return s.Selected != ""
}

// IsFavorite reports whether name is in Favorites.
func (s State) IsFavorite(name string) bool {
	return population.Contains(s.Favorites, name)
}

// FavoritesChanged reports whether s.Favorites differs from prev.Favorites.
func (s State) FavoritesChanged(prev State) bool {
	if (s.Favorites == nil) != (prev.Favorites == nil) {
		return true
	}
	if len(s.Favorites) != len(prev.Favorites) {
		return true
	}
	for i := range s.Favorites {
		if s.Favorites[i] != prev.Favorites[i] {
			return true
		}
	}
	return false
}

// clone returns a copy of s that shares no slices with it.
func (s State) clone() State {
	dup := s
	dup.Records = population.Clone(s.Records)
	dup.Favorites = cloneStrings(s.Favorites)
	return dup
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	dup := make([]string, len(values))
	copy(dup, values)
	return dup
}
