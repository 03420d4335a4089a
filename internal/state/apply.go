package state

import (
	"time"

	"github.com/five82/popview/internal/population"
)

// Command is a state transition. The set of commands is closed.
type Command interface {
	command()
}

// FetchStarted marks the start of fetch Seq.
type FetchStarted struct {
	Seq uint64
}

// FetchSucceeded delivers the records returned by fetch Seq.
type FetchSucceeded struct {
	Seq     uint64
	Records []population.Record
}

// FetchFailed reports that fetch Seq failed.
type FetchFailed struct {
	Seq uint64
	Err error
}

// SelectState sets the selected state.
type SelectState struct {
	Name string
}

// InitFavorites replaces the favorites list, typically from storage.
type InitFavorites struct {
	List []string
}

// AddFavorite appends Name to favorites unless it is already present.
type AddFavorite struct {
	Name string
}

// RemoveFavorite removes every occurrence of Name from favorites.
type RemoveFavorite struct {
	Name string
}

func (FetchStarted) command()   {}
func (FetchSucceeded) command() {}
func (FetchFailed) command()    {}
func (SelectState) command()    {}
func (InitFavorites) command()  {}
func (AddFavorite) command()    {}
func (RemoveFavorite) command() {}

const unknownFetchError = "failed to load population data"

// now is replaced in tests.
var now = time.Now

// Apply returns the state that results from cmd. It performs no I/O and
// never mutates slices reachable from s.
func Apply(s State, cmd Command) State {
	switch c := cmd.(type) {
	case FetchStarted:
		if c.Seq < s.FetchSeq {
			return s
		}
		s.FetchSeq = c.Seq
		s.IsLoading = true
		s.Error = ""
		s.Status = StatusLoading

	case FetchSucceeded:
		if c.Seq != s.FetchSeq {
			return s
		}
		s.Records = population.Clone(c.Records)
		s.IsLoading = false
		s.Status = StatusLoaded
		s.LastUpdated = now()

	case FetchFailed:
		if c.Seq != s.FetchSeq {
			return s
		}
		s.Error = unknownFetchError
		if c.Err != nil && c.Err.Error() != "" {
			s.Error = c.Err.Error()
		}
		s.IsLoading = false
		s.Status = StatusFailed
		s.LastUpdated = now()

	case SelectState:
		s.Selected = c.Name

	case InitFavorites:
		s.Favorites = cloneStrings(c.List)

	case AddFavorite:
		if c.Name == "" {
			return s
		}
		if len(s.Favorites) == 0 {
			s.Favorites = []string{c.Name}
			return s
		}
		if population.Contains(s.Favorites, c.Name) {
			return s
		}
		next := make([]string, len(s.Favorites), len(s.Favorites)+1)
		copy(next, s.Favorites)
		s.Favorites = append(next, c.Name)

	case RemoveFavorite:
		next := make([]string, 0, len(s.Favorites))
		for _, v := range s.Favorites {
			if v != c.Name {
				next = append(next, v)
			}
		}
		s.Favorites = next
	}
	return s
}
