package state

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/five82/popview/internal/datausa"
	"github.com/five82/popview/internal/population"
)

func fixedNow(t *testing.T) time.Time {
	t.Helper()
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	prev := now
	now = func() time.Time { return ts }
	t.Cleanup(func() { now = prev })
	return ts
}

func TestApply_FetchLifecycle(t *testing.T) {
	ts := fixedNow(t)
	records := []population.Record{{State: "Ohio", Year: 2021, Population: 110}}

	s := Apply(State{}, FetchStarted{Seq: 1})
	if !s.IsLoading || s.Status != StatusLoading || s.Error != "" || s.FetchSeq != 1 {
		t.Fatalf("after FetchStarted = %#v", s)
	}

	s = Apply(s, FetchSucceeded{Seq: 1, Records: records})
	if s.IsLoading || s.Status != StatusLoaded || !reflect.DeepEqual(s.Records, records) {
		t.Fatalf("after FetchSucceeded = %#v", s)
	}
	if !s.LastUpdated.Equal(ts) {
		t.Fatalf("LastUpdated = %v, want %v", s.LastUpdated, ts)
	}

	// Loaded is not terminal.
	s = Apply(s, FetchStarted{Seq: 2})
	if !s.IsLoading || s.Status != StatusLoading {
		t.Fatalf("re-fetch from Loaded = %#v", s)
	}
}

func TestApply_FetchFailureKeepsRecords(t *testing.T) {
	before := []population.Record{{State: "Texas", Year: 2020, Population: 200}}
	s := State{Records: before, Status: StatusLoaded}

	s = Apply(s, FetchStarted{Seq: 5})
	netErr := &datausa.NetworkError{Err: errors.New("connection refused")}
	s = Apply(s, FetchFailed{Seq: 5, Err: netErr})

	if s.IsLoading {
		t.Fatalf("IsLoading = true after failure")
	}
	if s.Error == "" {
		t.Fatalf("Error is empty after failure")
	}
	if s.Status != StatusFailed {
		t.Fatalf("Status = %v, want failed", s.Status)
	}
	if !reflect.DeepEqual(s.Records, before) {
		t.Fatalf("Records changed on failure: %#v", s.Records)
	}

	// Failed is not terminal and a new start clears the error.
	s = Apply(s, FetchStarted{Seq: 6})
	if s.Error != "" || !s.IsLoading {
		t.Fatalf("FetchStarted after failure = %#v", s)
	}
}

func TestApply_FetchFailedNilErrorStillDescribed(t *testing.T) {
	s := Apply(Apply(State{}, FetchStarted{Seq: 1}), FetchFailed{Seq: 1})
	if s.Error == "" {
		t.Fatalf("Error empty for nil failure cause")
	}
}

func TestApply_StaleFetchResultsIgnored(t *testing.T) {
	first := []population.Record{{State: "Ohio"}}
	second := []population.Record{{State: "Texas"}}

	s := Apply(State{}, FetchStarted{Seq: 1})
	s = Apply(s, FetchStarted{Seq: 2})
	s = Apply(s, FetchSucceeded{Seq: 2, Records: second})
	s = Apply(s, FetchSucceeded{Seq: 1, Records: first})
	if !reflect.DeepEqual(s.Records, second) {
		t.Fatalf("stale success applied: %#v", s.Records)
	}

	s = Apply(s, FetchStarted{Seq: 3})
	s = Apply(s, FetchFailed{Seq: 2, Err: errors.New("late")})
	if !s.IsLoading || s.Error != "" {
		t.Fatalf("stale failure applied: %#v", s)
	}
}

func TestApply_FetchStartsOutOfOrder(t *testing.T) {
	newer := []population.Record{{State: "Texas"}}

	s := Apply(State{}, FetchStarted{Seq: 2})
	s = Apply(s, FetchStarted{Seq: 1})
	if s.FetchSeq != 2 {
		t.Fatalf("FetchSeq = %d after late start of 1, want 2", s.FetchSeq)
	}
	s = Apply(s, FetchSucceeded{Seq: 2, Records: newer})
	if s.IsLoading || s.Status != StatusLoaded || !reflect.DeepEqual(s.Records, newer) {
		t.Fatalf("newest result dropped: %#v", s)
	}
	s = Apply(s, FetchFailed{Seq: 1, Err: errors.New("late")})
	if s.Status != StatusLoaded || s.Error != "" {
		t.Fatalf("older failure applied: %#v", s)
	}
}

func TestApply_SelectAndInitFavorites(t *testing.T) {
	s := Apply(State{}, SelectState{Name: "Ohio"})
	if s.Selected != "Ohio" || !s.HasSelection() {
		t.Fatalf("Selected = %q", s.Selected)
	}

	list := []string{"Ohio", "Texas"}
	s = Apply(s, InitFavorites{List: list})
	list[0] = "mutated"
	if !reflect.DeepEqual(s.Favorites, []string{"Ohio", "Texas"}) {
		t.Fatalf("InitFavorites aliased input: %v", s.Favorites)
	}
}

func TestApply_AddFavorite(t *testing.T) {
	tests := []struct {
		name  string
		start []string
		add   string
		want  []string
	}{
		{"nil list", nil, "Nevada", []string{"Nevada"}},
		{"empty list", []string{}, "Nevada", []string{"Nevada"}},
		{"append new", []string{"Ohio"}, "Texas", []string{"Ohio", "Texas"}},
		{"single duplicate", []string{"Texas"}, "Texas", []string{"Texas"}},
		{"duplicate among many", []string{"Ohio", "Texas"}, "Ohio", []string{"Ohio", "Texas"}},
		{"empty name", []string{"Ohio"}, "", []string{"Ohio"}},
		{"empty name nil list", nil, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(State{Favorites: tt.start}, AddFavorite{Name: tt.add})
			if !reflect.DeepEqual(got.Favorites, tt.want) {
				t.Fatalf("AddFavorite(%q) on %v = %v, want %v", tt.add, tt.start, got.Favorites, tt.want)
			}
		})
	}
}

func TestApply_AddFavoriteDoesNotMutateInput(t *testing.T) {
	backing := make([]string, 1, 4)
	backing[0] = "Ohio"
	s := State{Favorites: backing}
	_ = Apply(s, AddFavorite{Name: "Texas"})
	if extended := backing[:2]; extended[1] == "Texas" {
		t.Fatalf("Apply wrote into the caller's backing array")
	}
}

func TestApply_RemoveFavorite(t *testing.T) {
	s := Apply(State{Favorites: []string{"Nevada", "Texas"}}, RemoveFavorite{Name: "Nevada"})
	if !reflect.DeepEqual(s.Favorites, []string{"Texas"}) {
		t.Fatalf("RemoveFavorite = %v, want [Texas]", s.Favorites)
	}

	s = Apply(State{Favorites: []string{"Ohio", "Texas", "Ohio"}}, RemoveFavorite{Name: "Ohio"})
	if !reflect.DeepEqual(s.Favorites, []string{"Texas"}) {
		t.Fatalf("RemoveFavorite all occurrences = %v, want [Texas]", s.Favorites)
	}

	s = Apply(State{}, RemoveFavorite{Name: "Ohio"})
	if s.Favorites == nil || len(s.Favorites) != 0 {
		t.Fatalf("RemoveFavorite on nil = %#v, want empty list", s.Favorites)
	}
}

func TestApply_RemoveFavoriteIdempotent(t *testing.T) {
	start := State{Favorites: []string{"Ohio", "Nevada", "Texas"}}
	once := Apply(start, RemoveFavorite{Name: "Nevada"})
	twice := Apply(once, RemoveFavorite{Name: "Nevada"})
	if !reflect.DeepEqual(once.Favorites, twice.Favorites) {
		t.Fatalf("remove twice = %v, once = %v", twice.Favorites, once.Favorites)
	}
}

func TestFavoritesChanged(t *testing.T) {
	a := State{Favorites: []string{"Ohio"}}
	if a.FavoritesChanged(State{Favorites: []string{"Ohio"}}) {
		t.Fatalf("equal lists reported as changed")
	}
	if !a.FavoritesChanged(State{}) {
		t.Fatalf("nil vs set not reported")
	}
	if !(State{Favorites: []string{}}).FavoritesChanged(State{}) {
		t.Fatalf("empty vs nil not reported")
	}
	if !a.FavoritesChanged(State{Favorites: []string{"Texas"}}) {
		t.Fatalf("different element not reported")
	}
}

func TestStore_SnapshotIsIndependent(t *testing.T) {
	var s Store
	s.Dispatch(InitFavorites{List: []string{"Ohio"}})
	s.Dispatch(FetchStarted{Seq: 1})
	s.Dispatch(FetchSucceeded{Seq: 1, Records: []population.Record{{State: "Ohio"}}})

	snap := s.Snapshot()
	snap.Favorites[0] = "mutated"
	snap.Records[0].State = "mutated"

	again := s.Snapshot()
	if again.Favorites[0] != "Ohio" || again.Records[0].State != "Ohio" {
		t.Fatalf("Snapshot shares slices with the store: %#v", again)
	}
}

func TestStore_SubscribeAndCancel(t *testing.T) {
	s := NewStore(State{})

	var got []State
	cancel := s.Subscribe(func(st State) { got = append(got, st) })

	s.Dispatch(SelectState{Name: "Ohio"})
	s.Dispatch(AddFavorite{Name: "Ohio"})
	if len(got) != 2 {
		t.Fatalf("listener called %d times, want 2", len(got))
	}
	if got[0].Selected != "Ohio" || !got[1].IsFavorite("Ohio") {
		t.Fatalf("listener snapshots = %#v", got)
	}

	cancel()
	cancel()
	s.Dispatch(SelectState{Name: "Texas"})
	if len(got) != 2 {
		t.Fatalf("listener called after cancel")
	}

	if noop := s.Subscribe(nil); noop == nil {
		t.Fatalf("Subscribe(nil) returned nil cancel")
	}
}

func TestStore_ListenerMayReenter(t *testing.T) {
	s := NewStore(State{})
	done := make(chan State, 1)
	s.Subscribe(func(State) {
		select {
		case done <- s.Snapshot():
		default:
		}
	})
	s.Dispatch(SelectState{Name: "Ohio"})
	select {
	case snap := <-done:
		if snap.Selected != "Ohio" {
			t.Fatalf("re-entrant Snapshot = %#v", snap)
		}
	case <-time.After(time.Second):
		t.Fatalf("listener deadlocked")
	}
}

func TestStore_ConcurrentAddsNeverDuplicate(t *testing.T) {
	s := NewStore(State{})
	names := []string{"Ohio", "Texas", "Nevada"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Dispatch(AddFavorite{Name: names[i%len(names)]})
		}(i)
	}
	wg.Wait()

	favs := s.Snapshot().Favorites
	if len(favs) != len(names) {
		t.Fatalf("favorites = %v, want %d unique entries", favs, len(names))
	}
	seen := map[string]bool{}
	for _, f := range favs {
		if seen[f] {
			t.Fatalf("duplicate %q in %v", f, favs)
		}
		seen[f] = true
	}
}

func TestFetchStatusString(t *testing.T) {
	cases := map[FetchStatus]string{
		StatusIdle:    "idle",
		StatusLoading: "loading",
		StatusLoaded:  "loaded",
		StatusFailed:  "failed",
	}
	for st, want := range cases {
		if got := st.String(); got != want {
			t.Fatalf("%d.String() = %q, want %q", st, got, want)
		}
	}
}
