package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/popview/internal/population"
	"github.com/five82/popview/internal/state"
)

// fakeActions records calls and applies them to the store like the real
// controller would.
type fakeActions struct {
	store *state.Store
	mu    sync.Mutex
	calls []string
}

func (f *fakeActions) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeActions) FetchPopulation(context.Context) error {
	f.record("fetch")
	return nil
}

func (f *fakeActions) SetSelectedState(_ context.Context, name string) {
	f.record("select:" + name)
	f.store.Dispatch(state.SelectState{Name: name})
}

func (f *fakeActions) AddFavorite(_ context.Context, name string) {
	f.record("add:" + name)
	f.store.Dispatch(state.AddFavorite{Name: name})
}

func (f *fakeActions) RemoveFavorite(_ context.Context, name string) {
	f.record("remove:" + name)
	f.store.Dispatch(state.RemoveFavorite{Name: name})
}

func (f *fakeActions) SetTheme(_ context.Context, name string) {
	f.record("theme:" + name)
}

func (f *fakeActions) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}

var testRecords = []population.Record{
	{State: "Alabama", Year: 2021, Population: 5039877},
	{State: "Alaska", Year: 2021, Population: 732673},
	{State: "Texas", Year: 2021, Population: 29527941},
	{State: "Texas", Year: 2020, Population: 29232474},
}

func newTestModel(t *testing.T) (Model, *fakeActions, *state.Store) {
	t.Helper()
	store := state.NewStore(state.State{})
	store.Dispatch(state.FetchStarted{Seq: 1})
	store.Dispatch(state.FetchSucceeded{Seq: 1, Records: testRecords})
	actions := &fakeActions{store: store}
	m := New(Options{Actions: actions, Store: store})
	t.Cleanup(m.bridge.close)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return next.(Model), actions, store
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends msg, runs the resulting command once, and refreshes the
// snapshot the way the store bridge would. Commands from the filter input
// are cursor blinks and are skipped.
func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	if cmd != nil && !m.filtering && !next.(Model).filtering {
		cmd()
	}
	out, _ := next.(Model).Update(storeChangedMsg{})
	return out.(Model)
}

func TestModel_SelectHighlightedState(t *testing.T) {
	m, actions, store := newTestModel(t)

	m = press(t, m, runes("j"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if got := actions.last(); got != "select:Alaska" {
		t.Fatalf("last action = %q, want select:Alaska", got)
	}
	if store.Snapshot().Selected != "Alaska" || m.snapshot.Selected != "Alaska" {
		t.Fatalf("selection not applied: store=%q model=%q", store.Snapshot().Selected, m.snapshot.Selected)
	}
}

func TestModel_CursorStaysInBounds(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, runes("k"))
	if m.stateCursor != 0 {
		t.Fatalf("cursor = %d, want 0", m.stateCursor)
	}
	m = press(t, m, runes("G"))
	if m.stateCursor != 2 {
		t.Fatalf("cursor after G = %d, want 2", m.stateCursor)
	}
	m = press(t, m, runes("j"))
	if m.stateCursor != 2 {
		t.Fatalf("cursor past end = %d, want 2", m.stateCursor)
	}
}

func TestModel_FilterStates(t *testing.T) {
	m, actions, _ := newTestModel(t)

	m = press(t, m, runes("/"))
	if !m.filtering {
		t.Fatalf("filter not focused")
	}
	m = press(t, m, runes("tex"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.filtering {
		t.Fatalf("enter did not leave filter input")
	}
	if got := m.visibleNames(); len(got) != 1 || got[0] != "Texas" {
		t.Fatalf("visible = %v, want [Texas]", got)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if actions.last() != "select:Texas" {
		t.Fatalf("last action = %q, want select:Texas", actions.last())
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if len(m.visibleNames()) != 3 {
		t.Fatalf("esc did not clear filter: %v", m.visibleNames())
	}
}

func TestModel_FilterSwallowsCommandKeys(t *testing.T) {
	m, actions, _ := newTestModel(t)
	m = press(t, m, runes("/"))
	m = press(t, m, runes("a"))
	if actions.last() != "" {
		t.Fatalf("key reached actions while filtering: %q", actions.last())
	}
	if m.filter.Value() != "a" {
		t.Fatalf("filter value = %q, want a", m.filter.Value())
	}
}

func TestModel_FavoriteKeys(t *testing.T) {
	m, actions, store := newTestModel(t)

	m = press(t, m, runes("G"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, runes("a"))
	if actions.last() != "add:Texas" {
		t.Fatalf("last action = %q, want add:Texas", actions.last())
	}
	if !store.Snapshot().IsFavorite("Texas") {
		t.Fatalf("Texas not a favorite")
	}

	m = press(t, m, runes("f"))
	if actions.last() != "remove:Texas" {
		t.Fatalf("toggle on favorite = %q, want remove:Texas", actions.last())
	}
	m = press(t, m, runes("f"))
	if actions.last() != "add:Texas" {
		t.Fatalf("toggle on non-favorite = %q, want add:Texas", actions.last())
	}
	_ = m
}

func TestModel_RemoveFromFavoritesPane(t *testing.T) {
	m, actions, store := newTestModel(t)
	store.Dispatch(state.InitFavorites{List: []string{"Alaska", "Texas"}})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != paneFavorites {
		t.Fatalf("tab did not focus favorites")
	}

	m = press(t, m, runes("j"))
	m = press(t, m, runes("x"))
	if actions.last() != "remove:Texas" {
		t.Fatalf("last action = %q, want remove:Texas", actions.last())
	}
	if got := m.snapshot.Favorites; len(got) != 1 || got[0] != "Alaska" {
		t.Fatalf("favorites = %v, want [Alaska]", got)
	}
	if m.favCursor != 0 {
		t.Fatalf("favCursor = %d, want clamped to 0", m.favCursor)
	}
}

func TestModel_FetchFailureOpensModalOnce(t *testing.T) {
	m, actions, store := newTestModel(t)

	store.Dispatch(state.FetchStarted{Seq: 2})
	store.Dispatch(state.FetchFailed{Seq: 2, Err: errors.New("connection refused")})
	next, _ := m.Update(storeChangedMsg{})
	m = next.(Model)
	if m.modal == nil {
		t.Fatalf("modal not opened on failure")
	}
	if !strings.Contains(m.View(), "connection refused") {
		t.Fatalf("modal view missing error text")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.modal != nil {
		t.Fatalf("esc did not dismiss modal")
	}
	next, _ = m.Update(storeChangedMsg{})
	if next.(Model).modal != nil {
		t.Fatalf("dismissed failure reopened modal")
	}

	store.Dispatch(state.FetchStarted{Seq: 3})
	store.Dispatch(state.FetchFailed{Seq: 3, Err: errors.New("timeout")})
	m = press(t, next.(Model), runes("z"))
	if m.modal == nil {
		t.Fatalf("new failure did not open modal")
	}
	m = press(t, m, runes("r"))
	if actions.last() != "fetch" {
		t.Fatalf("retry from modal = %q, want fetch", actions.last())
	}
}

func TestModel_CycleThemePersists(t *testing.T) {
	m, actions, _ := newTestModel(t)
	if m.theme.Name != "Nightfox" {
		t.Fatalf("default theme = %q", m.theme.Name)
	}
	m = press(t, m, runes("T"))
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	if actions.last() != "theme:Kanagawa" {
		t.Fatalf("last action = %q", actions.last())
	}
}

func TestModel_DetailsRequiresSelection(t *testing.T) {
	m, _, store := newTestModel(t)
	m = press(t, m, runes("d"))
	if m.currentView != ViewHome {
		t.Fatalf("details opened without selection")
	}

	store.Dispatch(state.SelectState{Name: "Texas"})
	m = press(t, m, runes("z"))
	m = press(t, m, runes("d"))
	if m.currentView != ViewDetails {
		t.Fatalf("view = %v, want details", m.currentView)
	}
	content := m.detailContent()
	if !strings.Contains(content, "29,527,941") || !strings.Contains(content, "2020") {
		t.Fatalf("detail content missing rows:\n%s", content)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.currentView != ViewHome {
		t.Fatalf("esc did not return home")
	}
}

func TestModel_RefetchAndQuit(t *testing.T) {
	m, actions, _ := newTestModel(t)
	m = press(t, m, runes("r"))
	if actions.last() != "fetch" {
		t.Fatalf("r = %q, want fetch", actions.last())
	}
	_, cmd := m.Update(runes("e"))
	if cmd == nil {
		t.Fatalf("e returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("e did not quit")
	}
}

func TestModel_HelpOverlay(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, runes("?"))
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help not shown")
	}
	m = press(t, m, runes("j"))
	if m.showHelp {
		t.Fatalf("any key should close help")
	}
}

func TestModel_ViewRendersHome(t *testing.T) {
	m, _, store := newTestModel(t)
	store.Dispatch(state.SelectState{Name: "Texas"})
	store.Dispatch(state.AddFavorite{Name: "Alaska"})
	next, _ := m.Update(storeChangedMsg{})
	out := next.(Model).View()
	for _, want := range []string{"popview", "States (3)", "Favorites (1)", "Texas", "29,527,941"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestModel_NotReadyView(t *testing.T) {
	m := New(Options{})
	defer m.bridge.close()
	if got := m.View(); got != "Loading..." {
		t.Fatalf("View before size = %q", got)
	}
}

func TestStoreBridge_CoalescesAndCloses(t *testing.T) {
	store := state.NewStore(state.State{})
	b := newStoreBridge(store)
	store.Dispatch(state.SelectState{Name: "Ohio"})
	store.Dispatch(state.SelectState{Name: "Texas"})

	if _, ok := b.wait()().(storeChangedMsg); !ok {
		t.Fatalf("wait did not report change")
	}
	b.close()
	b.close()
	if msg := b.wait()(); msg != nil {
		t.Fatalf("wait after close = %#v, want nil", msg)
	}
}
