package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/five82/popview/internal/population"
	"github.com/five82/popview/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewHome View = iota
	ViewDetails
	ViewLogs
)

// pane identifies the focused list on the home view.
type pane int

const (
	paneStates pane = iota
	paneFavorites
)

// Actions is the dispatch surface the UI drives. Implementations perform
// their own persistence and logging; the UI only reads state back through
// the store.
type Actions interface {
	FetchPopulation(ctx context.Context) error
	SetSelectedState(ctx context.Context, name string)
	AddFavorite(ctx context.Context, name string)
	RemoveFavorite(ctx context.Context, name string)
	SetTheme(ctx context.Context, name string)
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Actions   Actions
	Store     *state.Store
	ThemeName string
	LogFile   string
	Log       zerolog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx     context.Context
	actions Actions
	store   *state.Store
	bridge  *storeBridge
	logFile string
	log     zerolog.Logger
	keys    keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	focus       pane

	// Data state
	snapshot state.State
	names    []string

	// Home state
	stateCursor int
	favCursor   int
	filter      textinput.Model
	filtering   bool
	spinner     spinner.Model

	// Details and logs
	detailViewport viewport.Model
	logViewport    viewport.Model
	logErr         error

	// Overlays
	showHelp     bool
	modal        Modal
	dismissedSeq uint64
}

// New creates a new Bubble Tea model and subscribes it to opts.Store.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}

	filter := textinput.New()
	filter.Prompt = "/"
	filter.Placeholder = "filter states"
	filter.CharLimit = 32

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:            ctx,
		actions:        opts.Actions,
		store:          store,
		bridge:         newStoreBridge(store),
		logFile:        opts.LogFile,
		log:            opts.Log,
		keys:           DefaultKeyMap(),
		theme:          GetTheme(opts.ThemeName),
		currentView:    ViewHome,
		filter:         filter,
		spinner:        sp,
		detailViewport: viewport.New(0, 0),
		logViewport:    viewport.New(0, 0),
	}
	m.applySnapshot(store.Snapshot())
	return m
}

// Init implements tea.Model. It starts the initial fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.bridge.wait(),
		m.fetchCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeViewports()
		return m, nil

	case storeChangedMsg:
		m.applySnapshot(m.store.Snapshot())
		return m, m.bridge.wait()

	case logsLoadedMsg:
		m.handleLogsLoaded(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// applySnapshot replaces the cached state and opens the error modal when a
// new fetch failure arrives.
func (m *Model) applySnapshot(snap state.State) {
	m.snapshot = snap
	m.names = population.UniqueStateNames(snap.Records)
	m.stateCursor = clamp(m.stateCursor, len(m.visibleNames()))
	m.favCursor = clamp(m.favCursor, len(snap.Favorites))

	if snap.Status == state.StatusFailed && snap.FetchSeq != m.dismissedSeq && m.modal == nil {
		m.modal = errorModal{message: snap.Error, seq: snap.FetchSeq, retry: m.fetchCmd}
	}
	if m.currentView == ViewDetails {
		m.updateDetailViewport()
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		next, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			if em, ok := m.modal.(errorModal); ok {
				m.dismissedSeq = em.seq
			}
			m.modal = nil
		} else {
			m.modal = next
		}
		return m, cmd
	}

	if m.filtering {
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		name := m.theme.Name
		return m, m.perform(func(ctx context.Context, a Actions) { a.SetTheme(ctx, name) })

	case key.Matches(msg, m.keys.Refetch):
		if m.currentView == ViewLogs {
			return m, loadLogsCmd(m.logFile)
		}
		return m, m.fetchCmd()

	case key.Matches(msg, m.keys.Logs):
		m.currentView = ViewLogs
		return m, loadLogsCmd(m.logFile)

	case key.Matches(msg, m.keys.Details):
		if m.snapshot.HasSelection() {
			m.currentView = ViewDetails
			m.updateDetailViewport()
			m.detailViewport.GotoTop()
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.currentView != ViewHome {
			m.currentView = ViewHome
			return m, nil
		}
		if m.filter.Value() != "" {
			m.filter.Reset()
			m.stateCursor = 0
		}
		return m, nil
	}

	switch m.currentView {
	case ViewHome:
		return m.handleHomeKey(msg)
	case ViewDetails:
		var cmd tea.Cmd
		m.detailViewport, cmd = m.detailViewport.Update(msg)
		return m, cmd
	case ViewLogs:
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleFilterKey routes keys to the filter input while it has focus.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filter.Reset()
		m.filter.Blur()
		m.filtering = false
		m.stateCursor = 0
		return m, nil
	case tea.KeyEnter:
		m.filter.Blur()
		m.filtering = false
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.stateCursor = 0
	return m, cmd
}

// handleHomeKey processes keyboard input for the home view.
func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Tab):
		if m.focus == paneStates {
			m.focus = paneFavorites
		} else {
			m.focus = paneStates
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.focus = paneStates
		m.filtering = true
		return m, m.filter.Focus()

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(-1 << 30)
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(1 << 30)

	case key.Matches(msg, m.keys.Select):
		name := m.highlighted()
		if name == "" {
			return m, nil
		}
		return m, m.perform(func(ctx context.Context, a Actions) { a.SetSelectedState(ctx, name) })

	case key.Matches(msg, m.keys.AddFavorite):
		name := m.favoriteTarget()
		if name == "" {
			return m, nil
		}
		return m, m.perform(func(ctx context.Context, a Actions) { a.AddFavorite(ctx, name) })

	case key.Matches(msg, m.keys.RemoveFavorite):
		name := m.favoriteTarget()
		if name == "" {
			return m, nil
		}
		return m, m.perform(func(ctx context.Context, a Actions) { a.RemoveFavorite(ctx, name) })

	case key.Matches(msg, m.keys.ToggleFavorite):
		name := m.favoriteTarget()
		if name == "" {
			return m, nil
		}
		if m.snapshot.IsFavorite(name) {
			return m, m.perform(func(ctx context.Context, a Actions) { a.RemoveFavorite(ctx, name) })
		}
		return m, m.perform(func(ctx context.Context, a Actions) { a.AddFavorite(ctx, name) })
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if m.focus == paneFavorites {
		m.favCursor = clamp(m.favCursor+delta, len(m.snapshot.Favorites))
		return
	}
	m.stateCursor = clamp(m.stateCursor+delta, len(m.visibleNames()))
}

// visibleNames returns the state names matching the filter.
func (m Model) visibleNames() []string {
	query := m.filter.Value()
	if strings.TrimSpace(query) == "" {
		return m.names
	}
	out := make([]string, 0, len(m.names))
	for _, name := range m.names {
		if matchesFilter(name, query) {
			out = append(out, name)
		}
	}
	return out
}

// highlighted returns the name under the cursor in the focused pane.
func (m Model) highlighted() string {
	if m.focus == paneFavorites {
		if len(m.snapshot.Favorites) == 0 {
			return ""
		}
		return m.snapshot.Favorites[clamp(m.favCursor, len(m.snapshot.Favorites))]
	}
	names := m.visibleNames()
	if len(names) == 0 {
		return ""
	}
	return names[clamp(m.stateCursor, len(names))]
}

// favoriteTarget picks the state a favorite key acts on: the highlighted
// favorite, else the selected state, else the highlighted state.
func (m Model) favoriteTarget() string {
	if m.focus == paneFavorites {
		return m.highlighted()
	}
	if m.snapshot.HasSelection() {
		return m.snapshot.Selected
	}
	return m.highlighted()
}

// renderMain renders the header, command bar and active view.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDetails:
		return m.renderDetails()
	case ViewLogs:
		return m.renderLogs()
	default:
		return m.renderHome()
	}
}

// contentHeight is the room left under the header and command bar.
func (m Model) contentHeight() int {
	return maxInt(m.height-2, 3)
}

func (m *Model) resizeViewports() {
	w := maxInt(m.width-4, 10)
	h := maxInt(m.contentHeight()-3, 1)
	m.detailViewport.Width, m.detailViewport.Height = w, h
	m.logViewport.Width, m.logViewport.Height = w, h
	m.updateDetailViewport()
}

func (m Model) paneStyle(focused bool) lipgloss.Style {
	styles := m.theme.Styles()
	if focused {
		return styles.FocusedPane
	}
	return styles.Pane
}

// Messages

type storeChangedMsg struct{}

// Commands

// perform runs fn against the actions off the UI goroutine. Results come
// back through the store subscription.
func (m Model) perform(fn func(ctx context.Context, a Actions)) tea.Cmd {
	if m.actions == nil {
		return nil
	}
	ctx, actions := m.ctx, m.actions
	return func() tea.Msg {
		fn(ctx, actions)
		return nil
	}
}

func (m Model) fetchCmd() tea.Cmd {
	return m.perform(func(ctx context.Context, a Actions) { _ = a.FetchPopulation(ctx) })
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	defer m.bridge.close()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
