package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/popview/internal/population"
)

// renderHome lays out the state list, chart and favorites panes.
func (m Model) renderHome() string {
	height := m.contentHeight()
	// Pane borders take two rows and two columns; padding two more columns.
	inner := maxInt(height-2, 1)

	states := m.paneStyle(m.focus == paneStates).
		Width(StateListWidth + 2).
		Height(inner).
		Render(m.renderStateList(StateListWidth, inner))

	if m.width < LayoutCompactWidth {
		rightW := maxInt(m.width-StateListWidth-8, 10)
		favH := minInt(maxInt(len(m.snapshot.Favorites)+1, 3), inner/2)
		chartH := maxInt(inner-favH-2, 1)
		right := lipgloss.JoinVertical(lipgloss.Left,
			m.paneStyle(false).Width(rightW+2).Height(chartH).Render(m.renderChartPane(rightW)),
			m.paneStyle(m.focus == paneFavorites).Width(rightW+2).Height(favH).Render(m.renderFavorites(rightW, favH)),
		)
		return lipgloss.JoinHorizontal(lipgloss.Top, states, right)
	}

	chartW := maxInt(m.width-StateListWidth-FavoritesWidth-12, 10)
	chart := m.paneStyle(false).
		Width(chartW + 2).
		Height(inner).
		Render(m.renderChartPane(chartW))
	favorites := m.paneStyle(m.focus == paneFavorites).
		Width(FavoritesWidth + 2).
		Height(inner).
		Render(m.renderFavorites(FavoritesWidth, inner))
	return lipgloss.JoinHorizontal(lipgloss.Top, states, chart, favorites)
}

// renderStateList renders the filterable state list.
func (m Model) renderStateList(width, height int) string {
	styles := m.theme.Styles()
	names := m.visibleNames()

	var lines []string
	lines = append(lines, styles.AccentText.Bold(true).Render(fmt.Sprintf("States (%d)", len(names))))
	if m.filtering {
		lines = append(lines, m.filter.View())
	} else if q := m.filter.Value(); q != "" {
		lines = append(lines, styles.MutedText.Render("/"+q))
	}

	if len(m.names) == 0 {
		if m.snapshot.IsLoading {
			lines = append(lines, m.spinner.View()+" "+styles.MutedText.Render("Loading..."))
		} else {
			lines = append(lines, styles.MutedText.Render("No data. Press r to reload."))
		}
		return strings.Join(lines, "\n")
	}
	if len(names) == 0 {
		lines = append(lines, styles.MutedText.Render("No matches."))
		return strings.Join(lines, "\n")
	}

	rows := maxInt(height-len(lines), 1)
	start, end := window(m.stateCursor, len(names), rows)
	for i := start; i < end; i++ {
		lines = append(lines, m.listLine(names[i], width, i == m.stateCursor, m.focus == paneStates))
	}
	return strings.Join(lines, "\n")
}

// renderFavorites renders the favorites pane.
func (m Model) renderFavorites(width, height int) string {
	styles := m.theme.Styles()
	favs := m.snapshot.Favorites

	lines := []string{styles.AccentText.Bold(true).Render(fmt.Sprintf("Favorites (%d)", len(favs)))}
	if len(favs) == 0 {
		lines = append(lines, styles.MutedText.Render(truncate("None yet. Press a to add.", width)))
		return strings.Join(lines, "\n")
	}
	rows := maxInt(height-1, 1)
	start, end := window(m.favCursor, len(favs), rows)
	for i := start; i < end; i++ {
		lines = append(lines, m.listLine(favs[i], width, i == m.favCursor, m.focus == paneFavorites))
	}
	return strings.Join(lines, "\n")
}

// listLine renders one state row with selection and favorite markers.
func (m Model) listLine(name string, width int, cursor, focused bool) string {
	styles := m.theme.Styles()
	marker := "  "
	switch {
	case name == m.snapshot.Selected:
		marker = "● "
	case m.snapshot.IsFavorite(name):
		marker = "★ "
	}
	text := padRight(marker+truncate(name, width-2), width)
	switch {
	case cursor && focused:
		return styles.Selected.Render(text)
	case cursor:
		return styles.AccentText.Render(text)
	case name == m.snapshot.Selected:
		return styles.WarningText.Render(text)
	default:
		return styles.Text.Render(text)
	}
}

// renderChartPane renders the selected state's title and bar chart.
func (m Model) renderChartPane(width int) string {
	styles := m.theme.Styles()
	selected := m.snapshot.Selected
	if selected == "" {
		return styles.MutedText.Render("Select a state with enter.")
	}

	title := styles.Text.Bold(true).Render(selected)
	if m.snapshot.IsFavorite(selected) {
		title += " " + styles.WarningText.Render("★")
	}
	var b strings.Builder
	b.WriteString(title)
	if latest, ok := population.Latest(selected, m.snapshot.Records); ok {
		b.WriteString("  ")
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("%s in %d", FormatCount(latest.Population), latest.Year)))
	}
	b.WriteString("\n\n")
	if m.snapshot.IsLoading && len(m.snapshot.Records) == 0 {
		b.WriteString(m.spinner.View() + " " + styles.MutedText.Render("Loading..."))
		return b.String()
	}
	points := population.ChartSeries(selected, m.snapshot.Records)
	if len(points) == 0 {
		b.WriteString(styles.MutedText.Render("No records for this state."))
		return b.String()
	}
	b.WriteString(m.renderChart(points, width))
	return b.String()
}

// window returns the [start, end) slice of n rows that keeps cursor visible.
func window(cursor, n, rows int) (int, int) {
	if rows <= 0 || n <= 0 {
		return 0, 0
	}
	if n <= rows {
		return 0, n
	}
	start := 0
	if cursor >= rows {
		start = cursor - rows + 1
	}
	return start, minInt(start+rows, n)
}
