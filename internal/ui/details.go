package ui

import (
	"fmt"
	"strings"

	"github.com/five82/popview/internal/population"
)

// renderDetails renders the full-width chart and table for the selection.
func (m Model) renderDetails() string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render(m.snapshot.Selected) +
		"  " + styles.FaintText.Render("j/k scroll · esc back")
	body := m.paneStyle(true).
		Width(m.detailViewport.Width + 2).
		Render(m.detailViewport.View())
	return title + "\n" + body
}

// updateDetailViewport rebuilds the details content from the snapshot.
func (m *Model) updateDetailViewport() {
	m.detailViewport.SetContent(m.detailContent())
}

func (m Model) detailContent() string {
	styles := m.theme.Styles()
	selected := m.snapshot.Selected
	if selected == "" {
		return styles.MutedText.Render("No state selected.")
	}
	records := population.FilterByState(selected, m.snapshot.Records)

	var b strings.Builder
	if len(records) > 0 {
		first := records[len(records)-1]
		last := records[0]
		b.WriteString(styles.Text.Render(fmt.Sprintf("%d records, %d to %d", len(records), first.Year, last.Year)))
		if m.snapshot.IsFavorite(selected) {
			b.WriteString("  " + styles.WarningText.Render("★ favorite"))
		}
		b.WriteString("\n\n")
	}
	b.WriteString(m.renderChart(population.ChartSeries(selected, m.snapshot.Records), maxInt(m.detailViewport.Width-2, 10)))
	b.WriteString("\n\n")
	b.WriteString(m.renderTable(records))
	return b.String()
}
