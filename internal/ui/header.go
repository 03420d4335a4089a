package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/popview/internal/state"
)

// renderHeader renders the status bar with all information.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	snap := m.snapshot

	parts := []string{bg.Render("popview", styles.Logo)}

	switch snap.Status {
	case state.StatusLoading:
		parts = append(parts, m.spinner.View()+bg.Space()+bg.Render("Loading", styles.InfoText))
	default:
		status := snap.Status.String()
		parts = append(parts, styles.StatusStyle(status).Render(strings.ToUpper(status)))
	}

	parts = append(parts,
		bg.Render("States:", styles.MutedText)+bg.Space()+bg.Render(fmt.Sprintf("%d", len(m.names)), styles.Text),
		bg.Render("Favorites:", styles.MutedText)+bg.Space()+bg.Render(fmt.Sprintf("%d", len(snap.Favorites)), styles.Text),
	)
	if !compact {
		parts = append(parts,
			bg.Render("Records:", styles.MutedText)+bg.Space()+bg.Render(fmt.Sprintf("%d", len(snap.Records)), styles.Text))
	}

	if snap.Error != "" {
		msg := snap.Error
		if compact {
			msg = truncate(msg, 30)
		} else {
			msg = truncate(msg, 60)
		}
		parts = append(parts, bg.Render("● "+msg, styles.DangerText))
	}

	if !snap.LastUpdated.IsZero() {
		label := snap.LastUpdated.Format("15:04:05")
		if !compact {
			label += " (" + humanizeDuration(time.Since(snap.LastUpdated)) + ")"
		}
		parts = append(parts, bg.Render("Updated", styles.FaintText)+bg.Space()+bg.Render(label, styles.MutedText))
	}

	if !compact {
		parts = append(parts, bg.Render(m.theme.Name, styles.FaintText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(styles.Header.Render(bg.Join(parts, "  ")))
}
