package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// errorModal reports a failed fetch. It carries the sequence of the failed
// fetch so a later failure opens a fresh modal.
type errorModal struct {
	message string
	seq     uint64
	retry   func() tea.Cmd
}

func (e errorModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return e, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Quit):
		return e, tea.Quit, true
	case key.Matches(keyMsg, keys.Refetch):
		var cmd tea.Cmd
		if e.retry != nil {
			cmd = e.retry()
		}
		return e, cmd, true
	case key.Matches(keyMsg, keys.Escape), key.Matches(keyMsg, keys.Select):
		return e, nil, true
	}
	return e, nil, false
}

func (e errorModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Could not load population data"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(e.message))
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("r retry · enter/esc dismiss · e quit"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Danger)).
		Padding(1, 2).
		Width(minInt(60, maxInt(width-4, 20)))

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
