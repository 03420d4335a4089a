package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/five82/popview/internal/logtail"
)

type logsLoadedMsg struct {
	lines []string
	err   error
}

func loadLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if strings.TrimSpace(path) == "" {
			return logsLoadedMsg{}
		}
		lines, err := logtail.Read(path, LogTailLines)
		return logsLoadedMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogsLoaded(msg logsLoadedMsg) {
	m.logErr = msg.err
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Str("path", m.logFile).Msg("read log file failed")
		m.logViewport.SetContent("")
		return
	}
	entries := logtail.Filter(msg.lines, zerolog.TraceLevel)
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = m.colorizeEntry(e)
	}
	m.logViewport.SetContent(strings.Join(lines, "\n"))
	m.logViewport.GotoBottom()
}

// colorizeEntry renders a log entry with its level colored.
func (m Model) colorizeEntry(e logtail.Entry) string {
	text := e.Format()
	color := ""
	switch e.Level {
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		color = m.theme.Danger
	case zerolog.WarnLevel:
		color = m.theme.Warning
	case zerolog.InfoLevel:
		color = m.theme.Success
	case zerolog.DebugLevel, zerolog.TraceLevel:
		color = m.theme.Info
	}
	if color == "" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Text)).Render(text)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render("Log") + "  " +
		styles.FaintText.Render(truncate(m.logFile, maxInt(m.width-30, 10))+" · r reload · esc back")

	var body string
	switch {
	case m.logErr != nil:
		body = styles.DangerText.Render(m.logErr.Error())
	case m.logViewport.TotalLineCount() == 0 || strings.TrimSpace(m.logViewport.View()) == "":
		body = styles.MutedText.Render("No log entries yet.")
	default:
		body = m.logViewport.View()
	}
	return title + "\n" + m.paneStyle(true).Width(m.logViewport.Width+2).Render(body)
}
