package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stayfinder/internal/logtail"
)

// logLevels is the cycle for the overlay's minimum level filter.
var logLevels = []string{"", "INFO", "WARN", "ERROR"}

// logState holds the client log overlay.
type logState struct {
	viewport viewport.Model
	rawLines []string
	level    int
	err      error
}

func (m *Model) initLogViewport() {
	m.logs.viewport = viewport.New(maxInt(20, m.width-4), maxInt(3, m.height-5))
}

func (m Model) logPath() string {
	if m.config == nil {
		return ""
	}
	return m.config.LogPath()
}

func (m Model) openLogs() (Model, tea.Cmd) {
	m.showLogs = true
	if m.logs.viewport.Width == 0 {
		m.initLogViewport()
	}
	return m, readLogCmd(m.logPath())
}

func (m Model) handleLogLines(msg logLinesMsg) Model {
	m.logs.err = msg.err
	m.logs.rawLines = msg.lines
	m.updateLogViewport()
	return m
}

func (m *Model) updateLogViewport() {
	m.logs.viewport.Width = maxInt(20, m.width-4)
	m.logs.viewport.Height = maxInt(3, m.height-5)
	m.logs.viewport.SetContent(m.renderLogContent())
	m.logs.viewport.GotoBottom()
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Logs):
		m.showLogs = false
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, readLogCmd(m.logPath())
	case msg.String() == "f":
		m.logs.level = (m.logs.level + 1) % len(logLevels)
		m.updateLogViewport()
		return m, nil
	}
	var cmd tea.Cmd
	m.logs.viewport, cmd = m.logs.viewport.Update(msg)
	return m, cmd
}

func (m Model) renderLogContent() string {
	styles := m.theme.Styles()
	if m.logs.err != nil {
		return styles.DangerText.Render("Cannot read log: " + m.logs.err.Error())
	}
	lines := logtail.Filter(m.logs.rawLines, logLevels[m.logs.level])
	if len(lines) == 0 {
		return styles.FaintText.Render("No log lines yet.")
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, m.colorizeLogLine(logtail.Parse(line), styles))
	}
	return strings.Join(out, "\n")
}

func (m Model) colorizeLogLine(e logtail.Entry, styles Styles) string {
	if e.Level == "" {
		return styles.Text.Render(e.Raw)
	}
	var b strings.Builder
	if len(e.Time) >= 19 {
		b.WriteString(styles.FaintText.Render(strings.Replace(e.Time[:19], "T", " ", 1)))
		b.WriteString(" ")
	}
	level := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.LevelColor(e.Level))).Bold(true)
	b.WriteString(level.Render(padRight(e.Level, 5)))
	b.WriteString(" ")
	b.WriteString(styles.Text.Render(e.Message))
	if e.Attrs != "" {
		b.WriteString(" ")
		b.WriteString(styles.MutedText.Render(e.Attrs))
	}
	return b.String()
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	title := "Client Log"
	if lvl := logLevels[m.logs.level]; lvl != "" {
		title = fmt.Sprintf("Client Log (%s+)", lvl)
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Width(maxInt(20, m.width-2))
	header := styles.AccentText.Bold(true).Render(title) + "  " +
		styles.FaintText.Render(truncate(m.logPath(), 60))
	status := styles.MutedText.Render("f level • r reload • j/k scroll • esc close")
	return header + "\n" + box.Render(m.logs.viewport.View()) + "\n" + status
}
