package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Notification levels.
const (
	levelInfo    = "info"
	levelSuccess = "success"
	levelWarning = "warning"
	levelError   = "error"
)

type notification struct {
	id      int
	level   string
	message string
}

// notifier is the toast side channel. Each toast expires on its own timer;
// newer toasts stack below older ones.
type notifier struct {
	nextID int
	items  []notification
}

const maxNotifications = 3

func (n *notifier) push(level, message string) tea.Cmd {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil
	}
	n.nextID++
	n.items = append(n.items, notification{id: n.nextID, level: level, message: message})
	if len(n.items) > maxNotifications {
		n.items = n.items[len(n.items)-maxNotifications:]
	}
	return notifyExpireCmd(n.nextID)
}

func (n *notifier) expire(id int) {
	for i, item := range n.items {
		if item.id == id {
			n.items = append(n.items[:i], n.items[i+1:]...)
			return
		}
	}
}

func (n *notifier) dismissAll() {
	n.items = nil
}

// notify logs the message and shows it as a toast.
func (m *Model) notify(level, message string) tea.Cmd {
	switch level {
	case levelError:
		m.logger.Error("notification", "message", message)
	case levelWarning:
		m.logger.Warn("notification", "message", message)
	default:
		m.logger.Info("notification", "level", level, "message", message)
	}
	return m.notes.push(level, message)
}

func (m Model) renderNotifications() string {
	if len(m.notes.items) == 0 {
		return ""
	}
	icons := map[string]string{
		levelInfo:    "ℹ",
		levelSuccess: "✓",
		levelWarning: "!",
		levelError:   "✗",
	}
	lines := make([]string, 0, len(m.notes.items))
	for _, item := range m.notes.items {
		color := lipgloss.Color(m.theme.LevelColor(item.level))
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color).
			Foreground(lipgloss.Color(m.theme.Text)).
			Padding(0, 1).
			MaxWidth(maxInt(20, m.width/2))
		icon := lipgloss.NewStyle().Foreground(color).Bold(true).Render(icons[item.level])
		lines = append(lines, box.Render(icon+" "+item.message))
	}
	return lipgloss.JoinVertical(lipgloss.Right, lines...)
}
