package ui

import (
	"strings"
	"time"

	"github.com/five82/stayfinder/internal/api"
)

// renderHeader renders the top bar: brand, page, session and sync state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{
		bg.Render("stayfinder", styles.Logo),
		bg.Render(m.route.title(), styles.Text),
	}

	snap := m.snapshot
	switch {
	case snap.IsOffline():
		parts = append(parts,
			bg.Render("API "+api.UserMessage(snap.SessionError), styles.DangerText)+bg.Space()+
				bg.Render("Retrying...", styles.WarningText))
	case snap.User != nil:
		name := snap.User.Name
		if name == "" {
			name = snap.User.Email
		}
		parts = append(parts, bg.Render("● "+truncate(name, 24), styles.SuccessText))
	default:
		parts = append(parts, bg.Render("○ Guest", styles.MutedText))
	}

	if !compact {
		if ts := m.formatTimestamp(); ts != "" {
			parts = append(parts, bg.Render(ts, styles.MutedText))
		}
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// formatTimestamp describes the last listing refresh.
func (m Model) formatTimestamp() string {
	last := m.snapshot.LastUpdated
	if last.IsZero() {
		return ""
	}
	return "Updated " + last.Format("15:04:05") + " (" + humanizeDuration(time.Since(last)) + " ago)"
}

// renderCommandBar lists the keys that matter on the current page.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.route.kind {
	case routeDetail:
		commands = []cmd{
			{"b", "Book"},
			{"j/k", "Scroll"},
			{"esc", "Back"},
			{"g", "Home"},
		}
	case routeLogin, routeRegister, routeAdd, routeAccount:
		commands = []cmd{
			{"tab", "Next"},
			{"enter", "Submit"},
			{"esc", "Back"},
		}
	default:
		switch m.home.focus {
		case focusSearch:
			commands = []cmd{{"enter", "Search"}, {"↑/↓", "Suggestions"}, {"esc", "Done"}}
		case focusCity:
			commands = []cmd{{"tab", "Complete"}, {"enter", "Done"}}
		case focusAmenities:
			commands = []cmd{{"←/→", "Move"}, {"space", "Toggle"}, {"esc", "Done"}}
		default:
			commands = []cmd{
				{"/", "Search"},
				{"1-4", "Type"},
				{"[ ]", "Price"},
				{"a", "Amenities"},
				{"c", "City"},
				{"x", "Clear"},
				{"enter", "Open"},
			}
			if m.snapshot.User == nil {
				commands = append(commands, cmd{"^l", "Login"})
			} else {
				commands = append(commands, cmd{"^n", "List property"})
			}
		}
	}
	commands = append(commands, cmd{"?", "More"})

	colon := bg.Render(":", styles.FaintText)
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Footer.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}
