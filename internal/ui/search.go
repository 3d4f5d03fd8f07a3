package ui

import (
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// debouncer delays suggestion fetches until the search box has been quiet
// for delay. Every keystroke bumps seq, so a pending timer or an in-flight
// response from an older keystroke no longer matches and is dropped.
type debouncer struct {
	delay time.Duration
	min   int
	seq   uint64
}

func newDebouncer() debouncer {
	return debouncer{delay: SuggestDebounce, min: SuggestMinChars}
}

// Input records a new value for the search box. It returns the timer command
// for the quiet period, or nil when the value is too short to query.
func (d *debouncer) Input(value string) tea.Cmd {
	d.seq++
	query := strings.TrimSpace(value)
	if utf8.RuneCountInString(query) < d.min {
		return nil
	}
	seq := d.seq
	return tea.Tick(d.delay, func(time.Time) tea.Msg {
		return suggestTickMsg{seq: seq, query: query}
	})
}

// Current reports whether seq belongs to the latest keystroke.
func (d debouncer) Current(seq uint64) bool {
	return seq == d.seq
}

// Cancel invalidates any pending timer and in-flight suggestion request.
func (d *debouncer) Cancel() {
	d.seq++
}
