package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/stayfinder/internal/api"
	"github.com/five82/stayfinder/internal/logtail"
	"github.com/five82/stayfinder/internal/state"
)

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// listingsMsg carries the result of a search issued with request number seq.
type listingsMsg struct {
	seq      uint64
	query    string
	category string
	items    []api.Listing
	count    int
	err      error
}

type suggestTickMsg struct {
	seq   uint64
	query string
}

type suggestionsMsg struct {
	seq   uint64
	items []api.Listing
	err   error
}

type listingMsg struct {
	id      string
	listing api.Listing
	err     error
}

type imageProbeMsg struct {
	url string
	ok  bool
}

type authMsg struct {
	kind   formKind
	result api.AuthResult
	err    error
}

type createMsg struct {
	err error
}

type verifyMsg struct {
	user api.User
	err  error
}

type notifyExpireMsg struct {
	id int
}

type logLinesMsg struct {
	lines []string
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func (m Model) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(m.ctx, RequestTimeout)
}

func (m Model) searchCmd(seq uint64, query, category string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		res, err := client.SearchListings(ctx, query, category)
		return listingsMsg{seq: seq, query: query, category: category, items: res.Items, count: res.Count, err: err}
	}
}

func (m Model) suggestCmd(seq uint64, query, category string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		res, err := client.SearchListings(ctx, query, category)
		return suggestionsMsg{seq: seq, items: res.Items, err: err}
	}
}

func (m Model) fetchListingCmd(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		listing, err := client.FetchListing(ctx, id)
		return listingMsg{id: id, listing: listing, err: err}
	}
}

func (m Model) probeImageCmd(url string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		return imageProbeMsg{url: url, ok: client.ProbeImage(ctx, url) == nil}
	}
}

func (m Model) authCmd(kind formKind, call func(context.Context) (api.AuthResult, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		res, err := call(ctx)
		return authMsg{kind: kind, result: res, err: err}
	}
}

func (m Model) createCmd(listing api.NewListing) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		return createMsg{err: client.CreateListing(ctx, listing)}
	}
}

func (m Model) verifyCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		user, err := client.Verify(ctx)
		return verifyMsg{user: user, err: err}
	}
}

func notifyExpireCmd(id int) tea.Cmd {
	return tea.Tick(NotificationTTL, func(time.Time) tea.Msg {
		return notifyExpireMsg{id: id}
	})
}

func readLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogOverlayLines)
		return logLinesMsg{lines: lines, err: err}
	}
}
