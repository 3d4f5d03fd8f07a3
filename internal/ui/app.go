package ui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stayfinder/internal/api"
	"github.com/five82/stayfinder/internal/config"
	"github.com/five82/stayfinder/internal/prefs"
	"github.com/five82/stayfinder/internal/state"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    api.Service
	Store     *state.Store
	Config    *config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	PollTick  time.Duration
	Logger    *slog.Logger
	// StartPath is the first route shown, "/" when empty.
	StartPath string
}

// Model is the root application state for Bubble Tea. It is the page
// controller: it owns the current route and wires input to the store and
// the API client.
type Model struct {
	// Configuration
	ctx       context.Context
	client    api.Service
	store     *state.Store
	config    *config.Config
	prefsPath string
	pollTick  time.Duration
	logger    *slog.Logger
	keys      keyMap

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool

	// Routing
	route      route
	history    []string
	setupCount int
	afterLogin string
	initCmd    tea.Cmd

	// Data state
	snapshot state.Snapshot

	// Pages
	home   homeState
	detail detailState
	form   *form

	// Overlays
	logs     logState
	showLogs bool
	showHelp bool
	notes    notifier
	spinner  spinner.Model
}

// New creates the model and runs setup for the start route.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	theme := GetTheme(opts.Prefs.Theme)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))

	m := Model{
		ctx:       ctx,
		client:    opts.Client,
		store:     store,
		config:    opts.Config,
		prefsPath: prefsPath,
		pollTick:  pollTick,
		logger:    logger,
		keys:      DefaultKeyMap(),
		theme:     theme,
		home:      newHomeState(opts.Prefs.LastCategory),
		spinner:   sp,
	}
	m.refreshSnapshot()

	start := opts.StartPath
	if start == "" {
		start = pathHome
	}
	m, cmd := m.navigate(start)
	m.initCmd = cmd
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.initCmd,
		tickCmd(m.pollTick),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		if m.snapshot.CurrentHostel != nil {
			m.updateDetailViewport()
		}
		if m.showLogs {
			m.updateLogViewport()
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(fetchSnapshotCmd(m.store), tickCmd(m.pollTick))

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.clampSelection()
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case listingsMsg:
		return m.handleListings(msg)

	case suggestTickMsg:
		return m.handleSuggestTick(msg)

	case suggestionsMsg:
		return m.handleSuggestions(msg), nil

	case listingMsg:
		return m.handleListing(msg)

	case imageProbeMsg:
		m.store.MarkImage(msg.url, msg.ok)
		if !msg.ok {
			m.logger.Debug("image failed to load", "url", msg.url)
		}
		m.refreshSnapshot()
		if m.route.kind == routeDetail && m.snapshot.CurrentHostel != nil {
			m.updateDetailViewport()
		}
		return m, nil

	case authMsg:
		return m.handleAuth(msg)

	case createMsg:
		return m.handleCreate(msg)

	case verifyMsg:
		return m.handleVerify(msg)

	case notifyExpireMsg:
		m.notes.expire(msg.id)
		return m, nil

	case logLinesMsg:
		return m.handleLogLines(msg), nil
	}
	return m, nil
}

// busy reports whether anything on screen is waiting on the network.
func (m Model) busy() bool {
	return m.snapshot.Loading || m.detail.loading || (m.form != nil && m.form.submitting)
}

// handleKey routes keys: overlays first, then global shortcuts, then the
// current page. Single-letter shortcuts are skipped while a text input has
// focus.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.showLogs {
		return m.handleLogsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Login):
		return m.navigate(pathLogin)
	case key.Matches(msg, m.keys.Register):
		return m.navigate(pathRegister)
	case key.Matches(msg, m.keys.AddListing):
		return m.navigate(pathAdd)
	case key.Matches(msg, m.keys.Account):
		return m.navigate(pathAccount)
	case key.Matches(msg, m.keys.Logout):
		return m.logout()
	}

	typing := m.form != nil || m.home.typing()
	if typing {
		if m.form != nil && key.Matches(msg, m.keys.Back) {
			return m.back()
		}
	} else {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.CycleTheme):
			m.theme = GetTheme(NextTheme(m.theme.Name))
			m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
			m.savePrefs(func(p *prefs.Prefs) { p.Theme = m.theme.Name })
			if m.snapshot.CurrentHostel != nil {
				m.updateDetailViewport()
			}
			return m, nil
		case key.Matches(msg, m.keys.Logs):
			return m.openLogs()
		case key.Matches(msg, m.keys.Home):
			m.history = nil
			return m.navigate(pathHome)
		case key.Matches(msg, m.keys.Back) && m.route.kind != routeHome:
			return m.back()
		case key.Matches(msg, m.keys.Back) && m.home.focus == focusGrid:
			m.notes.dismissAll()
			return m, nil
		}
	}

	switch m.route.kind {
	case routeHome:
		return m.handleHomeKey(msg)
	case routeDetail:
		return m.handleDetailKey(msg)
	}
	if m.form != nil {
		return m.handleFormKey(msg)
	}
	return m, nil
}

// refreshSnapshot pulls the store state after a change.
func (m *Model) refreshSnapshot() {
	m.snapshot = m.store.Snapshot()
}

// savePrefs applies fn to the stored preferences. Failures are logged only.
func (m Model) savePrefs(fn func(*prefs.Prefs)) {
	if err := prefs.Update(m.prefsPath, fn); err != nil {
		m.logger.Warn("save prefs failed", "path", m.prefsPath, "error", err)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	header := m.renderHeader()
	footer := m.renderCommandBar()
	notes := m.renderNotifications()
	if notes != "" {
		notes = lipgloss.PlaceHorizontal(m.width, lipgloss.Right, notes)
	}

	used := lipgloss.Height(header) + lipgloss.Height(footer)
	if notes != "" {
		used += lipgloss.Height(notes)
	}
	bodyHeight := maxInt(1, m.height-used-1)

	var body string
	switch {
	case m.showLogs:
		body = m.renderLogs()
	case m.route.kind == routeDetail:
		body = m.renderDetail()
	case m.form != nil:
		body = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.renderForm())
	default:
		body = m.renderHome(bodyHeight)
	}
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	parts := []string{header}
	if notes != "" {
		parts = append(parts, notes)
	}
	parts = append(parts, body, footer)
	return strings.Join(parts, "\n")
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, programOpts...)
	_, err := p.Run()
	return err
}
