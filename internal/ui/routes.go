package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/stayfinder/internal/api"
)

type routeKind int

const (
	routeHome routeKind = iota
	routeLogin
	routeRegister
	routeAdd
	routeAccount
	routeDetail
)

// Route paths.
const (
	pathHome     = "/"
	pathLogin    = "/login"
	pathRegister = "/register"
	pathAdd      = "/add"
	pathAccount  = "/account-settings"
	pathDetail   = "/hostel/"
)

type route struct {
	kind routeKind
	path string
	id   string
}

// parseRoute maps a path to a screen. Unknown paths report ok=false.
func parseRoute(path string) (route, bool) {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path != "/" {
		path = strings.TrimRight(path, "/")
	}
	switch path {
	case "", "/", "/index.html", "/owner-dashboard":
		return route{kind: routeHome, path: pathHome}, true
	case pathLogin:
		return route{kind: routeLogin, path: pathLogin}, true
	case pathRegister:
		return route{kind: routeRegister, path: pathRegister}, true
	case pathAdd:
		return route{kind: routeAdd, path: pathAdd}, true
	case pathAccount:
		return route{kind: routeAccount, path: pathAccount}, true
	}
	if id, ok := strings.CutPrefix(path, pathDetail); ok && id != "" && !strings.Contains(id, "/") {
		return route{kind: routeDetail, path: path, id: id}, true
	}
	return route{kind: routeHome, path: pathHome}, false
}

func (r route) title() string {
	switch r.kind {
	case routeLogin:
		return "Login"
	case routeRegister:
		return "Register"
	case routeAdd:
		return "List Your Property"
	case routeAccount:
		return "Account Settings"
	case routeDetail:
		return "Hostel Details"
	default:
		return "Find Hostels & PGs"
	}
}

// navigate switches to path and runs that screen's setup once.
func (m Model) navigate(path string) (Model, tea.Cmd) {
	r, ok := parseRoute(path)
	var cmds []tea.Cmd
	if !ok {
		cmds = append(cmds, m.notify(levelWarning, "Page not found: "+path))
	}
	if m.route.path != "" && m.route.path != r.path {
		m.history = append(m.history, m.route.path)
	}
	m.route = r
	var cmd tea.Cmd
	m, cmd = m.setupRoute()
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// back returns to the previous screen, or home.
func (m Model) back() (Model, tea.Cmd) {
	if len(m.history) == 0 {
		if m.route.kind == routeHome {
			return m, nil
		}
		m.route = route{kind: routeHome, path: pathHome}
		return m.setupRoute()
	}
	prev := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	m.route, _ = parseRoute(prev)
	return m.setupRoute()
}

// setupRoute prepares the current screen. It runs exactly once per
// navigation; redraws never call it.
func (m Model) setupRoute() (Model, tea.Cmd) {
	m.setupCount++
	m.logger.Debug("route setup", "path", m.route.path, "setups", m.setupCount)
	m.form = nil
	m.home.blurAll()

	switch m.route.kind {
	case routeHome:
		m.home.selected = 0
		return m.runSearch()

	case routeDetail:
		m.store.SetCurrentHostel(nil)
		m.detail = newDetailState(m.width, m.height)
		m.detail.id = m.route.id
		m.detail.loading = true
		m.refreshSnapshot()
		return m, m.fetchListingCmd(m.route.id)

	case routeLogin:
		m.form = newLoginForm()
		return m, nil

	case routeRegister:
		m.form = newRegisterForm()
		return m, nil

	case routeAdd:
		if m.snapshot.User == nil {
			return m.requireLogin("Please login to list a property")
		}
		m.form = newAddForm()
		return m, nil

	case routeAccount:
		if m.snapshot.User == nil {
			return m.requireLogin("Please login to manage your account")
		}
		m.form = newProfileForm(m.snapshot.User)
		return m, m.verifyCmd()
	}
	return m, nil
}

// requireLogin sends the user to the login form and remembers where to go
// afterwards.
func (m Model) requireLogin(message string) (Model, tea.Cmd) {
	m.afterLogin = m.route.path
	cmd := m.notify(levelWarning, message)
	m.route = route{kind: routeLogin, path: pathLogin}
	m.form = newLoginForm()
	return m, cmd
}

// loginRedirect picks where to go after a successful login.
func (m Model) loginRedirect(res api.AuthResult) string {
	if m.afterLogin != "" {
		return m.afterLogin
	}
	if r, ok := parseRoute(res.Redirect); ok && res.Redirect != "" {
		return r.path
	}
	return pathHome
}

func categoryIndex(category string) int {
	for i, c := range Categories {
		if strings.EqualFold(c, category) {
			return i
		}
	}
	return 0
}

func (m Model) category() string {
	return Categories[m.home.category]
}
