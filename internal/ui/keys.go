package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Home       key.Binding
	Back       key.Binding
	Logs       key.Binding
	Login      key.Binding
	Register   key.Binding
	AddListing key.Binding
	Account    key.Binding
	Logout     key.Binding

	// Home
	Search    key.Binding
	Category  key.Binding
	PriceDown key.Binding
	PriceUp   key.Binding
	Amenities key.Binding
	City      key.Binding
	Clear     key.Binding
	Reload    key.Binding

	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Detail
	Book key.Binding

	// Forms
	NextField key.Binding
	PrevField key.Binding
	Toggle    key.Binding
	Confirm   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Home: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "Home"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),
		Logs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Client log"),
		),
		Login: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "Login"),
		),
		Register: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Register"),
		),
		AddListing: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "List a property"),
		),
		Account: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "Account settings"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "Logout"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		Category: key.NewBinding(
			key.WithKeys("1", "2", "3", "4"),
			key.WithHelp("1-4", "All/Hostel/PG/Apartment"),
		),
		PriceDown: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "Lower max price"),
		),
		PriceUp: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "Raise max price"),
		),
		Amenities: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Amenities"),
		),
		City: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "City filter"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Clear filters"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/left", "Move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/right", "Move right"),
		),

		Book: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Book"),
		),

		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Toggle"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Category, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Category, k.PriceDown, k.PriceUp, k.Amenities, k.City, k.Clear, k.Reload},
		{k.Up, k.Down, k.Left, k.Right, k.Confirm},
		{k.Book},
		{k.NextField, k.PrevField, k.Toggle},
		{k.Home, k.Back, k.Login, k.Register, k.AddListing, k.Account, k.Logout},
		{k.Logs, k.CycleTheme, k.Help, k.Quit},
	}
}
