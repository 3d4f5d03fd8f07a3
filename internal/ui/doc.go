// Package ui provides the terminal interface for browsing hostel and PG
// listings.
//
// # Architecture Overview
//
// The package is a Bubble Tea program. Model is the page controller: it owns
// the current route, forwards input to the page that has focus, and turns
// API results into state.Store updates. Rendering is pulled: after every
// store change the model takes a fresh Snapshot and View draws from it. The
// card grid itself is produced by the render package.
//
// # Package Structure
//
//   - app.go: Model, Options, Update/View and global key routing
//   - routes.go: path parsing, navigation history and per-route setup
//   - home.go: search box, category buttons, price slider, amenity picker, grid
//   - search.go: debounced suggestion fetches with a sequence guard
//   - detail.go: listing detail viewport and the booking action
//   - forms.go: login, register, add listing and account forms with validation
//   - notify.go: toast notifications
//   - logs.go: client log overlay
//   - header.go, help.go, theme.go, keys.go: chrome
//
// # Routes
//
//   - /: listings with filters
//   - /hostel/<id>: one listing
//   - /login, /register: authentication
//   - /add, /account-settings: require a signed-in user
//
// Setup for a route runs exactly once per navigation. Redraws never re-run it.
//
// # Ordering
//
// Every listing load takes a number from state.Store.BeginRequest; results
// for older numbers are dropped, so the last search issued wins regardless
// of response order. Suggestions use their own counter in debouncer.
//
// # Usage Example
//
//	opts := ui.Options{
//		Context: ctx,
//		Client:  client,
//		Store:   store,
//		Config:  &cfg,
//		Prefs:   p,
//		Logger:  logger,
//	}
//	if err := ui.Run(opts); err != nil {
//		return err
//	}
package ui
