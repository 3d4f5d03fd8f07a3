// Package render turns listings into cards and cards into terminal output.
//
// NewCard and Cards are pure projections from api.Listing to Card: they pick
// the image from the fallback chain, map amenity tags through the badge table,
// and format prices. Grid and RenderPlaceholder draw those cards with lipgloss.
// The UI calls Grid on every frame; the same cards and options always produce
// the same string.
package render
