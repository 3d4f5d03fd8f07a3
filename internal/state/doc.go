// Package state holds the in-memory application state shared by the UI and
// background commands.
//
// # Overview
//
// Store caches the current listing set, the active filter criteria, the
// loading flag, the listing shown on the detail page, image probe results and
// the session status. Every setter is synchronous and renders nothing; the UI
// takes a Snapshot after a change and renders from that.
//
// # Request Sequencing
//
// Overlapping loads are ordered by issue, not by arrival:
//
//	seq := store.BeginRequest()
//	items, err := client.SearchListings(ctx, q, cat)
//	if err != nil {
//		store.FailRequest(seq, err)
//		return
//	}
//	store.ApplyHostels(seq, items) // false when a newer request was issued
//
// A slow response to an earlier search can therefore never overwrite the
// result of a later one.
//
// # Copying
//
// Snapshot and the setters clone listing slices, amenity slices, the price
// ceiling pointer and the image map, so the UI can hold a Snapshot across
// frames without racing command goroutines.
//
// # Session Status
//
// SetSession mirrors the poller contract: a failed check keeps the previous
// user and bumps ConsecutiveFailures, and IsOffline reports two or more
// failures in a row.
//
// The zero Store is ready to use.
package state
