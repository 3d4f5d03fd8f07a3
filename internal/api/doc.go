// Package api provides an HTTP client for the StayFinder listings API.
//
// # Overview
//
// This package is the only boundary in stayfinder that talks to the network.
// It issues search, listing, create and auth requests, normalizes the mixed
// response shapes the backend produces, and converts every failure into one of
// a small set of typed errors before it reaches application state.
//
// # Architecture
//
//   - client.go: HTTP plumbing, listing endpoints, multipart create, image probe
//   - auth.go: login, register, profile update and token verification
//   - types.go: Listing and form types plus envelope decoding
//   - errors.go: the error taxonomy and UserMessage for notifications
//
// # Client Usage
//
//	client, err := api.NewClient("127.0.0.1:5000")
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	result, err := client.SearchListings(ctx, "kota", "all")
//	if err != nil {
//		log.Printf("search failed: %s", api.UserMessage(err))
//	}
//
// # API Endpoints
//
//   - GET  /api/hostels/search?query=&type=
//   - GET  /api/hostels
//   - GET  /api/hostels/{id}
//   - POST /api/hostels (multipart)
//   - POST /api/auth/login, /api/auth/register, /api/auth/profile
//   - GET  /api/auth/verify
//
// List endpoints accept either a bare JSON array or a
// {"success", "data", "count"} envelope. Single-listing endpoints accept a bare
// object or an envelope around it.
//
// # Error Handling
//
// Callers branch on the error type with errors.As / errors.Is:
//
//   - *NetworkError: the request never produced a response
//   - *ServerError: status >= 400, success=false, or an undecodable body
//   - *ValidationError: field-keyed messages (register, profile, create)
//   - ErrNotFound: the listing id does not exist
//
// CreateListing is permissive: a 2xx response without an explicit
// "success": false is treated as success.
//
// # Thread Safety
//
// The Client is safe for concurrent use. The bearer token is guarded by a
// mutex because login completes on a Bubble Tea command goroutine while other
// requests may be in flight.
package api
