// Package mockapi is a development stand-in for the listings backend. It
// serves the same JSON contract the client in package api speaks: hostel
// listing, search and creation, plus login, registration, profile updates
// and token verification.
//
// Listings come from a YAML fixture file (a built-in seed when none is
// given) and live either in memory or in a Postgres hostels table. With
// watch enabled the fixture file is reloaded on every save. Search runs the
// client's own filter package so remote and local results agree.
package mockapi
