package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned when the requested listing does not exist.
var ErrNotFound = errors.New("listing not found")

// NetworkError reports a request that never produced an HTTP response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError reports an error response or an explicit success=false payload.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = "request failed"
	}
	if e.Status > 0 {
		return fmt.Sprintf("server error %d: %s", e.Status, msg)
	}
	return "server error: " + msg
}

// ValidationError carries per-field messages, keyed by form field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the message for name, or empty.
func (e *ValidationError) Field(name string) string {
	if e == nil {
		return ""
	}
	return e.Fields[name]
}

// UserMessage turns any client error into a short notification line.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var netErr *NetworkError
	var srvErr *ServerError
	var valErr *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		return "Listing not found"
	case errors.As(err, &valErr):
		return "Please fix the highlighted fields"
	case errors.As(err, &srvErr):
		if msg := strings.TrimSpace(srvErr.Message); msg != "" {
			return msg
		}
		return "The server could not complete the request"
	case errors.As(err, &netErr):
		return classifyNetworkError(netErr.Err)
	default:
		return err.Error()
	}
}

func classifyNetworkError(err error) string {
	if err == nil {
		return "Connection failed"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "API not reachable"
	case strings.Contains(msg, "Client.Timeout"), strings.Contains(msg, "deadline exceeded"), strings.Contains(msg, "timeout"):
		return "Connection timeout"
	case strings.Contains(msg, "no such host"):
		return "Host not found"
	default:
		return "Connection failed"
	}
}
