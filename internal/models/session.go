package models

import "time"

// Session represents an MCP client session.
type Session struct {
	// ID is the session identifier (client supplied or a generated UUID).
	ID string `json:"session_id"`

	// CreatedAt is when the session was opened (or last reset by a re-open).
	CreatedAt time.Time `json:"created_at"`

	// LastSeen is the time of the last validated request; idle timeout counts from here.
	LastSeen time.Time `json:"last_seen"`

	// WindowStart is the start of the current rate-limit window.
	WindowStart time.Time `json:"window_start"`

	// RequestCount is the number of validated requests in the current window.
	RequestCount int `json:"request_count"`
}
