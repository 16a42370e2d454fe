// Package queue defines message payloads exchanged over the message broker.
package queue

// EventType names an auth audit event.
type EventType string

const (
	EventRegistered EventType = "user.registered"
	EventLoggedIn   EventType = "user.logged_in"
	EventRefreshed  EventType = "user.token_refreshed"
	EventLoggedOut  EventType = "user.logged_out"
)

// AuthEventsQueue is the default queue for auth audit events.
const AuthEventsQueue = "auth.events"

// AuthEvent is published after each successful auth flow.  It never carries
// passwords, hashes or tokens.
type AuthEvent struct {
	Type       EventType `json:"type"`
	UserID     string    `json:"user_id"`
	Email      string    `json:"email,omitempty"`
	OccurredAt string    `json:"occurred_at"`
}
