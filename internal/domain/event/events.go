package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is an immutable record of something that happened in the domain.
// Events carry data only, no behavior.
type Event interface {
	Name() string
}

// UserCreated is emitted once per successful registration.
type UserCreated struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func (UserCreated) Name() string { return "UserCreated" }

// UserLoggedIn is emitted once per successful login.
type UserLoggedIn struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

func (UserLoggedIn) Name() string { return "UserLoggedIn" }

// UserLoggedOut is emitted when a session transitions to invalidated.
type UserLoggedOut struct {
	SessionID string `json:"session_id"`
}

func (UserLoggedOut) Name() string { return "UserLoggedOut" }

// Envelope wraps an event with its identity and timestamp for the wire.
type Envelope struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       Event     `json:"data"`
}

// NewEnvelope stamps an event for publishing.
func NewEnvelope(e Event, occurredAt time.Time) Envelope {
	return Envelope{
		EventID:    uuid.NewString(),
		EventType:  e.Name(),
		OccurredAt: occurredAt.UTC(),
		Data:       e,
	}
}

// Publisher delivers envelopes to an external audit sink.
// Fire-and-forget with at-least-once delivery; consumers must tolerate
// duplicates.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
}
