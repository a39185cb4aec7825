package shell

import (
	"context"
	"time"
)

// Routing keys of the circulation events.
const (
	RKBookBorrowed   = "book.borrowed"
	RKBookReturned   = "book.returned"
	RKUserRegistered = "user.registered"
)

// CirculationEvent is published after a command committed.
type CirculationEvent struct {
	RoutingKey string     `json:"-"`
	BookID     int64      `json:"book_id,omitempty"`
	UserID     int64      `json:"user_id"`
	Title      string     `json:"title,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
	DueDate    *time.Time `json:"due_date,omitempty"`
}

// PublishesEvents delivers circulation events. Delivery is best effort: failures are logged by the
// implementation and never undo the committed change.
type PublishesEvents interface {
	Publish(ctx context.Context, events ...CirculationEvent)
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ...CirculationEvent) {}
