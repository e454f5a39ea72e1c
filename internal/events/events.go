package events

import (
	"context"
	"time"
)

type Type string

const (
	BookingCreated       Type = "booking.created"
	BookingStatusChanged Type = "booking.status_changed"
	BookingUpdated       Type = "booking.updated"
	BookingDeleted       Type = "booking.deleted"
	ReviewCreated        Type = "review.created"
	ReviewUpdated        Type = "review.updated"
	ReviewDeleted        Type = "review.deleted"
)

// Event is one lifecycle change. Key groups events that must stay ordered,
// normally the place id.
type Event struct {
	Type       Type      `json:"type"`
	Key        string    `json:"-"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
