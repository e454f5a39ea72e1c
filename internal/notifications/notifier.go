package notifications

import (
	"context"

	"hbnb/internal/domain/bookings"

	"go.uber.org/multierr"
)

type BookingEvent string

const (
	BookingCreated       BookingEvent = "CREATED"
	BookingStatusChanged BookingEvent = "STATUS_CHANGED"
)

// BookingNotice is everything a channel needs to tell RecipientID about a booking.
type BookingNotice struct {
	Event       BookingEvent
	RecipientID string
	Booking     bookings.Booking
	PlaceTitle  string
	GuestName   string
}

type Notifier interface {
	NotifyBooking(ctx context.Context, n BookingNotice) error
}

// Multi delivers a notice on every channel and joins their errors.
type Multi []Notifier

func (m Multi) NotifyBooking(ctx context.Context, n BookingNotice) error {
	var err error
	for _, ch := range m {
		err = multierr.Append(err, ch.NotifyBooking(ctx, n))
	}
	return err
}

type Nop struct{}

func (Nop) NotifyBooking(context.Context, BookingNotice) error { return nil }

func content(n BookingNotice) (title, body string) {
	ref := n.Booking.Reference
	switch {
	case n.Event == BookingCreated:
		return "New Booking Request", n.GuestName + " requested " + n.PlaceTitle + " (" + ref + ")"
	case n.Booking.Status == bookings.StatusCancelled:
		return "Booking Cancelled", "Your booking " + ref + " at " + n.PlaceTitle + " has been cancelled"
	case n.Booking.Status == bookings.StatusDone:
		return "Booking Completed", "Your stay at " + n.PlaceTitle + " is complete. Leave a review!"
	default:
		return "Booking Update", "Your booking " + ref + " has an update"
	}
}
