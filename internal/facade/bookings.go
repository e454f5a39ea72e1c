package facade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hbnb/internal/domain/bookings"
	"hbnb/internal/domain/places"
	"hbnb/internal/events"
	"hbnb/internal/notifications"

	"github.com/google/uuid"
)

type CreateBookingInput struct {
	PlaceID string
	Start   time.Time
	End     time.Time
}

const maxReferenceAttempts = 3

func placeLockKey(placeID string) string {
	return "booking:place:" + placeID
}

// CreateBooking reserves a place for the actor. The overlap check and insert
// run under a per-place lock.
func (f *Facade) CreateBooking(ctx context.Context, actor Actor, in CreateBookingInput) (*bookings.Booking, error) {
	guest, err := f.store.Users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, translate(err)
	}
	place, err := f.store.Places.GetByID(ctx, in.PlaceID)
	if err != nil {
		return nil, translate(err)
	}

	if err := bookings.ValidateRange(in.Start, in.End); err != nil {
		return nil, translate(err)
	}
	if in.Start.Before(f.now()) {
		return nil, ErrPastDate
	}

	unlock, err := f.locker.Lock(ctx, placeLockKey(place.ID))
	if err != nil {
		return nil, fmt.Errorf("lock place %s: %w", place.ID, err)
	}
	defer unlock()

	existing, err := f.store.Bookings.ListByPlace(ctx, place.ID)
	if err != nil {
		return nil, err
	}
	iv := bookings.Interval{Start: in.Start, End: in.End}
	if other := bookings.FirstConflict(existing, iv, ""); other != nil {
		return nil, fmt.Errorf("%w: overlaps booking %s", ErrConflict, other.Reference)
	}

	b := &bookings.Booking{
		ID:      uuid.NewString(),
		PlaceID: place.ID,
		UserID:  guest.ID,
		Start:   in.Start,
		End:     in.End,
		Status:  bookings.StatusPending,
	}
	if err := f.insertBooking(ctx, b); err != nil {
		return nil, translate(err)
	}

	f.logger.Infow("booking created", "booking", b.ID, "reference", b.Reference, "place", place.ID, "user", guest.ID)
	f.publish(events.Event{Type: events.BookingCreated, Key: place.ID, Payload: *b})
	if place.OwnerID != guest.ID {
		f.notify(notifications.BookingNotice{
			Event:       notifications.BookingCreated,
			RecipientID: place.OwnerID,
			Booking:     *b,
			PlaceTitle:  place.Title,
			GuestName:   guest.FirstName + " " + guest.LastName,
		})
	}
	return b, nil
}

// insertBooking stores b under a fresh reference, drawing another one when
// the code is already taken.
func (f *Facade) insertBooking(ctx context.Context, b *bookings.Booking) error {
	var err error
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		if b.Reference, err = f.refs.Next(); err != nil {
			return err
		}
		err = f.store.Bookings.Create(ctx, b)
		if !errors.Is(err, bookings.ErrDuplicateRef) {
			return err
		}
		f.logger.Warnw("booking reference collision", "reference", b.Reference, "attempt", attempt+1)
	}
	return err
}

// refresh applies the lazy PENDING -> DONE transition and persists it.
func (f *Facade) refresh(ctx context.Context, b *bookings.Booking) error {
	if !b.Refresh(f.now()) {
		return nil
	}
	if err := f.store.Bookings.Update(ctx, b); err != nil {
		return fmt.Errorf("persist status of booking %s: %w", b.ID, translate(err))
	}
	f.publish(events.Event{Type: events.BookingStatusChanged, Key: b.PlaceID, Payload: *b})
	return nil
}

func (f *Facade) refreshAll(ctx context.Context, list []*bookings.Booking) ([]*bookings.Booking, error) {
	for _, b := range list {
		if err := f.refresh(ctx, b); err != nil {
			return nil, err
		}
	}
	if list == nil {
		list = []*bookings.Booking{}
	}
	return list, nil
}

// CompleteExpiredBookings marks every pending booking whose stay has ended
// as DONE. Reads do the same lazily; this only keeps stored data current.
func (f *Facade) CompleteExpiredBookings(ctx context.Context) (int, error) {
	list, err := f.store.Bookings.List(ctx)
	if err != nil {
		return 0, err
	}

	now := f.now()
	done := 0
	for _, b := range list {
		if b.Status != bookings.StatusPending || !now.After(b.End) {
			continue
		}
		if err := f.refresh(ctx, b); err != nil {
			return done, err
		}
		done++
	}
	return done, nil
}

func (f *Facade) GetBooking(ctx context.Context, id string) (*bookings.Booking, error) {
	b, err := f.store.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if err := f.refresh(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (f *Facade) ListBookings(ctx context.Context) ([]*bookings.Booking, error) {
	list, err := f.store.Bookings.List(ctx)
	if err != nil {
		return nil, err
	}
	return f.refreshAll(ctx, list)
}

func (f *Facade) ListPlaceBookings(ctx context.Context, placeID string) ([]*bookings.Booking, error) {
	if _, err := f.store.Places.GetByID(ctx, placeID); err != nil {
		return nil, translate(err)
	}
	list, err := f.store.Bookings.ListByPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}
	return f.refreshAll(ctx, list)
}

func (f *Facade) ListUserBookings(ctx context.Context, userID string) ([]*bookings.Booking, error) {
	if _, err := f.store.Users.GetByID(ctx, userID); err != nil {
		return nil, translate(err)
	}
	list, err := f.store.Bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return f.refreshAll(ctx, list)
}

// UpdateBookingStatus lets the place owner (or an admin) confirm completion
// or cancel a pending booking.
func (f *Facade) UpdateBookingStatus(ctx context.Context, actor Actor, id, status string) (*bookings.Booking, error) {
	return f.UpdateBooking(ctx, actor, id, bookings.Patch{Status: &status})
}

// UpdateBooking changes dates (booking author or admin) and/or status (place
// owner or admin). Only PENDING bookings can change.
func (f *Facade) UpdateBooking(ctx context.Context, actor Actor, id string, patch bookings.Patch) (*bookings.Booking, error) {
	if !patch.ChangesDates() && patch.Status == nil {
		return nil, invalid("nothing to update")
	}

	b, err := f.store.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	place, err := f.store.Places.GetByID(ctx, b.PlaceID)
	if err != nil {
		return nil, translate(err)
	}

	var status bookings.Status
	if patch.Status != nil {
		if !actor.Owns(place.OwnerID) {
			return nil, forbidden("only the owner of the place can update the booking status")
		}
		if status, err = bookings.ParseStatus(*patch.Status); err != nil {
			return nil, translate(err)
		}
	}
	if patch.ChangesDates() && !actor.Owns(b.UserID) {
		return nil, forbidden("only the author of the booking can change its dates")
	}

	if err := f.refresh(ctx, b); err != nil {
		return nil, err
	}

	previous := b.Status
	statusChanged := patch.Status != nil && status != b.Status
	if !patch.ChangesDates() && !statusChanged {
		return b, nil
	}
	if b.Final() {
		return nil, fmt.Errorf("%w: booking is %s", ErrImmutable, b.Status)
	}

	if patch.ChangesDates() {
		if patch.Start != nil {
			b.Start = *patch.Start
		}
		if patch.End != nil {
			b.End = *patch.End
		}
		if err := bookings.ValidateRange(b.Start, b.End); err != nil {
			return nil, translate(err)
		}
		if b.Start.Before(f.now()) {
			return nil, ErrPastDate
		}
	}
	if statusChanged {
		b.Status = status
	}

	if err := f.saveBooking(ctx, b, patch.ChangesDates()); err != nil {
		return nil, err
	}

	f.logger.Infow("booking updated", "booking", b.ID, "status", b.Status, "previous", previous, "actor", actor.ID)
	if patch.ChangesDates() {
		f.publish(events.Event{Type: events.BookingUpdated, Key: b.PlaceID, Payload: *b})
	}
	if statusChanged {
		f.publish(events.Event{Type: events.BookingStatusChanged, Key: b.PlaceID, Payload: *b})
		f.notifyGuest(place, b)
	}
	return b, nil
}

// saveBooking persists b, rechecking overlaps under the place lock when its
// dates moved.
func (f *Facade) saveBooking(ctx context.Context, b *bookings.Booking, datesChanged bool) error {
	if !datesChanged || !b.Blocks() {
		return translate(f.store.Bookings.Update(ctx, b))
	}

	unlock, err := f.locker.Lock(ctx, placeLockKey(b.PlaceID))
	if err != nil {
		return fmt.Errorf("lock place %s: %w", b.PlaceID, err)
	}
	defer unlock()

	existing, err := f.store.Bookings.ListByPlace(ctx, b.PlaceID)
	if err != nil {
		return err
	}
	if other := bookings.FirstConflict(existing, b.Interval(), b.ID); other != nil {
		return fmt.Errorf("%w: overlaps booking %s", ErrConflict, other.Reference)
	}
	return translate(f.store.Bookings.Update(ctx, b))
}

func (f *Facade) notifyGuest(place *places.Place, b *bookings.Booking) {
	f.notify(notifications.BookingNotice{
		Event:       notifications.BookingStatusChanged,
		RecipientID: b.UserID,
		Booking:     *b,
		PlaceTitle:  place.Title,
	})
}

// DeleteBooking removes a booking on behalf of its author or an admin.
// Completed bookings are kept since reviews hang off them.
func (f *Facade) DeleteBooking(ctx context.Context, actor Actor, id string) error {
	b, err := f.store.Bookings.GetByID(ctx, id)
	if err != nil {
		return translate(err)
	}
	if !actor.Owns(b.UserID) {
		return forbidden("only the author of the booking can delete it")
	}
	if err := f.refresh(ctx, b); err != nil {
		return err
	}
	if b.Status == bookings.StatusDone {
		return fmt.Errorf("%w: booking is %s", ErrImmutable, b.Status)
	}

	if err := f.store.Bookings.Delete(ctx, id); err != nil {
		return translate(err)
	}

	f.logger.Infow("booking deleted", "booking", b.ID, "actor", actor.ID)
	f.publish(events.Event{Type: events.BookingDeleted, Key: b.PlaceID, Payload: *b})
	return nil
}
