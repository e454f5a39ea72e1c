package memory

import (
	"context"
	"fmt"

	"hbnb/internal/domain/bookings"
)

type bookingStore struct{ d *DB }

func cloneBooking(b *bookings.Booking) *bookings.Booking {
	cp := *b
	return &cp
}

// overlapLocked mirrors the bookings_no_overlap exclusion constraint.
func (s *bookingStore) overlapLocked(b *bookings.Booking) bool {
	if !b.Blocks() {
		return false
	}
	var sameP []*bookings.Booking
	for _, other := range s.d.bookings {
		if other.PlaceID == b.PlaceID {
			sameP = append(sameP, other)
		}
	}
	return bookings.FirstConflict(sameP, b.Interval(), b.ID) != nil
}

func (s *bookingStore) Create(_ context.Context, b *bookings.Booking) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if _, ok := s.d.places[b.PlaceID]; !ok {
		return fmt.Errorf("booking place %s does not exist", b.PlaceID)
	}
	if _, ok := s.d.users[b.UserID]; !ok {
		return fmt.Errorf("booking user %s does not exist", b.UserID)
	}
	if s.overlapLocked(b) {
		return bookings.ErrOverlap
	}
	if b.Reference != "" {
		for _, other := range s.d.bookings {
			if other.Reference == b.Reference {
				return bookings.ErrDuplicateRef
			}
		}
	}
	now := s.d.now()
	b.CreatedAt, b.UpdatedAt = now, now
	s.d.bookings[b.ID] = cloneBooking(b)
	return nil
}

func (s *bookingStore) GetByID(_ context.Context, id string) (*bookings.Booking, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	b, ok := s.d.bookings[id]
	if !ok {
		return nil, bookings.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (s *bookingStore) list(keep func(*bookings.Booking) bool) []*bookings.Booking {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	all := values(s.d.bookings, cloneBooking, keep)
	sortBy(all, func(a, b *bookings.Booking) bool { return olderFirst(a.Start, b.Start, a.ID, b.ID) })
	return all
}

func (s *bookingStore) List(_ context.Context) ([]*bookings.Booking, error) {
	return s.list(nil), nil
}

func (s *bookingStore) ListByPlace(_ context.Context, placeID string) ([]*bookings.Booking, error) {
	return s.list(func(b *bookings.Booking) bool { return b.PlaceID == placeID }), nil
}

func (s *bookingStore) ListByUser(_ context.Context, userID string) ([]*bookings.Booking, error) {
	return s.list(func(b *bookings.Booking) bool { return b.UserID == userID }), nil
}

func (s *bookingStore) Update(_ context.Context, b *bookings.Booking) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	existing, ok := s.d.bookings[b.ID]
	if !ok {
		return bookings.ErrNotFound
	}
	if s.overlapLocked(b) {
		return bookings.ErrOverlap
	}
	updated := cloneBooking(b)
	updated.Reference = existing.Reference
	updated.PlaceID, updated.UserID = existing.PlaceID, existing.UserID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.d.now()
	b.UpdatedAt = updated.UpdatedAt
	s.d.bookings[b.ID] = updated
	return nil
}

func (s *bookingStore) Delete(_ context.Context, id string) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if _, ok := s.d.bookings[id]; !ok {
		return bookings.ErrNotFound
	}
	s.d.deleteBookingLocked(id)
	return nil
}
