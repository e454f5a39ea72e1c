// Package memory keeps every entity table in process memory behind the same
// Store interfaces the PostgreSQL repositories implement. It backs tests and
// STORAGE=memory deployments and mirrors the schema's unique, exclusion and
// cascade rules.
package memory

import (
	"sort"
	"sync"
	"time"

	"hbnb/internal/domain/amenities"
	"hbnb/internal/domain/bookings"
	"hbnb/internal/domain/places"
	"hbnb/internal/domain/pushtokens"
	"hbnb/internal/domain/reviews"
	"hbnb/internal/domain/users"
)

type DB struct {
	mu         sync.RWMutex
	users      map[string]*users.User
	amenities  map[string]*amenities.Amenity
	places     map[string]*places.Place
	bookings   map[string]*bookings.Booking
	reviews    map[string]*reviews.Review
	pushTokens map[string]map[string]struct{}
	now        func() time.Time
}

func New() *DB {
	return &DB{
		users:      make(map[string]*users.User),
		amenities:  make(map[string]*amenities.Amenity),
		places:     make(map[string]*places.Place),
		bookings:   make(map[string]*bookings.Booking),
		reviews:    make(map[string]*reviews.Review),
		pushTokens: make(map[string]map[string]struct{}),
		now:        time.Now,
	}
}

// SetClock replaces the source of created_at/updated_at timestamps.
func (d *DB) SetClock(now func() time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.now = now
}

func (d *DB) Users() users.Store           { return &userStore{d} }
func (d *DB) Amenities() amenities.Store   { return &amenityStore{d} }
func (d *DB) Places() places.Store         { return &placeStore{d} }
func (d *DB) Bookings() bookings.Store     { return &bookingStore{d} }
func (d *DB) Reviews() reviews.Store       { return &reviewStore{d} }
func (d *DB) PushTokens() pushtokens.Store { return &pushTokenStore{d} }

// deletePlaceLocked removes a place with its bookings and reviews.
func (d *DB) deletePlaceLocked(id string) {
	delete(d.places, id)
	for bid, b := range d.bookings {
		if b.PlaceID == id {
			d.deleteBookingLocked(bid)
		}
	}
	for rid, r := range d.reviews {
		if r.PlaceID == id {
			delete(d.reviews, rid)
		}
	}
}

func (d *DB) deleteBookingLocked(id string) {
	delete(d.bookings, id)
	for rid, r := range d.reviews {
		if r.BookingID == id {
			delete(d.reviews, rid)
		}
	}
}

func (d *DB) deleteUserLocked(id string) {
	delete(d.users, id)
	delete(d.pushTokens, id)
	for pid, p := range d.places {
		if p.OwnerID == id {
			d.deletePlaceLocked(pid)
		}
	}
	for bid, b := range d.bookings {
		if b.UserID == id {
			d.deleteBookingLocked(bid)
		}
	}
	for rid, r := range d.reviews {
		if r.UserID == id {
			delete(d.reviews, rid)
		}
	}
}

func values[T any](m map[string]*T, clone func(*T) *T, keep func(*T) bool) []*T {
	out := make([]*T, 0, len(m))
	for _, v := range m {
		if keep == nil || keep(v) {
			out = append(out, clone(v))
		}
	}
	return out
}

func page[T any](list []*T, limit, offset int) []*T {
	if offset >= len(list) {
		return nil
	}
	end := len(list)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}

func sortBy[T any](list []*T, less func(a, b *T) bool) {
	sort.SliceStable(list, func(i, j int) bool { return less(list[i], list[j]) })
}

func olderFirst(at, bt time.Time, aid, bid string) bool {
	if !at.Equal(bt) {
		return at.Before(bt)
	}
	return aid < bid
}
