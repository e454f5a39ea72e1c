package memory

import (
	"context"
	"fmt"

	"hbnb/internal/domain/reviews"
)

type reviewStore struct{ d *DB }

func cloneReview(r *reviews.Review) *reviews.Review {
	cp := *r
	return &cp
}

func (s *reviewStore) Create(_ context.Context, r *reviews.Review) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if _, ok := s.d.places[r.PlaceID]; !ok {
		return fmt.Errorf("review place %s does not exist", r.PlaceID)
	}
	if _, ok := s.d.bookings[r.BookingID]; !ok {
		return fmt.Errorf("review booking %s does not exist", r.BookingID)
	}
	now := s.d.now()
	r.CreatedAt, r.UpdatedAt = now, now
	s.d.reviews[r.ID] = cloneReview(r)
	return nil
}

func (s *reviewStore) GetByID(_ context.Context, id string) (*reviews.Review, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	r, ok := s.d.reviews[id]
	if !ok {
		return nil, reviews.ErrNotFound
	}
	return cloneReview(r), nil
}

func (s *reviewStore) list(keep func(*reviews.Review) bool) []*reviews.Review {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	all := values(s.d.reviews, cloneReview, keep)
	sortBy(all, func(a, b *reviews.Review) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return all
}

func (s *reviewStore) List(_ context.Context) ([]*reviews.Review, error) {
	return s.list(nil), nil
}

func (s *reviewStore) ListByPlace(_ context.Context, placeID string) ([]*reviews.Review, error) {
	return s.list(func(r *reviews.Review) bool { return r.PlaceID == placeID }), nil
}

func (s *reviewStore) ListByUser(_ context.Context, userID string) ([]*reviews.Review, error) {
	return s.list(func(r *reviews.Review) bool { return r.UserID == userID }), nil
}

func (s *reviewStore) Update(_ context.Context, r *reviews.Review) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	existing, ok := s.d.reviews[r.ID]
	if !ok {
		return reviews.ErrNotFound
	}
	existing.Comment = r.Comment
	existing.Rating = r.Rating
	existing.UpdatedAt = s.d.now()
	r.UpdatedAt = existing.UpdatedAt
	return nil
}

func (s *reviewStore) Delete(_ context.Context, id string) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if _, ok := s.d.reviews[id]; !ok {
		return reviews.ErrNotFound
	}
	delete(s.d.reviews, id)
	return nil
}
