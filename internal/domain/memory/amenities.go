package memory

import (
	"context"

	"hbnb/internal/domain/amenities"
)

type amenityStore struct{ d *DB }

func cloneAmenity(a *amenities.Amenity) *amenities.Amenity {
	cp := *a
	return &cp
}

func (s *amenityStore) nameTakenLocked(name, exceptID string) bool {
	for _, a := range s.d.amenities {
		if a.ID != exceptID && a.Name == name {
			return true
		}
	}
	return false
}

func (s *amenityStore) Create(_ context.Context, a *amenities.Amenity) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if s.nameTakenLocked(a.Name, "") {
		return amenities.ErrDuplicateName
	}
	now := s.d.now()
	a.CreatedAt, a.UpdatedAt = now, now
	s.d.amenities[a.ID] = cloneAmenity(a)
	return nil
}

func (s *amenityStore) GetByID(_ context.Context, id string) (*amenities.Amenity, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	a, ok := s.d.amenities[id]
	if !ok {
		return nil, amenities.ErrNotFound
	}
	return cloneAmenity(a), nil
}

func (s *amenityStore) GetByName(_ context.Context, name string) (*amenities.Amenity, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	for _, a := range s.d.amenities {
		if a.Name == name {
			return cloneAmenity(a), nil
		}
	}
	return nil, amenities.ErrNotFound
}

func (s *amenityStore) List(_ context.Context) ([]*amenities.Amenity, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	all := values(s.d.amenities, cloneAmenity, nil)
	sortBy(all, func(a, b *amenities.Amenity) bool { return a.Name < b.Name })
	return all, nil
}

func (s *amenityStore) Update(_ context.Context, a *amenities.Amenity) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if _, ok := s.d.amenities[a.ID]; !ok {
		return amenities.ErrNotFound
	}
	if s.nameTakenLocked(a.Name, a.ID) {
		return amenities.ErrDuplicateName
	}
	a.UpdatedAt = s.d.now()
	s.d.amenities[a.ID] = cloneAmenity(a)
	return nil
}
