package memory

import (
	"context"
	"fmt"
	"slices"

	"hbnb/internal/domain/places"
)

type placeStore struct{ d *DB }

func clonePlace(p *places.Place) *places.Place {
	cp := *p
	cp.AmenityIDs = slices.Clone(p.AmenityIDs)
	cp.Photos = slices.Clone(p.Photos)
	if cp.AmenityIDs == nil {
		cp.AmenityIDs = []string{}
	}
	if cp.Photos == nil {
		cp.Photos = []string{}
	}
	return &cp
}

// checkRefsLocked mirrors the owner and amenity foreign keys.
func (s *placeStore) checkRefsLocked(p *places.Place) error {
	if _, ok := s.d.users[p.OwnerID]; !ok {
		return fmt.Errorf("place owner %s does not exist", p.OwnerID)
	}
	for _, id := range p.AmenityIDs {
		if _, ok := s.d.amenities[id]; !ok {
			return fmt.Errorf("amenity %s does not exist", id)
		}
	}
	return nil
}

func (s *placeStore) Create(_ context.Context, p *places.Place) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if err := s.checkRefsLocked(p); err != nil {
		return err
	}
	now := s.d.now()
	p.CreatedAt, p.UpdatedAt = now, now
	s.d.places[p.ID] = clonePlace(p)
	return nil
}

func (s *placeStore) GetByID(_ context.Context, id string) (*places.Place, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	p, ok := s.d.places[id]
	if !ok {
		return nil, places.ErrNotFound
	}
	return clonePlace(p), nil
}

func (s *placeStore) List(_ context.Context, limit, offset int) ([]*places.Place, int, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	all := values(s.d.places, clonePlace, nil)
	sortBy(all, func(a, b *places.Place) bool { return olderFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID) })
	return page(all, limit, offset), len(all), nil
}

func (s *placeStore) Update(_ context.Context, p *places.Place) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	existing, ok := s.d.places[p.ID]
	if !ok {
		return places.ErrNotFound
	}
	if err := s.checkRefsLocked(p); err != nil {
		return err
	}
	// rating is owned by UpdateRating
	p.Rating = existing.Rating
	p.UpdatedAt = s.d.now()
	s.d.places[p.ID] = clonePlace(p)
	return nil
}

func (s *placeStore) UpdateRating(_ context.Context, id string, rating float64) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	p, ok := s.d.places[id]
	if !ok {
		return places.ErrNotFound
	}
	p.Rating = rating
	p.UpdatedAt = s.d.now()
	return nil
}

// LockForRating only checks the place exists. Memory units of work already
// run one at a time (see storage.Container.WithTx).
func (s *placeStore) LockForRating(_ context.Context, id string) error {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	if _, ok := s.d.places[id]; !ok {
		return places.ErrNotFound
	}
	return nil
}

func (s *placeStore) Delete(_ context.Context, id string) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if _, ok := s.d.places[id]; !ok {
		return places.ErrNotFound
	}
	s.d.deletePlaceLocked(id)
	return nil
}
