package facade

import (
	"context"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"hbnb/internal/domain/places"

	"github.com/google/uuid"
)

type CreatePlaceInput struct {
	Title       string
	Description string
	Price       float64
	Latitude    float64
	Longitude   float64
	AmenityIDs  []string
}

func validatePlace(p *places.Place) error {
	if n := utf8.RuneCountInString(p.Title); n == 0 || n > 100 {
		return invalid("title must be between 1 and 100 characters")
	}
	if n := utf8.RuneCountInString(p.Description); n == 0 || n > 1000 {
		return invalid("description must be between 1 and 1000 characters")
	}
	if math.IsNaN(p.Price) || p.Price < 0 {
		return invalid("price must be a non-negative number")
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return invalid("latitude must be between -90 and 90")
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return invalid("longitude must be between -180 and 180")
	}
	return nil
}

func (f *Facade) checkAmenities(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if _, err := f.store.Amenities.GetByID(ctx, id); err != nil {
			return fmt.Errorf("amenity %s: %w", id, translate(err))
		}
	}
	return nil
}

func (f *Facade) CreatePlace(ctx context.Context, actor Actor, in CreatePlaceInput) (*places.Place, error) {
	if _, err := f.store.Users.GetByID(ctx, actor.ID); err != nil {
		return nil, translate(err)
	}

	p := &places.Place{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		OwnerID:     actor.ID,
		AmenityIDs:  in.AmenityIDs,
	}
	p.Normalize()
	if err := validatePlace(p); err != nil {
		return nil, err
	}
	if err := f.checkAmenities(ctx, p.AmenityIDs); err != nil {
		return nil, err
	}

	if err := f.store.Places.Create(ctx, p); err != nil {
		return nil, translate(err)
	}
	f.logger.Infow("place created", "place", p.ID, "owner", p.OwnerID)
	return p, nil
}

func (f *Facade) GetPlace(ctx context.Context, id string) (*places.Place, error) {
	p, err := f.store.Places.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

func (f *Facade) ListPlaces(ctx context.Context, limit, offset int) ([]*places.Place, int, error) {
	list, total, err := f.store.Places.List(ctx, limit, offset)
	if list == nil && err == nil {
		list = []*places.Place{}
	}
	return list, total, err
}

// ownedPlace loads a place the actor may modify.
func (f *Facade) ownedPlace(ctx context.Context, actor Actor, id string) (*places.Place, error) {
	p, err := f.store.Places.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if !actor.Owns(p.OwnerID) {
		return nil, forbidden("only the owner of the place can modify it")
	}
	return p, nil
}

func (f *Facade) UpdatePlace(ctx context.Context, actor Actor, id string, patch places.Patch) (*places.Place, error) {
	p, err := f.ownedPlace(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	p.Apply(patch)
	if err := validatePlace(p); err != nil {
		return nil, err
	}
	if patch.AmenityIDs != nil {
		if err := f.checkAmenities(ctx, p.AmenityIDs); err != nil {
			return nil, err
		}
	}

	if err := f.store.Places.Update(ctx, p); err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// DeletePlace removes a place with its bookings and reviews, then drops its
// photos from the image host.
func (f *Facade) DeletePlace(ctx context.Context, actor Actor, id string) error {
	p, err := f.ownedPlace(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := f.store.Places.Delete(ctx, id); err != nil {
		return translate(err)
	}

	f.logger.Infow("place deleted", "place", id, "actor", actor.ID)
	for _, url := range p.Photos {
		f.deletePhoto(url)
	}
	return nil
}

// AddPlacePhoto uploads an image and appends its URL to the place.
func (f *Facade) AddPlacePhoto(ctx context.Context, actor Actor, id string, file io.Reader) (*places.Place, error) {
	p, err := f.ownedPlace(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	publicID := fmt.Sprintf("place_%s_%d", p.ID, f.now().UnixNano())
	url, err := f.media.Upload(ctx, file, publicID)
	if err != nil {
		return nil, err
	}

	p.Photos = append(p.Photos, url)
	if err := f.store.Places.Update(ctx, p); err != nil {
		f.deletePhoto(url)
		return nil, translate(err)
	}
	return p, nil
}

func (f *Facade) RemovePlacePhoto(ctx context.Context, actor Actor, id, url string) (*places.Place, error) {
	p, err := f.ownedPlace(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := p.RemovePhoto(url); err != nil {
		return nil, translate(err)
	}
	if err := f.store.Places.Update(ctx, p); err != nil {
		return nil, translate(err)
	}

	f.deletePhoto(url)
	return p, nil
}

func (f *Facade) deletePhoto(url string) {
	f.background("delete photo", func(ctx context.Context) error {
		return f.media.Delete(ctx, url)
	})
}
