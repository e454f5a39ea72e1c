package facade

import (
	"context"
	"strings"
	"unicode/utf8"

	"hbnb/internal/domain/amenities"

	"github.com/google/uuid"
)

type AmenityInput struct {
	Name        string
	Description string
}

func validateAmenity(a *amenities.Amenity) error {
	if n := utf8.RuneCountInString(a.Name); n == 0 || n > 100 {
		return invalid("name must be between 1 and 100 characters")
	}
	if n := utf8.RuneCountInString(a.Description); n == 0 || n > 500 {
		return invalid("description must be between 1 and 500 characters")
	}
	return nil
}

func (f *Facade) CreateAmenity(ctx context.Context, actor Actor, in AmenityInput) (*amenities.Amenity, error) {
	if !actor.Admin {
		return nil, forbidden("admin privileges required")
	}

	a := &amenities.Amenity{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
	}
	if err := validateAmenity(a); err != nil {
		return nil, err
	}
	if err := f.store.Amenities.Create(ctx, a); err != nil {
		return nil, translate(err)
	}
	return a, nil
}

func (f *Facade) GetAmenity(ctx context.Context, id string) (*amenities.Amenity, error) {
	a, err := f.store.Amenities.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return a, nil
}

func (f *Facade) ListAmenities(ctx context.Context) ([]*amenities.Amenity, error) {
	list, err := f.store.Amenities.List(ctx)
	if list == nil && err == nil {
		list = []*amenities.Amenity{}
	}
	return list, err
}

func (f *Facade) UpdateAmenity(ctx context.Context, actor Actor, id string, patch amenities.Patch) (*amenities.Amenity, error) {
	if !actor.Admin {
		return nil, forbidden("admin privileges required")
	}
	a, err := f.store.Amenities.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}

	a.Apply(patch)
	if err := validateAmenity(a); err != nil {
		return nil, err
	}
	if err := f.store.Amenities.Update(ctx, a); err != nil {
		return nil, translate(err)
	}
	return a, nil
}
