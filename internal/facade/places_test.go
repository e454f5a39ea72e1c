package facade

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"hbnb/internal/domain/amenities"
	"hbnb/internal/domain/places"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMedia struct {
	mu      sync.Mutex
	deleted []string
	fail    bool
}

func (m *fakeMedia) Upload(_ context.Context, file io.Reader, publicID string) (string, error) {
	if m.fail {
		return "", errors.New("upload failed")
	}
	if _, err := io.ReadAll(file); err != nil {
		return "", err
	}
	return "https://res.cloudinary.com/demo/image/upload/v1/places/" + publicID + ".jpg", nil
}

func (m *fakeMedia) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, url)
	return nil
}

func TestCreatePlaceValidation(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.f.CreatePlace(ctx, fx.owner, CreatePlaceInput{Title: "  ", Description: "x", Price: 1})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = fx.f.CreatePlace(ctx, fx.owner, CreatePlaceInput{Title: "T", Description: "x", Price: -1})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = fx.f.CreatePlace(ctx, fx.owner, CreatePlaceInput{Title: "T", Description: "x", Latitude: 91})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = fx.f.CreatePlace(ctx, fx.owner, CreatePlaceInput{Title: "T", Description: "x", AmenityIDs: []string{"missing"}})
	assert.ErrorIs(t, err, ErrNotFound)

	wifi, err := fx.f.CreateAmenity(ctx, fx.admin, AmenityInput{Name: "Wifi", Description: "Fast fibre"})
	require.NoError(t, err)

	p, err := fx.f.CreatePlace(ctx, fx.owner, CreatePlaceInput{
		Title:       "  Sea   view ",
		Description: "Loft",
		Price:       99.999,
		AmenityIDs:  []string{wifi.ID, wifi.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sea view", p.Title)
	assert.Equal(t, 100.0, p.Price)
	assert.Equal(t, []string{wifi.ID}, p.AmenityIDs)
	assert.Equal(t, []string{places.DefaultPhotoURL}, p.DisplayPhotos())
}

func TestUpdatePlaceOwnership(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	price := 150.0
	_, err := fx.f.UpdatePlace(ctx, fx.guest, fx.place.ID, places.Patch{Price: &price})
	assert.ErrorIs(t, err, ErrForbidden)

	p, err := fx.f.UpdatePlace(ctx, fx.owner, fx.place.ID, places.Patch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 150.0, p.Price)

	lat := -100.0
	_, err = fx.f.UpdatePlace(ctx, fx.admin, fx.place.ID, places.Patch{Latitude: &lat})
	assert.ErrorIs(t, err, ErrValidation)

	list, total, err := fx.f.ListPlaces(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, 150.0, list[0].Price)
}

func TestDeletePlaceCascadesAndCleansPhotos(t *testing.T) {
	m := &fakeMedia{}
	fx := newFixture(t, WithMedia(m))
	ctx := context.Background()

	p, err := fx.f.AddPlacePhoto(ctx, fx.owner, fx.place.ID, strings.NewReader("jpeg bytes"))
	require.NoError(t, err)
	require.Len(t, p.Photos, 1)
	id := fx.book(t, fx.guest, jan(1), jan(3))

	assert.ErrorIs(t, fx.f.DeletePlace(ctx, fx.guest, fx.place.ID), ErrForbidden)
	require.NoError(t, fx.f.DeletePlace(ctx, fx.owner, fx.place.ID))
	fx.f.Wait()

	_, err = fx.f.GetBooking(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, p.Photos, m.deleted)
}

func TestPlacePhotos(t *testing.T) {
	m := &fakeMedia{}
	fx := newFixture(t, WithMedia(m))
	ctx := context.Background()

	_, err := fx.f.AddPlacePhoto(ctx, fx.guest, fx.place.ID, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrForbidden)

	p, err := fx.f.AddPlacePhoto(ctx, fx.owner, fx.place.ID, strings.NewReader("x"))
	require.NoError(t, err)
	url := p.Photos[0]
	assert.True(t, strings.HasPrefix(url, "https://res.cloudinary.com/"))

	_, err = fx.f.RemovePlacePhoto(ctx, fx.owner, fx.place.ID, "https://elsewhere/x.jpg")
	assert.ErrorIs(t, err, ErrNotFound)

	p, err = fx.f.RemovePlacePhoto(ctx, fx.owner, fx.place.ID, url)
	require.NoError(t, err)
	assert.Empty(t, p.Photos)
	fx.f.Wait()
	assert.Equal(t, []string{url}, m.deleted)

	m.fail = true
	_, err = fx.f.AddPlacePhoto(ctx, fx.owner, fx.place.ID, strings.NewReader("x"))
	assert.Error(t, err)
}

func TestAmenities(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.f.CreateAmenity(ctx, fx.owner, AmenityInput{Name: "Pool", Description: "Heated"})
	assert.ErrorIs(t, err, ErrForbidden)

	pool, err := fx.f.CreateAmenity(ctx, fx.admin, AmenityInput{Name: "Pool", Description: "Heated"})
	require.NoError(t, err)
	_, err = fx.f.CreateAmenity(ctx, fx.admin, AmenityInput{Name: "Pool", Description: "Another"})
	assert.ErrorIs(t, err, ErrDuplicate)
	_, err = fx.f.CreateAmenity(ctx, fx.admin, AmenityInput{Name: "", Description: "x"})
	assert.ErrorIs(t, err, ErrValidation)

	desc := "Heated, open all year"
	a, err := fx.f.UpdateAmenity(ctx, fx.admin, pool.ID, amenities.Patch{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, desc, a.Description)

	_, err = fx.f.UpdateAmenity(ctx, fx.guest, pool.ID, amenities.Patch{Description: &desc})
	assert.ErrorIs(t, err, ErrForbidden)

	list, err := fx.f.ListAmenities(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = fx.f.GetAmenity(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
