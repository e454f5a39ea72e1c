package memory

import (
	"context"
	"testing"
	"time"

	"hbnb/internal/domain/amenities"
	"hbnb/internal/domain/bookings"
	"hbnb/internal/domain/places"
	"hbnb/internal/domain/reviews"
	"hbnb/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, d *DB) (*users.User, *places.Place) {
	t.Helper()
	ctx := context.Background()

	u := &users.User{ID: "u1", FirstName: "Ada", LastName: "L", Email: "Ada@Example.com", IsActive: true}
	require.NoError(t, u.Password.Set("secret123"))
	require.NoError(t, d.Users().Create(ctx, u))

	p := &places.Place{ID: "p1", Title: "Loft", OwnerID: u.ID}
	require.NoError(t, d.Places().Create(ctx, p))
	return u, p
}

func TestUsersEmailIsCaseInsensitiveAndUnique(t *testing.T) {
	d := New()
	seed(t, d)

	got, err := d.Users().GetByEmail(context.Background(), "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.NoError(t, got.Password.Compare("secret123"), "stored copy keeps the password hash")

	dup := &users.User{ID: "u2", Email: "ada@EXAMPLE.com"}
	assert.ErrorIs(t, d.Users().Create(context.Background(), dup), users.ErrDuplicateEmail)
}

func TestStoresReturnCopies(t *testing.T) {
	d := New()
	_, p := seed(t, d)

	got, err := d.Places().GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	got.Title = "changed"
	got.Photos = append(got.Photos, "x")

	again, err := d.Places().GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Loft", again.Title)
	assert.Empty(t, again.Photos)
}

func TestBookingsRejectOverlapUnlessCancelled(t *testing.T) {
	d := New()
	u, p := seed(t, d)
	ctx := context.Background()
	jan := func(day int) time.Time { return time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC) }

	first := &bookings.Booking{ID: "b1", PlaceID: p.ID, UserID: u.ID, Start: jan(1), End: jan(10), Status: bookings.StatusPending}
	require.NoError(t, d.Bookings().Create(ctx, first))

	clash := &bookings.Booking{ID: "b2", PlaceID: p.ID, UserID: u.ID, Start: jan(5), End: jan(15), Status: bookings.StatusPending}
	assert.ErrorIs(t, d.Bookings().Create(ctx, clash), bookings.ErrOverlap)

	first.Status = bookings.StatusCancelled
	require.NoError(t, d.Bookings().Update(ctx, first))
	assert.NoError(t, d.Bookings().Create(ctx, clash))
}

func TestDeleteUserCascades(t *testing.T) {
	d := New()
	u, p := seed(t, d)
	ctx := context.Background()

	require.NoError(t, d.Amenities().Create(ctx, &amenities.Amenity{ID: "a1", Name: "Wifi"}))
	b := &bookings.Booking{ID: "b1", PlaceID: p.ID, UserID: u.ID, Start: time.Unix(0, 0), End: time.Unix(3600, 0), Status: bookings.StatusDone}
	require.NoError(t, d.Bookings().Create(ctx, b))
	require.NoError(t, d.Reviews().Create(ctx, &reviews.Review{ID: "r1", PlaceID: p.ID, UserID: u.ID, BookingID: b.ID, Rating: 4}))
	require.NoError(t, d.PushTokens().Add(ctx, u.ID, "ExponentPushToken[x]"))

	require.NoError(t, d.Users().Delete(ctx, u.ID))

	_, err := d.Places().GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, places.ErrNotFound)
	_, err = d.Bookings().GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, bookings.ErrNotFound)
	_, err = d.Reviews().GetByID(ctx, "r1")
	assert.ErrorIs(t, err, reviews.ErrNotFound)

	tokens, err := d.PushTokens().TokensByUserIDs(ctx, []string{u.ID})
	require.NoError(t, err)
	assert.Empty(t, tokens)

	_, err = d.Amenities().GetByID(ctx, "a1")
	assert.NoError(t, err, "amenities are not owned by users")
}

func TestListPagination(t *testing.T) {
	d := New()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		at := base.Add(time.Duration(i) * time.Minute)
		d.SetClock(func() time.Time { return at })
		require.NoError(t, d.Users().Create(ctx, &users.User{ID: id, Email: id + "@x.io"}))
	}

	list, total, err := d.Users().List(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "c", list[1].ID)

	list, _, err = d.Users().List(ctx, 2, 5)
	require.NoError(t, err)
	assert.Empty(t, list)
}
