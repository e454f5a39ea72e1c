package facade

import (
	"context"
	"strings"
	"sync"
	"testing"

	"hbnb/internal/domain/places"
	"hbnb/internal/domain/reviews"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (fx *fixture) rating(t *testing.T) float64 {
	t.Helper()
	p, err := fx.f.GetPlace(context.Background(), fx.place.ID)
	require.NoError(t, err)
	return p.Rating
}

func TestReviewRequiresCompletedStay(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	pending := fx.book(t, fx.guest, jan(1), jan(5))
	cancelled := fx.book(t, fx.guest, jan(6), jan(8))
	_, err := fx.f.UpdateBookingStatus(ctx, fx.owner, cancelled, "CANCELLED")
	require.NoError(t, err)

	_, err = fx.f.CreateReview(ctx, fx.guest, CreateReviewInput{BookingID: pending, Comment: "great", Rating: 5})
	assert.ErrorIs(t, err, ErrForbidden, "pending booking")

	fx.clock.Set(jan(20))
	_, err = fx.f.CreateReview(ctx, fx.guest, CreateReviewInput{BookingID: cancelled, Comment: "great", Rating: 5})
	assert.ErrorIs(t, err, ErrForbidden, "cancelled booking stays cancelled")

	rev, err := fx.f.CreateReview(ctx, fx.guest, CreateReviewInput{BookingID: pending, Comment: "  great stay ", Rating: 4.26})
	require.NoError(t, err, "pending booking refreshed to DONE once over")
	assert.Equal(t, "great stay", rev.Comment)
	assert.Equal(t, 4.3, rev.Rating)
	assert.Equal(t, fx.place.ID, rev.PlaceID)
	assert.Equal(t, 4.3, fx.rating(t))
}

func TestOwnerDoneBookingBeforeEndIsNotReviewable(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	id := fx.book(t, fx.guest, jan(1), jan(5))
	_, err := fx.f.UpdateBookingStatus(ctx, fx.owner, id, "DONE")
	require.NoError(t, err)

	_, err = fx.f.CreateReview(ctx, fx.guest, CreateReviewInput{BookingID: id, Comment: "early", Rating: 3})
	assert.ErrorIs(t, err, ErrForbidden, "the stay has not ended yet")
}

func TestReviewGateIdentityRules(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	guestStay := fx.book(t, fx.guest, jan(1), jan(3))
	ownerStay := fx.book(t, fx.owner, jan(4), jan(6))
	fx.clock.Set(jan(10))

	_, err := fx.f.CreateReview(ctx, fx.admin, CreateReviewInput{BookingID: guestStay, Comment: "nice", Rating: 4})
	assert.ErrorIs(t, err, ErrForbidden, "someone else's booking")

	_, err = fx.f.CreateReview(ctx, fx.owner, CreateReviewInput{BookingID: ownerStay, Comment: "my own place is great", Rating: 5})
	assert.ErrorIs(t, err, ErrForbidden, "owners cannot review their own place")

	_, err = fx.f.CreateReview(ctx, fx.guest, CreateReviewInput{BookingID: "missing", Comment: "nice", Rating: 4})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = fx.f.CreateReview(ctx, Actor{ID: "ghost"}, CreateReviewInput{BookingID: guestStay, Comment: "nice", Rating: 4})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateReviewForChecksPlace(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	other, err := fx.f.CreatePlace(ctx, fx.owner, CreatePlaceInput{Title: "Flat", Description: "City flat", Price: 80})
	require.NoError(t, err)

	id := fx.book(t, fx.guest, jan(1), jan(3))
	fx.clock.Set(jan(4))

	_, err = fx.f.CreateReviewFor(ctx, fx.guest, other.ID, CreateReviewInput{BookingID: id, Comment: "nice", Rating: 4})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = fx.f.CreateReviewFor(ctx, fx.guest, "missing", CreateReviewInput{BookingID: id, Comment: "nice", Rating: 4})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = fx.f.CreateReviewFor(ctx, fx.guest, fx.place.ID, CreateReviewInput{BookingID: id, Comment: "nice", Rating: 4})
	assert.NoError(t, err)
}

func TestReviewInputValidation(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	id := fx.book(t, fx.guest, jan(1), jan(3))
	fx.clock.Set(jan(4))

	for name, in := range map[string]CreateReviewInput{
		"blank comment":  {BookingID: id, Comment: "   ", Rating: 3},
		"long comment":   {BookingID: id, Comment: strings.Repeat("x", 1001), Rating: 3},
		"rating too big": {BookingID: id, Comment: "ok", Rating: 5.5},
		"negative":       {BookingID: id, Comment: "ok", Rating: -0.1},
	} {
		_, err := fx.f.CreateReview(ctx, fx.guest, in)
		assert.ErrorIs(t, err, ErrValidation, name)
	}

	list, err := fx.f.ListPlaceReviews(ctx, fx.place.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 0.0, fx.rating(t))
}

func TestRatingFollowsReviews(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	first := fx.book(t, fx.guest, jan(1), jan(3))
	second := fx.book(t, fx.guest, jan(3), jan(5))
	third := fx.book(t, fx.guest, jan(5), jan(7))
	fx.clock.Set(jan(8))

	r1, err := fx.f.CreateReview(ctx, fx.guest, CreateReviewInput{BookingID: first, Comment: "good", Rating: 4})
	require.NoError(t, err)
	_, err = fx.f.CreateReview(ctx, fx.guest, CreateReviewInput{BookingID: second, Comment: "ok", Rating: 3.5})
	require.NoError(t, err)
	r3, err := fx.f.CreateReview(ctx, fx.guest, CreateReviewInput{BookingID: third, Comment: "ok", Rating: 3.5})
	require.NoError(t, err)
	assert.Equal(t, 3.7, fx.rating(t))

	rating := 5.0
	_, err = fx.f.UpdateReview(ctx, fx.owner, r1.ID, reviews.Patch{Rating: &rating})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = fx.f.UpdateReview(ctx, fx.guest, r1.ID, reviews.Patch{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 4.0, fx.rating(t))

	assert.ErrorIs(t, fx.f.DeleteReview(ctx, fx.owner, r3.ID), ErrForbidden)
	require.NoError(t, fx.f.DeleteReview(ctx, fx.admin, r3.ID))
	assert.Equal(t, 4.3, fx.rating(t))

	list, err := fx.f.ListReviews(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = fx.f.GetReview(ctx, r3.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateReviewValidation(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	id := fx.book(t, fx.guest, jan(1), jan(3))
	fx.clock.Set(jan(4))
	rev, err := fx.f.CreateReview(ctx, fx.guest, CreateReviewInput{BookingID: id, Comment: "fine", Rating: 3})
	require.NoError(t, err)

	blank := " "
	_, err = fx.f.UpdateReview(ctx, fx.guest, rev.ID, reviews.Patch{Comment: &blank})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = fx.f.UpdateReview(ctx, fx.guest, rev.ID, reviews.Patch{})
	assert.ErrorIs(t, err, ErrValidation)

	got, err := fx.f.GetReview(ctx, rev.ID)
	require.NoError(t, err)
	assert.Equal(t, "fine", got.Comment)
}

func TestConcurrentReviewsKeepRatingConsistent(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	ratings := []float64{5, 1, 4, 2, 3, 5, 1, 4}
	ids := make([]string, len(ratings))
	for i := range ratings {
		ids[i] = fx.book(t, fx.guest, jan(1+2*i), jan(2+2*i))
	}
	fx.clock.Set(jan(28))

	var wg sync.WaitGroup
	errs := make(chan error, len(ids))
	for i, id := range ids {
		wg.Add(1)
		go func(id string, rating float64) {
			defer wg.Done()
			_, err := fx.f.CreateReview(ctx, fx.guest, CreateReviewInput{BookingID: id, Comment: "stay", Rating: rating})
			errs <- err
		}(id, ratings[i])
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, places.AverageRating(ratings), fx.rating(t))
}
