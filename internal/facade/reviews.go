package facade

import (
	"context"
	"fmt"

	"hbnb/internal/domain/bookings"
	"hbnb/internal/domain/places"
	"hbnb/internal/domain/reviews"
	"hbnb/internal/domain/storage"
	"hbnb/internal/events"

	"github.com/google/uuid"
)

type CreateReviewInput struct {
	BookingID string
	Comment   string
	Rating    float64
}

// CreateReview attaches a review to one of the actor's completed stays.
// The reviewed place is the booking's place.
func (f *Facade) CreateReview(ctx context.Context, actor Actor, in CreateReviewInput) (*reviews.Review, error) {
	return f.createReview(ctx, actor, "", in)
}

// CreateReviewFor is CreateReview for a caller that names the place; it must
// match the booking's place.
func (f *Facade) CreateReviewFor(ctx context.Context, actor Actor, placeID string, in CreateReviewInput) (*reviews.Review, error) {
	return f.createReview(ctx, actor, placeID, in)
}

func (f *Facade) createReview(ctx context.Context, actor Actor, placeID string, in CreateReviewInput) (*reviews.Review, error) {
	if _, err := f.store.Users.GetByID(ctx, actor.ID); err != nil {
		return nil, translate(err)
	}
	if placeID != "" {
		if _, err := f.store.Places.GetByID(ctx, placeID); err != nil {
			return nil, translate(err)
		}
	}
	b, err := f.store.Bookings.GetByID(ctx, in.BookingID)
	if err != nil {
		return nil, translate(err)
	}
	place, err := f.store.Places.GetByID(ctx, b.PlaceID)
	if err != nil {
		return nil, translate(err)
	}

	if err := f.eligible(ctx, actor, place, b); err != nil {
		return nil, err
	}
	if placeID != "" && placeID != b.PlaceID {
		return nil, forbidden("booking %s is not for place %s", b.ID, placeID)
	}

	comment, err := reviews.NormalizeComment(in.Comment)
	if err != nil {
		return nil, translate(err)
	}
	rating, err := reviews.NormalizeRating(in.Rating)
	if err != nil {
		return nil, translate(err)
	}

	rev := &reviews.Review{
		ID:        uuid.NewString(),
		PlaceID:   place.ID,
		UserID:    actor.ID,
		BookingID: b.ID,
		Comment:   comment,
		Rating:    rating,
	}
	err = f.store.WithTx(ctx, func(tx *storage.Container) error {
		if err := tx.Reviews.Create(ctx, rev); err != nil {
			return err
		}
		return recomputeRating(ctx, tx, place.ID)
	})
	if err != nil {
		return nil, translate(err)
	}

	f.logger.Infow("review created", "review", rev.ID, "place", place.ID, "booking", b.ID)
	f.publish(events.Event{Type: events.ReviewCreated, Key: place.ID, Payload: *rev})
	return rev, nil
}

// eligible is the review gate: the stay must be the actor's own, at someone
// else's place, and over.
func (f *Facade) eligible(ctx context.Context, actor Actor, place *places.Place, b *bookings.Booking) error {
	if b.UserID != actor.ID {
		return forbidden("booking %s belongs to another user", b.ID)
	}
	if place.OwnerID == actor.ID {
		return forbidden("you cannot review your own place")
	}
	if err := f.refresh(ctx, b); err != nil {
		return err
	}
	if b.Status != bookings.StatusDone || !b.End.Before(f.now()) {
		return forbidden("booking %s is %s; only completed stays can be reviewed", b.ID, b.Status)
	}
	return nil
}

// recomputeRating stores the mean of the place's reviews. The place row stays
// locked until tx ends.
func recomputeRating(ctx context.Context, tx *storage.Container, placeID string) error {
	if err := tx.Places.LockForRating(ctx, placeID); err != nil {
		return err
	}
	list, err := tx.Reviews.ListByPlace(ctx, placeID)
	if err != nil {
		return fmt.Errorf("list reviews of place %s: %w", placeID, err)
	}
	return tx.Places.UpdateRating(ctx, placeID, places.AverageRating(reviews.Ratings(list)))
}

func (f *Facade) GetReview(ctx context.Context, id string) (*reviews.Review, error) {
	rev, err := f.store.Reviews.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return rev, nil
}

func (f *Facade) ListReviews(ctx context.Context) ([]*reviews.Review, error) {
	list, err := f.store.Reviews.List(ctx)
	if list == nil && err == nil {
		list = []*reviews.Review{}
	}
	return list, err
}

func (f *Facade) ListPlaceReviews(ctx context.Context, placeID string) ([]*reviews.Review, error) {
	if _, err := f.store.Places.GetByID(ctx, placeID); err != nil {
		return nil, translate(err)
	}
	list, err := f.store.Reviews.ListByPlace(ctx, placeID)
	if list == nil && err == nil {
		list = []*reviews.Review{}
	}
	return list, err
}

func (f *Facade) UpdateReview(ctx context.Context, actor Actor, id string, patch reviews.Patch) (*reviews.Review, error) {
	if patch.Comment == nil && patch.Rating == nil {
		return nil, invalid("nothing to update")
	}
	rev, err := f.store.Reviews.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if !actor.Owns(rev.UserID) {
		return nil, forbidden("only the author of the review can modify it")
	}
	if err := rev.Apply(patch); err != nil {
		return nil, translate(err)
	}

	err = f.store.WithTx(ctx, func(tx *storage.Container) error {
		if err := tx.Reviews.Update(ctx, rev); err != nil {
			return err
		}
		return recomputeRating(ctx, tx, rev.PlaceID)
	})
	if err != nil {
		return nil, translate(err)
	}

	f.publish(events.Event{Type: events.ReviewUpdated, Key: rev.PlaceID, Payload: *rev})
	return rev, nil
}

func (f *Facade) DeleteReview(ctx context.Context, actor Actor, id string) error {
	rev, err := f.store.Reviews.GetByID(ctx, id)
	if err != nil {
		return translate(err)
	}
	if !actor.Owns(rev.UserID) {
		return forbidden("only the author of the review can delete it")
	}

	err = f.store.WithTx(ctx, func(tx *storage.Container) error {
		if err := tx.Reviews.Delete(ctx, id); err != nil {
			return err
		}
		return recomputeRating(ctx, tx, rev.PlaceID)
	})
	if err != nil {
		return translate(err)
	}

	f.logger.Infow("review deleted", "review", rev.ID, "actor", actor.ID)
	f.publish(events.Event{Type: events.ReviewDeleted, Key: rev.PlaceID, Payload: *rev})
	return nil
}
