package reviews

import (
	"context"
	"errors"

	"hbnb/internal/db"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	Create(ctx context.Context, r *Review) error
	GetByID(ctx context.Context, id string) (*Review, error)
	List(ctx context.Context) ([]*Review, error)
	ListByPlace(ctx context.Context, placeID string) ([]*Review, error)
	ListByUser(ctx context.Context, userID string) ([]*Review, error)
	Update(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id string) error
}

type Repository struct {
	db db.DBTX
}

func NewRepository(conn db.DBTX) Store {
	return &Repository{db: conn}
}

const reviewColumns = `id, place_id, user_id, booking_id, comment, rating, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, rev *Review) error {
	query := `
		INSERT INTO reviews (id, place_id, user_id, booking_id, comment, rating)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.db.QueryRow(ctx, query,
		rev.ID, rev.PlaceID, rev.UserID, rev.BookingID, rev.Comment, rev.Rating,
	).Scan(&rev.CreatedAt, &rev.UpdatedAt)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Review, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rev, err := scanReview(r.db.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rev, nil
}

func (r *Repository) List(ctx context.Context) ([]*Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews ORDER BY created_at DESC, id`)
}

func (r *Repository) ListByPlace(ctx context.Context, placeID string) ([]*Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE place_id = $1 ORDER BY created_at DESC, id`, placeID)
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE user_id = $1 ORDER BY created_at DESC, id`, userID)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Review, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Review
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

func (r *Repository) Update(ctx context.Context, rev *Review) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := r.db.QueryRow(ctx,
		`UPDATE reviews SET comment = $2, rating = $3, updated_at = NOW() WHERE id = $1 RETURNING updated_at`,
		rev.ID, rev.Comment, rev.Rating,
	).Scan(&rev.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanReview(row pgx.Row) (*Review, error) {
	var rev Review
	if err := row.Scan(&rev.ID, &rev.PlaceID, &rev.UserID, &rev.BookingID, &rev.Comment, &rev.Rating, &rev.CreatedAt, &rev.UpdatedAt); err != nil {
		return nil, err
	}
	return &rev, nil
}
