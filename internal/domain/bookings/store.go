package bookings

import (
	"context"
	"errors"
	"fmt"

	"hbnb/internal/db"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context) ([]*Booking, error)
	ListByPlace(ctx context.Context, placeID string) ([]*Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*Booking, error)
	Update(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id string) error
}

type Repository struct {
	db db.DBTX
}

func NewRepository(conn db.DBTX) Store {
	return &Repository{db: conn}
}

const bookingColumns = `id, reference, place_id, user_id, start_date, end_date, status, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, b *Booking) error {
	query := `
        INSERT INTO bookings (id, reference, place_id, user_id, start_date, end_date, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at, updated_at
    `
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := r.db.QueryRow(ctx, query,
		b.ID, b.Reference, b.PlaceID, b.UserID, b.Start, b.End, b.Status,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		switch {
		case db.IsExclusionViolation(err, "bookings_no_overlap"):
			return ErrOverlap
		case db.IsUniqueViolation(err, "bookings_reference_key"):
			return ErrDuplicateRef
		default:
			return fmt.Errorf("insert booking: %w", err)
		}
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *Repository) List(ctx context.Context) ([]*Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY start_date, id`)
}

func (r *Repository) ListByPlace(ctx context.Context, placeID string) ([]*Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE place_id = $1 ORDER BY start_date, id`, placeID)
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1 ORDER BY start_date, id`, userID)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) Update(ctx context.Context, b *Booking) error {
	query := `
        UPDATE bookings
        SET start_date = $2, end_date = $3, status = $4, updated_at = NOW()
        WHERE id = $1
        RETURNING updated_at
    `
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := r.db.QueryRow(ctx, query, b.ID, b.Start, b.End, b.Status).Scan(&b.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return ErrNotFound
		case db.IsExclusionViolation(err, "bookings_no_overlap"):
			return ErrOverlap
		default:
			return fmt.Errorf("update booking: %w", err)
		}
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(&b.ID, &b.Reference, &b.PlaceID, &b.UserID, &b.Start, &b.End, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
