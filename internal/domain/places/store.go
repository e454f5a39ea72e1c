package places

import (
	"context"
	"errors"
	"fmt"

	"hbnb/internal/db"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	Create(ctx context.Context, p *Place) error
	GetByID(ctx context.Context, id string) (*Place, error)
	List(ctx context.Context, limit, offset int) ([]*Place, int, error)
	Update(ctx context.Context, p *Place) error
	UpdateRating(ctx context.Context, id string, rating float64) error
	LockForRating(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type Repository struct {
	db db.DBTX
}

func NewRepository(conn db.DBTX) Store {
	return &Repository{db: conn}
}

const placeSelect = `
    SELECT p.id, p.title, p.description, p.price, p.latitude, p.longitude, p.owner_id,
           COALESCE(ARRAY(SELECT pa.amenity_id::text FROM place_amenities pa WHERE pa.place_id = p.id ORDER BY pa.amenity_id), '{}'),
           p.photos, p.rating, p.created_at, p.updated_at
    FROM places p`

func (r *Repository) Create(ctx context.Context, p *Place) error {
	return db.WithTx(r.db, ctx, func(tx pgx.Tx) error {
		query := `
            INSERT INTO places (id, title, description, price, latitude, longitude, owner_id, rating, photos)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
            RETURNING created_at, updated_at
        `
		err := tx.QueryRow(ctx, query,
			p.ID, p.Title, p.Description, p.Price, p.Latitude, p.Longitude, p.OwnerID, p.Rating, p.Photos,
		).Scan(&p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return err
		}
		return replaceAmenities(ctx, tx, p.ID, p.AmenityIDs)
	})
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Place, error) {
	p, err := scanPlace(r.db.QueryRow(ctx, placeSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]*Place, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM places`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count places: %w", err)
	}

	rows, err := r.db.Query(ctx, placeSelect+` ORDER BY p.created_at, p.id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *Repository) Update(ctx context.Context, p *Place) error {
	return db.WithTx(r.db, ctx, func(tx pgx.Tx) error {
		query := `
            UPDATE places
            SET title = $2, description = $3, price = $4, latitude = $5, longitude = $6, photos = $7, updated_at = NOW()
            WHERE id = $1
            RETURNING updated_at
        `
		err := tx.QueryRow(ctx, query,
			p.ID, p.Title, p.Description, p.Price, p.Latitude, p.Longitude, p.Photos,
		).Scan(&p.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		return replaceAmenities(ctx, tx, p.ID, p.AmenityIDs)
	})
}

func (r *Repository) UpdateRating(ctx context.Context, id string, rating float64) error {
	tag, err := r.db.Exec(ctx, `UPDATE places SET rating = $2, updated_at = NOW() WHERE id = $1`, id, rating)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// LockForRating holds the place row until the surrounding transaction ends so
// concurrent review writes recompute the rating one after another. NO KEY
// UPDATE leaves the key share locks taken by review inserts alone.
func (r *Repository) LockForRating(ctx context.Context, id string) error {
	var locked string
	err := r.db.QueryRow(ctx, `SELECT id FROM places WHERE id = $1 FOR NO KEY UPDATE`, id).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock place %s: %w", id, err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM places WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func replaceAmenities(ctx context.Context, tx pgx.Tx, placeID string, amenityIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM place_amenities WHERE place_id = $1`, placeID); err != nil {
		return err
	}
	if len(amenityIDs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, amenityID := range amenityIDs {
		batch.Queue(`INSERT INTO place_amenities (place_id, amenity_id) VALUES ($1, $2)`, placeID, amenityID)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for i := range amenityIDs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("link amenity[%d]: %w", i, err)
		}
	}
	return nil
}

func scanPlace(row pgx.Row) (*Place, error) {
	var p Place
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.Latitude,
		&p.Longitude,
		&p.OwnerID,
		&p.AmenityIDs,
		&p.Photos,
		&p.Rating,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
