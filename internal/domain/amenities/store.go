package amenities

import (
	"context"
	"errors"

	"hbnb/internal/db"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	Create(ctx context.Context, a *Amenity) error
	GetByID(ctx context.Context, id string) (*Amenity, error)
	GetByName(ctx context.Context, name string) (*Amenity, error)
	List(ctx context.Context) ([]*Amenity, error)
	Update(ctx context.Context, a *Amenity) error
}

type Repository struct {
	db db.DBTX
}

func NewRepository(conn db.DBTX) Store {
	return &Repository{db: conn}
}

func (r *Repository) Create(ctx context.Context, a *Amenity) error {
	query := `
        INSERT INTO amenities (id, name, description)
        VALUES ($1, $2, $3)
        RETURNING created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query, a.ID, a.Name, a.Description).Scan(&a.CreatedAt, &a.UpdatedAt)
	if db.IsUniqueViolation(err, "amenities_name_key") {
		return ErrDuplicateName
	}
	return err
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Amenity, error) {
	return r.getOne(ctx, `SELECT id, name, description, created_at, updated_at FROM amenities WHERE id = $1`, id)
}

func (r *Repository) GetByName(ctx context.Context, name string) (*Amenity, error) {
	return r.getOne(ctx, `SELECT id, name, description, created_at, updated_at FROM amenities WHERE name = $1`, name)
}

func (r *Repository) getOne(ctx context.Context, query string, arg any) (*Amenity, error) {
	var a Amenity
	err := r.db.QueryRow(ctx, query, arg).Scan(&a.ID, &a.Name, &a.Description, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *Repository) List(ctx context.Context) ([]*Amenity, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description, created_at, updated_at FROM amenities ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Amenity
	for rows.Next() {
		var a Amenity
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *Repository) Update(ctx context.Context, a *Amenity) error {
	query := `
        UPDATE amenities SET name = $2, description = $3, updated_at = NOW()
        WHERE id = $1
        RETURNING updated_at
    `
	err := r.db.QueryRow(ctx, query, a.ID, a.Name, a.Description).Scan(&a.UpdatedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNotFound
	case db.IsUniqueViolation(err, "amenities_name_key"):
		return ErrDuplicateName
	}
	return err
}
