package pushtokens

import (
	"context"
	"time"

	"hbnb/internal/db"
)

var QueryTimeoutDuration = time.Second * 5

type Store interface {
	Add(ctx context.Context, userID, token string) error
	Remove(ctx context.Context, userID, token string) error
	RemoveTokens(ctx context.Context, tokens []string) error
	TokensByUserIDs(ctx context.Context, userIDs []string) (map[string][]string, error)
}

type Repository struct {
	db db.DBTX
}

func NewRepository(conn db.DBTX) Store {
	return &Repository{db: conn}
}

// Add registers token for the user; registering it twice is a no-op.
func (r *Repository) Add(ctx context.Context, userID, token string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `
	INSERT INTO push_tokens (user_id, token)
	VALUES ($1, $2)
	ON CONFLICT (user_id, token) DO NOTHING;
	`
	_, err := r.db.Exec(ctx, q, userID, token)
	return err
}

func (r *Repository) Remove(ctx context.Context, userID, token string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM push_tokens WHERE user_id = $1 AND token = $2`, userID, token)
	return err
}

// RemoveTokens deletes tokens the push service reported as unregistered.
func (r *Repository) RemoveTokens(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM push_tokens WHERE token = ANY($1)`, tokens)
	return err
}

func (r *Repository) TokensByUserIDs(ctx context.Context, userIDs []string) (map[string][]string, error) {
	result := make(map[string][]string)
	if len(userIDs) == 0 {
		return result, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT user_id, token FROM push_tokens WHERE user_id = ANY($1::uuid[])`, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uid, token string
	for rows.Next() {
		if err := rows.Scan(&uid, &token); err != nil {
			return nil, err
		}
		result[uid] = append(result[uid], token)
	}
	return result, rows.Err()
}
