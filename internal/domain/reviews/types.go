package reviews

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	ErrNotFound          = errors.New("review not found")
	ErrInvalidComment    = errors.New("comment must be between 1 and 1000 characters")
	ErrInvalidRating     = errors.New("rating must be between 0 and 5")
	QueryTimeoutDuration = time.Second * 5
)

const MaxCommentLength = 1000

type Review struct {
	ID        string    `json:"id"`
	PlaceID   string    `json:"place_id"`
	UserID    string    `json:"user_id"`
	BookingID string    `json:"booking_id"`
	Comment   string    `json:"comment"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Patch lists the fields a review update may change. Nil means unchanged.
type Patch struct {
	Comment *string
	Rating  *float64
}

func NormalizeComment(s string) (string, error) {
	s = strings.TrimSpace(s)
	if n := utf8.RuneCountInString(s); n == 0 || n > MaxCommentLength {
		return "", ErrInvalidComment
	}
	return s, nil
}

func NormalizeRating(v float64) (float64, error) {
	if math.IsNaN(v) || v < 0 || v > 5 {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidRating, v)
	}
	return math.RoundToEven(v*10) / 10, nil
}

// Apply validates and copies the non-nil fields of p onto r. Nothing is
// copied when any field is invalid.
func (r *Review) Apply(p Patch) error {
	comment, rating := r.Comment, r.Rating
	if p.Comment != nil {
		c, err := NormalizeComment(*p.Comment)
		if err != nil {
			return err
		}
		comment = c
	}
	if p.Rating != nil {
		v, err := NormalizeRating(*p.Rating)
		if err != nil {
			return err
		}
		rating = v
	}
	r.Comment, r.Rating = comment, rating
	return nil
}

func Ratings(list []*Review) []float64 {
	out := make([]float64, len(list))
	for i, r := range list {
		out[i] = r.Rating
	}
	return out
}
