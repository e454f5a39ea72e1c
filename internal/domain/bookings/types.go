package bookings

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound          = errors.New("booking not found")
	ErrOverlap           = errors.New("booking overlaps an existing booking")
	ErrDuplicateRef      = errors.New("booking reference already in use")
	ErrInvalidRange      = errors.New("start date must be before end date")
	ErrInvalidStatus     = errors.New("invalid booking status")
	QueryTimeoutDuration = time.Second * 5
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusDone      Status = "DONE"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus accepts any casing and returns the canonical status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusDone, StatusCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

type Booking struct {
	ID        string    `json:"id"`
	Reference string    `json:"reference"`
	PlaceID   string    `json:"place_id"`
	UserID    string    `json:"user_id"`
	Start     time.Time `json:"start_date"`
	End       time.Time `json:"end_date"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Interval is a half-open [Start, End) range.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (b *Booking) Interval() Interval {
	return Interval{Start: b.Start, End: b.End}
}

// Overlaps reports whether two half-open intervals share an instant.
// Touching intervals do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

func ValidateRange(start, end time.Time) error {
	if !start.Before(end) {
		return ErrInvalidRange
	}
	return nil
}

// Refresh moves an expired PENDING booking to DONE and reports whether it changed.
func (b *Booking) Refresh(now time.Time) bool {
	if b.Status == StatusPending && now.After(b.End) {
		b.Status = StatusDone
		return true
	}
	return false
}

// Blocks reports whether the booking takes part in overlap checks.
func (b *Booking) Blocks() bool {
	return b.Status != StatusCancelled
}

func (b *Booking) Final() bool {
	return b.Status != StatusPending
}

// FirstConflict returns the first blocking booking overlapping iv, skipping excludeID.
func FirstConflict(existing []*Booking, iv Interval, excludeID string) *Booking {
	for _, other := range existing {
		if other.ID == excludeID || !other.Blocks() {
			continue
		}
		if Overlaps(other.Interval(), iv) {
			return other
		}
	}
	return nil
}

// Patch lists the fields a booking update may change. Nil means unchanged.
type Patch struct {
	Start  *time.Time
	End    *time.Time
	Status *string
}

func (p Patch) ChangesDates() bool {
	return p.Start != nil || p.End != nil
}
