package amenities

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound      = errors.New("amenity not found")
	ErrDuplicateName = errors.New("an amenity with that name already exists")
)

type Amenity struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Patch struct {
	Name        *string
	Description *string
}

func (a *Amenity) Apply(p Patch) {
	if p.Name != nil {
		a.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		a.Description = strings.TrimSpace(*p.Description)
	}
}
