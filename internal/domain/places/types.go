package places

import (
	"errors"
	"math"
	"regexp"
	"strings"
	"time"
)

// DefaultPhotoURL is reported for places without uploaded photos.
const DefaultPhotoURL = "https://static.vecteezy.com/system/resources/previews/006/059/989/large_2x/crossed-camera-icon-avoid-taking-photos-image-is-not-available-illustration-free-vector.jpg"

var (
	ErrNotFound      = errors.New("place not found")
	ErrPhotoNotFound = errors.New("photo not found on place")
)

type Place struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	OwnerID     string    `json:"owner_id"`
	AmenityIDs  []string  `json:"amenity_ids"`
	Photos      []string  `json:"photos"`
	Rating      float64   `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Patch lists the fields a place update may change. Nil means unchanged.
type Patch struct {
	Title       *string
	Description *string
	Price       *float64
	Latitude    *float64
	Longitude   *float64
	AmenityIDs  *[]string
}

func (p *Place) Apply(patch Patch) {
	if patch.Title != nil {
		p.Title = CollapseSpaces(*patch.Title)
	}
	if patch.Description != nil {
		p.Description = CollapseSpaces(*patch.Description)
	}
	if patch.Price != nil {
		p.Price = RoundPrice(*patch.Price)
	}
	if patch.Latitude != nil {
		p.Latitude = *patch.Latitude
	}
	if patch.Longitude != nil {
		p.Longitude = *patch.Longitude
	}
	if patch.AmenityIDs != nil {
		p.AmenityIDs = dedupe(*patch.AmenityIDs)
	}
}

// DisplayPhotos returns the stored photos or the placeholder when there are none.
func (p *Place) DisplayPhotos() []string {
	if len(p.Photos) == 0 {
		return []string{DefaultPhotoURL}
	}
	return p.Photos
}

// RemovePhoto drops url from the photo list.
func (p *Place) RemovePhoto(url string) error {
	for i, existing := range p.Photos {
		if existing == url {
			p.Photos = append(p.Photos[:i:i], p.Photos[i+1:]...)
			return nil
		}
	}
	return ErrPhotoNotFound
}

var spaces = regexp.MustCompile(`\s+`)

func CollapseSpaces(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

// RoundPrice rounds to cents, halves to even.
func RoundPrice(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// AverageRating is the mean of ratings rounded half to even to one decimal,
// 0 for none.
func AverageRating(ratings []float64) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var total float64
	for _, r := range ratings {
		total += r
	}
	return math.RoundToEven(total/float64(len(ratings))*10) / 10
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// Normalize applies the same cleanup Apply does, for freshly built places.
func (p *Place) Normalize() {
	p.Title = CollapseSpaces(p.Title)
	p.Description = CollapseSpaces(p.Description)
	p.Price = RoundPrice(p.Price)
	p.AmenityIDs = dedupe(p.AmenityIDs)
	if p.Photos == nil {
		p.Photos = []string{}
	}
}
