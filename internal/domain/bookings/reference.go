package bookings

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync/atomic"
	"time"

	"github.com/speps/go-hashids/v2"
)

// ReferenceGenerator produces short booking codes such as "HB-7KX2QZ9P".
// Codes mix the time, a per-process counter and a random salt so separate
// instances do not collide; the bookings_reference_key index has the last word.
type ReferenceGenerator struct {
	h    *hashids.HashID
	seq  atomic.Int64
	now  func() time.Time
	salt func() int64
}

func NewReferenceGenerator(salt string) (*ReferenceGenerator, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 8
	hd.Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("hashids: %w", err)
	}
	return &ReferenceGenerator{
		h:    h,
		now:  time.Now,
		salt: func() int64 { return rand.Int64N(1 << 20) },
	}, nil
}

func (g *ReferenceGenerator) Next() (string, error) {
	n := g.seq.Add(1)
	code, err := g.h.EncodeInt64([]int64{g.now().Unix(), n, g.salt()})
	if err != nil {
		return "", fmt.Errorf("encode reference: %w", err)
	}
	return "HB-" + strings.ToUpper(code), nil
}
