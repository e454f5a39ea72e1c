package storage

import (
	"context"
	"sync"

	"hbnb/internal/db"
	"hbnb/internal/domain/amenities"
	"hbnb/internal/domain/bookings"
	"hbnb/internal/domain/memory"
	"hbnb/internal/domain/places"
	"hbnb/internal/domain/pushtokens"
	"hbnb/internal/domain/reviews"
	"hbnb/internal/domain/users"

	"github.com/jackc/pgx/v5"
)

type Container struct {
	Users      users.Store
	Amenities  amenities.Store
	Places     places.Store
	Bookings   bookings.Store
	Reviews    reviews.Store
	PushTokens pushtokens.Store

	conn db.DBTX
	// serializes memory units of work, which have no transactions
	memTx *sync.Mutex
}

// NewContainer wires the PostgreSQL repositories over a pool or a transaction.
func NewContainer(conn db.DBTX) *Container {
	return &Container{
		Users:      users.NewRepository(conn),
		Amenities:  amenities.NewRepository(conn),
		Places:     places.NewRepository(conn),
		Bookings:   bookings.NewRepository(conn),
		Reviews:    reviews.NewRepository(conn),
		PushTokens: pushtokens.NewRepository(conn),
		conn:       conn,
	}
}

func NewMemoryContainer(m *memory.DB) *Container {
	return &Container{
		Users:      m.Users(),
		Amenities:  m.Amenities(),
		Places:     m.Places(),
		Bookings:   m.Bookings(),
		Reviews:    m.Reviews(),
		PushTokens: m.PushTokens(),
		memTx:      &sync.Mutex{},
	}
}

// WithTx runs a unit of work against tx-scoped repositories. The memory
// container has no transactions: it runs fn on itself, one unit at a time,
// and does not roll back. fn must not call WithTx again.
func (c *Container) WithTx(ctx context.Context, fn func(tx *Container) error) error {
	if c.conn == nil {
		if c.memTx != nil {
			c.memTx.Lock()
			defer c.memTx.Unlock()
		}
		return fn(c)
	}
	return db.WithTx(c.conn, ctx, func(tx pgx.Tx) error {
		return fn(NewContainer(tx))
	})
}
