// Package locker serializes work on a key, such as the overlap check and
// insert of bookings for one place.
package locker

import (
	"context"
	"sync"
)

// Locker acquires an exclusive lock on key until the returned func is called.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Local locks within a single process.
type Local struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewLocal() *Local {
	return &Local{slots: make(map[string]chan struct{})}
}

func (l *Local) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[key]
	if !ok {
		s = make(chan struct{}, 1)
		l.slots[key] = s
	}
	return s
}

func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	s := l.slot(key)
	select {
	case s <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-s }) }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
