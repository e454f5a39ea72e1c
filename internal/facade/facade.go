// Package facade is the application core: it applies the booking lifecycle
// and review eligibility rules on top of the entity stores and fans the
// resulting changes out to events and notifications.
package facade

import (
	"context"
	"sync"
	"time"

	"hbnb/internal/domain/bookings"
	"hbnb/internal/domain/storage"
	"hbnb/internal/domain/users"
	"hbnb/internal/events"
	"hbnb/internal/locker"
	"hbnb/internal/media"
	"hbnb/internal/notifications"

	"go.uber.org/zap"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID    string
	Admin bool
}

func ActorFrom(u *users.User) Actor {
	return Actor{ID: u.ID, Admin: u.IsAdmin}
}

// Owns reports whether the actor may act on something belonging to ownerID.
func (a Actor) Owns(ownerID string) bool {
	return a.Admin || a.ID == ownerID
}

// References hands out booking reference codes.
type References interface {
	Next() (string, error)
}

type Facade struct {
	store    *storage.Container
	logger   *zap.SugaredLogger
	locker   locker.Locker
	events   events.Publisher
	notifier notifications.Notifier
	media    media.Store
	refs     References
	now      func() time.Time

	sideEffectTimeout time.Duration
	wg                sync.WaitGroup
}

type Option func(*Facade)

func WithLocker(l locker.Locker) Option { return func(f *Facade) { f.locker = l } }

func WithPublisher(p events.Publisher) Option { return func(f *Facade) { f.events = p } }

func WithNotifier(n notifications.Notifier) Option { return func(f *Facade) { f.notifier = n } }

func WithMedia(m media.Store) Option { return func(f *Facade) { f.media = m } }

func WithClock(now func() time.Time) Option { return func(f *Facade) { f.now = now } }

func WithReferences(r References) Option { return func(f *Facade) { f.refs = r } }

func WithSideEffectTimeout(d time.Duration) Option {
	return func(f *Facade) { f.sideEffectTimeout = d }
}

// New builds a facade over store. Collaborators not set through options
// default to in-process locking and no-op integrations.
func New(store *storage.Container, logger *zap.SugaredLogger, opts ...Option) (*Facade, error) {
	f := &Facade{
		store:             store,
		logger:            logger,
		locker:            locker.NewLocal(),
		events:            events.Nop{},
		notifier:          notifications.Nop{},
		media:             media.Disabled{},
		now:               time.Now,
		sideEffectTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.refs == nil {
		refs, err := bookings.NewReferenceGenerator("hbnb")
		if err != nil {
			return nil, err
		}
		f.refs = refs
	}
	return f, nil
}

// Wait blocks until background publishing and notifications have finished.
func (f *Facade) Wait() {
	f.wg.Wait()
}

// background runs fn off the request path with its own deadline. Failures
// are logged only.
func (f *Facade) background(name string, fn func(ctx context.Context) error) {
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				f.logger.Errorw("background task panicked", "task", name, "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), f.sideEffectTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			f.logger.Warnw("background task failed", "task", name, "error", err)
		}
	}()
}

func (f *Facade) publish(e events.Event) {
	e.OccurredAt = f.now()
	f.background(string(e.Type), func(ctx context.Context) error {
		return f.events.Publish(ctx, e)
	})
}

func (f *Facade) notify(n notifications.BookingNotice) {
	f.background("notify "+string(n.Event), func(ctx context.Context) error {
		return f.notifier.NotifyBooking(ctx, n)
	})
}
