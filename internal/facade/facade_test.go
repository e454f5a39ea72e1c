package facade

import (
	"context"
	"sync"
	"testing"
	"time"

	"hbnb/internal/domain/memory"
	"hbnb/internal/domain/places"
	"hbnb/internal/domain/storage"
	"hbnb/internal/events"
	"hbnb/internal/notifications"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordedEvents) Close() error { return nil }

func (r *recordedEvents) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type recordedNotices struct {
	mu      sync.Mutex
	notices []notifications.BookingNotice
}

func (r *recordedNotices) NotifyBooking(_ context.Context, n notifications.BookingNotice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
	return nil
}

type fixture struct {
	f       *Facade
	db      *memory.DB
	clock   *testClock
	events  *recordedEvents
	notices *recordedNotices
	owner   Actor
	guest   Actor
	admin   Actor
	place   *places.Place
}

func jan(day int) time.Time {
	return time.Date(2025, time.January, day, 0, 0, 0, 0, time.UTC)
}

// newFixture seeds an owner with one place, a guest and an admin. The clock
// starts in mid December 2024 so January 2025 is bookable.
func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	fx := &fixture{
		db:      memory.New(),
		clock:   &testClock{now: time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC)},
		events:  &recordedEvents{},
		notices: &recordedNotices{},
	}
	fx.db.SetClock(fx.clock.Now)

	opts = append([]Option{
		WithClock(fx.clock.Now),
		WithPublisher(fx.events),
		WithNotifier(fx.notices),
	}, opts...)

	f, err := New(storage.NewMemoryContainer(fx.db), zap.NewNop().Sugar(), opts...)
	require.NoError(t, err)
	fx.f = f

	ctx := context.Background()
	owner, err := f.Register(ctx, RegisterInput{FirstName: "Olive", LastName: "Owner", Email: "owner@hbnb.io", Password: "password1"})
	require.NoError(t, err)
	guest, err := f.Register(ctx, RegisterInput{FirstName: "Gus", LastName: "Guest", Email: "guest@hbnb.io", Password: "password1"})
	require.NoError(t, err)
	admin, err := f.BootstrapAdmin(ctx, RegisterInput{FirstName: "Ada", LastName: "Admin", Email: "admin@hbnb.io", Password: "password1"})
	require.NoError(t, err)

	fx.owner, fx.guest, fx.admin = ActorFrom(owner), ActorFrom(guest), ActorFrom(admin)

	fx.place, err = f.CreatePlace(ctx, fx.owner, CreatePlaceInput{
		Title:       "Cabin by the lake",
		Description: "Quiet wooden cabin",
		Price:       120,
		Latitude:    46.2,
		Longitude:   6.1,
	})
	require.NoError(t, err)
	return fx
}

func (fx *fixture) book(t *testing.T, actor Actor, start, end time.Time) string {
	t.Helper()
	b, err := fx.f.CreateBooking(context.Background(), actor, CreateBookingInput{PlaceID: fx.place.ID, Start: start, End: end})
	require.NoError(t, err)
	return b.ID
}
