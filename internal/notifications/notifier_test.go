package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"hbnb/internal/domain/bookings"
	"hbnb/internal/domain/memory"
	"hbnb/internal/domain/users"
	"hbnb/internal/mailer"

	"github.com/9ssi7/exponent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type fakeSender struct {
	msgs []*exponent.Message
	err  error
}

func (f *fakeSender) Publish(_ context.Context, msgs []*exponent.Message) ([]*exponent.MessageResponse, error) {
	f.msgs = append(f.msgs, msgs...)
	return nil, f.err
}

type fakeMailer struct {
	template, username, email string
	data                      any
}

func (f *fakeMailer) Send(templateFile, username, email string, data any) (int, error) {
	f.template, f.username, f.email, f.data = templateFile, username, email, data
	return 1, nil
}

type failing struct{ err error }

func (f failing) NotifyBooking(context.Context, BookingNotice) error { return f.err }

func notice(event BookingEvent, status bookings.Status) BookingNotice {
	return BookingNotice{
		Event:       event,
		RecipientID: "owner",
		Booking: bookings.Booking{
			ID:        "b1",
			Reference: "HB-TEST1234",
			Start:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			End:       time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			Status:    status,
		},
		PlaceTitle: "Sea loft",
		GuestName:  "Grace",
	}
}

func TestPushSendsOneMessagePerDistinctToken(t *testing.T) {
	db := memory.New()
	ctx := context.Background()
	tokens := db.PushTokens()
	require.NoError(t, tokens.Add(ctx, "owner", "ExponentPushToken[a]"))
	require.NoError(t, tokens.Add(ctx, "owner", "ExponentPushToken[b]"))
	require.NoError(t, tokens.Add(ctx, "owner", "ExponentPushToken[a]"))

	sender := &fakeSender{}
	err := NewPush(sender, tokens).NotifyBooking(ctx, notice(BookingCreated, bookings.StatusPending))
	require.NoError(t, err)

	require.Len(t, sender.msgs, 2)
	assert.Equal(t, "New Booking Request", sender.msgs[0].Title)
	assert.Equal(t, "b1", sender.msgs[0].Data["bookingId"])
}

func TestPushWithoutTokensIsQuiet(t *testing.T) {
	sender := &fakeSender{}
	err := NewPush(sender, memory.New().PushTokens()).NotifyBooking(context.Background(), notice(BookingCreated, bookings.StatusPending))
	assert.NoError(t, err)
	assert.Empty(t, sender.msgs)
}

func TestMailPicksTemplateByEvent(t *testing.T) {
	db := memory.New()
	ctx := context.Background()
	require.NoError(t, db.Users().Create(ctx, &users.User{ID: "owner", FirstName: "Ada", Email: "ada@example.com"}))

	fm := &fakeMailer{}
	m := NewMail(fm, db.Users())

	require.NoError(t, m.NotifyBooking(ctx, notice(BookingCreated, bookings.StatusPending)))
	assert.Equal(t, mailer.BookingCreatedTemplate, fm.template)
	assert.Equal(t, "ada@example.com", fm.email)

	require.NoError(t, m.NotifyBooking(ctx, notice(BookingStatusChanged, bookings.StatusCancelled)))
	assert.Equal(t, mailer.BookingStatusTemplate, fm.template)
}

func TestMultiJoinsErrors(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")
	err := Multi{failing{errA}, Nop{}, failing{errB}}.NotifyBooking(context.Background(), notice(BookingCreated, bookings.StatusPending))

	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Len(t, multierr.Errors(err), 2)
}
