package notifications

import (
	"context"
	"fmt"

	"hbnb/internal/domain/users"
	"hbnb/internal/mailer"
)

const dateLayout = "Mon, 02 Jan 2006"

type Mail struct {
	client mailer.Client
	users  users.Store
}

func NewMail(client mailer.Client, users users.Store) *Mail {
	return &Mail{client: client, users: users}
}

func (m *Mail) NotifyBooking(ctx context.Context, n BookingNotice) error {
	recipient, err := m.users.GetByID(ctx, n.RecipientID)
	if err != nil {
		return fmt.Errorf("mail recipient: %w", err)
	}

	tmpl := mailer.BookingStatusTemplate
	if n.Event == BookingCreated {
		tmpl = mailer.BookingCreatedTemplate
	}

	data := struct {
		Username   string
		GuestName  string
		PlaceTitle string
		Start      string
		End        string
		Reference  string
		Status     string
	}{
		Username:   recipient.FirstName,
		GuestName:  n.GuestName,
		PlaceTitle: n.PlaceTitle,
		Start:      n.Booking.Start.Format(dateLayout),
		End:        n.Booking.End.Format(dateLayout),
		Reference:  n.Booking.Reference,
		Status:     string(n.Booking.Status),
	}

	_, err = m.client.Send(tmpl, recipient.FirstName, recipient.Email, data)
	return err
}
