package notifications

import (
	"context"
	"slices"

	"hbnb/internal/domain/pushtokens"

	"github.com/9ssi7/exponent"
)

type Push struct {
	sender PushSender
	tokens pushtokens.Store
}

func NewPush(sender PushSender, tokens pushtokens.Store) *Push {
	return &Push{sender: sender, tokens: tokens}
}

func (p *Push) NotifyBooking(ctx context.Context, n BookingNotice) error {
	tokensMap, err := p.tokens.TokensByUserIDs(ctx, []string{n.RecipientID})
	if err != nil {
		return err
	}
	tokens := dedupe(tokensMap[n.RecipientID])
	if len(tokens) == 0 {
		return nil
	}

	title, body := content(n)
	msgs := make([]*exponent.Message, 0, len(tokens))
	for _, t := range tokens {
		token := exponent.Token(t)
		msgs = append(msgs, &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: title,
			Body:  body,
			// the app deep links on data.screen
			Data: map[string]string{
				"type":      "booking",
				"event":     string(n.Event),
				"status":    string(n.Booking.Status),
				"bookingId": n.Booking.ID,
				"screen":    "bookings/" + n.Booking.ID,
			},
		})
	}

	_, err = p.sender.Publish(ctx, msgs)
	return err
}

func dedupe(tokens []string) []string {
	out := slices.Clone(tokens)
	slices.Sort(out)
	return slices.Compact(out)
}
