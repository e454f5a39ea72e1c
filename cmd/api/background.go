package main

import (
	"context"
	"time"
)

// completeExpiredBookingsEvery marks finished stays as DONE on a ticker so
// stored data stays current between reads. The returned func stops it.
func (app *application) completeExpiredBookingsEvery(interval time.Duration) func() {
	if interval <= 0 {
		return func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			app.completeExpiredBookings(ctx)

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func (app *application) completeExpiredBookings(ctx context.Context) {
	n, err := app.facade.CompleteExpiredBookings(ctx)
	if err != nil {
		app.logger.Errorw("error marking bookings as done", "error", err)
		return
	}
	if n > 0 {
		app.logger.Infow("marked bookings as done", "count", n, "at", time.Now().Format(time.RFC1123))
	}
}
