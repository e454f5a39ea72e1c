package ratelimiter

import (
	"context"
	"time"
)

type Limiter interface {
	// Allow reports whether key may make another request and, if not, how
	// long until its window resets.
	Allow(ctx context.Context, key string) (bool, time.Duration)
}

type Config struct {
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Enabled              bool
}
