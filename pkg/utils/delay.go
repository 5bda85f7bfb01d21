package utils

import (
	"context"
	"math/rand"
	"time"
)

// Jitter returns a random duration within [min, max]. When min >= max it
// returns min unchanged.
func Jitter(min, max time.Duration) time.Duration {
	if min >= max {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}

// Sleep blocks for d or until the context is cancelled, whichever comes
// first. Returns the context error on early wake-up.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RandomSleep blocks for a random duration within [min, max]. The full delay
// is always paid; there is no early-exit condition other than context
// cancellation. Returns the duration slept.
func RandomSleep(ctx context.Context, min, max time.Duration) (time.Duration, error) {
	d := Jitter(min, max)
	return d, Sleep(ctx, d)
}
