package app

import (
	"context"
	"time"
)

// TimerSleeper implements ports.Sleeper with a real timer.
type TimerSleeper struct{}

// Sleep blocks for d, returning early with ctx.Err() when ctx is done.
func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
