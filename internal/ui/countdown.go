package ui

import (
	"context"
	"time"
)

// Countdown waits for delay, calling tick with the time remaining once a
// second. It returns ctx.Err() if the context ends first.
func Countdown(ctx context.Context, delay time.Duration, tick func(remaining time.Duration)) error {
	deadline := time.NewTimer(delay)
	defer deadline.Stop()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	remaining := delay
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return nil
		case <-ticker.C:
			remaining -= time.Second
			if tick != nil && remaining > 0 {
				tick(remaining)
			}
		}
	}
}
