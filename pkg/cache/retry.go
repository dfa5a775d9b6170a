package cache

import (
	"context"
	"time"
)

// Connection retry tuning. Tests shorten pingDelay.
var (
	pingAttempts = 3
	pingDelay    = time.Second
)

// pingUntilReady calls ping until it succeeds, doubling the wait after each
// failure. Backends use it at construction so a server that is still
// starting does not fail the first render. Cancellation of ctx wins over
// the remaining attempts.
func pingUntilReady(ctx context.Context, ping func(context.Context) error) error {
	wait := pingDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = ping(ctx); err == nil || ctx.Err() != nil || attempt == pingAttempts {
			break
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		wait *= 2
	}
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	return err
}
