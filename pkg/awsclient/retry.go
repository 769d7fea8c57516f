package awsclient

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Ping calls check until it succeeds or attempts run out, sleeping timeout
// between tries.
func Ping(ctx context.Context, name string, attempts int, timeout time.Duration, check func(ctx context.Context) error) error {
	var err error

	for attempts > 0 {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		err = check(callCtx)
		cancel()

		if err == nil {
			return nil
		}

		log.Printf("%s is trying to connect, attempts left: %d", name, attempts)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s - Ping: %w", name, ctx.Err())
		case <-time.After(timeout):
		}

		attempts--
	}

	return fmt.Errorf("%s - Ping - connAttempts == 0: %w", name, err)
}
