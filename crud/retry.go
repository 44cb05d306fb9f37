package crud

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"vidTube/errs"
	"vidTube/logger"
)

// readAttempts is how often a read is tried before the error is returned.
const readAttempts = 3

// readBackOff returns the wait schedule between read attempts.
func readBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	return b
}

// withRetry runs a read and retries it while the database is unavailable.
// All other errors are returned right away. Writes must not use this: a
// write that failed halfway has to re-check state, not be resubmitted.
func withRetry[T any](ctx context.Context, read func() (T, error)) (T, error) {
	attempt := 0
	v, err := backoff.Retry(ctx, func() (T, error) {
		attempt++
		v, err := read()
		if err != nil && !errs.Is(err, errs.EUNAVAILABLE) {
			return v, backoff.Permanent(err)
		}
		if err != nil {
			logger.Warn("read failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
		}
		return v, err
	}, backoff.WithBackOff(readBackOff()), backoff.WithMaxTries(readAttempts))
	if err != nil {
		var appErr *errs.Error
		if !errors.As(err, &appErr) {
			// The context ended while waiting.
			err = errs.Wrap(err, errs.EUNAVAILABLE, "The database is currently unavailable. Please try again.")
		}
		return v, err
	}
	return v, nil
}
