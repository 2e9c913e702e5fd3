package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	apperrors "github.com/mahatkd/federation-api/pkg/errors"
)

const (
	queryRetryAttempts = 2
	queryRetryDelay    = 300 * time.Millisecond
)

// WithRetry runs fn, retrying transient connection failures up to two extra
// times with a fixed delay. SQL and application errors are never retried.
// A connection failure that survives all attempts is reported as service
// unavailability, not an internal error.
func WithRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(queryRetryAttempts, retry.NewConstant(queryRetryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			if IsTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err != nil && IsTransient(err) {
		return fmt.Errorf("%w: %w", apperrors.ErrServiceUnavail, err)
	}
	return err
}
