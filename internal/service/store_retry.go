// FILE: internal/service/store_retry.go
package service

import (
	"context"
	"errors"

	"workalone-be/internal/entity"

	"github.com/cenkalti/backoff/v5"
)

// retryStore runs a durable write with exponential backoff, up to maxTries
// attempts. Domain errors must be wrapped in backoff.Permanent by fn; they
// come back unchanged and are never retried. Anything else that survives
// the attempts comes back as a StoreError.
func retryStore(ctx context.Context, op string, maxTries uint, fn func() error) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, fn()
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(maxTries),
	)
	if err == nil {
		return nil
	}

	var conflict *entity.ConflictError
	var transition *entity.InvalidTransitionError
	if errors.As(err, &conflict) || errors.As(err, &transition) {
		return err
	}

	return &entity.StoreError{Op: op, Err: err}
}
