// Package retry re-runs operations that lost a race with a concurrent writer.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
)

type Policy struct {
	MaxAttempts  uint
	InitialDelay time.Duration
}

// Do runs op until it succeeds, fails with an error other than
// apperr.ErrConflict, or MaxAttempts is reached. The last conflict is
// returned unchanged so callers can still match it with errors.Is.
func Do[T any](ctx context.Context, p Policy, op func() (T, error)) (T, error) {
	attempts := max(p.MaxAttempts, 1)

	b := backoff.NewExponentialBackOff()
	if p.InitialDelay > 0 {
		b.InitialInterval = p.InitialDelay
	}

	return backoff.Retry(ctx, func() (T, error) {
		res, err := op()
		if err != nil && !errors.Is(err, apperr.ErrConflict) {
			return res, backoff.Permanent(err)
		}

		return res, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(attempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.WarnContext(ctx, "retrying after conflict", "error", err, "delay", next)
		}),
	)
}

// Run is Do for operations without a result.
func Run(ctx context.Context, p Policy, op func() error) error {
	_, err := Do(ctx, p, func() (struct{}, error) {
		return struct{}{}, op()
	})

	return err
}
