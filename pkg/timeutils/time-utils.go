package timeutils

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrAllAttemptsFailed = errors.New("all attempts failed")
)

// Retry calls function once per entry of attemptDelays, waiting the entry's
// delay after an attempt that onFinished wants retried. When every attempt
// asks for a retry the last result is returned together with
// ErrAllAttemptsFailed (and the last error, if any).
func Retry[T any](
	ctx context.Context,
	attemptDelays []time.Duration,
	function func(context.Context) (T, error),
	onFinished func(T, error) (needRetry bool),
) (T, error) {
	var (
		res     T
		lastErr error
	)
	for i, delay := range attemptDelays {
		if ctx.Err() != nil {
			return res, fmt.Errorf("retry canceled: %w", ctx.Err())
		}
		res, lastErr = function(ctx)
		if !onFinished(res, lastErr) {
			return res, lastErr
		}
		if i == len(attemptDelays)-1 {
			break
		}
		if err := SleepCtx(ctx, delay); err != nil {
			return res, err
		}
	}
	if lastErr != nil {
		return res, fmt.Errorf("%w: %w", ErrAllAttemptsFailed, lastErr)
	}
	return res, ErrAllAttemptsFailed
}

// ExponentialDelays returns attempts delays starting at base and doubling.
func ExponentialDelays(base time.Duration, attempts int) []time.Duration {
	res := make([]time.Duration, 0, attempts)
	delay := base
	for i := 0; i < attempts; i++ {
		res = append(res, delay)
		delay *= 2
	}
	return res
}

func SleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("sleep canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
