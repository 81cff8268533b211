package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"go.uber.org/zap"
)

// Retrying re-sends a message through Inner until it succeeds or Attempts
// is used up. It retries delivery only, never the check that produced it.
type Retrying struct {
	Inner    Notifier
	Attempts int
	Backoff  time.Duration
	Logger   *zap.Logger

	executor failsafe.Executor[any]
}

func NewRetrying(inner Notifier, attempts int, backoff time.Duration, logger *zap.Logger) *Retrying {
	if attempts < 1 {
		attempts = 1
	}
	if backoff <= 0 {
		backoff = time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Retrying{Inner: inner, Attempts: attempts, Backoff: backoff, Logger: logger}

	policy := retrypolicy.NewBuilder[any]().
		WithMaxAttempts(attempts).
		WithBackoff(backoff, 8*backoff).
		WithJitterFactor(0.1).
		OnRetry(func(e failsafe.ExecutionEvent[any]) {
			r.Logger.Warn("delivery_retry",
				zap.Int("attempt", e.Attempts()),
				zap.Error(e.LastError()),
			)
		}).
		Build()
	r.executor = failsafe.With[any](policy)
	return r
}

func (r *Retrying) Send(ctx context.Context, title, text string) error {
	err := r.executor.WithContext(ctx).Run(func() error {
		return r.Inner.Send(ctx, title, text)
	})
	if err != nil {
		return fmt.Errorf("deliver %q after %d attempt(s): %w", title, r.Attempts, err)
	}
	return nil
}
