package notify

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
)

// Notifier delivers a titled text message to some external sink.
type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

// Multi fans a message out to every configured sink. Every sink is tried;
// the returned error combines all failures.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, title, text string) error {
	var err error
	for _, n := range m {
		if n == nil {
			continue
		}
		err = multierr.Append(err, n.Send(ctx, title, text))
	}
	return err
}

// Compact drops nil sinks and returns nil when none remain, so callers can
// treat "no sinks configured" as a nil Notifier.
func Compact(ns ...Notifier) Notifier {
	var out Multi
	for _, n := range ns {
		if n == nil || isNilSink(n) {
			continue
		}
		out = append(out, n)
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	default:
		return out
	}
}

func isNilSink(n Notifier) bool {
	switch v := n.(type) {
	case *Slack:
		return v == nil
	case *SNS:
		return v == nil
	}
	return false
}

// Unavailable stands in for a sink whose configuration was rejected at
// startup. Every Send fails with Err, so checks still complete and each
// missed delivery is logged.
type Unavailable struct {
	Name string
	Err  error
}

func (u Unavailable) Send(context.Context, string, string) error {
	return fmt.Errorf("%s sink unavailable: %w", u.Name, u.Err)
}
