package probe

import (
	"context"

	"github.com/hamed0406/certprobe/internal/domain"
)

// Prober performs a single trust probe against host:port. It never returns
// an error: every failure is folded into the outcome.
type Prober interface {
	Probe(ctx context.Context, host string, port int) domain.ProbeOutcome
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context, host string, port int) domain.ProbeOutcome

func (f ProberFunc) Probe(ctx context.Context, host string, port int) domain.ProbeOutcome {
	return f(ctx, host, port)
}
