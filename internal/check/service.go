package check

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/certprobe/internal/classify"
	"github.com/hamed0406/certprobe/internal/domain"
	"github.com/hamed0406/certprobe/internal/metrics"
	"github.com/hamed0406/certprobe/internal/probe"
)

const DefaultConcurrency = 4

type Service struct {
	Prober      probe.Prober
	Logger      *zap.Logger
	Concurrency int
	Now         func() time.Time
}

func NewService(p probe.Prober, logger *zap.Logger, concurrency int) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Service{Prober: p, Logger: logger, Concurrency: concurrency, Now: time.Now}
}

// Run checks a single reference. The only error is classify.ErrEmptyReference;
// probe failures are reported inside the result.
func (s *Service) Run(ctx context.Context, raw string) (domain.CheckResult, error) {
	target, err := classify.Classify(raw)
	if err != nil {
		metrics.ChecksTotal.WithLabelValues("input_error").Inc()
		return domain.CheckResult{}, err
	}

	r := Compose(target, func() domain.ProbeOutcome {
		return s.Prober.Probe(ctx, target.Host, target.Port)
	})
	r.CheckedAt = s.now().UTC()
	metrics.ChecksTotal.WithLabelValues(r.Status.String()).Inc()

	fields := []zap.Field{
		zap.String("url", target.Raw),
		zap.String("scheme", target.Scheme.String()),
		zap.String("status", r.Status.String()),
	}
	if r.Probe != nil {
		fields = append(fields, zap.String("outcome", r.Probe.Kind.String()))
		if r.Probe.Failed() {
			fields = append(fields, zap.String("reason", r.Probe.Reason))
		} else {
			fields = append(fields, zap.Time("expires_at", r.Probe.At))
		}
	}
	s.log().Info("check_completed", fields...)
	return r, nil
}

// Item is one entry of a batch run.
type Item struct {
	URL    string              `json:"url"`
	Result *domain.CheckResult `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// RunAll checks refs concurrently, at most Concurrency at a time. Probes
// share nothing, so the only coordination is the limit. Output order
// matches input order.
func (s *Service) RunAll(ctx context.Context, refs []string) []Item {
	out := make([]Item, len(refs))

	limit := s.Concurrency
	if limit < 1 {
		limit = DefaultConcurrency
	}
	var g errgroup.Group
	g.SetLimit(limit)

	for i, ref := range refs {
		g.Go(func() error {
			out[i].URL = ref
			r, err := s.Run(ctx, ref)
			if err != nil {
				out[i].Error = err.Error()
				return nil
			}
			out[i].Result = &r
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Service) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
