package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/certprobe/internal/handler"
)

// Invoker runs one check event end to end; *handler.Handler satisfies it.
type Invoker interface {
	Handle(ctx context.Context, ev handler.Event) (handler.Response, error)
}

// Sweeper periodically invokes the check for a fixed list of references,
// so results are delivered on a schedule as well as on demand.
type Sweeper struct {
	Logger      *zap.Logger
	Invoker     Invoker
	Targets     []string
	Interval    time.Duration
	Timeout     time.Duration
	Concurrency int
}

func NewSweeper(
	logger *zap.Logger,
	inv Invoker,
	targets []string,
	interval time.Duration,
	timeout time.Duration,
	concurrency int,
) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if interval < 0 {
		interval = 0
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Sweeper{
		Logger:      logger,
		Invoker:     inv,
		Targets:     targets,
		Interval:    interval,
		Timeout:     timeout,
		Concurrency: concurrency,
	}
}

// Run does an immediate pass, then one pass per tick until ctx is
// cancelled. A zero interval or an empty target list disables it.
func (s *Sweeper) Run(ctx context.Context) {
	if s.Interval == 0 || len(s.Targets) == 0 {
		s.Logger.Info("sweeper_disabled",
			zap.Duration("interval", s.Interval),
			zap.Int("targets", len(s.Targets)),
		)
		return
	}
	t := time.NewTicker(s.Interval)
	defer t.Stop()

	s.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("sweeper_stopped")
			return
		case <-t.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce checks every target once, at most Concurrency at a time.
func (s *Sweeper) RunOnce(ctx context.Context) {
	sem := make(chan struct{}, s.Concurrency)
	var wg sync.WaitGroup

	for _, raw := range s.Targets {
		if ctx.Err() != nil {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()

			cctx, cancel := context.WithTimeout(ctx, s.Timeout)
			defer cancel()

			resp, err := s.Invoker.Handle(cctx, handler.Event{URL: raw})
			if err != nil {
				s.Logger.Warn("sweeper_check_error", zap.String("url", raw), zap.Error(err))
				return
			}
			s.Logger.Debug("sweeper_checked",
				zap.String("url", raw),
				zap.Int("status_code", resp.StatusCode),
				zap.String("summary", resp.Body),
			)
		}()
	}

	wg.Wait()
}
