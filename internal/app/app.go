// Package app wires the check pipeline from a Config. Every entrypoint
// (Lambda, HTTP API, CLI) builds the same graph through Build.
package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/hamed0406/certprobe/internal/check"
	"github.com/hamed0406/certprobe/internal/config"
	"github.com/hamed0406/certprobe/internal/handler"
	"github.com/hamed0406/certprobe/internal/notify"
	"github.com/hamed0406/certprobe/internal/probe"
)

type App struct {
	Checks   *check.Service
	Handler  *handler.Handler
	Notifier notify.Notifier // nil when no sink is configured
}

// Build constructs the prober, check service, delivery sinks and handler.
// Sink misconfiguration is logged, never fatal: checks must keep answering.
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	prober := probe.NewTLSProber(cfg.ProbeTimeout, logger)
	svc := check.NewService(prober, logger, cfg.BatchConcurrency)

	n := Notifier(ctx, cfg, logger)
	return &App{
		Checks:   svc,
		Handler:  handler.New(svc, n, logger),
		Notifier: n,
	}
}

// Notifier returns the configured sinks wrapped in delivery retries, or nil
// when none are configured. A sink whose settings are invalid is replaced by
// notify.Unavailable outside the retry wrapper, so each delivery reports the
// configuration error once.
func Notifier(ctx context.Context, cfg config.Config, logger *zap.Logger) notify.Notifier {
	var broken notify.Notifier
	sns, err := notify.NewSNS(ctx, notify.SNSConfig{
		TopicARN: cfg.SNSTopicARN,
		Region:   cfg.AWSRegion,
		Endpoint: cfg.SNSEndpoint,
	})
	if err != nil {
		logger.Error("sns_sink_invalid", zap.String("topic_arn", cfg.SNSTopicARN), zap.Error(err))
		broken = notify.Unavailable{Name: "sns", Err: err}
		sns = nil
	}

	var retried notify.Notifier
	if n := notify.Compact(sns, notify.NewSlack(cfg.SlackWebhook)); n != nil {
		retried = notify.NewRetrying(n, cfg.DeliveryAttempts, cfg.DeliveryBackoff, logger)
	}

	out := notify.Compact(retried, broken)
	if out == nil {
		logger.Info("delivery_disabled")
		return nil
	}
	logger.Info("delivery_enabled",
		zap.Bool("sns", sns != nil),
		zap.Bool("slack", cfg.SlackWebhook != ""),
		zap.Bool("sns_invalid", broken != nil),
		zap.Int("attempts", cfg.DeliveryAttempts),
	)
	return out
}
