// Package handler is the invocation boundary: it validates the incoming
// event, runs the check and hands the result to the delivery sinks.
package handler

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/hamed0406/certprobe/internal/classify"
	"github.com/hamed0406/certprobe/internal/domain"
	"github.com/hamed0406/certprobe/internal/metrics"
	"github.com/hamed0406/certprobe/internal/notify"
)

// MissingURLMessage is the body returned for an event without a URL.
const MissingURLMessage = `Please provide a URL in the "url" field of the event.`

// Event is the invocation input.
type Event struct {
	URL string `json:"url"`
}

// Response is the invocation output. Body always equals the check summary
// on success.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Checker runs one check; *check.Service satisfies it.
type Checker interface {
	Run(ctx context.Context, raw string) (domain.CheckResult, error)
}

type Handler struct {
	Checker  Checker
	Notifier notify.Notifier // nil disables delivery
	Logger   *zap.Logger
}

func New(c Checker, n notify.Notifier, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Checker: c, Notifier: n, Logger: logger}
}

// Handle never returns a non-nil error; every outcome is expressed in the
// Response. The error result keeps the signature usable with lambda.Start.
func (h *Handler) Handle(ctx context.Context, ev Event) (Response, error) {
	if ev.URL == "" {
		h.Logger.Info("check_rejected", zap.String("reason", "missing url"))
		metrics.ChecksTotal.WithLabelValues("input_error").Inc()
		return Response{StatusCode: http.StatusBadRequest, Body: MissingURLMessage}, nil
	}

	r, err := h.Checker.Run(ctx, ev.URL)
	if errors.Is(err, classify.ErrEmptyReference) {
		return Response{StatusCode: http.StatusBadRequest, Body: MissingURLMessage}, nil
	}
	if err != nil {
		// Checker implementations only fail on input; anything else is
		// still reported as a completed check.
		h.Logger.Error("check_failed", zap.String("url", ev.URL), zap.Error(err))
		return Response{StatusCode: http.StatusOK, Body: err.Error()}, nil
	}

	h.deliver(ctx, r)
	return Response{StatusCode: http.StatusOK, Body: r.Summary}, nil
}

func (h *Handler) deliver(ctx context.Context, r domain.CheckResult) {
	if h.Notifier == nil {
		metrics.DeliveriesTotal.WithLabelValues("skipped").Inc()
		return
	}
	if err := h.Notifier.Send(ctx, notify.Subject, notify.ResultMessage(r)); err != nil {
		metrics.DeliveriesTotal.WithLabelValues("failed").Inc()
		h.Logger.Error("delivery_failed", zap.String("url", r.Target.Raw), zap.Error(err))
		return
	}
	metrics.DeliveriesTotal.WithLabelValues("sent").Inc()
	h.Logger.Info("delivery_sent", zap.String("url", r.Target.Raw))
}
