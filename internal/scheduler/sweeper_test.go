package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hamed0406/certprobe/internal/handler"
)

// --- fakes ---

type fakeInvoker struct {
	mu       sync.Mutex
	urls     []string
	inFlight int32
	peak     int32
	delay    time.Duration
	err      error
}

func (f *fakeInvoker) Handle(_ context.Context, ev handler.Event) (handler.Response, error) {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		p := atomic.LoadInt32(&f.peak)
		if n <= p || atomic.CompareAndSwapInt32(&f.peak, p, n) {
			break
		}
	}
	time.Sleep(f.delay)

	f.mu.Lock()
	f.urls = append(f.urls, ev.URL)
	f.mu.Unlock()
	return handler.Response{StatusCode: 200, Body: "ok"}, f.err
}

func (f *fakeInvoker) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.urls)
}

// --- tests ---

func TestSweeper_RunOnceChecksEveryTarget(t *testing.T) {
	inv := &fakeInvoker{delay: 10 * time.Millisecond}
	targets := []string{"https://a.example", "https://b.example", "http://c.example", "ftp://d"}
	s := NewSweeper(zap.NewNop(), inv, targets, time.Minute, time.Second, 2)

	s.RunOnce(context.Background())

	if got := inv.count(); got != len(targets) {
		t.Fatalf("want %d checks, got %d", len(targets), got)
	}
	if p := atomic.LoadInt32(&inv.peak); p > 2 {
		t.Fatalf("concurrency limit exceeded: peak %d", p)
	}
}

func TestSweeper_RunsImmediatelyThenStops(t *testing.T) {
	inv := &fakeInvoker{}
	s := NewSweeper(zap.NewNop(), inv, []string{"https://a.example"}, time.Hour, time.Second, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for inv.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
	if inv.count() != 1 {
		t.Fatalf("want one immediate pass, got %d", inv.count())
	}
}

func TestSweeper_DisabledWithoutIntervalOrTargets(t *testing.T) {
	inv := &fakeInvoker{}
	NewSweeper(zap.NewNop(), inv, []string{"https://a.example"}, 0, 0, 0).Run(context.Background())
	NewSweeper(zap.NewNop(), inv, nil, time.Minute, 0, 0).Run(context.Background())
	if inv.count() != 0 {
		t.Fatalf("disabled sweeper ran %d checks", inv.count())
	}
}

func TestSweeper_LogsInvokerErrors(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	inv := &fakeInvoker{err: errors.New("boom")}
	s := NewSweeper(zap.New(core), inv, []string{"https://a.example"}, time.Minute, time.Second, 1)

	s.RunOnce(context.Background())

	entries := logs.FilterMessage("sweeper_check_error").All()
	if len(entries) != 1 {
		t.Fatalf("want one warning, got %d", len(entries))
	}
	if entries[0].ContextMap()["url"] != "https://a.example" {
		t.Fatalf("unexpected fields %v", entries[0].ContextMap())
	}
}
