package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/certprobe/internal/check"
	"github.com/hamed0406/certprobe/internal/domain"
	"github.com/hamed0406/certprobe/internal/handler"
	"github.com/hamed0406/certprobe/internal/probe"
)

// ---- test helpers ----

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeNotifier) Send(_ context.Context, _, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

var expiry = time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

func setupRouter(t *testing.T, opts Options) (http.Handler, *int64, *fakeNotifier) {
	t.Helper()
	var probes int64
	p := probe.ProberFunc(func(_ context.Context, host string, _ int) domain.ProbeOutcome {
		atomic.AddInt64(&probes, 1)
		if host == "down.example" {
			return domain.Unreachable("connection refused")
		}
		return domain.Expiring(expiry)
	})
	log := zap.NewNop()
	svc := check.NewService(p, log, 2)
	n := &fakeNotifier{}
	srv := NewServer(log, handler.New(svc, n, log), svc)
	return srv.Router(opts), &probes, n
}

func post(t *testing.T, url, body string, hdr map[string]string) *http.Response {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

// ---- tests ----

func TestCheck_HTTPSDeliversAndReturnsSummary(t *testing.T) {
	h, probes, n := setupRouter(t, Options{})
	ts := httptest.NewServer(h)
	defer ts.Close()

	resp := post(t, ts.URL+"/api/check", `{"url":"https://good.example"}`, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200 got %d", resp.StatusCode)
	}
	var got handler.Response
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "The website uses HTTPS (secure). Certificate expires on 2030-01-02 03:04:05."
	if got.StatusCode != 200 || got.Body != want {
		t.Fatalf("unexpected response %+v", got)
	}
	if atomic.LoadInt64(probes) != 1 {
		t.Fatalf("want exactly one probe, got %d", *probes)
	}
	if len(n.sent) != 1 || !strings.Contains(n.sent[0], "Protocol: https") {
		t.Fatalf("delivery not made: %+v", n.sent)
	}
}

func TestCheck_MissingURLIs400(t *testing.T) {
	h, probes, n := setupRouter(t, Options{})
	ts := httptest.NewServer(h)
	defer ts.Close()

	for _, body := range []string{`{}`, `{"url":""}`, `not json`} {
		resp := post(t, ts.URL+"/api/check", body, nil)
		var got handler.Response
		_ = json.NewDecoder(resp.Body).Decode(&got)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest || got.Body != handler.MissingURLMessage {
			t.Fatalf("body %q: got %d %+v", body, resp.StatusCode, got)
		}
	}
	if *probes != 0 || len(n.sent) != 0 {
		t.Fatalf("rejected requests must not probe or deliver")
	}
}

func TestBatch_PreservesOrderAndSkipsDelivery(t *testing.T) {
	h, _, n := setupRouter(t, Options{})
	ts := httptest.NewServer(h)
	defer ts.Close()

	body := `{"urls":["https://good.example","http://plain.example","https://down.example",""]}`
	resp := post(t, ts.URL+"/api/check/batch", body, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200 got %d", resp.StatusCode)
	}
	type item struct {
		URL    string `json:"url"`
		Result *struct {
			Summary string `json:"summary"`
		} `json:"result"`
		Error string `json:"error"`
	}
	var out struct {
		Results []item `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Results) != 4 {
		t.Fatalf("want 4 results got %d", len(out.Results))
	}
	if out.Results[1].Result == nil || out.Results[1].Result.Summary != check.SummaryPlainHTTP {
		t.Fatalf("unexpected http item %+v", out.Results[1])
	}
	if r := out.Results[2].Result; r == nil || !strings.Contains(r.Summary, "connection refused") {
		t.Fatalf("unexpected failing item %+v", out.Results[2])
	}
	if out.Results[3].Error == "" {
		t.Fatalf("empty reference should carry an error")
	}
	if len(n.sent) != 0 {
		t.Fatalf("batch must not deliver")
	}
}

func TestBatch_Rejects(t *testing.T) {
	h, _, _ := setupRouter(t, Options{})
	ts := httptest.NewServer(h)
	defer ts.Close()

	urls := make([]string, MaxBatch+1)
	for i := range urls {
		urls[i] = "https://good.example"
	}
	big, _ := json.Marshal(batchPayload{URLs: urls})

	for _, body := range []string{`{"urls":[]}`, `{}`, string(big)} {
		resp := post(t, ts.URL+"/api/check/batch", body, nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("want 400 got %d", resp.StatusCode)
		}
	}
}

func TestAPIKeyAndRateLimit(t *testing.T) {
	h, _, _ := setupRouter(t, Options{APIKeys: []string{"k_test"}, RateRPM: 60, RateBurst: 1})
	ts := httptest.NewServer(h)
	defer ts.Close()

	resp := post(t, ts.URL+"/api/check", `{"url":"ftp://x"}`, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("want 401 got %d", resp.StatusCode)
	}

	key := map[string]string{"X-API-Key": "k_test"}
	resp = post(t, ts.URL+"/api/check", `{"url":"ftp://x"}`, key)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200 got %d", resp.StatusCode)
	}
	resp = post(t, ts.URL+"/api/check", `{"url":"ftp://x"}`, key)
	resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("want 429 got %d", resp.StatusCode)
	}
}

func TestHealthzAndMetricsAreOpen(t *testing.T) {
	h, _, _ := setupRouter(t, Options{APIKeys: []string{"k_test"}})
	ts := httptest.NewServer(h)
	defer ts.Close()

	for _, path := range []string{"/healthz", "/metrics"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: want 200 got %d", path, resp.StatusCode)
		}
	}
}
