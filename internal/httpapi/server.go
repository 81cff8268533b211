package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hamed0406/certprobe/internal/check"
	"github.com/hamed0406/certprobe/internal/handler"
	apimw "github.com/hamed0406/certprobe/internal/httpapi/middleware"
)

const (
	// MaxBatch caps the number of references accepted by /api/check/batch.
	MaxBatch = 50

	maxBody = 64 << 10
)

type Server struct {
	Logger  *zap.Logger
	Handler *handler.Handler
	Checks  *check.Service
}

func NewServer(l *zap.Logger, h *handler.Handler, svc *check.Service) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{Logger: l, Handler: h, Checks: svc}
}

// Options configure access control on the /api routes.
type Options struct {
	APIKeys        []string
	AllowedOrigins []string // empty allows any origin
	RateRPM        int      // <= 0 disables limiting
	RateBurst      int
	TrustedProxies []string // peers whose X-Forwarded-For is honored
}

func (s *Server) Router(opts Options) http.Handler {
	r := chi.NewRouter()
	if len(opts.AllowedOrigins) == 0 {
		r.Use(cors.AllowAll().Handler)
	} else {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", "X-API-Key"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(apimw.RequireKey(opts.APIKeys))
		r.Use(apimw.RateLimit(opts.RateRPM, opts.RateBurst, opts.TrustedProxies))
		r.Post("/check", s.handleCheck)
		r.Post("/check/batch", s.handleBatch)
	})

	return r
}

// handleCheck runs the same path as a Lambda invocation, including
// delivery, and mirrors the Response status code onto the HTTP reply.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var ev handler.Event
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, handler.Response{
			StatusCode: http.StatusBadRequest,
			Body:       handler.MissingURLMessage,
		})
		return
	}

	resp, err := s.Handler.Handle(r.Context(), ev)
	if err != nil {
		s.Logger.Error("check_handler_error", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, resp.StatusCode, resp)
}

type batchPayload struct {
	URLs []string `json:"urls"`
}

// handleBatch checks several references without delivering the results.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var p batchPayload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&p); err != nil || len(p.URLs) == 0 {
		writeError(w, http.StatusBadRequest, `provide a non-empty "urls" array`)
		return
	}
	if len(p.URLs) > MaxBatch {
		writeError(w, http.StatusBadRequest, "too many urls")
		return
	}

	items := s.Checks.RunAll(r.Context(), p.URLs)
	s.Logger.Info("batch_completed",
		zap.Int("count", len(items)),
		zap.String("remote", strings.TrimSpace(r.RemoteAddr)),
	)
	writeJSON(w, http.StatusOK, map[string]any{"results": items})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
