// Package metrics holds the Prometheus collectors shared by the probe, the
// check service and delivery. All collectors register on the default
// registry; cmd/api exposes them on /metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "certprobe"

var (
	// ChecksTotal counts completed checks.
	// Labels: status ("encrypted", "not_encrypted", "protocol_unknown", "input_error")
	ChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Total checks completed, by classification",
		},
		[]string{"status"},
	)

	// ProbesTotal counts TLS probes.
	// Labels: outcome ("expiring", "unparseable", "unreachable")
	//         cause: "" on success, otherwise "timeout", "refused", "dns", "tls", "input", "other"
	ProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "Total TLS probes, by outcome and failure cause",
		},
		[]string{"outcome", "cause"},
	)

	ProbeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "probe_duration_seconds",
			Help:      "Time spent connecting and handshaking with a target",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	// DeliveriesTotal counts notification attempts after retries.
	// Labels: result ("sent", "failed", "skipped")
	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Total result deliveries to notification sinks",
		},
		[]string{"result"},
	)
)

// MaxExpiryHosts bounds the number of host series CertExpirySeconds keeps.
// Hosts come from caller-supplied references, so the label set is capped.
const MaxExpiryHosts = 200

// CertExpirySeconds is the time left until the last seen certificate for a
// host expires. Negative once expired.
var CertExpirySeconds = NewHostGauge(promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cert_expiry_seconds",
		Help:      "Seconds until the probed certificate expires",
	},
	[]string{"host"},
), MaxExpiryHosts)

// HostGauge is a host-labelled gauge that stops admitting new hosts once
// limit distinct hosts have been seen. Known hosts keep updating.
type HostGauge struct {
	vec   *prometheus.GaugeVec
	limit int

	mu    sync.Mutex
	hosts map[string]struct{}
}

func NewHostGauge(vec *prometheus.GaugeVec, limit int) *HostGauge {
	return &HostGauge{vec: vec, limit: limit, hosts: make(map[string]struct{})}
}

// Set records v for host and reports whether it was recorded.
func (g *HostGauge) Set(host string, v float64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.hosts[host]; !ok {
		if len(g.hosts) >= g.limit {
			ExpiryHostsDropped.Inc()
			return false
		}
		g.hosts[host] = struct{}{}
	}
	g.vec.WithLabelValues(host).Set(v)
	return true
}

// ExpiryHostsDropped counts expiry observations refused by the host cap.
var ExpiryHostsDropped = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "cert_expiry_hosts_dropped_total",
	Help:      "Expiry observations not recorded because the host cap was reached",
})
