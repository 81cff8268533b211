package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/certprobe/internal/domain"
	"github.com/hamed0406/certprobe/internal/metrics"
)

const (
	DefaultTimeout = 10 * time.Second

	missingExpiry = "missing expiration field"
)

// TLSProber dials a target, completes a TLS handshake and reports when the
// leaf certificate expires. One call is one attempt; it never retries.
type TLSProber struct {
	Timeout time.Duration
	// Config is cloned per probe. Nil means the platform trust store with
	// hostname verification against the probed host.
	Config *tls.Config
	Logger *zap.Logger
}

func NewTLSProber(timeout time.Duration, logger *zap.Logger) *TLSProber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TLSProber{Timeout: timeout, Logger: logger}
}

func (p *TLSProber) Probe(ctx context.Context, host string, port int) domain.ProbeOutcome {
	if host == "" {
		return p.record(host, domain.Unreachable("missing host"), CauseInput, 0)
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cfg := &tls.Config{}
	if p.Config != nil {
		cfg = p.Config.Clone()
	}
	cfg.ServerName = host

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: timeout},
		Config:    cfg,
	}

	start := time.Now()
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	elapsed := time.Since(start)
	if err != nil {
		return p.record(host, domain.Unreachable(err.Error()), Cause(err), elapsed)
	}
	defer conn.Close()

	state := conn.(*tls.Conn).ConnectionState()
	return p.record(host, expiryOf(state.PeerCertificates), "", elapsed)
}

// expiryOf reads the leaf's notAfter through the same text grammar peers
// report it in, so both paths share one parser. x509 always yields a time,
// so the parse only fails when the year needs more than four digits
// (after 9999); that certificate is reported as Unparseable.
func expiryOf(certs []*x509.Certificate) domain.ProbeOutcome {
	if len(certs) == 0 || certs[0] == nil || certs[0].NotAfter.IsZero() {
		return domain.Unparseable(missingExpiry)
	}
	at, err := ParseNotAfter(FormatNotAfter(certs[0].NotAfter))
	if err != nil {
		return domain.Unparseable(err.Error())
	}
	return domain.Expiring(at)
}

func (p *TLSProber) record(host string, out domain.ProbeOutcome, cause string, elapsed time.Duration) domain.ProbeOutcome {
	metrics.ProbesTotal.WithLabelValues(out.Kind.String(), cause).Inc()
	if elapsed > 0 {
		metrics.ProbeDuration.Observe(elapsed.Seconds())
	}
	if out.Kind == domain.OutcomeExpiring {
		metrics.CertExpirySeconds.Set(host, time.Until(out.At).Seconds())
	}

	if p.Logger != nil {
		p.Logger.Debug("probe_completed",
			zap.String("host", host),
			zap.String("outcome", out.Kind.String()),
			zap.String("cause", cause),
			zap.String("reason", out.Reason),
			zap.Float64("latency_ms", elapsed.Seconds()*1000),
		)
	}
	return out
}
