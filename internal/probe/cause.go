package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"syscall"
)

// Failure causes reported alongside an Unreachable outcome. They only feed
// logs and metrics; the outcome itself does not distinguish them.
const (
	CauseTimeout = "timeout"
	CauseRefused = "refused"
	CauseDNS     = "dns"
	CauseTLS     = "tls"
	CauseInput   = "input"
	CauseOther   = "other"
)

// Cause buckets a dial or handshake error.
func Cause(err error) string {
	if err == nil {
		return ""
	}

	var (
		dnsErr   *net.DNSError
		netErr   net.Error
		opErr    *net.OpError
		verifErr *tls.CertificateVerificationError
		alertErr tls.AlertError
		recErr   tls.RecordHeaderError
		hostErr  x509.HostnameError
		authErr  x509.UnknownAuthorityError
		invErr   x509.CertificateInvalidError
	)
	switch {
	case errors.As(err, &dnsErr):
		return CauseDNS
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return CauseTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		return CauseRefused
	case errors.As(err, &verifErr),
		errors.As(err, &alertErr),
		errors.As(err, &recErr),
		errors.As(err, &hostErr),
		errors.As(err, &authErr),
		errors.As(err, &invErr):
		return CauseTLS
	case errors.As(err, &opErr) && opErr.Op == "remote error":
		return CauseTLS
	}
	return CauseOther
}
