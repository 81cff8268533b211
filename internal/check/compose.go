// Package check combines classification and the trust probe into one
// CheckResult per reference.
package check

import (
	"fmt"

	"github.com/hamed0406/certprobe/internal/domain"
)

// Summary phrases. They are part of the output contract.
const (
	SummaryUnknown   = "Unknown protocol."
	SummaryPlainHTTP = "The website uses HTTP (not secure)."
	SummaryHTTPS     = "The website uses HTTPS (secure)."
)

// Compose builds the result for target. probe is called only for https
// targets.
func Compose(target domain.Target, probe func() domain.ProbeOutcome) domain.CheckResult {
	r := domain.CheckResult{Target: target}
	switch target.Scheme {
	case domain.SchemeHTTP:
		r.Status = domain.StatusNotEncrypted
	case domain.SchemeHTTPS:
		out := probe()
		r.Status = domain.StatusEncrypted
		r.Probe = &out
	default:
		r.Status = domain.StatusProtocolUnknown
	}
	r.Summary = Summarize(r.Status, r.Probe)
	return r
}

// Summarize is a pure function of the classification and probe outcome.
func Summarize(status domain.Status, out *domain.ProbeOutcome) string {
	switch status {
	case domain.StatusNotEncrypted:
		return SummaryPlainHTTP
	case domain.StatusEncrypted:
		if out == nil {
			return SummaryHTTPS
		}
		if out.Kind == domain.OutcomeExpiring {
			return fmt.Sprintf("%s Certificate expires on %s.", SummaryHTTPS, domain.FormatExpiry(out.At))
		}
		return fmt.Sprintf("%s Could not retrieve certificate expiration date: %s", SummaryHTTPS, out.Reason)
	default:
		return SummaryUnknown
	}
}
