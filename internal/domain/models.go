package domain

import "time"

// Scheme is the protocol family a reference claims to use.
type Scheme int

const (
	SchemeOther Scheme = iota
	SchemeHTTP
	SchemeHTTPS
)

func (s Scheme) String() string {
	switch s {
	case SchemeHTTPS:
		return "https"
	case SchemeHTTP:
		return "http"
	default:
		return "other"
	}
}

func (s Scheme) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Default ports used when a reference carries no explicit port.
const (
	DefaultHTTPSPort = 443
	DefaultHTTPPort  = 80
)

// Target is the parsed form of a reference. It is built once by the
// classifier and never mutated afterwards.
type Target struct {
	Raw       string `json:"url"`
	Scheme    Scheme `json:"scheme"`
	RawScheme string `json:"protocol"` // lowercased scheme exactly as written, "" when absent
	Host      string `json:"host,omitempty"`
	Port      int    `json:"port,omitempty"`
}

// Status is the top-level classification of a completed check.
type Status int

const (
	StatusProtocolUnknown Status = iota
	StatusNotEncrypted
	StatusEncrypted
)

func (s Status) String() string {
	switch s {
	case StatusEncrypted:
		return "encrypted"
	case StatusNotEncrypted:
		return "not_encrypted"
	default:
		return "protocol_unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// CheckResult is produced once per invocation. Summary depends only on
// Target and the outcome fields; CheckedAt is informational.
type CheckResult struct {
	Target    Target        `json:"target"`
	Status    Status        `json:"status"`
	Probe     *ProbeOutcome `json:"probe,omitempty"` // set only when Status is StatusEncrypted
	Summary   string        `json:"summary"`
	CheckedAt time.Time     `json:"checked_at"`
}

// Expiry returns the certificate expiration instant when the probe parsed one.
func (r CheckResult) Expiry() (time.Time, bool) {
	if r.Status != StatusEncrypted || r.Probe == nil || r.Probe.Kind != OutcomeExpiring {
		return time.Time{}, false
	}
	return r.Probe.At, true
}
