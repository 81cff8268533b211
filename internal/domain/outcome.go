package domain

import "time"

// OutcomeKind tags which variant of ProbeOutcome is populated.
type OutcomeKind int

const (
	OutcomeExpiring OutcomeKind = iota + 1
	OutcomeUnparseable
	OutcomeUnreachable
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeExpiring:
		return "expiring"
	case OutcomeUnparseable:
		return "unparseable"
	case OutcomeUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

func (k OutcomeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// ProbeOutcome is the result of one trust probe. Exactly one of At or
// Reason is meaningful, selected by Kind; build values with Expiring,
// Unparseable or Unreachable.
type ProbeOutcome struct {
	Kind   OutcomeKind `json:"kind"`
	At     time.Time   `json:"expires_at,omitzero"`
	Reason string      `json:"reason,omitempty"`
}

func Expiring(at time.Time) ProbeOutcome {
	return ProbeOutcome{Kind: OutcomeExpiring, At: at}
}

func Unparseable(reason string) ProbeOutcome {
	return ProbeOutcome{Kind: OutcomeUnparseable, Reason: reason}
}

func Unreachable(reason string) ProbeOutcome {
	return ProbeOutcome{Kind: OutcomeUnreachable, Reason: reason}
}

// Failed reports whether the probe ended without a usable expiration.
func (o ProbeOutcome) Failed() bool {
	return o.Kind != OutcomeExpiring
}

const expiryLayout = "2006-01-02 15:04:05"

// FormatExpiry renders an expiration instant in UTC the way summaries and
// notifications show it.
func FormatExpiry(at time.Time) string {
	return at.UTC().Format(expiryLayout)
}
