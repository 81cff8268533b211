package notify

import (
	"fmt"

	"github.com/hamed0406/certprobe/internal/domain"
)

// Subject is used for every result notification.
const Subject = "Website Protocol and SSL Certificate Info"

// ResultMessage renders r as the multi-line body sent to sinks.
func ResultMessage(r domain.CheckResult) string {
	protocol := r.Target.RawScheme
	if protocol == "" {
		protocol = r.Target.Scheme.String()
	}
	expiry := "Unknown"
	if at, ok := r.Expiry(); ok {
		expiry = domain.FormatExpiry(at)
	}
	return fmt.Sprintf("URL checked: %s\nProtocol: %s\nCertificate Expiration Date: %s", r.Target.Raw, protocol, expiry)
}
