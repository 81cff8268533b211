package probe

import (
	"fmt"
	"strings"
	"time"
)

// NotAfterFormat documents the accepted grammar in strftime terms. Days may
// be space padded ("Jan  5") or two digits ("Jan 15").
const NotAfterFormat = "%b %d %H:%M:%S %Y %Z"

const notAfterLayout = "Jan _2 15:04:05 2006"

// ParseNotAfter parses a certificate "not valid after" stamp such as
// "Jan  5 00:00:00 2030 GMT". Only the GMT and UTC labels are accepted and
// the result is always in UTC.
func ParseNotAfter(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	i := strings.LastIndexByte(s, ' ')
	if i < 0 {
		return time.Time{}, fmt.Errorf("time data %q does not match format %q", s, NotAfterFormat)
	}
	stamp, zone := strings.TrimRight(s[:i], " "), s[i+1:]
	if !strings.EqualFold(zone, "GMT") && !strings.EqualFold(zone, "UTC") {
		return time.Time{}, fmt.Errorf("time data %q has unsupported timezone %q", s, zone)
	}
	t, err := time.ParseInLocation(notAfterLayout, stamp, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("time data %q does not match format %q: %w", s, NotAfterFormat, err)
	}
	return t, nil
}

// FormatNotAfter renders t in the grammar ParseNotAfter accepts.
func FormatNotAfter(t time.Time) string {
	return t.UTC().Format(notAfterLayout) + " GMT"
}
