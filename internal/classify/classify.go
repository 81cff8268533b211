// Package classify turns a raw reference into a domain.Target without
// touching the network.
package classify

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/hamed0406/certprobe/internal/domain"
)

// ErrEmptyReference is returned when there is nothing to classify.
var ErrEmptyReference = errors.New("empty reference")

// Classify parses raw into a Target. It only fails for an empty reference;
// anything else yields a Target, possibly with SchemeOther.
func Classify(raw string) (domain.Target, error) {
	if raw == "" {
		return domain.Target{}, ErrEmptyReference
	}

	var rawScheme, host, port string
	if u, err := url.Parse(raw); err == nil {
		rawScheme = u.Scheme
		host = u.Hostname()
		port = u.Port()
	} else {
		rawScheme, host, port = splitLoose(raw)
	}
	rawScheme = strings.ToLower(rawScheme)

	t := domain.Target{
		Raw:       raw,
		Scheme:    schemeOf(rawScheme),
		RawScheme: rawScheme,
		Host:      host,
	}
	t.Port = defaultPort(t.Scheme)
	if n, err := strconv.Atoi(port); err == nil && n > 0 && n <= 65535 {
		t.Port = n
	}
	return t, nil
}

func schemeOf(s string) domain.Scheme {
	switch s {
	case "https":
		return domain.SchemeHTTPS
	case "http":
		return domain.SchemeHTTP
	default:
		return domain.SchemeOther
	}
}

func defaultPort(s domain.Scheme) int {
	switch s {
	case domain.SchemeHTTPS:
		return domain.DefaultHTTPSPort
	case domain.SchemeHTTP:
		return domain.DefaultHTTPPort
	default:
		return 0
	}
}

// splitLoose handles references net/url refuses (bad port, stray control
// characters). The scheme is whatever precedes "://".
func splitLoose(raw string) (scheme, host, port string) {
	scheme, rest, ok := strings.Cut(strings.TrimSpace(raw), "://")
	if !ok {
		return "", "", ""
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		rest = rest[i+1:]
	}
	host, port, _ = strings.Cut(rest, ":")
	return scheme, host, port
}
