package probe

import (
	"strings"
	"testing"
	"time"
)

func TestParseNotAfter_Accepts(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"Jan  5 00:00:00 2030 GMT", time.Date(2030, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"Jan 15 12:30:45 2030 GMT", time.Date(2030, 1, 15, 12, 30, 45, 0, time.UTC)},
		{"Jan 05 00:00:00 2030 GMT", time.Date(2030, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"Dec 31 23:59:59 2029 UTC", time.Date(2029, 12, 31, 23, 59, 59, 0, time.UTC)},
		{"JAN  5 00:00:00 2030 GMT", time.Date(2030, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"  Feb  9 08:07:06 2031 GMT  ", time.Date(2031, 2, 9, 8, 7, 6, 0, time.UTC)},
	}
	for _, c := range cases {
		got, err := ParseNotAfter(c.in)
		if err != nil {
			t.Fatalf("ParseNotAfter(%q): %v", c.in, err)
		}
		if !got.Equal(c.want) || got.Location() != time.UTC {
			t.Fatalf("ParseNotAfter(%q)=%v want %v (UTC)", c.in, got, c.want)
		}
	}
}

func TestParseNotAfter_Rejects(t *testing.T) {
	for _, in := range []string{
		"",
		"garbage",
		"2030-01-05T00:00:00Z",
		"Foo  5 00:00:00 2030 GMT",
		"Jan 32 00:00:00 2030 GMT",
		"Jan  5 25:00:00 2030 GMT",
		"Jan  5 00:00:00 30 GMT",
		"Jan  5 00:00:00 2030 PST",
		"Jan  5 00:00:00 2030",
	} {
		if _, err := ParseNotAfter(in); err == nil {
			t.Fatalf("ParseNotAfter(%q) should fail", in)
		} else if err.Error() == "" {
			t.Fatalf("ParseNotAfter(%q) returned an empty diagnostic", in)
		}
	}
}

func TestFormatNotAfter_RoundTrip(t *testing.T) {
	loc := time.FixedZone("CEST", 2*3600)
	for _, in := range []time.Time{
		time.Date(2030, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2030, 11, 25, 13, 14, 15, 0, time.UTC),
		time.Date(2030, 6, 1, 2, 0, 0, 0, loc),
	} {
		s := FormatNotAfter(in)
		if !strings.HasSuffix(s, " GMT") {
			t.Fatalf("FormatNotAfter(%v)=%q missing GMT label", in, s)
		}
		got, err := ParseNotAfter(s)
		if err != nil {
			t.Fatalf("round trip %q: %v", s, err)
		}
		if !got.Equal(in) {
			t.Fatalf("round trip %q: got %v want %v", s, got, in)
		}
	}

	if got := FormatNotAfter(time.Date(2030, 1, 5, 0, 0, 0, 0, time.UTC)); got != "Jan  5 00:00:00 2030 GMT" {
		t.Fatalf("single-digit day should be space padded, got %q", got)
	}
}
