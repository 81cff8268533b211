// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hamed0406/certprobe/internal/config"
	"github.com/hamed0406/certprobe/internal/notify"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	if loaded := config.LoadEnvFiles(); len(loaded) > 0 {
		ok("loaded " + strings.Join(loaded, ", "))
	}

	topic := strings.TrimSpace(os.Getenv("SNS_ARN"))
	region := strings.TrimSpace(os.Getenv("AWS_REGION"))
	slack := strings.TrimSpace(os.Getenv("SLACK_WEBHOOK_URL"))

	if topic == "" {
		warn("SNS_ARN is empty; results will not be published to SNS.")
	} else {
		arnRegion, err := notify.ParseTopicARN(topic)
		if err != nil {
			fail(err.Error())
		}
		ok("SNS_ARN=" + topic)
		if region != "" && region != arnRegion {
			warn("AWS_REGION=" + region + " differs from the topic region " + arnRegion + "; the topic region is usually right.")
		}
	}
	if slack == "" {
		warn("SLACK_WEBHOOK_URL is empty; Slack delivery disabled.")
	} else if !strings.HasPrefix(slack, "https://") {
		warn("SLACK_WEBHOOK_URL is not https.")
	} else {
		ok("SLACK_WEBHOOK_URL present")
	}

	// Numeric knobs silently fall back to defaults at runtime; catch typos here.
	for _, name := range []string{"PROBE_TIMEOUT_MS", "BATCH_CONCURRENCY", "DELIVERY_ATTEMPTS",
		"DELIVERY_BACKOFF_MS", "SWEEP_INTERVAL_MS", "RATE_RPM", "RATE_BURST"} {
		v := strings.TrimSpace(os.Getenv(name))
		if v == "" {
			continue
		}
		if n, err := strconv.Atoi(v); err != nil || n < 0 {
			fail(name + "=" + v + " is not a non-negative integer.")
		}
	}

	cfg := config.FromEnv()
	ok("probe timeout " + cfg.ProbeTimeout.String())

	if cfg.SweepInterval > 0 && len(cfg.TargetURLs) == 0 {
		warn("SWEEP_INTERVAL_MS is set but TARGET_URLS is empty; the sweeper stays idle.")
	}
	if len(cfg.APIKeys) == 0 {
		warn("API_KEYS empty; the HTTP check API is open to anyone who can reach it.")
	}
	if v := os.Getenv("API_KEYS"); strings.Contains(v, " ") {
		warn("API_KEYS contains spaces; use comma-separated with no spaces, e.g. key1,key2")
	}

	ok("preflight passed")
}
