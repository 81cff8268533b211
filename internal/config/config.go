package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string // API bind address, e.g., "127.0.0.1:8080" (Windows) or ":8080" (Docker)
	LogDir   string // logs directory; empty logs to stdout only (Lambda)
	LogLevel string // debug | info | warn | error

	ProbeTimeout     time.Duration // bound on connect + handshake
	BatchConcurrency int           // parallel probes for batch requests and sweeps

	SNSTopicARN      string // SNS_ARN; empty disables SNS delivery
	AWSRegion        string // overrides the region embedded in the topic ARN
	SNSEndpoint      string // custom endpoint, e.g. http://localhost:4566 for LocalStack
	SlackWebhook     string
	DeliveryAttempts int
	DeliveryBackoff  time.Duration

	TargetURLs    []string      // references checked by the sweeper
	SweepInterval time.Duration // 0 disables the sweeper

	APIKeys        []string // empty leaves the check API open (local dev)
	AllowedOrigins []string
	RateRPM        int
	RateBurst      int
	TrustedProxies []string // IPs/CIDRs allowed to set X-Forwarded-For
}

// LoadEnvFiles overlays variables from the given .env files without
// replacing anything already set in the process environment. Missing files
// are skipped; the names of loaded files are returned.
func LoadEnvFiles(files ...string) []string {
	if len(files) == 0 {
		files = []string{".env", ".env.local"}
	}
	loaded := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			continue
		}
		loaded = append(loaded, f)
	}
	return loaded
}

func FromEnv() Config {
	// Bind address (Windows-friendly default)
	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	// Logs. Lambda has a read-only filesystem, so default to stdout there.
	logDir, ok := os.LookupEnv("LOG_DIR")
	if !ok {
		logDir = "logs"
		if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
			logDir = ""
		}
	}
	logLevel := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if logLevel == "" {
		logLevel = "info"
	}

	return Config{
		Addr:     addr,
		LogDir:   logDir,
		LogLevel: logLevel,

		ProbeTimeout:     msEnv("PROBE_TIMEOUT_MS", 10*time.Second, false),
		BatchConcurrency: intEnv("BATCH_CONCURRENCY", 4),

		SNSTopicARN:      strings.TrimSpace(os.Getenv("SNS_ARN")),
		AWSRegion:        strings.TrimSpace(os.Getenv("AWS_REGION")),
		SNSEndpoint:      strings.TrimSpace(os.Getenv("SNS_ENDPOINT")),
		SlackWebhook:     strings.TrimSpace(os.Getenv("SLACK_WEBHOOK_URL")),
		DeliveryAttempts: intEnv("DELIVERY_ATTEMPTS", 3),
		DeliveryBackoff:  msEnv("DELIVERY_BACKOFF_MS", 200*time.Millisecond, false),

		TargetURLs:    listEnv("TARGET_URLS"),
		SweepInterval: msEnv("SWEEP_INTERVAL_MS", 0, true),

		APIKeys:        listEnv("API_KEYS"),
		AllowedOrigins: listEnv("ALLOWED_ORIGINS"),
		RateRPM:        intEnv("RATE_RPM", 60),
		RateBurst:      intEnv("RATE_BURST", 10),
		TrustedProxies: listEnv("TRUSTED_PROXIES"),
	}
}

// intEnv returns def unless the variable holds a positive integer.
func intEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// msEnv reads a millisecond count. Zero is only accepted when allowZero is set.
func msEnv(key string, def time.Duration, allowZero bool) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && (ms > 0 || (allowZero && ms == 0)) {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}

func listEnv(key string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
