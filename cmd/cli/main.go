package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hamed0406/certprobe/internal/app"
	"github.com/hamed0406/certprobe/internal/config"
	"github.com/hamed0406/certprobe/internal/handler"
	"github.com/hamed0406/certprobe/internal/logging"
)

// Runs one check locally, exactly as the Lambda would, and prints the
// response. The URL comes from the first argument or from stdin.
func main() {
	config.LoadEnvFiles()
	cfg := config.FromEnv()
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.LogLevel = "warn"
	}
	logger, err := logging.NewLogger("", cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	raw := ""
	if len(os.Args) > 1 {
		raw = os.Args[1]
	} else {
		fmt.Fprint(os.Stderr, "Enter a site URL to check (e.g., https://example.com): ")
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		raw = strings.TrimRight(line, "\r\n")
	}

	ctx := context.Background()
	a := app.Build(ctx, cfg, logger)

	resp, _ := a.Handler.Handle(ctx, handler.Event{URL: raw})
	out, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Println(string(out))
	if resp.StatusCode != 200 {
		os.Exit(1)
	}
}
