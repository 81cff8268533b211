package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/hamed0406/certprobe/internal/app"
	"github.com/hamed0406/certprobe/internal/config"
	"github.com/hamed0406/certprobe/internal/logging"
)

func main() {
	config.LoadEnvFiles()
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	a := app.Build(context.Background(), cfg, logger)

	logger.Info("lambda_start", zap.Duration("probe_timeout", cfg.ProbeTimeout))
	lambda.Start(a.Handler.Handle)
}
