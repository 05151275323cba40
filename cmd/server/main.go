package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/35niavlys/speedfng/internal/app"
	"github.com/35niavlys/speedfng/internal/config"
	"github.com/35niavlys/speedfng/internal/telemetry"
)

func main() {
	logger := telemetry.WrapLogger(log.Default())

	settings, err := config.FromEnv(os.Getenv, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, app.Config{Logger: logger, Settings: settings}); err != nil {
		log.Fatalf("%v", err)
	}
}
