package main

import (
	"log"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/swairua/kennedynespot/internal/app"
	"github.com/swairua/kennedynespot/internal/config"
	"github.com/swairua/kennedynespot/internal/logger"
)

const file = "config.json"

func initSentry(cfg *config.SentryConfig, version string) error {
	return sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     version,
	})
}

func main() {
	cfg := config.NewConfig()
	err := cfg.Read(file)
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatal(err)
	}
	defer lg.Sync()

	err = initSentry(&cfg.Sentry, "v1")
	if err != nil {
		lg.Fatal("sentry init failed", "err", err)
	}

	// Flush buffered events before the program terminates.
	defer sentry.Flush(2 * time.Second)

	a, err := app.New(cfg, lg)
	if err != nil {
		lg.Fatal("app init failed", "err", err)
	}

	if err := a.Run(); err != nil {
		lg.Fatal("server stopped", "err", err)
	}
}
