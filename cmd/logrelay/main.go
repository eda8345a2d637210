package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"logrelay/internal/app"
	"logrelay/internal/config"
)

func main() {
	// Missing .env is fine; config values may still reference the
	// variables it would have set.
	_ = godotenv.Load()

	configPath := flag.String("c", "", "path to config file")
	flag.Parse()

	if *configPath == "" {
		log.Fatal("config file is required (-c)")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	a := app.New(cfg)
	if err := a.Run(ctx); err != nil && err != context.Canceled {
		log.Fatal(err)
	}
}
