package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/campusfront/campusfront/internal/app"
	log "github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := flag.Arg(0)
	switch command {
	case "migrate":
		if err := app.Migrate(ctx, *configPath); err != nil {
			log.Fatalf("migrate failed: %v", err)
		}
		log.Info("migrations applied")
	case "", "serve":
		if err := app.RunServer(ctx, *configPath); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	default:
		log.Fatalf("unknown command: %s", command)
	}
}
