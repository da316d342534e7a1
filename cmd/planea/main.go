package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/planea/back/internal/app"
	"github.com/planea/back/internal/cli"
	"github.com/planea/back/internal/config"
	"github.com/planea/back/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg := config.Load()
	// Keep the terminal for command output unless debugging.
	log := logger.NewNop()
	if os.Getenv("PLANEA_DEBUG") != "" {
		var err error
		if log, err = logger.New("dev"); err != nil {
			return err
		}
	}
	defer log.Sync()

	application, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cli.NewRootCmd(&cli.App{
		Catalog: application.Catalog,
		Lessons: application.Lessons,
		Exports: application.Exports,
	})
	return root.ExecuteContext(ctx)
}
