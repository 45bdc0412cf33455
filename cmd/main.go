package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"briefly/internal/cli"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, log); err != nil {
		log.ErrorContext(ctx, "briefly failed",
			"error", err)
		stop()
		os.Exit(1)
	}
}
