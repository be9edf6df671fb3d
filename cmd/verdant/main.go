package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"verdant/internal/cli"
	applog "verdant/internal/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		applog.Error(ctx, "command failed", "error", err)
		os.Exit(1)
	}
}
