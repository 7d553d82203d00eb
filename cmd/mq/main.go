package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacoelho/mq/internal/config"
	"github.com/jacoelho/mq/internal/filter"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, exitResult := config.Parse(os.Args)
	if exitResult != nil {
		exitResult.Print()
		return exitResult.Code
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return filter.NewRunner(cfg).Run(ctx)
}
