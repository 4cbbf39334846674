package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/nieomylnieja/goref/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cli.Execute(ctx)
}
