// Command stellar is a terminal star chart where project stars link to
// portfolio pages.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alchemypls/stellar/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	code := cli.Execute(ctx, cli.NewRootCommand(), os.Args[1:])
	cancel()
	os.Exit(code)
}
