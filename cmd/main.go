// gnnboard scores challenge submissions and maintains the leaderboard.
//
// Usage:
//
//	gnnboard score  [--config=<file>] [--submissions=<dir>] [--history=<file>] [--report=<file>]
//	gnnboard render [--config=<file>] [--history=<file>] [--report=<file>]
//	gnnboard serve  [--config=<file>] [--history=<file>] [--addr=<host:port>]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
