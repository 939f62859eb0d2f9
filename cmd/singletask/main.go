package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"singletask/internal/cli"
)

func main() {
	// Ctrl-C ends a shell session cleanly; the state is saved on the way out
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(cli.RootOptions{})
	if err := root.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
