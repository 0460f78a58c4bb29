package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"iso2_automation/presentation/terminal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	termInterface := terminal.NewTerminalInterface(os.Stdout)
	err := termInterface.Run(ctx, os.Args[1:])
	if closeErr := termInterface.Close(); closeErr != nil {
		fmt.Fprintf(os.Stderr, "Failed to shut down: %v\n", closeErr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
