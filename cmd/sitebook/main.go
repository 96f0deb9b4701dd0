package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/MrJamesThe3rd/sitebook/cmd/sitebook/internal/command"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := command.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
