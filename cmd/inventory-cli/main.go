package main

import (
	"context"
	"os"
	"os/signal"

	"inventory-adapter/cmd/inventory-cli/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	commands.ExecuteContext(ctx)
}
