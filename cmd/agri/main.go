package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	c := &cli{}
	err := c.command().ExecuteContext(ctx)
	if c.app != nil {
		c.app.Close()
	}
	stop()

	if err != nil {
		os.Exit(1)
	}
}
