/*
Bridgectl sends one event through a bridge engine to an in-process echo host.

	bridgectl send --method get_weather --params '{"cityName":"Moscow"}' --handler bot

Settings come from .env and the environment: LOG_*, BRIDGE_* and BRIDGE_BROKER_* keys.
*/
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCommand().ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}
