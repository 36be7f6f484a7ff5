package main

import (
	"os"
	"os/signal"
	"syscall"

	"pepuhub/internal/bootstrap"
	"pepuhub/pkg/logger"
)

func main() {
	container := bootstrap.NewContainer()
	container.MustInit()

	if err := container.Start(); err != nil {
		logger.Get().Fatalf("Failed to start: %v", err)
	}

	waitForShutdown(container)
}

// waitForShutdown blocks until a termination signal arrives or the
// application context is cancelled by a fatal component error
func waitForShutdown(c *bootstrap.Container) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		c.Log.Infof("Received signal: %v", sig)
	case <-c.Context.Done():
		c.Log.Warn("Application context cancelled")
	}

	c.Shutdown()
}
