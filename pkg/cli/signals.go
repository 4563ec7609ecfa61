package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var exit = os.Exit

// SetupSignalHandler returns a context that is canceled on the first SIGINT
// or SIGTERM. A second signal exits the process with ExitInterrupted.
// Calling stop releases the signal handler.
func SetupSignalHandler(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigChan:
			logger.Warn("received signal, finishing the current request", "signal", sig.String())
			cancel()
		case <-done:
			return
		}

		select {
		case sig := <-sigChan:
			logger.Error("received second signal, exiting", "signal", sig.String())
			exit(ExitInterrupted)
		case <-done:
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			signal.Stop(sigChan)
			close(done)
			cancel()
		})
	}
	return ctx, stop
}
