package shared

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
)

// SetupSignalHandler returns a context cancelled on SIGINT, SIGTERM or
// SIGABRT. The trainer polls the context between cycles, so a signal requests
// a graceful stop rather than interrupting an in-flight batch.
func SetupSignalHandler(logger zerolog.Logger) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGABRT)

	go func() {
		sig := <-sigChan
		logger.Info().Str("signal", sig.String()).Msg("Received signal, stopping after the current cycle")
		cancel()
	}()

	return ctx
}
