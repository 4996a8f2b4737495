package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// ShutdownContext returns a context canceled on SIGINT or SIGTERM. Calling
// stop releases the signal registration.
func ShutdownContext(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// OnReload calls fn for every SIGHUP until ctx is done. fn runs on a single
// goroutine, so reloads never overlap.
func OnReload(ctx context.Context, fn func()) {
	onSignal(ctx, fn, syscall.SIGHUP)
}

func onSignal(ctx context.Context, fn func(), sigs ...os.Signal) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, sigs...)

	go func() {
		defer signal.Stop(sigChan)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigChan:
				fn()
			}
		}
	}()
}
