package common

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
)

// SignalContext returns a context cancelled on SIGINT or SIGTERM. SIGQUIT
// logs a goroutine dump and keeps going. Call stop to release the handler.
func SignalContext(parent context.Context) (ctx context.Context, stop func()) {
	ctx, cancel := context.WithCancel(parent)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	done := make(chan struct{})
	go func() {
		buf := make([]byte, 1<<20)
		for {
			select {
			case <-done:
				return
			case sig := <-sigs:
				switch sig {
				case syscall.SIGQUIT:
					stacklen := runtime.Stack(buf, true)
					Log.Infof("=== received SIGQUIT ===\n*** goroutine dump...\n%s\n*** end", buf[:stacklen])
				default:
					Log.Infof("=== received %s ===", sig)
					cancel()
				}
			}
		}
	}()
	return ctx, func() {
		signal.Stop(sigs)
		close(done)
		cancel()
	}
}
