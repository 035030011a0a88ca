package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"lawyerup-backend/internal/bootstrap"
	"lawyerup-backend/internal/shared/config"
	"lawyerup-backend/internal/shared/server"
	"lawyerup-backend/internal/shared/telemetry"
)

const shutdownTimeout = 10 * time.Second

var errSignal = errors.New("signal received")

func main() {
	os.Exit(run())
}

// run returns the exit code so deferred cleanup still happens.
func run() int {
	cfg := config.Load()
	telemetry.Configure(os.Stdout, cfg.Env == "dev" || cfg.Env == "local")

	ctx := context.Background()
	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		telemetry.Error("api.bootstrap.failed", map[string]any{"err": err.Error()})
		return 1
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sig)
		select {
		case <-ctx.Done():
			return nil
		case s := <-sig:
			telemetry.Info("api.signal", map[string]any{"signal": s.String()})
			return fmt.Errorf("%w: %s", errSignal, s)
		}
	})
	group.Go(func() error {
		telemetry.Info("api.listen", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, errSignal) {
		telemetry.Error("api.stopped", map[string]any{"err": err.Error()})
		return 1
	}
	telemetry.Info("api.stopped", nil)
	return 0
}
