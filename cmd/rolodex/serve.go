package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rolodex/internal/contacts"
	"rolodex/internal/query"
	rolodex "rolodex/lib"
	"rolodex/lib/cache"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) (err error) {
	c, l, err := bootstrap()
	if err != nil {
		return err
	}
	defer l.Sync()

	shutdownTelemetry, err := rolodex.InitTelemetry(ctx, c)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, shutdownTelemetry(context.Background()))
	}()

	st, err := openStore(ctx, l, c)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	if err := st.Migrate(ctx); err != nil {
		return err
	}

	cc, err := cache.New(ctx, l, c)
	if err != nil {
		return err
	}
	defer cc.Close()

	service := contacts.NewService(l, st, cc, query.Limits{
		MaxLimit:         c.QueryMaxLimit(),
		MaxPatternLength: c.QueryMaxPatternLength(),
	})

	engine := rolodex.NewEngine(l, c, st)
	engine.Mount(contacts.NewHandler(l, service))

	errCh := make(chan error, 1)
	go func() {
		errCh <- engine.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	l.Info("Shutting down", zap.Duration("drain", shutdownTimeout))
	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := engine.Shutdown(drainCtx); err != nil {
		return err
	}
	return <-errCh
}
