package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jsphweid/phonomidi/metrics"
	"github.com/jsphweid/phonomidi/store"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the HTTP API",
	Long:  `Runs the HTTP API: POST /encode, POST /decode, GET /download/{path}, GET /healthz and GET /metrics.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	shutdownTelemetry, err := metrics.InitProvider(ctx, metrics.ProviderConfig{})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			slog.Warn("telemetry shutdown failed", "err", err)
		}
	}()
	m := metrics.DefaultMetrics()

	c, err := loadCodec(cfg)
	if err != nil {
		return err
	}

	local := store.NewLocal(cfg.Outputs.Dir)
	janitor := store.NewJanitor(local, cfg.Outputs.MaxAge, cfg.Outputs.SweepInterval, time.Minute)
	janitor.Observe(func(removed int) { m.RecordSweep(context.Background(), removed) })

	opts := []ServerOption{WithJanitor(janitor), WithMetrics(m)}
	if cfg.Outputs.S3Bucket != "" {
		mirror, err := store.NewS3Mirror(store.S3Options{
			Bucket:   cfg.Outputs.S3Bucket,
			Region:   cfg.Outputs.S3Region,
			Endpoint: cfg.Outputs.S3Endpoint,
		})
		if err != nil {
			return err
		}
		opts = append(opts, WithMirror(mirror))
		slog.Info("mirroring encoded files to S3", "bucket", cfg.Outputs.S3Bucket)
	}

	srv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           NewServer(c, cfg, opts...).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		janitor.Run(ctx)
		return nil
	})
	g.Go(func() error {
		slog.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
