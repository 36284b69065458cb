package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/BrandonDHaskell/loungegate/internal/clock"
	"github.com/BrandonDHaskell/loungegate/internal/grpcapi"
	"github.com/BrandonDHaskell/loungegate/internal/httpapi"
	"github.com/BrandonDHaskell/loungegate/internal/logging"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/capture"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/service"
	"github.com/BrandonDHaskell/loungegate/internal/monitoring"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the kiosk server",
	Long: `Start the HTTP API and, when LOUNGE_GRPC_ADDR is set, the gRPC health
service. Runs until interrupted.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("http-addr", "", "HTTP listen address (overrides LOUNGE_HTTP_ADDR)")
	serveCmd.Flags().String("grpc-addr", "", "gRPC health listen address (overrides LOUNGE_GRPC_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if v, _ := cmd.Flags().GetString("http-addr"); v != "" {
		cfg.HTTPAddr = v
	}
	if v, _ := cmd.Flags().GetString("grpc-addr"); v != "" {
		cfg.GRPCAddr = v
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	metrics := monitoring.NewService()
	kiosk, err := service.NewKiosk(service.KioskConfig{
		Device:    capture.NewSynthetic(),
		Members:   st.members,
		AccessLog: st.accessLog,
		Clock:     clock.Real(),
		Observer:  metrics,
		Logger:    logger,
		Sessions: service.SessionsConfig{
			TTL:      cfg.SessionTTL,
			Capacity: cfg.SessionCapacity,
		},
		Seed: cfg.RandSeed,
	})
	if err != nil {
		return err
	}

	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:      logger,
		Addr:        cfg.HTTPAddr,
		Kiosk:       kiosk,
		Directory:   service.NewDirectory(st.members),
		AccessLog:   service.NewAccessLog(st.accessLog),
		Metrics:     metrics,
		CORSOrigins: cfg.CORSOrigins,
	})

	var health *grpcapi.HealthServer
	if cfg.GRPCAddr != "" {
		health = grpcapi.NewHealthServer(cfg.GRPCAddr, logger)
	}

	pruner := service.NewLogPruner(st.accessLog, service.PrunerConfig{
		RetentionDays: cfg.AccessLogRetentionDays,
		Interval:      time.Duration(cfg.PruneIntervalHours) * time.Hour,
	}, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http listening", "addr", cfg.HTTPAddr, "env", cfg.Env, "store", cfg.Store)
		return srv.Start()
	})
	if health != nil {
		g.Go(health.Start)
	}
	pruner.Start(gctx)

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if health != nil {
			if err := health.Shutdown(shutdownCtx); err != nil {
				logger.Warn("grpc shutdown", logging.ErrAttr(err))
			}
		}
		err := srv.Shutdown(shutdownCtx)
		pruner.Stop()
		kiosk.Close()
		return err
	})

	return g.Wait()
}
