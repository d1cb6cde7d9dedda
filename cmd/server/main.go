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

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"fundboard/internal/config"
	"fundboard/internal/fundlist"
	"fundboard/internal/handlers"
	"fundboard/internal/logging"
	"fundboard/internal/metrics"
	"fundboard/internal/service"
	"fundboard/internal/upstream"
)

// set via -ldflags
var (
	version = "dev"
	commit  = "unknown"
)

const shutdownTimeout = 10 * time.Second

var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "fundboard",
	Short:         "Fund market dashboard and JSON API over public fund data services",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// version needs no config
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fundboard %s (%s)\n", version, commit)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.AddCommand(serveCmd, versionCmd)
}

func serve(ctx context.Context) error {
	logger, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		return err
	}
	gin.SetMode(gin.ReleaseMode)

	funds, err := fundlist.Load()
	if err != nil {
		return err
	}

	m := metrics.New()
	client := upstream.NewClient(cfg.Upstream.ClientOptions(), logger, m)
	svc := service.NewFundService(client, service.Options{
		Concurrency: cfg.Upstream.Concurrency,
		Candidates:  cfg.Upstream.Candidates,
	}, logger)
	h := handlers.NewHandler(svc, funds, logger)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handlers.NewRouter(h, logger, m),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("server starting on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
