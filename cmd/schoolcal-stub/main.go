// Package main runs a local schedule service backed by TOML fixtures.
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
	"go.uber.org/zap"

	"github.com/five82/schoolcal/internal/stubapi"
)

const shutdownTimeout = 5 * time.Second

var (
	address      string
	fixturesPath string
	debug        bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "schoolcal-stub",
		Short: "Serve the schedule API from local fixtures",
		Long: `Runs a stand-in for the school schedule service so schoolcal can be
developed and demoed without the real backend. Fixtures are read from a TOML
file, or the built-in set when --fixtures is empty.`,
		SilenceUsage: true,
		RunE:         runServe,
	}
	rootCmd.Flags().StringVar(&address, "address", "127.0.0.1:8080", "Address to listen on")
	rootCmd.Flags().StringVar(&fixturesPath, "fixtures", "", "Path to a fixtures TOML file")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable gin debug output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	fx, err := stubapi.LoadFixtures(fixturesPath)
	if err != nil {
		return err
	}

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              address,
		Handler:           stubapi.NewRouter(fx, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("stub api listening",
			zap.String("address", address),
			zap.Int("schools", len(fx.Schools)),
			zap.Int("regions", len(fx.Regions)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("stub api stopped")
	return nil
}
