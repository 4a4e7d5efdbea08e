// File: /main.go
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
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"runclub-api/config"
	"runclub-api/database"
	"runclub-api/jobs"
	"runclub-api/logger"
	"runclub-api/routes"
	"runclub-api/services"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "runclub",
		Short:        "Run club API server",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP API (default)",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Migrate and seed the configured database, then exit",
			RunE:  runSeed,
		},
	)
	return root
}

// bootstrap loads configuration and opens a migrated database.
func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := logger.New(cfg.Environment)
	if err != nil {
		return nil, nil, nil, err
	}

	level := gormlogger.Warn
	if cfg.IsProduction() {
		level = gormlogger.Error
	}
	db, err := database.Initialize(cfg.DatabaseURL, level)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := database.SeedData(db, cfg.BcryptCost, time.Now()); err != nil {
		return fmt.Errorf("seed database: %w", err)
	}
	log.Info("database seeded")
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Seed {
		if err := database.SeedData(db, cfg.BcryptCost, time.Now()); err != nil {
			log.Warn("failed to seed database", zap.Error(err))
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	mailer := services.NewMailer(cfg, log)
	svc := routes.NewServices(db, cfg, mailer, log)
	router := routes.NewRouter(cfg, svc, log)

	completion := jobs.NewRunCompletionJob(svc.Stats, cfg.CompletionInterval, log)
	completion.Start()
	defer completion.Stop()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting run club API",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Environment),
			zap.Bool("email", cfg.EmailEnabled()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
