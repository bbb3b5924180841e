package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nyattihq/nyatti/internal/db"
	"github.com/nyattihq/nyatti/internal/server/config"
	"github.com/nyattihq/nyatti/internal/server/web/api"
	"github.com/nyattihq/nyatti/pkg/logger"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Nyatti server",
	Long:  `Start the Nyatti provisioning API server.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runServer()
	},
}

func runServer() error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	if err := logger.Setup(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
		File:   cfg.Logging.File,
	}); err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}

	logger.InfoEvent().
		Str("version", version).
		Str("build_time", buildTime).
		Str("git_commit", gitCommit).
		Msg("Starting Nyatti server")

	// Connect to database
	logger.InfoEvent().
		Str("driver", cfg.Database.Driver).
		Str("database", cfg.Database.Database).
		Msg("Connecting to database")

	database, err := db.Connect(db.Config{
		Driver:   cfg.Database.Driver,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Database: cfg.Database.Database,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Fatal(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	logger.InfoEvent().Msg("Connected to database")

	// Run auto migrations
	if err := db.AutoMigrate(database); err != nil {
		logger.Fatal(fmt.Sprintf("Failed to run migrations: %v", err))
	}

	logger.InfoEvent().Msg("Database migrations completed")

	if cfg.Auth.JWTSecret == "" {
		logger.Fatal("auth.jwt_secret must be configured")
	}
	if cfg.Payment.SecretKey == "" {
		logger.WarnEvent().Msg("payment.secret_key is not configured; checkouts will fail")
	}

	// Setup API server
	apiMux := http.NewServeMux()
	apiHandler := api.NewHandler(database, cfg)
	apiHandler.RegisterRoutes(apiMux)

	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.APIPort),
		Handler:      api.CORSMiddleware(apiMux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Handle graceful shutdown
	done := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		logger.InfoEvent().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := apiServer.Shutdown(ctx); err != nil {
			logger.ErrorEvent().Err(err).Msg("API server shutdown error")
		}
		close(done)
	}()

	logger.InfoEvent().
		Str("addr", apiServer.Addr).
		Str("domain", cfg.Server.Domain).
		Msg("API server listening")

	if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal(fmt.Sprintf("API server error: %v", err))
	}

	<-done
	return nil
}
