package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/spf13/pflag"
	"github.com/yukikurage/teamboard-api/internal/config"
	"github.com/yukikurage/teamboard-api/internal/constants"
	"github.com/yukikurage/teamboard-api/internal/database"
	"github.com/yukikurage/teamboard-api/internal/logging"
	"github.com/yukikurage/teamboard-api/internal/router"
	"github.com/yukikurage/teamboard-api/internal/seed"
	"github.com/yukikurage/teamboard-api/internal/services"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "teamboard-api: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// --env-file has to be known before the environment is read, so the
	// arguments are parsed once just to find it.
	pre := pflag.NewFlagSet("env", pflag.ContinueOnError)
	pre.Usage = func() {}
	pre.SetOutput(io.Discard)
	envFile := pre.String("env-file", ".env", "dotenv file loaded before reading the environment")
	config.BindFlags(pre, &config.Config{})
	_ = pre.Parse(args)

	// Load configuration
	cfg := config.Load(*envFile)

	flags := pflag.NewFlagSet("teamboard-api", pflag.ContinueOnError)
	flags.String("env-file", *envFile, "dotenv file loaded before reading the environment")
	config.BindFlags(flags, cfg)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	logger := logging.New(os.Stderr, cfg)
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	defer sqlDB.Close()

	// Run migrations
	if err := database.Migrate(db); err != nil {
		return err
	}

	if cfg.SeedFile != "" {
		fixture, err := seed.Load(cfg.SeedFile)
		if err != nil {
			return err
		}
		if err := seed.NewSeeder(db, logger).Apply(fixture); err != nil {
			return fmt.Errorf("failed to apply seed file: %w", err)
		}
	}

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	} else {
		logger.Info("OPENAI_API_KEY not set, task drafting disabled")
	}

	r := router.New(router.Dependencies{
		DB:     db,
		Config: cfg,
		Logger: logger,
		AI:     aiService,
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{constants.TotalCountHeader},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           corsHandler.Handler(r),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Addr, "db_driver", cfg.DBDriver, "public_reads", cfg.PublicReads)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

