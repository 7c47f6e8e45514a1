package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/career-mentor/internal/config"
	"github.com/jonathan/career-mentor/internal/db"
	"github.com/jonathan/career-mentor/internal/llm"
	"github.com/jonathan/career-mentor/internal/server"
	"github.com/jonathan/career-mentor/internal/server/ratelimit"
)

var (
	servePort    int
	serveConfig  string
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the quiz, career-path, auth and admin endpoints.

Without DATABASE_URL the server keeps all data in memory.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config and PORT)")
	serveCmd.Flags().StringVarP(&serveConfig, "config", "c", "", "Path to a JSON or YAML config file")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply the database schema before serving")
	rootCmd.AddCommand(serveCmd)
}

// loadConfig layers defaults, an optional file and the environment, in that order.
func loadConfig(path string, getenv func(string) string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded.MergeWithDefaults(cfg)
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// openStore connects to PostgreSQL when a URL is configured and falls back to memory.
func openStore(ctx context.Context, databaseURL string, migrate bool) (server.Store, func(), error) {
	if databaseURL == "" {
		logger.Warn("DATABASE_URL not set; using in-memory store, data is lost on restart")
		return db.NewMemoryStore(), func() {}, nil
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, nil, err
	}
	if migrate {
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, nil, err
		}
		logger.Info("database schema applied")
	}
	return database, database.Close, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(serveConfig, os.Getenv)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	jwtCfg, err := config.NewJWTConfig(os.Getenv)
	if err != nil {
		return fmt.Errorf("failed to create JWT config: %w", err)
	}
	passwordCfg, err := config.NewPasswordConfig(os.Getenv)
	if err != nil {
		return fmt.Errorf("failed to create password config: %w", err)
	}
	llmCfg, err := cfg.LLMConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg.DatabaseURL, serveMigrate)
	if err != nil {
		return err
	}
	defer closeStore()

	generator, err := llm.New(ctx, llmCfg, logger.Named("llm"))
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}
	defer func() {
		if err := generator.Close(); err != nil {
			logger.Warn("failed to close generation client", zap.Error(err))
		}
	}()

	logger.Info("generation configured",
		zap.String("primary", string(llmCfg.Primary.Kind)),
		zap.Bool("fallback", generator.HasFallback()),
		zap.Duration("attempt_timeout", llmCfg.Timeout))

	srv, err := server.New(server.Config{
		Port:      cfg.Port,
		Store:     store,
		Generator: generator,
		// Room for both provider attempts.
		GenerationBudget: 2*llmCfg.Timeout + 30*time.Second,
		JWT:              jwtCfg,
		Password:         passwordCfg,
		RateLimit:        ratelimit.LoadConfig(os.Getenv),
		AllowedOrigins:   cfg.AllowedOrigins,
		IsAdmin:          cfg.IsAdmin,
		Logger:           logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
