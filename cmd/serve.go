package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hireloop/concierge/api"
	"github.com/hireloop/concierge/assistant"
	"github.com/hireloop/concierge/config"
	"github.com/hireloop/concierge/domain"
	"github.com/hireloop/concierge/logger"
	"github.com/hireloop/concierge/orchestrator"
	"github.com/hireloop/concierge/policy"
	"github.com/hireloop/concierge/semantic"
	"github.com/hireloop/concierge/store"
	"github.com/hireloop/concierge/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the concierge HTTP server",
	RunE:  serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug, _ = cmd.Flags().GetBool("debug")
	}
	if cmd.Flags().Changed("json") {
		cfg.LogJSON, _ = cmd.Flags().GetBool("json")
	}

	log, err := logger.New(cfg.LogJSON, cfg.Debug)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	db, err := store.NewSQLiteStore(cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer db.Close()

	transport := assistant.NewClient(cfg.AssistantBaseURL, cfg.AssistantAPIKey)
	semanticClient := semantic.NewClient(cfg.SemanticURL)

	gate, err := policy.NewEngine(cmd.Context(), policy.DefaultPolicy)
	if err != nil {
		return fmt.Errorf("initialize policy engine: %w", err)
	}

	validator := tools.NewValidator(tools.VocabularyMode(cfg.SkillVocabularyMode), domain.DefaultSkillVocabulary)
	registry, err := tools.NewRegistry(
		tools.NewFetchCandidatesHandler(db, validator, cfg.TopK, log),
		tools.NewSemanticSearchHandler(semanticClient, cfg.TopK, log),
	)
	if err != nil {
		return fmt.Errorf("build tool registry: %w", err)
	}
	dispatcher := tools.NewDispatcher(registry, gate, log)

	orch := orchestrator.New(transport, dispatcher, cfg.AssistantID,
		cfg.PollInterval, cfg.MaxPollAttempts, log)
	h := api.NewHandler(db, transport, orch, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(
		middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(cfg.RateLimitPerMinute) / 60.0),
			Burst:     cfg.RateLimitPerMinute,
			ExpiresIn: time.Minute,
		},
	)))
	h.RegisterRoutes(e)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()
	log.Info("concierge started", zap.Int("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn("failed to shut down gracefully", zap.Error(err))
	}
	return nil
}
