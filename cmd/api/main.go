package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"sparkdraft/internal/adapter/repo"
	"sparkdraft/internal/domain"
	"sparkdraft/internal/http/handlers"
	"sparkdraft/internal/http/httpapi"
	"sparkdraft/internal/infra"
	"sparkdraft/internal/providers/billing"
	"sparkdraft/internal/providers/generate"
	"sparkdraft/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	users := repo.NewUserRepository(dbpool)
	projects := repo.NewProjectRepository(dbpool)

	var generator generate.Generator
	if cfg.OpenAIAPIKey != "" {
		generator, err = generate.NewOpenAIGenerator(generate.OpenAIOptions{
			APIKey:       cfg.OpenAIAPIKey,
			Model:        cfg.OpenAIModel,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
			OnWarning: func(reason, detail string) {
				logger.Warn().Str("reason", reason).Str("detail", detail).Msg("openai model normalized")
			},
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure openai generator")
		}
	} else {
		logger.Warn().Msg("OPENAI_API_KEY not set, using static generator")
		generator = generate.NewStaticGenerator()
	}

	var billingProvider billing.Provider
	if cfg.BillingAPIKey != "" {
		billingProvider, err = billing.NewStripeClient(billing.StripeOptions{
			APIKey:  cfg.BillingAPIKey,
			BaseURL: cfg.BillingBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure billing client")
		}
	}

	catalog := service.PriceCatalog{}
	for priceID, tier := range map[string]domain.SubscriptionTier{
		cfg.ProPriceID:     domain.TierPro,
		cfg.CreatorPriceID: domain.TierCreator,
		cfg.AgencyPriceID:  domain.TierAgency,
	} {
		if priceID != "" {
			catalog[priceID] = tier
		}
	}
	if billingProvider == nil && len(catalog) > 0 {
		logger.Fatal().Msg("billing price IDs configured without BILLING_API_KEY")
	}

	app := &handlers.App{
		Logger:        logger,
		Config:        cfg,
		SQL:           infra.NewSQLRunner(dbpool, logger),
		Users:         users,
		Projects:      projects,
		Generation:    service.NewGenerationService(users, projects, generator, logger, cfg.GenerateTimeout),
		Subscriptions: service.NewSubscriptionService(users, billingProvider, catalog, logger),
	}

	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Msg("api listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
