package router

import (
	"context"
	"net/http"
	"strings"

	"app/internal/api/v1/handler"
	"app/internal/config"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (http.Handler, *pgxpool.Pool, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("Router initializing")

	// 1. Open DB connection pool
	dsn := cfg.DBConnectionString
	// Local development runs against Postgres without TLS; production
	// connection strings must carry their own SSL settings.
	if cfg.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		separator := "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
		dsn += separator + "sslmode=disable"
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create DB pool")
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to ping DB")
		pool.Close()
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	// 2. Initialize validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// 3. Initialize repositories & services & handlers
	userRepo := repository.NewUserRepo(pool)
	prefRepo := repository.NewPreferenceRepo(pool)
	tutorialRepo := repository.NewTutorialRepo(pool)
	chatRepo := repository.NewChatRepo(pool)
	usageRepo := repository.NewUsageRepo(pool)

	subSvc := service.NewSubscriptionService(usageRepo, logger)
	stripeSvc := service.NewStripeService(cfg, userRepo, subSvc, logger)
	userSvc := service.NewUserService(userRepo, stripeSvc, logger)
	prefSvc := service.NewPreferenceService(prefRepo, chatRepo, logger)
	tutorialSvc := service.NewTutorialService(tutorialRepo, logger)
	gateway := service.NewCompletionGateway(cfg)
	chatSvc := service.NewChatService(prefRepo, tutorialRepo, chatRepo, gateway, cfg.ChatHistoryLimit, logger)

	userHandler := handler.NewUserHandler(userSvc, validate)
	prefHandler := handler.NewPreferenceHandler(prefSvc, validate, logger)
	tutorialHandler := handler.NewTutorialHandler(tutorialSvc, logger)
	chatHandler := handler.NewChatHandler(chatSvc, subSvc, validate, cfg.AllowAnonymousChat, logger)
	subHandler := handler.NewSubscriptionHandler(stripeSvc, subSvc, validate, logger)

	// 4. Initialize middleware
	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret)
	optionalAuthMiddleware := middleware.OptionalAuthMiddleware(cfg.JWTSecret)

	// 5. Create ServeMux router
	mux := http.NewServeMux()

	apiV1Mux := http.NewServeMux()
	userHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	prefHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	tutorialHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	chatHandler.RegisterRoutes(apiV1Mux, authMiddleware, optionalAuthMiddleware)
	subHandler.RegisterRoutes(apiV1Mux, authMiddleware)

	// Mount the API v1 routes under /v1
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))

	// 6. Apply CORS middleware: permissive so the hosted front-end and local
	// development builds can both reach the API.
	c := cors.New(cors.Options{
		AllowedOrigins:       []string{"*"},
		AllowedMethods:       []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:       []string{"*"},
		AllowCredentials:     true,
		OptionsSuccessStatus: http.StatusOK,
	})

	return middleware.LoggerMiddleware(c.Handler(mux)), pool, nil
}
