package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/exam-grading-service/internal/config"
	"github.com/SAP-F-2025/exam-grading-service/internal/events"
	"github.com/SAP-F-2025/exam-grading-service/internal/fixtures"
	"github.com/SAP-F-2025/exam-grading-service/internal/handlers"
	"github.com/SAP-F-2025/exam-grading-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/exam-grading-service/internal/services"
	"github.com/SAP-F-2025/exam-grading-service/internal/utils"
	"github.com/SAP-F-2025/exam-grading-service/internal/validator"
	"github.com/SAP-F-2025/exam-grading-service/pkg"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.NewDefaultLogger().LogError(err, "Failed to load configuration")
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment)
	slogger := utils.ToSlogLogger(logger)

	if err := run(cfg, logger); err != nil {
		slogger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger utils.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slogger := utils.ToSlogLogger(logger)
	v := validator.New()

	catalog, err := fixtures.LoadFile(cfg.FixturesPath, v)
	if err != nil {
		return err
	}
	logger.Info("Exam catalog loaded", "path", cfg.FixturesPath, "exams", len(catalog.Exams()))

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	if err := postgres.AutoMigrate(db); err != nil {
		return err
	}

	redisClient, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, caching disabled", "error", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Warn("Failed to create event publisher, falling back to mock", "error", err)
		publisher = events.NewMockEventPublisher(slogger)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.LogError(err, "Failed to close event publisher")
		}
	}()

	repo := postgres.NewRepository(db, redisClient, cfg.CacheTTL, logger)
	gradingService := services.NewGradingService(repo, catalog, publisher, v, slogger)

	identityCfg := handlers.IdentityConfig{AllowHeaderIdentity: cfg.AllowHeaderIdentity}
	if cfg.Casdoor.Enabled() {
		casdoorsdk.InitConfig(
			cfg.Casdoor.Endpoint,
			cfg.Casdoor.ClientID,
			cfg.Casdoor.ClientSecret,
			cfg.Casdoor.Certificate,
			cfg.Casdoor.OrganizationName,
			cfg.Casdoor.ApplicationName,
		)
		identityCfg.Parser = handlers.CasdoorTokenParser()
	} else if !cfg.AllowHeaderIdentity {
		logger.Warn("No identity source configured, every API request will be rejected")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(utils.ContextLogger(logger))

	identity := handlers.IdentityMiddleware(identityCfg, repo.Users(), logger)
	handlers.NewHandlerManager(gradingService, identity, repo, logger).SetupRoutes(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Exam grading service listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
