package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/cropwatch/cropwatch-backend/api/routes"
	"github.com/cropwatch/cropwatch-backend/internal/alerts"
	"github.com/cropwatch/cropwatch-backend/internal/auth"
	"github.com/cropwatch/cropwatch-backend/internal/diagnosis"
	"github.com/cropwatch/cropwatch-backend/internal/knowledge"
	"github.com/cropwatch/cropwatch-backend/internal/observations"
	"github.com/cropwatch/cropwatch-backend/internal/satellite"
	"github.com/cropwatch/cropwatch-backend/internal/sideeffect"
	"github.com/cropwatch/cropwatch-backend/internal/users"
	"github.com/cropwatch/cropwatch-backend/internal/vegetation"
	"github.com/cropwatch/cropwatch-backend/internal/weather"
	"github.com/cropwatch/cropwatch-backend/pkg/auth/session"
	"github.com/cropwatch/cropwatch-backend/pkg/config"
	"github.com/cropwatch/cropwatch-backend/pkg/db"
	"github.com/cropwatch/cropwatch-backend/pkg/logger"
	"github.com/cropwatch/cropwatch-backend/pkg/mailer"
	"github.com/cropwatch/cropwatch-backend/pkg/metrics"
	"github.com/cropwatch/cropwatch-backend/pkg/migrate"
	"github.com/cropwatch/cropwatch-backend/pkg/openmeteo"
	"github.com/cropwatch/cropwatch-backend/pkg/readings"
	"github.com/cropwatch/cropwatch-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.AutoRun(ctx, cfg.FeatureFlags, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, redisClient.Close())
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.Session)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	userRepo := users.NewRepository(dbClient.DB())
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		Sessions:       sessionManager,
		SessionConfig:  cfg.Session,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		return err
	}
	if cfg.FeatureFlags.SeedDemoUser {
		if err := authService.SeedDemoUser(ctx); err != nil {
			return err
		}
	}

	userService, err := users.NewService(userRepo)
	if err != nil {
		return err
	}

	obsRepo := observations.NewRepository(dbClient.DB())
	historyService, err := observations.NewService(obsRepo)
	if err != nil {
		return err
	}

	dispatcher := alerts.NewDispatcher(mailer.New(mailer.NewSMTPTransport(cfg.SMTP)), logg)
	runner := sideeffect.NewRunner(logg, appMetrics.SideEffects)
	rng := readings.NewTimeSeeded()

	vegetationService, err := vegetation.NewService(vegetation.ServiceParams{
		Source:   vegetation.NewRandomSource(rng),
		Recorder: obsRepo,
		Alerter:  dispatcher,
		Runner:   runner,
	})
	if err != nil {
		return err
	}

	diagnosisService, err := diagnosis.NewService(diagnosis.ServiceParams{
		Predictor: diagnosis.NewRandomPredictor(rng),
		Recorder:  obsRepo,
		Alerter:   dispatcher,
		Runner:    runner,
	})
	if err != nil {
		return err
	}

	weatherService, err := weather.NewService(weather.ServiceParams{
		Client: openmeteo.NewClient(
			openmeteo.WithBaseURL(cfg.Weather.BaseURL),
			openmeteo.WithTimeout(cfg.Weather.Timeout),
		),
		Random:  rng,
		Metrics: appMetrics.Dependencies,
		Logger:  logg,
	})
	if err != nil {
		return err
	}

	satelliteService, err := satellite.NewService(satellite.NewRandomSource(rng))
	if err != nil {
		return err
	}

	catalog, err := knowledge.Load()
	if err != nil {
		return err
	}

	handler := routes.NewRouter(cfg, logg, routes.Services{
		Auth:         authService,
		Users:        userService,
		Vegetation:   vegetationService,
		Diagnosis:    diagnosisService,
		Weather:      weatherService,
		Satellite:    satelliteService,
		Observations: historyService,
		Catalog:      catalog,
	}, routes.Infra{
		DB:          dbClient,
		Redis:       redisClient,
		RateLimiter: redisClient,
		Metrics:     appMetrics,
		Gatherer:    registry,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":       cfg.App.Env,
		"addr":      addr,
		"db_driver": dbClient.Dialect(),
	})
	logg.Info(logCtx, "starting api server")

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logg.Info(logCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
