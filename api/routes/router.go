package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cropwatch/cropwatch-backend/api/controllers"
	"github.com/cropwatch/cropwatch-backend/api/middleware"
	"github.com/cropwatch/cropwatch-backend/api/responses"
	"github.com/cropwatch/cropwatch-backend/internal/auth"
	"github.com/cropwatch/cropwatch-backend/internal/knowledge"
	"github.com/cropwatch/cropwatch-backend/internal/users"
	"github.com/cropwatch/cropwatch-backend/pkg/config"
	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/cropwatch/cropwatch-backend/pkg/logger"
	"github.com/cropwatch/cropwatch-backend/pkg/metrics"
)

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Services holds everything the HTTP layer dispatches to. Nil services make
// their endpoints answer 500 rather than panic.
type Services struct {
	Auth         auth.Service
	Users        users.Service
	Vegetation   controllers.HealthScorer
	Diagnosis    controllers.DiseasePredictor
	Weather      controllers.WeatherReporter
	Satellite    controllers.ImageryProvider
	Observations controllers.HistoryLister
	Catalog      *knowledge.Catalog
}

// Infra holds the shared clients used by middleware and probes.
type Infra struct {
	DB            controllers.Pinger
	Redis         controllers.Pinger
	RateLimiter   rateLimiter
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer
	MaxImageBytes int64
}

func NewRouter(cfg *config.Config, logg *logger.Logger, svc Services, infra Infra) http.Handler {
	r := chi.NewRouter()

	var httpMetrics *metrics.HTTPMetrics
	if infra.Metrics != nil {
		httpMetrics = infra.Metrics.HTTP
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.HTTPMetrics(httpMetrics),
		middleware.LoadSession(svc.Auth, cfg.Session.CookieName, logg),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "Route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeMethodNotAllowed, "Method not allowed"))
	})

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginIdentityLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterIdentityLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"db":    infra.DB,
			"redis": infra.Redis,
		}, logg))
	})
	if infra.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(infra.Gatherer, promhttp.HandlerOpts{}))
	}

	r.With(middleware.AuthRateLimit(registerPolicy, infra.RateLimiter, logg)).Post("/register", controllers.AuthRegister(svc.Auth, logg))
	r.With(middleware.AuthRateLimit(loginPolicy, infra.RateLimiter, logg)).Post("/login", controllers.AuthLogin(svc.Auth, cfg.Session, logg))
	r.Post("/logout", controllers.AuthLogout(svc.Auth, cfg.Session, logg))
	r.Get("/session", controllers.AuthSession(svc.Auth, cfg.Session, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(logg))
		r.Get("/profile", controllers.ProfileGet(svc.Users, logg))
		r.Put("/profile", controllers.ProfileUpdate(svc.Users, logg))
	})

	r.Post("/ndvi", controllers.CropHealth(svc.Vegetation, logg))
	r.Get("/weather", controllers.WeatherCurrent(svc.Weather, logg))
	r.Get("/weather/forecast", controllers.WeatherForecast(svc.Weather, logg))
	r.Post("/predict", controllers.Predict(svc.Diagnosis, infra.MaxImageBytes, logg))
	r.Get("/satellite", controllers.SatelliteImagery(svc.Satellite, logg))
	r.Get("/history", controllers.History(svc.Observations, svc.Users, logg))

	r.Get("/crop-database", controllers.CropDatabase(svc.Catalog, logg))
	r.Post("/crop-recommendations", controllers.CropRecommendations(logg))
	r.Get("/maintenance-guide/{crop}", controllers.MaintenanceGuide(svc.Catalog, logg))
	r.Post("/soil-health", controllers.SoilHealth(logg))

	return r
}
