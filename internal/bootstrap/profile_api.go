package bootstrap

import (
	"context"
	"strings"
	"time"

	"profile_server/adapter/in/http"
	"profile_server/config"
	"profile_server/infra/middleware"
	"profile_server/pkg/logger"
	"profile_server/pkg/metrics"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func NewAPI(cfg *config.Config) (*fiber.App, func(), error) {
	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize dependencies")
		return nil, nil, err
	}

	app := NewApp(cfg, deps)
	logger.Info("API server initialized successfully")

	return app, cleanup, nil
}

// NewApp builds the fiber app around already constructed dependencies.
func NewApp(cfg *config.Config, deps *Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(),
		DisableStartupMessage: cfg.IsProduction(),
		StrictRouting:         false,
		CaseSensitive:         false,

		// go-json for request and response bodies
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,

		BodyLimit:          1 * 1024 * 1024,
		ServerHeader:       "",
		DisableDefaultDate: true,
	})

	// Global middleware stack (order matters)
	app.Use(middleware.Recover())   // 1. Panic recovery
	app.Use(middleware.RequestID()) // 2. Request ID
	if cfg.MetricsEnabled {
		app.Use(middleware.Metrics(deps.HTTPMetrics)) // 3. Prometheus
	}
	app.Use(middleware.RequestLogger())   // 4. Request logging
	app.Use(middleware.SecurityHeaders()) // 5. Security headers

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	allowOrigins := strings.Join(cfg.AllowedOrigins, ",")
	if allowOrigins == "" || allowOrigins == "*" {
		if cfg.IsProduction() {
			allowOrigins = ""
		} else {
			allowOrigins = "http://localhost:3000,http://localhost:5173"
		}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  allowOrigins,
		AllowMethods:  "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept,X-Request-ID",
		ExposeHeaders: "X-Request-ID",
		MaxAge:        86400,
	}))

	app.Use(middleware.RequireJSON())

	if cfg.RateLimitPerMin > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitPerMin, time.Minute)
		app.Hooks().OnShutdown(func() error {
			limiter.Close()
			return nil
		})
		app.Use("/api", limiter.Handler())
	}

	// Health check
	health := http.NewHealthHandler()
	if deps.DB != nil {
		health.AddCheck("postgres", deps.DB)
	}
	if deps.MongoDB != nil {
		client := deps.MongoDB
		health.AddCheck("mongodb", http.HealthCheckFunc(func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		}))
	}
	if deps.SQLDB != nil {
		db := deps.SQLDB.DB
		health.AddStatus("postgres_pool", func() string {
			return string(metrics.AssessDBPoolHealth(metrics.GetDBPoolStats(db)).Status)
		})
	}
	if deps.UserCache != nil {
		health.AddCheck("redis", deps.UserCache)
	}
	if deps.UserBreaker != nil {
		breaker := deps.UserBreaker
		health.AddStatus("user_store_breaker", func() string { return breaker.State().String() })
	}
	health.Register(app)

	if cfg.MetricsEnabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	http.NewUserHandler(deps.UserService).Register(app)

	app.Use(middleware.NotFound())

	return app
}
