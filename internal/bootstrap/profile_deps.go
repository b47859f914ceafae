package bootstrap

import (
	"context"
	"fmt"
	"time"

	"profile_server/adapter/out/mongodb"
	"profile_server/adapter/out/persistence"
	"profile_server/config"
	"profile_server/core/port/out"
	"profile_server/core/service/user"
	"profile_server/infra/database"
	"profile_server/pkg/cache"
	"profile_server/pkg/logger"
	"profile_server/pkg/metrics"
	"profile_server/pkg/resilience"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	startupTimeout  = 30 * time.Second
	userCachePrefix = "profile:"
)

type Dependencies struct {
	Config *config.Config

	// Infrastructure
	DB      *pgxpool.Pool
	SQLDB   *sqlx.DB
	Redis   *redis.Client
	MongoDB *mongo.Client

	// UserCache is nil when Redis is not configured or unreachable.
	UserCache *cache.RedisCache

	// Metrics
	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics
	UserMetrics *metrics.UserMetrics

	// Repositories
	UserRepo    out.UserRepository
	UserBreaker *persistence.BreakerUserAdapter

	// Services
	UserService *user.Service
}

func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	deps := &Dependencies{Config: cfg}
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	fail := func(err error) (*Dependencies, func(), error) {
		cleanup()
		return nil, nil, err
	}

	// Metrics registry
	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.HTTPMetrics = metrics.NewHTTPMetrics(deps.Registry)
	deps.UserMetrics = metrics.NewUserMetrics(deps.Registry)

	// Primary store
	var store out.UserRepository
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pgCfg := database.DefaultPostgresConfig()
		pgCfg.MaxConns = int32(cfg.DBMaxConns)
		pgCfg.MaxIdleConns = cfg.DBMaxIdleConns

		pool, err := database.NewPostgres(ctx, cfg.DatabaseURL, pgCfg)
		if err != nil {
			return fail(fmt.Errorf("connect postgres: %w", err))
		}
		deps.DB = pool
		cleanups = append(cleanups, pool.Close)

		sqlDB, err := database.NewSQLX(ctx, cfg.DatabaseURL, pgCfg)
		if err != nil {
			return fail(fmt.Errorf("connect postgres via sqlx: %w", err))
		}
		deps.SQLDB = sqlDB
		cleanups = append(cleanups, func() { sqlDB.Close() })

		if err := metrics.RegisterPgxPool(deps.Registry, pool); err != nil {
			logger.Warn("Failed to register pgxpool metrics: %v", err)
		}
		if err := metrics.RegisterSQLDB(deps.Registry, "postgres", sqlDB.DB); err != nil {
			logger.Warn("Failed to register sql pool metrics: %v", err)
		}

		adapter := persistence.NewUserAdapter(sqlDB, cfg.UsersTable)
		if err := adapter.EnsureSchema(ctx); err != nil {
			return fail(fmt.Errorf("ensure users schema: %w", err))
		}
		store = adapter
		logger.Info("User store: postgres (pool: max=%d, idle=%d)", cfg.DBMaxConns, cfg.DBMaxIdleConns)

	case config.BackendMongo:
		client, err := mongodb.NewClient(cfg.MongoDBURL)
		if err != nil {
			return fail(fmt.Errorf("connect mongodb: %w", err))
		}
		deps.MongoDB = client
		cleanups = append(cleanups, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		})

		adapter := mongodb.NewUserAdapter(client.Database(cfg.MongoDBName))
		if err := adapter.EnsureIndexes(ctx); err != nil {
			return fail(fmt.Errorf("ensure mongodb indexes: %w", err))
		}
		store = adapter
		logger.Info("User store: mongodb (database=%s)", cfg.MongoDBName)

	default:
		store = persistence.NewMemoryUserAdapter()
		logger.Warn("User store: in-memory, data is lost on restart")
	}

	// Remote stores sit behind a circuit breaker
	if deps.DB != nil || deps.MongoDB != nil {
		bcfg := resilience.DefaultBreakerConfig("user-store")
		bcfg.FailureThreshold = uint32(cfg.BreakerFailureThreshold)
		bcfg.Timeout = cfg.BreakerTimeout()
		bcfg.IsSuccessful = persistence.IsStoreHealthy

		deps.UserBreaker = persistence.NewBreakerUserAdapter(store, resilience.NewBreaker(bcfg, logger.Default()))
		store = deps.UserBreaker
	}

	// Redis read-through cache (optional)
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedis(ctx, cfg.RedisURL, nil)
		if err != nil {
			logger.Warn("Redis connection failed, user cache disabled: %v", err)
		} else {
			deps.Redis = redisClient
			cleanups = append(cleanups, func() { redisClient.Close() })

			deps.UserCache = cache.NewRedisCache(redisClient, userCachePrefix)
			store = persistence.NewCachedUserAdapter(
				store,
				deps.UserCache,
				cfg.CacheUserTTL(),
				logger.Default(),
			)
			logger.Info("User cache: redis (ttl=%s)", cfg.CacheUserTTL())
		}
	}
	deps.UserRepo = store

	svc, err := user.NewService(store,
		user.WithRequiredAge(cfg.UserRequiredAge),
		user.WithLogger(logger.Default()),
		user.WithMetrics(deps.UserMetrics),
	)
	if err != nil {
		return fail(err)
	}
	deps.UserService = svc

	return deps, cleanup, nil
}
