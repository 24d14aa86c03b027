package container

import (
	"context"
	"fmt"
	"time"

	"courselibrary-backend/internal/config"
	authorHandler "courselibrary-backend/internal/domains/author/handler"
	courseHandler "courselibrary-backend/internal/domains/course/handler"
	rootHandler "courselibrary-backend/internal/domains/root/handler"
	infraCache "courselibrary-backend/internal/infrastructure/cache"
	"courselibrary-backend/internal/infrastructure/database"
	"courselibrary-backend/internal/repository"
	"courselibrary-backend/internal/shared/routes"
	"courselibrary-backend/pkg/cache"
	"courselibrary-backend/pkg/logger"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the API process.
// Initialization order: config, infrastructure, repository, handlers.
type Container struct {
	// Infrastructure
	Config *config.Config
	DB     *database.PostgresDB // nil with the memory driver
	Cache  cache.Cache          // nil when REDIS_HOST is empty or unreachable

	// Data access
	Store        repository.Store
	Repositories *repository.Provider

	// HTTP
	Routes        *routes.Table
	RootHandler   *rootHandler.RootHandler
	AuthorHandler *authorHandler.AuthorHandler
	CourseHandler *courseHandler.CourseHandler
}

// NewContainer builds the dependency graph from cfg.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger.Info("Initializing container", map[string]interface{}{
		"environment": cfg.App.Environment,
		"store":       cfg.Store.Driver,
	})

	c := &Container{Config: cfg}

	if err := c.initStore(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}

	c.initCache(ctx)

	// ========================================
	// REPOSITORY
	// ========================================
	c.Repositories = repository.NewProvider(c.Store, c.Cache, cfg.Redis.TTL).
		WithPaging(cfg.Paging.DefaultPageSize, cfg.Paging.MaxPageSize)

	if cfg.Store.Seed {
		if err := repository.Seed(ctx, c.Store); err != nil {
			c.Cleanup()
			return nil, fmt.Errorf("failed to seed store: %w", err)
		}
	}

	// Cached authors may predate a reset or seed.
	if cfg.Store.Seed || cfg.Store.ResetOnStart {
		if err := c.Repositories.InvalidateAuthorCache(ctx); err != nil {
			logger.Warn("Author cache invalidation failed", map[string]interface{}{"error": err.Error()})
		}
	}

	if err := c.initHandlers(); err != nil {
		c.Cleanup()
		return nil, err
	}

	logger.Info("Container initialized", nil)
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initStore(ctx context.Context) error {
	if c.Config.Store.Driver == config.StoreDriverMemory {
		logger.Warn("Using in-memory store, data is lost on exit", nil)
		c.Store = repository.NewMemoryStore()
		return nil
	}

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.Connect(connectCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	if err := db.EnsureSchema(ctx, c.Config.Store.ResetOnStart); err != nil {
		return fmt.Errorf("failed to prepare schema: %w", err)
	}

	c.Store = repository.NewPostgresStore(db.Pool)
	return nil
}

// initCache connects Redis when configured. A failure is not fatal:
// the repository reads straight from the store without a cache.
func (c *Container) initCache(ctx context.Context) {
	if c.Config.Redis.Host == "" {
		logger.Info("Redis not configured, author cache disabled", nil)
		return
	}

	rc := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := rc.Connect(ctx); err != nil {
		logger.Warn("Redis connection failed (non-critical)", map[string]interface{}{"error": err.Error()})
		_ = rc.Close()
		return
	}
	c.Cache = rc
}

func (c *Container) initHandlers() error {
	c.Routes = routes.NewTable()
	if err := c.Routes.SetTrustedProxies(c.Config.App.TrustedProxies); err != nil {
		return fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	c.RootHandler = rootHandler.NewRootHandler(c.Routes)
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.Repositories, c.Routes, authorHandler.Options{
		DefaultPageSize: c.Config.Paging.DefaultPageSize,
		MaxPageSize:     c.Config.Paging.MaxPageSize,
	})
	c.CourseHandler = courseHandler.NewCourseHandler(c.Repositories, c.Routes)
	return nil
}

// ========================================
// HEALTH
// ========================================

// Health reports the store and the cache. Only a failing store makes the
// service unhealthy.
func (c *Container) Health(ctx context.Context) (store, redis string, healthy bool) {
	store, redis, healthy = "ok", "disabled", true

	if err := c.Store.Ping(ctx); err != nil {
		store = fmt.Sprintf("error: %v", err)
		healthy = false
	}

	if c.Cache != nil {
		redis = "ok"
		if err := c.Cache.Ping(ctx); err != nil {
			redis = fmt.Sprintf("error: %v", err)
		}
	}
	return store, redis, healthy
}

// PoolStats reports the Postgres pool, or nil with the memory driver.
func (c *Container) PoolStats() *database.PoolStats {
	if c.DB == nil {
		return nil
	}
	stats, err := c.DB.Stats()
	if err != nil {
		return nil
	}
	return stats
}

// Cleanup releases pooled connections. Called on graceful shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil && c.DB.Pool != nil {
		if err := c.DB.Close(); err != nil {
			logger.Error("Failed to close database", err)
		}
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			logger.Error("Failed to close Redis", err)
		}
	}
}
