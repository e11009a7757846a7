package bootstrap

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-taskgate/taskgate/internal/cache"
	"github.com/go-taskgate/taskgate/internal/config"
	"github.com/go-taskgate/taskgate/internal/metrics"
	"github.com/go-taskgate/taskgate/internal/store"

	"github.com/appleboy/graceful"
	"github.com/redis/go-redis/v9"
)

const (
	usersCountCacheKey = "users_count"
	tasksCountCacheKey = "tasks_count"
)

// createHTTPServer creates the HTTP server instance
func createHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// addServerRunningJob adds the HTTP server running job
func addServerRunningJob(m *graceful.Manager, srv *http.Server) {
	m.AddRunningJob(func(ctx context.Context) error {
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()
		<-ctx.Done()
		return nil
	})
}

// addServerShutdownJob adds HTTP server shutdown handler
func addServerShutdownJob(m *graceful.Manager, srv *http.Server) {
	m.AddShutdownJob(func() error {
		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
			return err
		}

		log.Println("Server exited")
		return nil
	})
}

// addRedisClientShutdownJob adds Redis client shutdown handler
func addRedisClientShutdownJob(m *graceful.Manager, redisClient *redis.Client) {
	if redisClient == nil {
		return
	}

	m.AddShutdownJob(func() error {
		log.Println("Closing Redis connection...")
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
			return err
		}
		log.Println("Redis connection closed")
		return nil
	})
}

// addMetricsGaugeUpdateJob adds periodic metrics gauge update job
func addMetricsGaugeUpdateJob(
	m *graceful.Manager,
	cfg *config.Config,
	db *store.Store,
	recorder metrics.Recorder,
	metricsCache cache.Cache[int64],
) {
	if !cfg.MetricsEnabled || !cfg.MetricsGaugeUpdateEnabled || metricsCache == nil {
		return
	}

	m.AddRunningJob(func(ctx context.Context) error {
		ticker := time.NewTicker(cfg.MetricsGaugeUpdateInterval)
		defer ticker.Stop()

		// The cache TTL matches the update interval, so each tick serves at
		// most one database round trip per gauge across all instances
		cacheTTL := cfg.MetricsGaugeUpdateInterval

		// Update immediately on startup
		updateGaugeMetrics(ctx, db, recorder, metricsCache, cacheTTL)

		for {
			select {
			case <-ticker.C:
				updateGaugeMetrics(ctx, db, recorder, metricsCache, cacheTTL)
			case <-ctx.Done():
				return nil
			}
		}
	})
}

// addCacheShutdownJob adds cache cleanup on shutdown
func addCacheShutdownJob(m *graceful.Manager, metricsCache cache.Cache[int64]) {
	if metricsCache == nil {
		return
	}

	m.AddShutdownJob(func() error {
		if err := metricsCache.Close(); err != nil {
			log.Printf("Error closing metrics cache: %v", err)
		} else {
			log.Println("Metrics cache closed")
		}
		return nil
	})
}

// errorLogger handles rate-limited error logging
type errorLogger struct {
	lastErrorTimes  map[string]time.Time
	rateLimitWindow time.Duration
}

func newErrorLogger() *errorLogger {
	return &errorLogger{
		lastErrorTimes:  make(map[string]time.Time),
		rateLimitWindow: 5 * time.Minute, // Log at most once per 5 minutes per operation
	}
}

// logIfNeeded logs an error only if rate limit allows
func (e *errorLogger) logIfNeeded(operation string, err error) {
	now := time.Now()
	lastTime, exists := e.lastErrorTimes[operation]

	if !exists || now.Sub(lastTime) >= e.rateLimitWindow {
		log.Printf("Database query failed for %s: %v (further errors will be suppressed for %v)",
			operation, err, e.rateLimitWindow)
		e.lastErrorTimes[operation] = now
	}
}

var gaugeErrorLogger = newErrorLogger()

// updateGaugeMetrics refreshes the user and task count gauges through the
// cache, falling back to the database on a miss.
func updateGaugeMetrics(
	ctx context.Context,
	db *store.Store,
	recorder metrics.Recorder,
	metricsCache cache.Cache[int64],
	cacheTTL time.Duration,
) {
	usersCount, err := cache.GetWithFetch(ctx, metricsCache, usersCountCacheKey, cacheTTL,
		func(ctx context.Context, _ string) (int64, error) {
			return db.CountUsers(ctx)
		})
	if err != nil {
		recorder.RecordDatabaseQueryError("count_users")
		gaugeErrorLogger.logIfNeeded("count_users", err)
	} else {
		recorder.SetUsersCount(int(usersCount))
	}

	tasksCount, err := cache.GetWithFetch(ctx, metricsCache, tasksCountCacheKey, cacheTTL,
		func(ctx context.Context, _ string) (int64, error) {
			return db.CountTasks(ctx)
		})
	if err != nil {
		recorder.RecordDatabaseQueryError("count_tasks")
		gaugeErrorLogger.logIfNeeded("count_tasks", err)
	} else {
		recorder.SetTasksCount(int(tasksCount))
	}
}
