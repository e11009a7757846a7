package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/go-taskgate/taskgate/internal/cache"
	"github.com/go-taskgate/taskgate/internal/config"
	"github.com/go-taskgate/taskgate/internal/metrics"
)

// initializeMetrics initializes Prometheus metrics
func initializeMetrics(cfg *config.Config) metrics.Recorder {
	recorder := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		log.Println("Prometheus metrics initialized")
	} else {
		log.Println("Metrics disabled (using noop implementation)")
	}
	return recorder
}

// initializeMetricsCache initializes the cache backing the gauge update job.
// Returns nil when gauge updates are disabled.
func initializeMetricsCache(
	ctx context.Context,
	cfg *config.Config,
) (cache.Cache[int64], error) {
	if !cfg.MetricsEnabled || !cfg.MetricsGaugeUpdateEnabled {
		return nil, nil //nolint:nilnil // cache not needed in this configuration
	}

	// Create timeout context for cache initialization
	ctx, cancel := context.WithTimeout(ctx, cfg.CacheInitTimeout)
	defer cancel()

	switch cfg.MetricsCacheType {
	case config.MetricsCacheTypeRedis:
		redisCache, err := cache.NewRueidisCache[int64](
			ctx,
			cfg.RedisAddr,
			cfg.RedisPassword,
			cfg.RedisDB,
			"taskgate:metrics:",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize metrics cache: %w", err)
		}
		log.Printf("Metrics cache initialized (redis, address: %s)", cfg.RedisAddr)
		return redisCache, nil

	case config.MetricsCacheTypeMemory:
		log.Println("Metrics cache initialized (memory, single instance only)")
		return cache.NewMemoryCache[int64](), nil

	default:
		return nil, fmt.Errorf(
			"invalid METRICS_CACHE_TYPE: %s (must be: memory, redis)",
			cfg.MetricsCacheType,
		)
	}
}
