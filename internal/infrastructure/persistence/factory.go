package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/bolt"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/jsonfile"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/memory"
	sqlstore "github.com/xiebiao/bookshelf/internal/infrastructure/persistence/mysql"
	redisstore "github.com/xiebiao/bookshelf/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshelf/pkg/circuitbreaker"
	"github.com/xiebiao/bookshelf/pkg/metrics"
)

// NewRepository 按store.backend创建集合仓储
// 返回的cleanup负责关闭后端（文件锁、连接池）
func NewRepository(cfg *config.Config, logger *zap.Logger) (*CollectionRepository, func(), error) {
	backend, err := OpenBackend(context.Background(), cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	repo := NewCollectionRepository(backend, NewBreaker(backend.Name(), cfg.Breaker, logger), logger)
	cleanup := func() {
		if err := repo.Close(); err != nil {
			logger.Warn("关闭存储失败", zap.Error(err))
		}
	}

	logger.Info("集合存储已就绪",
		zap.String("backend", backend.Name()),
		zap.String("collection", cfg.Store.Collection),
	)
	return repo, cleanup, nil
}

// OpenBackend 只打开原始后端，不带熔断与指标（bookctl直接使用）
func OpenBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Backend, error) {
	switch cfg.Store.Backend {
	case config.BackendJSON, "":
		return jsonfile.New(cfg.Store.Path)
	case config.BackendMemory:
		return memory.New(nil), nil
	case config.BackendBolt:
		return bolt.New(cfg.Store.Path, cfg.Store.Collection)
	case config.BackendRedis:
		client, err := redisstore.NewClient(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		return redisstore.NewStore(client, cfg.Redis.KeyPrefix, cfg.Store.Collection), nil
	case config.BackendMySQL:
		db, err := sqlstore.NewDB(cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		return sqlstore.NewStore(db, cfg.Store.Collection), nil
	case config.BackendSQLite:
		db, err := sqlstore.NewSQLiteDB(cfg.Store.Path, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		return sqlstore.NewStore(db, cfg.Store.Collection), nil
	default:
		return nil, fmt.Errorf("不支持的存储后端: %q", cfg.Store.Backend)
	}
}

// NewBreaker 根据配置创建存储熔断器，未启用时返回nil
// 状态变化与调用结果同步到Prometheus指标
func NewBreaker(name string, cfg config.BreakerConfig, logger *zap.Logger) *circuitbreaker.CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}

	threshold := cfg.FailureThreshold
	cb := circuitbreaker.NewCircuitBreaker("store."+name, circuitbreaker.Config{
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: circuitbreaker.IgnoreCanceled,
	})

	metrics.InitMetrics()
	labels := map[string]string{"name": cb.Name()}
	metrics.SetGaugeVec(metrics.CircuitBreakerState, labels, float64(circuitbreaker.StateClosed))

	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		logger.Warn("熔断器状态变化",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
	})
	cb.SetResultCallback(func(name, result string) {
		metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": name, "result": result})
	})
	return cb
}
