// Package persistence 图书集合的存储实现
//
// 各存储后端（jsonfile、memory、bolt、redis、mysql/sqlite）只负责按集合名
// 读写一段编码好的JSON数组（Backend接口）；编解码、熔断、指标与链路追踪
// 统一由CollectionRepository完成，对domain层暴露book.Repository。
package persistence

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

const tracerName = "bookshelf/persistence"

// Backend 原始集合存储
// 约定：
// 1. Load在集合不存在时返回(nil, nil)
// 2. Save必须整体替换，读者看不到写了一半的数据
// 3. 实现需要支持并发调用
type Backend interface {
	// Name 后端名称，用于指标与日志标签
	Name() string
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Close() error
}

// CollectionRepository 基于Backend实现book.Repository
type CollectionRepository struct {
	backend Backend
	breaker *circuitbreaker.CircuitBreaker // nil表示不启用熔断
	logger  *zap.Logger
}

// 编译期检查
var _ book.Repository = (*CollectionRepository)(nil)

// NewCollectionRepository 创建集合仓储
// breaker可以为nil
func NewCollectionRepository(backend Backend, breaker *circuitbreaker.CircuitBreaker, logger *zap.Logger) *CollectionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollectionRepository{
		backend: backend,
		breaker: breaker,
		logger:  logger.With(zap.String("backend", backend.Name())),
	}
}

// GetAll 读取整个集合
func (r *CollectionRepository) GetAll(ctx context.Context) ([]*book.Book, error) {
	var data []byte
	err := r.call(ctx, "get_all", func(ctx context.Context) error {
		var err error
		data, err = r.backend.Load(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	// 数据损坏不计入熔断统计，后端本身是可用的
	books, err := book.DecodeCollection(data)
	if err != nil {
		r.logger.Error("图书集合数据损坏", zap.Error(err))
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeStoreError, "图书集合数据损坏")
	}
	return books, nil
}

// ReplaceAll 整体替换集合
func (r *CollectionRepository) ReplaceAll(ctx context.Context, books []*book.Book) error {
	data, err := book.EncodeCollection(books)
	if err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeStoreError, "图书集合编码失败")
	}
	return r.call(ctx, "replace_all", func(ctx context.Context) error {
		return r.backend.Save(ctx, data)
	})
}

// Close 关闭底层后端
func (r *CollectionRepository) Close() error {
	return r.backend.Close()
}

// call 在Span、指标与熔断器内执行一次后端调用，并把错误转换为AppError
func (r *CollectionRepository) call(ctx context.Context, operation string, fn func(ctx context.Context) error) (err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "store."+operation,
		attribute.String("store.backend", r.backend.Name()),
		attribute.String("store.operation", operation),
	)
	start := time.Now()
	defer func() {
		metrics.ObserveStore(r.backend.Name(), operation, time.Since(start), err)
		tracing.EndSpan(span, err)
	}()

	if r.breaker != nil {
		err = r.breaker.ExecuteContext(ctx, fn)
	} else {
		err = fn(ctx)
	}
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState), errors.Is(err, circuitbreaker.ErrTooManyRequests):
		r.logger.Warn("存储熔断中，拒绝请求", zap.String("operation", operation))
		return apperrors.WrapCode(err, apperrors.ErrCodeStoreUnavailable, apperrors.ErrStoreUnavailable.Message)
	case apperrors.IsAppError(err):
		return err
	default:
		r.logger.Error("存储调用失败", zap.String("operation", operation), zap.Error(err))
		return apperrors.WrapCode(err, apperrors.ErrCodeStoreError, apperrors.ErrStoreError.Message)
	}
}
