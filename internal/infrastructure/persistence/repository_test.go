package persistence_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookshelf/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// flakyBackend 可控失败的后端
type flakyBackend struct {
	*memory.Store
	fail  atomic.Bool
	calls atomic.Int32
}

func (f *flakyBackend) Name() string { return "flaky" }

func (f *flakyBackend) Load(ctx context.Context) ([]byte, error) {
	f.calls.Add(1)
	if f.fail.Load() {
		return nil, errors.New("connection refused")
	}
	return f.Store.Load(ctx)
}

func newFlaky() *flakyBackend {
	return &flakyBackend{Store: memory.New([]byte(`[{"asin":"B001"}]`))}
}

func TestCollectionRepository_WrapsBackendErrors(t *testing.T) {
	b := newFlaky()
	b.fail.Store(true)
	repo := persistence.NewCollectionRepository(b, nil, zap.NewNop())

	_, err := repo.GetAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStoreError)

	appErr := apperrors.GetAppError(err)
	assert.Equal(t, apperrors.ErrStoreError.Message, appErr.Message, "内部错误信息不暴露给客户端")
	assert.EqualError(t, appErr.Err, "connection refused")
}

func TestCollectionRepository_BreakerOpens(t *testing.T) {
	b := newFlaky()
	cb := persistence.NewBreaker(b.Name(), config.BreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Timeout:          time.Minute,
		FailureThreshold: 2,
	}, zap.NewNop())
	repo := persistence.NewCollectionRepository(b, cb, zap.NewNop())
	ctx := context.Background()

	books, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)

	// 1. 连续失败达到阈值
	b.fail.Store(true)
	for i := 0; i < 2; i++ {
		_, err := repo.GetAll(ctx)
		assert.ErrorIs(t, err, apperrors.ErrStoreError)
	}
	assert.Equal(t, circuitbreaker.StateOpen, cb.State())

	// 2. 熔断后不再调用后端，返回503对应的错误码
	before := b.calls.Load()
	_, err = repo.GetAll(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	assert.Equal(t, 503, apperrors.HTTPStatus(apperrors.GetAppError(err).Code))
	assert.Equal(t, before, b.calls.Load())
	t.Log("✅ 熔断器打开后快速失败")
}

func TestCollectionRepository_CorruptDataDoesNotTripBreaker(t *testing.T) {
	b := memory.New([]byte(`not json`))
	cb := persistence.NewBreaker("corrupt", config.BreakerConfig{
		Enabled: true, Timeout: time.Minute, FailureThreshold: 1,
	}, zap.NewNop())
	repo := persistence.NewCollectionRepository(b, cb, zap.NewNop())

	_, err := repo.GetAll(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrStoreError)
	assert.Equal(t, circuitbreaker.StateClosed, cb.State())
}

func TestCollectionRepository_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracing.Install(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { tracing.Install(sdktrace.NewTracerProvider()) })

	repo := persistence.NewCollectionRepository(memory.New(nil), nil, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, repo.ReplaceAll(ctx, []*book.Book{{ASIN: "B001"}}))
	_, err := repo.GetAll(ctx)
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "store.replace_all", spans[0].Name())
	assert.Equal(t, "store.get_all", spans[1].Name())
	assert.Contains(t, spans[1].Attributes(), attribute.String("store.backend", "memory"))
}

func TestNewRepository(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		backend string
		path    string
		want    string
	}{
		{"json文件", config.BackendJSON, filepath.Join(dir, "books.json"), "json"},
		{"内存", config.BackendMemory, "", "memory"},
		{"BoltDB", config.BackendBolt, filepath.Join(dir, "books.db"), "bolt"},
		{"SQLite", config.BackendSQLite, filepath.Join(dir, "books.sqlite"), "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Default()
			require.NoError(t, err)
			cfg.Store.Backend = tt.backend
			cfg.Store.Path = tt.path
			cfg.Database.LogLevel = "silent"

			repo, cleanup, err := persistence.NewRepository(cfg, zap.NewNop())
			require.NoError(t, err)
			defer cleanup()

			ctx := context.Background()
			require.NoError(t, repo.ReplaceAll(ctx, []*book.Book{{ASIN: "B001"}}))
			books, err := repo.GetAll(ctx)
			require.NoError(t, err)
			require.Len(t, books, 1)
			assert.Equal(t, "B001", books[0].ASIN)
		})
	}

	t.Run("未知后端", func(t *testing.T) {
		cfg, err := config.Default()
		require.NoError(t, err)
		cfg.Store.Backend = "s3"
		_, _, err = persistence.NewRepository(cfg, zap.NewNop())
		assert.Error(t, err)
	})
}
