package router_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	appcomment "github.com/xiebiao/bookshelf/internal/application/comment"
	"github.com/xiebiao/bookshelf/internal/application/event"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookshelf/internal/interface/http/handler"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/internal/interface/http/router"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// brokenBackend 读取总是失败的后端
type brokenBackend struct{ *memory.Store }

func (brokenBackend) Name() string { return "broken" }

func (brokenBackend) Load(context.Context) ([]byte, error) {
	return nil, errors.New("connection reset")
}

type options struct {
	backend persistence.Backend
	breaker config.BreakerConfig
	limiter *middleware.RateLimiter
	mutate  func(cfg *config.Config)
}

func newEngine(t *testing.T, opts options) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.Default()
	require.NoError(t, err)
	if opts.mutate != nil {
		opts.mutate(cfg)
	}
	if opts.backend == nil {
		opts.backend = memory.New([]byte(`[{"asin":"B001","title":"Dune"}]`))
	}

	breaker := persistence.NewBreaker(opts.backend.Name(), opts.breaker, zap.NewNop())
	repo := persistence.NewCollectionRepository(opts.backend, breaker, zap.NewNop())
	service := book.NewService(repo)
	notifier := event.NewNotifier(nil, zap.NewNop())

	books := handler.NewBookHandler(
		appbook.NewListBooksUseCase(service),
		appbook.NewGetBookUseCase(service),
		appbook.NewCreateBookUseCase(service, notifier),
		appbook.NewUpdateBookUseCase(service, notifier),
		appbook.NewDeleteBookUseCase(service, notifier),
	)
	comments := handler.NewCommentHandler(
		appcomment.NewListCommentsUseCase(service),
		appcomment.NewAddCommentUseCase(service, notifier),
		appcomment.NewDeleteCommentUseCase(service, notifier),
	)
	return router.New(cfg, zap.NewNop(), books, comments, opts.limiter)
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func code(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body=%s", w.Body.String())
	return resp.Code
}

func TestRoutes(t *testing.T) {
	r := newEngine(t, options{})

	t.Run("健康检查", func(t *testing.T) {
		w := do(r, http.MethodGet, "/ping", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "pong")
	})

	t.Run("业务路由", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/books", "").Code)
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/books/B001", "").Code)
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/books/B001/comments", "").Code)
		assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/books/B001/comments", `{"userName":"a","text":"b"}`).Code)
	})

	t.Run("请求ID写入响应头", func(t *testing.T) {
		w := do(r, http.MethodGet, "/books", "")
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("未知路由与不支持的方法都返回404统一响应", func(t *testing.T) {
		for _, req := range []struct{ method, path string }{
			{http.MethodGet, "/authors"},
			{http.MethodPatch, "/books/B001"},
			{http.MethodPost, "/books/B001/comments/c1"},
		} {
			w := do(r, req.method, req.path, "")
			assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", req.method, req.path)
			assert.Equal(t, apperrors.ErrCodeRouteNotFound, code(t, w))
		}
	})

	t.Run("指标接口", func(t *testing.T) {
		w := do(r, http.MethodGet, "/metrics", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "http_requests_total")
	})

	t.Run("Swagger文档", func(t *testing.T) {
		w := do(r, http.MethodGet, "/swagger/doc.json", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "/books/{asin}/comments")
	})
}

func TestRoutes_OptionalEndpointsDisabled(t *testing.T) {
	r := newEngine(t, options{mutate: func(cfg *config.Config) {
		cfg.Metrics.Enabled = false
		cfg.Swagger.Enabled = false
	}})

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/metrics", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/swagger/doc.json", "").Code)
}

func TestRateLimit(t *testing.T) {
	limiter := middleware.NewRateLimiter(0.001, 1)
	defer limiter.Close()
	r := newEngine(t, options{limiter: limiter})

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/books", "").Code)

	w := do(r, http.MethodGet, "/books", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, apperrors.ErrCodeTooManyRequests, code(t, w))
}

func TestStoreFailures(t *testing.T) {
	r := newEngine(t, options{
		backend: brokenBackend{memory.New(nil)},
		breaker: config.BreakerConfig{
			Enabled:          true,
			MaxRequests:      1,
			Timeout:          time.Minute,
			FailureThreshold: 2,
		},
	})

	// 1. 存储错误返回500，不暴露内部信息
	for i := 0; i < 2; i++ {
		w := do(r, http.MethodGet, "/books", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, apperrors.ErrCodeStoreError, code(t, w))
		assert.NotContains(t, w.Body.String(), "connection reset")
	}

	// 2. 连续失败后熔断，返回503
	w := do(r, http.MethodGet, "/books", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, apperrors.ErrCodeStoreUnavailable, code(t, w))

	// 3. 参数校验不依赖存储，熔断期间照常返回400
	w = do(r, http.MethodPost, "/books/B001/comments", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	t.Log("✅ 存储故障依次返回500、503")
}
