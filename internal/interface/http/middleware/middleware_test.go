package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/response"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body=%s", w.Body.String())
	return resp
}

func TestErrorHandler(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	r := gin.New()
	r.Use(ErrorHandler(zap.New(core)))
	r.GET("/missing", func(c *gin.Context) { _ = c.Error(apperrors.ErrRouteNotFound) })
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(apperrors.WrapCode(errors.New("disk full"), apperrors.ErrCodeStoreError, "数据存储错误"))
	})
	r.GET("/written", func(c *gin.Context) {
		_ = c.Error(apperrors.ErrInternal)
		c.String(http.StatusTeapot, "already")
	})
	r.GET("/plain", func(c *gin.Context) { _ = c.Error(errors.New("unexpected")) })

	t.Run("4xx输出统一响应，不记录错误日志", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/missing", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperrors.ErrCodeRouteNotFound, decode(t, w).Code)
		assert.Zero(t, logs.Len())
	})

	t.Run("5xx记录内部错误，响应只有Message", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "数据存储错误", resp.Message)
		assert.NotContains(t, w.Body.String(), "disk full")

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].ContextMap()["error"], "disk full")
	})

	t.Run("已写出的响应不再覆盖", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/written", nil))
		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.Equal(t, "already", w.Body.String())
	})

	t.Run("普通error视为内部错误", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/plain", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, apperrors.ErrCodeInternal, decode(t, w).Code)
		logs.TakeAll()
	})
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/panic", func(c *gin.Context) { panic("nil map") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperrors.ErrCodeInternal, decode(t, w).Code)
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestNotFound(t *testing.T) {
	r := gin.New()
	r.NoRoute(NotFound())
	r.GET("/books", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/nope", nil),
		httptest.NewRequest(http.MethodPatch, "/books", nil),
	} {
		w := serve(r, req)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", req.Method, req.URL.Path)
		assert.Equal(t, apperrors.ErrCodeRouteNotFound, decode(t, w).Code)
	}
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(Logger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })

	t.Run("沿用客户端的请求ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		w := serve(r, req)
		assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "req-123", w.Body.String())

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
		assert.Equal(t, "/ok", entries[0].ContextMap()["route"])
	})

	t.Run("没有请求ID时生成", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil))
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())
		logs.TakeAll()
	})

	t.Run("日志级别随状态码变化", func(t *testing.T) {
		serve(r, httptest.NewRequest(http.MethodGet, "/bad", nil))
		serve(r, httptest.NewRequest(http.MethodGet, "/fail", nil))
		serve(r, httptest.NewRequest(http.MethodGet, "/unknown", nil))

		entries := logs.TakeAll()
		require.Len(t, entries, 3)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
		assert.Equal(t, "unmatched", entries[2].ContextMap()["route"])
	})
}

func TestCORS(t *testing.T) {
	newEngine := func(cfg config.CORSConfig) *gin.Engine {
		r := gin.New()
		r.Use(CORS(cfg))
		r.GET("/books", func(c *gin.Context) { c.Status(http.StatusOK) })
		r.OPTIONS("/books", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}
	base := config.CORSConfig{
		Enabled:      true,
		AllowOrigins: []string{"https://shop.example.com"},
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       600,
	}
	request := func(method, origin string) *http.Request {
		req := httptest.NewRequest(method, "/books", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		return req
	}

	t.Run("没有Origin直接放行", func(t *testing.T) {
		w := serve(newEngine(base), request(http.MethodGet, ""))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("允许的Origin", func(t *testing.T) {
		w := serve(newEngine(base), request(http.MethodGet, "https://shop.example.com"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("不允许的Origin返回403", func(t *testing.T) {
		w := serve(newEngine(base), request(http.MethodGet, "https://evil.example.com"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("预检请求返回204", func(t *testing.T) {
		w := serve(newEngine(base), request(http.MethodOptions, "https://shop.example.com"))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("通配符", func(t *testing.T) {
		cfg := base
		cfg.AllowOrigins = []string{"*"}
		w := serve(newEngine(cfg), request(http.MethodGet, "https://any.example.com"))
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

		cfg.AllowCredentials = true
		w = serve(newEngine(cfg), request(http.MethodGet, "https://any.example.com"))
		assert.Equal(t, "https://any.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("未启用", func(t *testing.T) {
		cfg := base
		cfg.Enabled = false
		w := serve(newEngine(cfg), request(http.MethodGet, "https://evil.example.com"))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	defer goleak.VerifyNone(t)

	rl := NewRateLimiter(0.001, 2)
	defer rl.Close()

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/books", func(c *gin.Context) { c.Status(http.StatusOK) })

	newReq := func(ip string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		req.RemoteAddr = ip + ":12345"
		return req
	}

	assert.Equal(t, http.StatusOK, serve(r, newReq("10.0.0.1")).Code)
	assert.Equal(t, http.StatusOK, serve(r, newReq("10.0.0.1")).Code)

	w := serve(r, newReq("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, apperrors.ErrCodeTooManyRequests, decode(t, w).Code)

	// 不同IP独立计数
	assert.Equal(t, http.StatusOK, serve(r, newReq("10.0.0.2")).Code)

	rl.Close()
	rl.Close()
	t.Log("✅ 超过限额返回429，Close可重复调用")
}

func TestMetrics(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/books/:asin", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := func() float64 {
		var m dto.Metric
		require.NoError(t, metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/books/:asin", "200").Write(&m))
		return m.GetCounter().GetValue()
	}

	before := counter()
	serve(r, httptest.NewRequest(http.MethodGet, "/books/B001", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/books/B002", nil))
	assert.Equal(t, before+2, counter(), "path标签使用路由模板")
}

func TestTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracing.Install(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { tracing.Install(sdktrace.NewTracerProvider()) })

	r := gin.New()
	r.Use(Tracing())
	r.GET("/books/:asin", func(c *gin.Context) {
		assert.NotEmpty(t, tracing.ExtractTraceID(c.Request.Context()))
		c.Status(http.StatusOK)
	})
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })

	serve(r, httptest.NewRequest(http.MethodGet, "/books/B001", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/fail", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "GET /books/:asin", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
