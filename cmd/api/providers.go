package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/application/event"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
)

// ========================================
// Custom Providers (自定义Provider)
// ========================================
// 这些依赖需要从Config中挑选参数，或者按开关返回不同实现，
// Wire无法直接用构造函数推导，所以手写Provider

// App 组装完成的应用
type App struct {
	Server *http.Server
	logger *zap.Logger
}

func newApp(server *http.Server, logger *zap.Logger) *App {
	return &App{Server: server, logger: logger}
}

// providePublisher 根据events.enabled选择事件发布实现
// 关闭时返回NopPublisher，用例代码无需判断开关
func providePublisher(cfg *config.Config, logger *zap.Logger) (event.Publisher, func(), error) {
	if !cfg.Events.Enabled {
		return event.NopPublisher{}, func() {}, nil
	}

	publisher, err := event.NewMQPublisher(cfg.Events.URL, cfg.Events.Exchange, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("关闭事件发布连接失败", zap.Error(err))
		}
	}
	logger.Info("领域事件发布已启用", zap.String("exchange", cfg.Events.Exchange))
	return publisher, cleanup, nil
}

// provideRateLimiter 未启用限流时返回nil，router不会挂载限流中间件
func provideRateLimiter(cfg *config.Config) (*middleware.RateLimiter, func()) {
	rl := cfg.Server.RateLimit
	if !rl.Enabled {
		return nil, func() {}
	}
	limiter := middleware.NewRateLimiter(rl.RPS, rl.Burst)
	return limiter, limiter.Close
}

// provideHTTPServer 用配置的超时包装gin引擎
func provideHTTPServer(cfg *config.Config, engine *gin.Engine) *http.Server {
	return &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
