// @title           Bookshelf API
// @version         1.0
// @description     图书与评论管理接口
// @BasePath        /
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/pkg/logger"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// main 主程序入口
//
// 启动流程：配置 → 日志 → 链路追踪 → 依赖组装（Wire） → HTTP服务 → 等待信号 → 优雅关闭
func main() {
	// 步骤1: 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ 加载配置失败: %v", err)
	}

	// 步骤2: 初始化日志
	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("❌ 初始化日志失败: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Error("服务异常退出", zap.Error(err))
		_ = zlog.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	// 步骤3: 链路追踪（未启用时为no-op）
	shutdownTracer, err := tracing.Init(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("初始化链路追踪失败: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(ctx); err != nil {
			zlog.Warn("关闭链路追踪失败", zap.Error(err))
		}
	}()

	if cfg.Metrics.Enabled {
		metrics.InitMetrics()
	}

	// 步骤4: 设置Gin模式，必须在创建引擎之前
	gin.SetMode(cfg.Server.Mode)

	// 步骤5: 依赖组装
	app, cleanup, err := InitializeApp(cfg, zlog)
	if err != nil {
		return fmt.Errorf("初始化应用失败: %w", err)
	}
	defer cleanup()

	// 步骤6: 启动HTTP服务并等待退出信号
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx, cfg.Server.ShutdownTimeout)
}

// Run 启动HTTP服务，ctx取消后在timeout内优雅关闭
func (a *App) Run(ctx context.Context, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("🚀 服务启动成功", zap.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP服务启动失败: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("⏳ 正在优雅关闭服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("服务器强制关闭: %w", err)
	}
	a.logger.Info("👋 服务已完全关闭")
	return nil
}
