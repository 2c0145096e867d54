package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/pkg/tracing"
)

const (
	// RequestIDHeader 请求ID头，客户端传入时沿用，否则生成uuid
	RequestIDHeader = "X-Request-ID"
	// ContextKeyRequestID gin.Context中保存请求ID的键
	ContextKeyRequestID = "request_id"

	slowRequestThreshold = 3 * time.Second
)

// Logger 请求日志中间件
//
// 教学要点：
// 1. 记录每个请求的基本信息（方法、路由、耗时、状态码、客户端IP）
// 2. 请求ID写入响应头，日志中同时带上TraceID，便于关联追踪数据
// 3. 慢请求单独告警
//
// DON'T：
// - 记录请求体（可能很大，也可能含隐私信息）
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 步骤1: 请求ID
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, requestID)
		c.Header(RequestIDHeader, requestID)

		// 步骤2: 处理请求
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		// 步骤3: 结构化日志
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", route),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			logger.Error("请求处理失败", fields...)
		case status >= 400:
			logger.Warn("请求被拒绝", fields...)
		default:
			logger.Info("请求完成", fields...)
		}

		if latency > slowRequestThreshold {
			logger.Warn("慢请求", zap.String("request_id", requestID), zap.String("route", route), zap.Duration("latency", latency))
		}
	}
}

// GetRequestID 获取当前请求ID
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}
