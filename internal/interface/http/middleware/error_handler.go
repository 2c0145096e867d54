package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// ErrorHandler 统一错误响应
// 设计说明：
// 1. Handler只调用c.Error(err)并返回，响应在这里统一输出
// 2. 只处理最后一个错误，已经写过响应的请求不再处理
// 3. 5xx错误记录内部错误（appErr.Err），客户端只看到Message
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr := apperrors.GetAppError(err)
		if apperrors.HTTPStatus(appErr.Code) >= 500 {
			logger.Error("服务端错误",
				zap.String("request_id", GetRequestID(c)),
				zap.String("route", c.FullPath()),
				zap.Int("code", appErr.Code),
				zap.Error(err),
			)
		}
		response.Error(c, appErr)
	}
}

// Recovery panic恢复，返回500统一响应
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			zap.String("request_id", GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
			zap.Stack("stack"),
		)
		response.AbortWithError(c, apperrors.ErrInternal)
	})
}

// NotFound 未匹配的路由与不支持的方法都返回404统一响应
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Error(c, apperrors.ErrRouteNotFound)
	}
}
