// Package router 组装gin引擎：全局中间件、业务路由、运维路由
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/docs"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/interface/http/handler"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// New 创建gin引擎
// limiter为nil时不限流
//
// 中间件执行顺序（从外到内）：
// Logger → Recovery → Tracing → CORS → RateLimit → Metrics → ErrorHandler → Handler
func New(
	cfg *config.Config,
	logger *zap.Logger,
	books *handler.BookHandler,
	comments *handler.CommentHandler,
	limiter *middleware.RateLimiter,
) *gin.Engine {
	r := gin.New()

	// 405同样返回404统一响应
	r.HandleMethodNotAllowed = false
	r.NoRoute(middleware.NotFound())

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Tracing())
	r.Use(middleware.CORS(cfg.CORS))
	if limiter != nil {
		r.Use(limiter.Middleware())
	}
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
	}
	r.Use(middleware.ErrorHandler(logger))

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// 运维接口
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}
	if cfg.Swagger.Enabled {
		docs.SwaggerInfo.Host = ""
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// 图书与评论
	bookGroup := r.Group("/books")
	{
		bookGroup.GET("", books.ListBooks)
		bookGroup.POST("", books.CreateBook)
		bookGroup.GET("/:asin", books.GetBook)
		bookGroup.PUT("/:asin", books.UpdateBook)
		bookGroup.DELETE("/:asin", books.DeleteBook)

		bookGroup.GET("/:asin/comments", comments.ListComments)
		bookGroup.POST("/:asin/comments", comments.AddComment)
		bookGroup.DELETE("/:asin/comments/:commentId", comments.DeleteComment)
	}

	return r
}
