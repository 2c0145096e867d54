//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 修改本文件后运行 `wire gen ./cmd/api` 重新生成wire_gen.go
//
// 依赖链：
// *App ← *http.Server ← *gin.Engine ← Handler ← UseCase ← book.Service ← book.Repository ← Backend

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	appcomment "github.com/xiebiao/bookshelf/internal/application/comment"
	"github.com/xiebiao/bookshelf/internal/application/event"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence"
	"github.com/xiebiao/bookshelf/internal/interface/http/handler"
	"github.com/xiebiao/bookshelf/internal/interface/http/router"
)

// ========================================
// Wire Provider Sets (依赖分组)
// ========================================

// repositorySet 仓储层依赖
// persistence.NewRepository按store.backend选择后端，并返回关闭后端的cleanup
var repositorySet = wire.NewSet(
	persistence.NewRepository,
	wire.Bind(new(book.Repository), new(*persistence.CollectionRepository)),
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	book.NewService, // 图书领域服务
)

// eventSet 领域事件依赖
var eventSet = wire.NewSet(
	providePublisher,
	event.NewNotifier,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appcomment.NewListCommentsUseCase,
	appcomment.NewAddCommentUseCase,
	appcomment.NewDeleteCommentUseCase,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewBookHandler,    // 图书处理器
	handler.NewCommentHandler, // 评论处理器
)

// serverSet HTTP服务依赖
var serverSet = wire.NewSet(
	provideRateLimiter,
	router.New,
	provideHTTPServer,
	newApp,
)

// ========================================
// Wire Injector (依赖注入器)
// ========================================

// InitializeApp 初始化整个应用
// cfg与logger由main提前创建（日志要在依赖组装之前可用）
// 返回的cleanup按创建的逆序释放资源：限流器、事件连接、存储
func InitializeApp(cfg *config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(
		repositorySet,
		domainSet,
		eventSet,
		applicationSet,
		handlerSet,
		serverSet,
	)
	return nil, nil, nil
}
