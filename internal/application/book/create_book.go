package book

import (
	"context"

	"github.com/xiebiao/bookshelf/internal/application/event"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/metrics"
)

// CreateBookUseCase 创建图书用例
// 设计说明：
// 1. 应用层负责用例编排：调用领域服务，成功后发布book.created事件
// 2. 业务规则（asin必填、不能重复）由领域服务负责
type CreateBookUseCase struct {
	bookService book.Service
	notifier    *event.Notifier
}

// NewCreateBookUseCase 创建用例
func NewCreateBookUseCase(bookService book.Service, notifier *event.Notifier) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
		notifier:    notifier,
	}
}

// CreateBookResponse 创建成功只返回标识
type CreateBookResponse struct {
	ASIN string `json:"asin"`
}

// Execute 执行创建用例
func (uc *CreateBookUseCase) Execute(ctx context.Context, b *book.Book) (*CreateBookResponse, error) {
	created, err := uc.bookService.CreateBook(ctx, b)
	metrics.RecordBookOperation("create_book", err)
	if err != nil {
		return nil, err
	}

	uc.notifier.Notify(ctx, event.BookCreated, created.ASIN, "")
	return &CreateBookResponse{ASIN: created.ASIN}, nil
}
