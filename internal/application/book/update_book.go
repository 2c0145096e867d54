package book

import (
	"context"
	"encoding/json"

	"github.com/xiebiao/bookshelf/internal/application/event"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/metrics"
)

// UpdateBookUseCase 更新图书用例（浅合并）
type UpdateBookUseCase struct {
	bookService book.Service
	notifier    *event.Notifier
}

// NewUpdateBookUseCase 创建用例
func NewUpdateBookUseCase(bookService book.Service, notifier *event.Notifier) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		bookService: bookService,
		notifier:    notifier,
	}
}

// UpdateBookRequest 更新请求
type UpdateBookRequest struct {
	ASIN  string
	Patch map[string]json.RawMessage // 顶层字段覆盖，嵌套值整体替换
}

// Execute 执行更新用例，返回更新后的整个集合
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) ([]*book.Book, error) {
	books, err := uc.bookService.UpdateBook(ctx, req.ASIN, req.Patch)
	metrics.RecordBookOperation("update_book", err)
	if err != nil {
		return nil, err
	}

	uc.notifier.Notify(ctx, event.BookUpdated, req.ASIN, "")
	return books, nil
}
