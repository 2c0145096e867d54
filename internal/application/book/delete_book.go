package book

import (
	"context"

	"github.com/xiebiao/bookshelf/internal/application/event"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/metrics"
)

// DeleteBookUseCase 删除图书用例
type DeleteBookUseCase struct {
	bookService book.Service
	notifier    *event.Notifier
}

// NewDeleteBookUseCase 创建用例
func NewDeleteBookUseCase(bookService book.Service, notifier *event.Notifier) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookService: bookService,
		notifier:    notifier,
	}
}

// Execute 执行删除用例
func (uc *DeleteBookUseCase) Execute(ctx context.Context, asin string) error {
	err := uc.bookService.DeleteBook(ctx, asin)
	metrics.RecordBookOperation("delete_book", err)
	if err != nil {
		return err
	}

	uc.notifier.Notify(ctx, event.BookDeleted, asin, "")
	return nil
}
