package comment

import (
	"context"

	"github.com/xiebiao/bookshelf/internal/application/event"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/metrics"
)

// DeleteCommentUseCase 删除评论用例
type DeleteCommentUseCase struct {
	bookService book.Service
	notifier    *event.Notifier
}

// NewDeleteCommentUseCase 创建用例
func NewDeleteCommentUseCase(bookService book.Service, notifier *event.Notifier) *DeleteCommentUseCase {
	return &DeleteCommentUseCase{
		bookService: bookService,
		notifier:    notifier,
	}
}

// Execute 评论ID不存在时同样返回成功，但不发布事件
func (uc *DeleteCommentUseCase) Execute(ctx context.Context, asin, commentID string) error {
	removed, err := uc.bookService.DeleteComment(ctx, asin, commentID)
	metrics.RecordBookOperation("delete_comment", err)
	if err != nil {
		return err
	}

	if removed {
		uc.notifier.Notify(ctx, event.CommentDeleted, asin, commentID)
	}
	return nil
}
