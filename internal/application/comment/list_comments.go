package comment

import (
	"context"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/metrics"
)

// ListCommentsUseCase 评论列表查询用例
type ListCommentsUseCase struct {
	bookService book.Service
}

// NewListCommentsUseCase 创建用例
func NewListCommentsUseCase(bookService book.Service) *ListCommentsUseCase {
	return &ListCommentsUseCase{bookService: bookService}
}

// Execute 图书不存在返回ErrBookNotFound，没有评论返回空列表
func (uc *ListCommentsUseCase) Execute(ctx context.Context, asin string) ([]*book.Comment, error) {
	comments, err := uc.bookService.ListComments(ctx, asin)
	metrics.RecordBookOperation("list_comments", err)
	return comments, err
}
