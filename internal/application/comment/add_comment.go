package comment

import (
	"context"
	"encoding/json"

	"github.com/xiebiao/bookshelf/internal/application/event"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/metrics"
)

// AddCommentUseCase 追加评论用例
// 设计说明：
// 1. userName/text的必填校验在HTTP层（dto）完成，到这里的请求都是合法的
// 2. commentID与createdAt由领域服务生成
type AddCommentUseCase struct {
	bookService book.Service
	notifier    *event.Notifier
}

// NewAddCommentUseCase 创建用例
func NewAddCommentUseCase(bookService book.Service, notifier *event.Notifier) *AddCommentUseCase {
	return &AddCommentUseCase{
		bookService: bookService,
		notifier:    notifier,
	}
}

// AddCommentRequest 追加评论请求
type AddCommentRequest struct {
	ASIN     string
	UserName string
	Text     string
	Extra    map[string]json.RawMessage // 客户端附带的其他字段，原样保存
}

// Execute 执行用例，返回更新后的评论列表
func (uc *AddCommentUseCase) Execute(ctx context.Context, req AddCommentRequest) ([]*book.Comment, error) {
	comments, err := uc.bookService.AddComment(ctx, req.ASIN, &book.Comment{
		UserName: req.UserName,
		Text:     req.Text,
		Fields:   req.Extra,
	})
	metrics.RecordBookOperation("add_comment", err)
	if err != nil {
		return nil, err
	}

	// 新评论总是追加在末尾
	if n := len(comments); n > 0 {
		uc.notifier.Notify(ctx, event.CommentAdded, req.ASIN, comments[n-1].ID)
	}
	return comments, nil
}
