package book

import (
	"context"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/metrics"
)

// ListBooksUseCase 图书列表查询用例
// 设计说明：
// 1. 集合很小，过滤在内存中完成，不分页
// 2. 返回领域实体，序列化由Book.MarshalJSON负责（保留客户端的扩展字段）
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
	}
}

// ListBooksRequest 列表查询请求
type ListBooksRequest struct {
	Category string // 为空表示不过滤
}

// Execute 执行列表查询用例
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) ([]*book.Book, error) {
	books, err := uc.bookService.ListBooks(ctx, req.Category)
	metrics.RecordBookOperation("list_books", err)
	return books, err
}

// GetBookUseCase 图书详情查询用例
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建详情查询用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService}
}

// Execute 执行详情查询用例
func (uc *GetBookUseCase) Execute(ctx context.Context, asin string) (*book.Book, error) {
	b, err := uc.bookService.GetBook(ctx, asin)
	metrics.RecordBookOperation("get_book", err)
	return b, err
}
