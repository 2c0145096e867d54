package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// BookHandler 图书HTTP处理器
// 错误统一通过c.Error交给middleware.ErrorHandler输出
type BookHandler struct {
	listBooks  *appbook.ListBooksUseCase
	getBook    *appbook.GetBookUseCase
	createBook *appbook.CreateBookUseCase
	updateBook *appbook.UpdateBookUseCase
	deleteBook *appbook.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	listBooks *appbook.ListBooksUseCase,
	getBook *appbook.GetBookUseCase,
	createBook *appbook.CreateBookUseCase,
	updateBook *appbook.UpdateBookUseCase,
	deleteBook *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		listBooks:  listBooks,
		getBook:    getBook,
		createBook: createBook,
		updateBook: updateBook,
		deleteBook: deleteBook,
	}
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  返回全部图书；指定category时只返回该分类（精确匹配，区分大小写）
// @Tags         图书
// @Produce      json
// @Param        category query string false "分类"
// @Success      200 {object} response.Response{data=[]dto.BookDoc}
// @Failure      500 {object} response.Response "存储错误"
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	books, err := h.listBooks.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Category: c.Query("category"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, books)
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        asin path string true "ASIN"
// @Success      200 {object} response.Response{data=dto.BookDoc}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{asin} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	b, err := h.getBook.Execute(c.Request.Context(), c.Param("asin"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, b)
}

// CreateBook 创建图书
// @Summary      创建图书
// @Description  请求体是图书对象，asin必填且不能重复，其余字段原样保存
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.BookDoc true "图书"
// @Success      201 {object} response.Response{data=dto.CreateBookResponse}
// @Failure      400 {object} response.Response "参数错误或ASIN已存在"
// @Router       /books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	// 1. 解析请求体
	b, err := dto.BindBook(c)
	if err != nil {
		c.Error(err)
		return
	}

	// 2. 调用应用层用例
	result, err := h.createBook.Execute(c.Request.Context(), b)
	if err != nil {
		c.Error(err)
		return
	}

	response.Created(c, &dto.CreateBookResponse{ASIN: result.ASIN})
}

// UpdateBook 更新图书（浅合并）
// @Summary      更新图书
// @Description  请求体的顶层字段覆盖已有字段，asin不可修改；返回更新后的全部图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        asin    path string      true "ASIN"
// @Param        request body dto.BookDoc true "要覆盖的字段"
// @Success      200 {object} response.Response{data=[]dto.BookDoc}
// @Failure      400 {object} response.Response "请求体不是JSON对象"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{asin} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	patch, err := dto.BindPatch(c)
	if err != nil {
		c.Error(err)
		return
	}

	books, err := h.updateBook.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		ASIN:  c.Param("asin"),
		Patch: patch,
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, books)
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Tags         图书
// @Param        asin path string true "ASIN"
// @Success      204
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{asin} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	if err := h.deleteBook.Execute(c.Request.Context(), c.Param("asin")); err != nil {
		c.Error(err)
		return
	}
	response.NoContent(c)
}
