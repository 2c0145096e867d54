package handler

import (
	"github.com/gin-gonic/gin"

	appcomment "github.com/xiebiao/bookshelf/internal/application/comment"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// CommentHandler 评论HTTP处理器
type CommentHandler struct {
	listComments  *appcomment.ListCommentsUseCase
	addComment    *appcomment.AddCommentUseCase
	deleteComment *appcomment.DeleteCommentUseCase
}

// NewCommentHandler 创建评论处理器
func NewCommentHandler(
	listComments *appcomment.ListCommentsUseCase,
	addComment *appcomment.AddCommentUseCase,
	deleteComment *appcomment.DeleteCommentUseCase,
) *CommentHandler {
	return &CommentHandler{
		listComments:  listComments,
		addComment:    addComment,
		deleteComment: deleteComment,
	}
}

// ListComments 评论列表
// @Summary      评论列表
// @Tags         评论
// @Produce      json
// @Param        asin path string true "ASIN"
// @Success      200 {object} response.Response{data=[]dto.CommentDoc}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{asin}/comments [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	comments, err := h.listComments.Execute(c.Request.Context(), c.Param("asin"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, comments)
}

// AddComment 追加评论
// @Summary      追加评论
// @Description  userName和text必填；commentID与createdAt由服务端生成；返回更新后的评论列表
// @Tags         评论
// @Accept       json
// @Produce      json
// @Param        asin    path string                true "ASIN"
// @Param        request body dto.AddCommentRequest true "评论"
// @Success      201 {object} response.Response{data=[]dto.CommentDoc}
// @Failure      400 {object} response.Response "参数校验失败（details列出不合法的字段）"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{asin}/comments [post]
func (h *CommentHandler) AddComment(c *gin.Context) {
	// 1. 参数校验先于图书查找：不合法的请求不触碰存储
	req, err := dto.BindAddComment(c)
	if err != nil {
		c.Error(err)
		return
	}

	// 2. 调用应用层用例
	comments, err := h.addComment.Execute(c.Request.Context(), appcomment.AddCommentRequest{
		ASIN:     c.Param("asin"),
		UserName: req.UserName,
		Text:     req.Text,
		Extra:    req.Extra,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Created(c, comments)
}

// DeleteComment 删除评论
// @Summary      删除评论
// @Description  评论ID不存在时同样返回204
// @Tags         评论
// @Param        asin      path string true "ASIN"
// @Param        commentId path string true "评论ID"
// @Success      204
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{asin}/comments/{commentId} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	if err := h.deleteComment.Execute(c.Request.Context(), c.Param("asin"), c.Param("commentId")); err != nil {
		c.Error(err)
		return
	}
	response.NoContent(c)
}
