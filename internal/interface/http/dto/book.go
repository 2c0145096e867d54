package dto

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// BookDoc 图书文档（仅用于Swagger展示）
// 除asin外的字段都是可选的，客户端可以附带任意其他字段，服务端原样保存
type BookDoc struct {
	ASIN     string       `json:"asin" example:"B00TEST123"`
	Category string       `json:"category,omitempty" example:"scifi"`
	Title    string       `json:"title,omitempty" example:"Dune"`
	Comments []CommentDoc `json:"comments,omitempty"`
}

// CommentDoc 评论文档（仅用于Swagger展示）
type CommentDoc struct {
	CommentID string `json:"commentID" example:"6f1c2e0a-8d5b-4b7e-9c1d-2a3b4c5d6e7f"`
	UserName  string `json:"userName" example:"ann"`
	Text      string `json:"text" example:"值得一读"`
	CreatedAt string `json:"createdAt" example:"2024-01-15T10:30:00Z"`
}

// CreateBookResponse 创建图书响应
type CreateBookResponse struct {
	ASIN string `json:"asin" example:"B00TEST123"`
}

// BindBook 读取请求体并解析为图书
// 请求体必须是JSON对象；asin是否合法由领域服务校验
func BindBook(c *gin.Context) (*book.Book, error) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeBindError, apperrors.ErrBindError.Message)
	}

	var b book.Book
	if err := json.Unmarshal(body, &b); err != nil {
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeBindError, "请求体必须是JSON对象")
	}
	return &b, nil
}

// BindPatch 读取请求体并解析为顶层字段集合（用于浅合并）
func BindPatch(c *gin.Context) (map[string]json.RawMessage, error) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeBindError, apperrors.ErrBindError.Message)
	}
	return decodeObject(body)
}

// decodeObject 解析JSON对象，null、数组、标量都视为格式错误
func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeBindError, "请求体必须是JSON对象")
	}
	if obj == nil {
		return nil, apperrors.New(apperrors.ErrCodeBindError, "请求体必须是JSON对象")
	}
	return obj, nil
}
