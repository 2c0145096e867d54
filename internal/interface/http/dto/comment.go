package dto

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// AddCommentRequest 追加评论请求
// validator tag说明：
// - required: 必须是非空字符串（缺失、null、""都不通过）
// 其余字段原样保存到评论中（Extra）
type AddCommentRequest struct {
	UserName string                     `json:"userName" binding:"required" example:"ann"`
	Text     string                     `json:"text" binding:"required" example:"值得一读"`
	Extra    map[string]json.RawMessage `json:"-" swaggerignore:"true"`
}

// BindAddComment 解析并校验追加评论请求
// 学习要点：
// 1. 先按对象解析，保证客户端附带的字段不丢失
// 2. 类型错误与required错误一起收集，一次性返回所有不合法的字段
// 3. 校验走gin的binding.Validator，字段名取json tag
func BindAddComment(c *gin.Context) (*AddCommentRequest, error) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeBindError, apperrors.ErrBindError.Message)
	}
	obj, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	req := &AddCommentRequest{}
	var details []apperrors.FieldError
	mistyped := map[string]bool{}

	// 1. 逐个字段解码，记录类型错误
	for name, dst := range map[string]*string{"userName": &req.UserName, "text": &req.Text} {
		raw, ok := obj[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			mistyped[name] = true
			details = append(details, apperrors.FieldError{Field: name, Message: name + "必须是字符串"})
		}
		delete(obj, name)
	}
	req.Extra = obj

	// 2. binding tag校验
	if err := binding.Validator.ValidateStruct(req); err != nil {
		for _, fe := range FieldErrors(err) {
			if !mistyped[fe.Field] {
				details = append(details, fe)
			}
		}
	}

	if len(details) > 0 {
		sortDetails(details)
		return nil, apperrors.ErrValidation.WithDetails(details...)
	}
	return req, nil
}
