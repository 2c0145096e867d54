package book

import (
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrASINDuplicate ASIN已存在（创建时冲突，HTTP 400）
	ErrASINDuplicate = apperrors.New(apperrors.ErrCodeASINDuplicate, "该ASIN的图书已存在")

	// ErrASINRequired 创建图书时缺少asin或asin不是非空字符串
	ErrASINRequired = apperrors.ErrValidation.WithDetails(apperrors.FieldError{
		Field:   "asin",
		Message: "asin是必填的非空字符串",
	})

	// ErrCommentIDExhausted 多次生成的评论ID都与已有评论冲突
	ErrCommentIDExhausted = apperrors.New(apperrors.ErrCodeInternal, "评论ID生成失败")
)
