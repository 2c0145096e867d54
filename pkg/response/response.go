package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// Response 统一响应结构
// 设计说明：
// 1. Code是业务错误码（0表示成功），HTTP状态码同时表达请求结果
// 2. Message是用户友好的提示信息
// 3. Data是业务数据，成功时返回，失败时省略
// 4. Details仅在参数校验失败时返回，列出每个不合法的字段
type Response struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    interface{}            `json:"data,omitempty"`
	Details []apperrors.FieldError `json:"details,omitempty"`
}

// Success 成功响应（HTTP 200，Code=0）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应（HTTP 201）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "created",
		Data:    data,
	})
}

// NoContent 无响应体（HTTP 204）
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error 错误响应（自动处理AppError）
// 内部错误（appErr.Err）由middleware.ErrorHandler记录到日志，这里只负责输出
// 用法：
//
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	c.JSON(apperrors.HTTPStatus(appErr.Code), Response{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	})
}

// AbortWithError 输出错误并终止后续中间件
func AbortWithError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
