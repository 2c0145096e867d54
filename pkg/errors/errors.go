package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// FieldError 单个字段的校验失败信息
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型，HTTP状态码由HTTPStatus(Code)推导
// 2. Message是用户友好的提示信息
// 3. Details携带字段级校验失败列表（仅参数错误使用）
// 4. Err是内部错误，仅记录到日志，不返回给客户端
type AppError struct {
	Code    int          `json:"code"`              // 业务错误码
	Message string       `json:"message"`           // 用户友好的错误提示
	Details []FieldError `json:"details,omitempty"` // 字段级错误
	Err     error        `json:"-"`                 // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，预定义错误被Wrap/WithDetails复制后仍能用errors.Is识别
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithDetails 返回附带字段错误的副本（不修改预定义错误）
func (e *AppError) WithDetails(details ...FieldError) *AppError {
	cp := *e
	cp.Details = append([]FieldError(nil), details...)
	return &cp
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如文件读写错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return WrapCode(err, ErrCodeInternal, message)
}

// WrapCode 以指定错误码包装底层错误
func WrapCode(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败）
// - 5xxxx: 服务端错误（存储异常、外部服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal         = 50000 // 内部错误
	ErrCodeStoreError       = 50001 // 存储读写错误
	ErrCodeStoreUnavailable = 50003 // 存储暂不可用（熔断中）

	// 资源错误（40400-40499）
	ErrCodeRouteNotFound = 40401 // 路由不存在
	ErrCodeBookNotFound  = 40402 // 图书不存在

	// 业务规则错误（40000-40099）
	ErrCodeASINDuplicate = 40004 // ASIN已存在

	// 参数错误（40900-40999）
	ErrCodeBindError     = 40901 // 参数绑定失败
	ErrCodeValidation    = 40902 // 字段校验失败

	// 限流（42900-42999）
	ErrCodeTooManyRequests = 42900 // 请求过于频繁
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal         = New(ErrCodeInternal, "系统内部错误")
	ErrStoreError       = New(ErrCodeStoreError, "数据存储错误")
	ErrStoreUnavailable = New(ErrCodeStoreUnavailable, "数据存储暂不可用，请稍后重试")

	// 资源不存在
	ErrRouteNotFound = New(ErrCodeRouteNotFound, "接口不存在")

	// 参数错误
	ErrBindError  = New(ErrCodeBindError, "参数格式错误")
	ErrValidation = New(ErrCodeValidation, "参数校验失败")

	// 限流
	ErrTooManyRequests = New(ErrCodeTooManyRequests, "请求过于频繁，请稍后重试")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// HTTPStatus 业务错误码 → HTTP状态码
// 规则：
// - 404xx → 404
// - 429xx → 429
// - 400xx、409xx → 400（参数错误与业务冲突都属于请求本身有问题）
// - 50003 → 503
// - 其他 → 500
func HTTPStatus(code int) int {
	switch {
	case code == ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	case code >= 40400 && code < 40500:
		return http.StatusNotFound
	case code >= 42900 && code < 43000:
		return http.StatusTooManyRequests
	case code >= 40000 && code < 41000:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
