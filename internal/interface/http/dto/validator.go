package dto

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

func init() {
	// 校验错误中的字段名使用json tag(userName)，而不是Go字段名（UserName）
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonTagName)
	}
}

func jsonTagName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// FieldErrors 把validator的错误转换为字段级错误列表
func FieldErrors(err error) []apperrors.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apperrors.FieldError{{Field: "body", Message: err.Error()}}
	}

	details := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, apperrors.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return details
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s是必填的非空字符串", fe.Field())
	case "max":
		return fmt.Sprintf("%s长度不能超过%s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s不合法", fe.Field())
	}
}

// sortDetails 按字段名排序，保证响应稳定
func sortDetails(details []apperrors.FieldError) {
	sort.Slice(details, func(i, j int) bool { return details[i].Field < details[j].Field })
}
