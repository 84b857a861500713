package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"radio-go/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,50}$`)
	clockPattern    = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// InitValidator 初始化验证器
// 与 gin 的 binding 共用同一个实例，自定义标签在两处都可用
func InitValidator() {
	validateOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			validate = v
		} else {
			validate = validator.New()
		}

		// 错误信息使用JSON字段名
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		// 注册自定义验证函数
		_ = validate.RegisterValidation("username", validateUsername)
		_ = validate.RegisterValidation("clock", validateClock)
		_ = validate.RegisterValidation("role", validateRole)
	})
}

// GetValidator 获取验证器实例
func GetValidator() *validator.Validate {
	InitValidator()
	return validate
}

// validateUsername 验证用户名
func validateUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

// validateClock 验证 HH:MM 格式的时间
func validateClock(fl validator.FieldLevel) bool {
	return clockPattern.MatchString(fl.Field().String())
}

// validateRole 验证角色标签
func validateRole(fl validator.FieldLevel) bool {
	return models.IsKnownRole(strings.ToLower(strings.TrimSpace(fl.Field().String())))
}

// ValidateVar 按标签验证单个值，field 用于错误提示
func ValidateVar(field string, value interface{}, tag string) error {
	if err := GetValidator().Var(value, tag); err != nil {
		return FormatValidationError(err, field)
	}
	return nil
}

// FormatValidationError 格式化验证错误
// field 非空时覆盖错误中的字段名（Var 校验没有字段名）
func FormatValidationError(err error, field string) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	var messages []string
	for _, e := range validationErrors {
		name := field
		if name == "" {
			name = e.Field()
		}
		messages = append(messages, validationMessage(name, e.Tag(), e.Param()))
	}

	return errors.New(strings.Join(messages, "; "))
}

func validationMessage(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s是必填字段", field)
	case "min":
		return fmt.Sprintf("%s长度不能小于%s", field, param)
	case "max":
		return fmt.Sprintf("%s长度不能大于%s", field, param)
	case "email":
		return fmt.Sprintf("%s必须是有效的邮箱地址", field)
	case "url":
		return fmt.Sprintf("%s必须是有效的URL", field)
	case "username":
		return fmt.Sprintf("%s只能包含字母、数字、下划线、点和短横线，长度1-50", field)
	case "clock":
		return fmt.Sprintf("%s必须是HH:MM格式", field)
	case "role":
		return fmt.Sprintf("%s必须是 admin、moderator 或 user", field)
	default:
		return fmt.Sprintf("%s验证失败: %s", field, tag)
	}
}
