package service

import (
	"errors"
	"fmt"

	"radio-go/internal/patch"
	"radio-go/internal/repository"
)

var (
	// ErrNotFound 目标实体不存在
	ErrNotFound = errors.New("资源不存在")
	// ErrInvalidCredentials 登录失败，不区分用户不存在和密码错误
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	// ErrDuplicateUsername 用户名已存在
	ErrDuplicateUsername = errors.New("用户名已存在")
	// ErrValidation 参数校验失败
	ErrValidation = errors.New("参数校验失败")
	// ErrTooManyAttempts 登录尝试过多
	ErrTooManyAttempts = errors.New("登录尝试过多，请稍后再试")
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// patchError 把补丁字段错误归类为校验失败
func patchError(err error) error {
	var fe *patch.FieldError
	if errors.As(err, &fe) {
		return fmt.Errorf("%w: %s", ErrValidation, fe.Error())
	}
	return err
}

// storeError 把仓储层错误映射为服务层错误
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrDuplicateUsername
	default:
		return err
	}
}
