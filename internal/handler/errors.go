package handler

import (
	"errors"
	"fmt"
	"strconv"

	"radio-go/internal/middleware"
	"radio-go/internal/patch"
	"radio-go/internal/service"
	"radio-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondError 把服务层错误映射为HTTP状态码
// 未分类的错误只记录日志，不向客户端暴露细节
func respondError(c *gin.Context, logger logrus.FieldLogger, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		utils.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrDuplicateUsername):
		utils.Conflict(c, err.Error())
	case errors.Is(err, service.ErrValidation):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrTooManyAttempts):
		utils.TooManyRequests(c, err.Error())
	default:
		logger.WithFields(logrus.Fields{
			"request_id": middleware.GetRequestID(c),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
		}).WithError(err).Error("请求处理失败")
		utils.InternalError(c, "服务器内部错误")
	}
}

// bindJSON 绑定并校验请求体，失败时直接返回400
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		utils.BadRequest(c, utils.FormatValidationError(err, "").Error())
		return false
	}
	return true
}

// bindPatch 读取补丁请求体
func bindPatch(c *gin.Context) (patch.Patch, bool) {
	body, err := c.GetRawData()
	if err != nil {
		utils.BadRequest(c, "读取请求体失败")
		return nil, false
	}
	p, err := patch.Decode(body)
	if err != nil {
		utils.BadRequest(c, fmt.Sprintf("请求体格式错误: %v", err))
		return nil, false
	}
	return p, true
}

// parseID 解析路径中的ID
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.BadRequest(c, fmt.Sprintf("无效的%s", name))
		return 0, false
	}
	return uint(id), true
}
