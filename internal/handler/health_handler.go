package handler

import (
	"net/http"

	"radio-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Version 服务版本
const Version = "1.0.0"

// HealthHandler 健康检查处理器
type HealthHandler struct {
	db     *gorm.DB
	logger logrus.FieldLogger
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(db *gorm.DB, logger logrus.FieldLogger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// Info 服务信息
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "电台节目管理系统 API",
		"version": Version,
	})
}

// Healthz 检查数据库连接
func (h *HealthHandler) Healthz(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		h.logger.WithError(err).Error("数据库健康检查失败")
		utils.ServiceUnavailable(c, "数据库不可用")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
