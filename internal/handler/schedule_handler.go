package handler

import (
	"radio-go/internal/dto"
	"radio-go/internal/models"
	"radio-go/internal/service"
	"radio-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ScheduleHandler 排期处理器
type ScheduleHandler struct {
	scheduleService *service.ScheduleService
	logger          logrus.FieldLogger
}

// NewScheduleHandler 创建排期处理器
func NewScheduleHandler(scheduleService *service.ScheduleService, logger logrus.FieldLogger) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
		logger:          logger,
	}
}

// ListSchedule 获取排期，支持 ?day= 按星期过滤
// @Summary 获取排期
// @Tags 排期
// @Produce json
// @Param day query string false "星期，0-6 或英文名"
// @Success 200 {array} models.ScheduleItem
// @Router /api/schedule [get]
func (h *ScheduleHandler) ListSchedule(c *gin.Context) {
	var day *models.Weekday
	if raw, ok := c.GetQuery("day"); ok {
		d, err := models.ParseWeekday(raw)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		day = &d
	}

	items, err := h.scheduleService.ListSchedule(c.Request.Context(), day)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, items)
}

// GetScheduleItem 获取单个排期
func (h *ScheduleHandler) GetScheduleItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	item, err := h.scheduleService.GetScheduleItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, item)
}

// CreateScheduleItem 创建排期
// @Summary 创建排期
// @Tags 排期
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateScheduleItemRequest true "排期信息"
// @Success 201 {object} models.ScheduleItem
// @Router /api/schedule [post]
func (h *ScheduleHandler) CreateScheduleItem(c *gin.Context) {
	var req dto.CreateScheduleItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.scheduleService.CreateScheduleItem(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.Created(c, item)
}

// UpdateScheduleItem 稀疏更新排期
func (h *ScheduleHandler) UpdateScheduleItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, ok := bindPatch(c)
	if !ok {
		return
	}

	item, err := h.scheduleService.UpdateScheduleItem(c.Request.Context(), id, p)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, item)
}

// DeleteScheduleItem 删除排期
func (h *ScheduleHandler) DeleteScheduleItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.scheduleService.DeleteScheduleItem(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.NoContent(c)
}
