package handler

import (
	"radio-go/internal/dto"
	"radio-go/internal/service"
	"radio-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ShowHandler 节目处理器
type ShowHandler struct {
	showService *service.ShowService
	logger      logrus.FieldLogger
}

// NewShowHandler 创建节目处理器
func NewShowHandler(showService *service.ShowService, logger logrus.FieldLogger) *ShowHandler {
	return &ShowHandler{
		showService: showService,
		logger:      logger,
	}
}

// ListShows 获取节目列表
// @Summary 获取节目列表
// @Tags 节目
// @Produce json
// @Success 200 {array} models.Show
// @Router /api/shows [get]
func (h *ShowHandler) ListShows(c *gin.Context) {
	shows, err := h.showService.ListShows(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, shows)
}

// GetShow 获取单个节目
func (h *ShowHandler) GetShow(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	show, err := h.showService.GetShow(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, show)
}

// ListShowSchedule 获取节目的全部排期
func (h *ShowHandler) ListShowSchedule(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	items, err := h.showService.ListShowSchedule(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, items)
}

// CreateShow 创建节目
// @Summary 创建节目
// @Tags 节目
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateShowRequest true "节目信息"
// @Success 201 {object} models.Show
// @Router /api/shows [post]
func (h *ShowHandler) CreateShow(c *gin.Context) {
	var req dto.CreateShowRequest
	if !bindJSON(c, &req) {
		return
	}

	show, err := h.showService.CreateShow(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.Created(c, show)
}

// UpdateShow 稀疏更新节目
func (h *ShowHandler) UpdateShow(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, ok := bindPatch(c)
	if !ok {
		return
	}

	show, err := h.showService.UpdateShow(c.Request.Context(), id, p)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, show)
}

// DeleteShow 删除节目，同时删除其排期
func (h *ShowHandler) DeleteShow(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.showService.DeleteShow(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.NoContent(c)
}
