package dto

import "radio-go/internal/models"

// CreateShowRequest 创建节目请求
type CreateShowRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl" binding:"omitempty,max=500"`
	CreatedBy   uint    `json:"createdBy" binding:"required"`
}

// CreateScheduleItemRequest 创建排期请求
// DayOfWeek 用指针区分缺省和周日(0)
type CreateScheduleItemRequest struct {
	ShowID      uint            `json:"showId" binding:"required"`
	DayOfWeek   *models.Weekday `json:"dayOfWeek" binding:"required"`
	StartTime   string          `json:"startTime" binding:"required,clock"`
	EndTime     string          `json:"endTime" binding:"required,clock"`
	HostID      *uint           `json:"hostId"`
	IsRecurring *bool           `json:"isRecurring"`
}
