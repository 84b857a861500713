package models

import (
	"time"
)

// Show 节目模型
type Show struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	ImageURL    *string   `gorm:"size:500" json:"imageUrl"`
	CreatedBy   uint      `gorm:"not null;index" json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// 关联查询字段，只读
	CreatorName string `gorm:"->;-:migration" json:"creatorName"`
}

// TableName 指定表名
func (Show) TableName() string {
	return "shows"
}

// ScheduleItem 排期模型
type ScheduleItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	ShowID      uint      `gorm:"not null;index" json:"showId"`
	DayOfWeek   Weekday   `gorm:"not null" json:"dayOfWeek"`
	StartTime   string    `gorm:"size:5;not null" json:"startTime"`
	EndTime     string    `gorm:"size:5;not null" json:"endTime"`
	HostID      *uint     `gorm:"index" json:"hostId"`
	IsRecurring bool      `gorm:"not null" json:"isRecurring"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// 关联查询字段，只读
	ShowTitle string `gorm:"->;-:migration" json:"showTitle"`
	HostName  string `gorm:"->;-:migration" json:"hostName"`
}

// TableName 指定表名
func (ScheduleItem) TableName() string {
	return "schedule"
}
