package models

import (
	"time"
)

// User 用户模型
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FullName     *string   `gorm:"size:100" json:"fullName"`
	Email        *string   `gorm:"size:255" json:"email"`
	Roles        Roles     `gorm:"type:text;not null" json:"roles"`
	IsActive     bool      `gorm:"not null" json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
