package dto

import (
	"time"

	"radio-go/internal/models"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string   `json:"token"`
	TokenType string   `json:"tokenType"`
	User      UserInfo `json:"user"`
}

// UserInfo 用户信息，不包含任何密码字段
type UserInfo struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	FullName  *string   `json:"fullName"`
	Email     *string   `json:"email"`
	Roles     []string  `json:"roles"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserInfo 从用户模型构造响应
func NewUserInfo(u *models.User) UserInfo {
	roles := []string(u.Roles)
	if roles == nil {
		roles = []string{}
	}
	return UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		Roles:     roles,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// NewUserInfoList 批量构造用户响应
func NewUserInfoList(users []models.User) []UserInfo {
	out := make([]UserInfo, len(users))
	for i := range users {
		out[i] = NewUserInfo(&users[i])
	}
	return out
}
