package dto

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Username string   `json:"username" binding:"required,username"`
	Password string   `json:"password" binding:"required,max=72"`
	FullName *string  `json:"fullName" binding:"omitempty,max=100"`
	Email    *string  `json:"email" binding:"omitempty,email"`
	Roles    []string `json:"roles" binding:"omitempty,dive,role"`
	IsActive *bool    `json:"isActive"`
}
