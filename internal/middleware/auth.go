package middleware

import (
	"context"
	"errors"
	"strings"

	"radio-go/internal/models"
	"radio-go/internal/service"
	"radio-go/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	contextUserID   = "user_id"
	contextUsername = "username"
	contextRoles    = "roles"
)

// UserResolver 按ID加载当前用户，用户已删除或停用时返回 service.ErrInvalidCredentials
type UserResolver interface {
	ResolveUser(ctx context.Context, userID uint) (*models.User, error)
}

// AuthMiddleware JWT认证中间件
// Token只用于识别用户，用户状态和角色每次请求都从数据库读取
func AuthMiddleware(jwtManager *utils.JWTManager, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 获取Token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "未认证")
			c.Abort()
			return
		}

		// 解析Bearer Token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			utils.Unauthorized(c, "无效的认证格式")
			c.Abort()
			return
		}

		// 验证Token
		claims, err := jwtManager.ValidateToken(parts[1])
		if err != nil {
			utils.Unauthorized(c, "Token无效或已过期")
			c.Abort()
			return
		}

		user, err := users.ResolveUser(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				utils.Unauthorized(c, "用户不存在或已停用")
			} else {
				_ = c.Error(err)
				utils.InternalError(c, "服务器内部错误")
			}
			c.Abort()
			return
		}

		// 将用户信息存入上下文
		c.Set(contextUserID, user.ID)
		c.Set(contextUsername, user.Username)
		c.Set(contextRoles, user.Roles)

		c.Next()
	}
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(contextUserID)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUsername 从上下文获取用户名
func GetUsername(c *gin.Context) (string, bool) {
	username, exists := c.Get(contextUsername)
	if !exists {
		return "", false
	}
	name, ok := username.(string)
	return name, ok
}

// GetRoles 从上下文获取角色
func GetRoles(c *gin.Context) models.Roles {
	roles, exists := c.Get(contextRoles)
	if !exists {
		return nil
	}
	r, _ := roles.(models.Roles)
	return r
}
