package middleware

import (
	"radio-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequireRoles 角色权限中间件，持有任一角色即可通过
// 必须挂在 AuthMiddleware 之后
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetRoles(c).HasAny(roles...) {
			utils.Forbidden(c, "权限不足")
			c.Abort()
			return
		}
		c.Next()
	}
}
