package user

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vishnuu5/vertxai--CreatorDashboard/pkg/token"
)

// RequireAuth 校验请求头中的Bearer令牌。
// 令牌有效且用户确实存在时，将用户UUID写入Gin上下文供后续handler读取；
// 否则以401终止请求。已注销的用户即使持有未过期的令牌也会被拒绝。
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "缺少Bearer令牌"})
			return
		}

		userUUID, err := token.Validate(strings.TrimPrefix(header, prefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "无效或已过期的令牌"})
			return
		}

		known, err := IsKnownUser(userUUID)
		if err != nil || !known {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "用户不存在"})
			return
		}

		c.Set(token.UserIDKey, userUUID)
		c.Next()
	}
}

// RequireAdmin 在RequireAuth之后使用，校验当前用户是否为管理员。
// 它需要回表读取角色字段，因此只挂在管理端路由上。
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := GetByUUID(c.GetString(token.UserIDKey))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "用户不存在"})
			return
		}
		if u.Role != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "需要管理员权限"})
			return
		}
		c.Next()
	}
}
