package middleware

import (
	"github.com/couplewatch/couplewatch/internal/model"
	"github.com/couplewatch/couplewatch/internal/service"
	"github.com/couplewatch/couplewatch/internal/utils"
	"github.com/gin-gonic/gin"
)

// contextUserKey 上下文中当前用户的键
const contextUserKey = "current_user"

// RequireSession 必须登录中间件
// 从 cookie 会话恢复当前用户，恢复失败或未登录返回 401
func RequireSession(users service.UserDirectory, revalidate bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		holder := service.NewSessionHolder(users, NewCookieSnapshot(c), revalidate)
		user, err := holder.Restore(c.Request.Context())
		if err != nil {
			utils.Log.WithError(err).Error("[Auth] 恢复会话失败")
			utils.InternalServerError(c, "failed to restore session")
			c.Abort()
			return
		}
		if user == nil {
			utils.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// CurrentUser 从上下文获取当前用户（未登录返回 nil）
func CurrentUser(c *gin.Context) *model.User {
	if v, exists := c.Get(contextUserKey); exists {
		if u, ok := v.(*model.User); ok {
			return u
		}
	}
	return nil
}
