package middleware

import (
	"strings"

	"job_chat_server/pkg/errorx"
	"job_chat_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// 上下文中的键
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// JWTAuth JWT 认证中间件
// 验证 Access Token 并将用户信息存入上下文
// 令牌中的角色只作参考，业务层会以数据库中的角色为准
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 从 Header 获取 Token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "请先登录")
			return
		}

		// 2. 解析 Bearer Token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Token 格式错误，请使用 Bearer Token")
			return
		}

		// 3. 验证 Token，必须是 Access Token
		claims, err := jwt.ParseAccessToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "Token 已过期或无效，请重新登录")
			return
		}

		// 4. 将用户信息存入上下文，供后续 Handler 使用
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// CurrentUserID 读取 JWTAuth 写入的用户 ID
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(errorx.HTTPStatus(errorx.CodeUnauthorized), gin.H{
		"code": errorx.CodeUnauthorized,
		"msg":  msg,
		"data": nil,
	})
}
