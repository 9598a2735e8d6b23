// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"net/http"

	"job_chat_server/internal/handler"
	"job_chat_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router 持有所有 Handler，按模块注册路由
type Router struct {
	handlers *handler.Handlers
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes 注册所有路由
// 在 https_server.Init() 中调用
// WebSocket 握手自己校验查询参数中的 token，不走 JWT 中间件
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rt.RegisterWebSocketRoutes(r.Group(""))

	authed := r.Group("")
	authed.Use(middleware.JWTAuth())
	rt.RegisterJobRoutes(authed)          // 投递与发起沟通
	rt.RegisterConversationRoutes(authed) // 会话目录
	rt.RegisterMessageRoutes(authed)      // 消息
}
