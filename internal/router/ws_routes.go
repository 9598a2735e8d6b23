// Package router 提供 HTTP 路由注册
// 本文件定义 WebSocket 相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes 注册 WebSocket 路由
// 请求示例: ws://host:port/ws/chat/3_7_42?token=xxx
func (rt *Router) RegisterWebSocketRoutes(rg *gin.RouterGroup) {
	wsGroup := rg.Group("/ws")
	{
		wsGroup.GET("/chat", rt.handlers.Ws.Connect)                  // 个人通知通道
		wsGroup.GET("/chat/:conversation_id", rt.handlers.Ws.Connect) // 会话通道
	}
}
