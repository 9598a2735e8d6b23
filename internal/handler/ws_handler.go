// Package handler 提供 HTTP 请求处理器
// 本文件处理 WebSocket 连接入口
package handler

import (
	wsgateway "job_chat_server/internal/gateway/websocket"

	"github.com/gin-gonic/gin"
)

// WsHandler WebSocket 连接处理器
// 令牌通过查询参数 token 传递，鉴权由网关自己完成
type WsHandler struct {
	gateway *wsgateway.Gateway
}

// NewWsHandler 创建处理器实例
func NewWsHandler(gateway *wsgateway.Gateway) *WsHandler {
	return &WsHandler{gateway: gateway}
}

// Connect 升级为 WebSocket 连接
// GET /ws/chat?token=xxx               个人通知通道
// GET /ws/chat/:conversation_id?token=xxx  会话通道
func (h *WsHandler) Connect(c *gin.Context) {
	h.gateway.Serve(c)
}
