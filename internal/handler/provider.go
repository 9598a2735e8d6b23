// Package handler 提供 HTTP 请求处理器
// 本文件定义 Handler 聚合结构和构造函数
// 遵循依赖倒置原则，通过构造函数注入 Service 依赖
package handler

import (
	wsgateway "job_chat_server/internal/gateway/websocket"
	"job_chat_server/internal/infrastructure/middleware"
	"job_chat_server/internal/service"
	"job_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// Handlers 聚合所有 Handler 实例
// 作为依赖注入的入口，Router 层通过此结构访问各个 Handler
type Handlers struct {
	Contact      *ContactHandler
	Conversation *ConversationHandler
	Message      *MessageHandler
	Ws           *WsHandler
}

// NewHandlers 创建并注入所有 Handler 实例
func NewHandlers(svc *service.Services, gateway *wsgateway.Gateway) *Handlers {
	return &Handlers{
		Contact:      NewContactHandler(svc.Contact),
		Conversation: NewConversationHandler(svc.Conversation, svc.Message),
		Message:      NewMessageHandler(svc.Message),
		Ws:           NewWsHandler(gateway),
	}
}

// currentUserID 取不到用户时直接写 401 响应
func currentUserID(c *gin.Context) (uint, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		HandleError(c, errorx.ErrUnauthorized)
	}
	return id, ok
}
