// Package handler 提供 HTTP 请求处理器
// 本文件处理消息相关的 API 请求
package handler

import (
	"job_chat_server/internal/dto/request"
	"job_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// MessageHandler 消息请求处理器
type MessageHandler struct {
	messageSvc service.MessageService
}

// NewMessageHandler 创建处理器实例
func NewMessageHandler(messageSvc service.MessageService) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc}
}

// List 查看会话消息，发给自己的消息同时标为已读
// GET /message/list?conversation_id=xxx
// 响应: []respond.MessageRespond
func (h *MessageHandler) List(c *gin.Context) {
	userId, ok := currentUserID(c)
	if !ok {
		return
	}
	var req request.ConversationQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.messageSvc.ViewAndMarkRead(c.Request.Context(), userId, req.ConversationId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Send 发送消息
// POST /message/send
// 请求体: request.SendMessageRequest
func (h *MessageHandler) Send(c *gin.Context) {
	userId, ok := currentUserID(c)
	if !ok {
		return
	}
	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.messageSvc.Send(c.Request.Context(), userId, req.ConversationId, req.Message)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// MarkRead 标记已读
// POST /message/markRead
// 请求体: request.ConversationQueryRequest
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userId, ok := currentUserID(c)
	if !ok {
		return
	}
	var req request.ConversationQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.messageSvc.MarkReadByIdentifier(c.Request.Context(), userId, req.ConversationId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
