// Package handler 提供 HTTP 请求处理器
// 本文件处理会话查询相关的 API 请求
package handler

import (
	"job_chat_server/internal/dto/request"
	"job_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// ConversationHandler 会话请求处理器
type ConversationHandler struct {
	conversationSvc service.ConversationService
	messageSvc      service.MessageService
}

// NewConversationHandler 创建处理器实例
func NewConversationHandler(conversationSvc service.ConversationService, messageSvc service.MessageService) *ConversationHandler {
	return &ConversationHandler{conversationSvc: conversationSvc, messageSvc: messageSvc}
}

// List 当前用户的会话列表
// GET /conversation/list
// 响应: []respond.ConversationRespond
func (h *ConversationHandler) List(c *gin.Context) {
	userId, ok := currentUserID(c)
	if !ok {
		return
	}
	data, err := h.conversationSvc.ListForParticipant(c.Request.Context(), userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Get 会话详情
// GET /conversation/get?conversation_id=xxx
// conversation_id 可以是主键或规范 key
func (h *ConversationHandler) Get(c *gin.Context) {
	userId, ok := currentUserID(c)
	if !ok {
		return
	}
	var req request.ConversationQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.conversationSvc.GetConversation(c.Request.Context(), userId, req.ConversationId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UnreadCount 未读统计
// GET /conversation/unreadCount[?conversation_id=xxx]
func (h *ConversationHandler) UnreadCount(c *gin.Context) {
	userId, ok := currentUserID(c)
	if !ok {
		return
	}
	data, err := h.messageSvc.UnreadSummary(c.Request.Context(), userId, c.Query("conversation_id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
