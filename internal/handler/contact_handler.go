// Package handler 提供 HTTP 请求处理器
// 本文件处理投递职位与首次联系相关的 API 请求
package handler

import (
	"job_chat_server/internal/dto/request"
	"job_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// ContactHandler 首次联系请求处理器
type ContactHandler struct {
	contactSvc service.ContactService
}

// NewContactHandler 创建处理器实例
func NewContactHandler(contactSvc service.ContactService) *ContactHandler {
	return &ContactHandler{contactSvc: contactSvc}
}

// Apply 投递职位
// POST /job/apply
// 请求体: request.ApplyRequest
// 响应: respond.ApplyRespond
func (h *ContactHandler) Apply(c *gin.Context) {
	userId, ok := currentUserID(c)
	if !ok {
		return
	}
	var req request.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.contactSvc.Apply(c.Request.Context(), userId, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// StartChat 求职者就职位发起沟通
// POST /job/startChat
// 请求体: request.StartChatRequest
// 响应: respond.ChatOpenedRespond
func (h *ContactHandler) StartChat(c *gin.Context) {
	userId, ok := currentUserID(c)
	if !ok {
		return
	}
	var req request.StartChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.contactSvc.StartChat(c.Request.Context(), userId, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// InitiateChat 雇主直接联系求职者
// POST /conversation/initiateChat
func (h *ContactHandler) InitiateChat(c *gin.Context) {
	userId, ok := currentUserID(c)
	if !ok {
		return
	}
	var req request.InitiateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.contactSvc.InitiateChat(c.Request.Context(), userId, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// CreateOrGet 打开与某用户的会话
// POST /conversation/createOrGet
func (h *ContactHandler) CreateOrGet(c *gin.Context) {
	userId, ok := currentUserID(c)
	if !ok {
		return
	}
	var req request.CreateOrGetConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.contactSvc.OpenConversation(c.Request.Context(), userId, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
