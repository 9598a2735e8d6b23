// Package router 提供 HTTP 路由注册
// 本文件定义会话相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterConversationRoutes 注册会话相关路由（需要认证）
func (rt *Router) RegisterConversationRoutes(rg *gin.RouterGroup) {
	conversationGroup := rg.Group("/conversation")
	{
		conversationGroup.POST("/initiateChat", rt.handlers.Contact.InitiateChat)   // 雇主联系求职者
		conversationGroup.POST("/createOrGet", rt.handlers.Contact.CreateOrGet)     // 打开或创建会话
		conversationGroup.GET("/list", rt.handlers.Conversation.List)               // 会话列表
		conversationGroup.GET("/get", rt.handlers.Conversation.Get)                 // 会话详情
		conversationGroup.GET("/unreadCount", rt.handlers.Conversation.UnreadCount) // 未读统计
	}
}
