// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层和实时网关调用
package service

import (
	"context"

	"job_chat_server/internal/dto/request"
	"job_chat_server/internal/dto/respond"
	"job_chat_server/internal/model"
)

// ConversationService 会话目录
type ConversationService interface {
	// ResolveOrCreate 查找或创建两人之间（可选职位）的会话，返回是否新建
	ResolveOrCreate(ctx context.Context, a, b uint, jobID *uint) (*model.Conversation, bool, error)
	// Lookup 按标识查找会话：纯数字按主键，否则按规范 key；非参与者返回 Forbidden
	Lookup(ctx context.Context, userID uint, identifier string) (*model.Conversation, error)
	// LookupByKey 按规范 key 查找会话
	LookupByKey(ctx context.Context, userID uint, key string) (*model.Conversation, error)
	// ListForParticipant 用户的会话列表
	ListForParticipant(ctx context.Context, userID uint) ([]respond.ConversationRespond, error)
	// GetConversation 会话详情
	GetConversation(ctx context.Context, userID uint, identifier string) (*respond.ConversationRespond, error)
}

// MessageService 消息存储
type MessageService interface {
	// Append 追加文本消息，并更新会话最后消息时间
	Append(ctx context.Context, conversationID, senderID uint, body string) (*model.Message, error)
	// Send 追加消息并广播到会话分组
	Send(ctx context.Context, senderID uint, identifier, body string) (*respond.MessageRespond, error)
	// ViewAndMarkRead 查看会话消息，同时把发给自己的消息标为已读
	ViewAndMarkRead(ctx context.Context, userID uint, identifier string) ([]respond.MessageRespond, error)
	// MarkRead 标记已读，返回更新条数
	MarkRead(ctx context.Context, conversationID, readerID uint) (int64, error)
	// MarkReadByIdentifier 按会话标识标记已读
	MarkReadByIdentifier(ctx context.Context, userID uint, identifier string) (*respond.MarkReadRespond, error)
	// UnreadCount 未读消息数，conversationID 为空时统计全部
	UnreadCount(ctx context.Context, userID uint, conversationID *uint) (int64, error)
	// UnreadConversationCount 有未读消息的会话数
	UnreadConversationCount(ctx context.Context, userID uint) (int64, error)
	// UnreadSummary 未读统计
	UnreadSummary(ctx context.Context, userID uint, identifier string) (*respond.UnreadCountRespond, error)
}

// ContactService 首次联系编排
type ContactService interface {
	// Apply 求职者投递职位
	Apply(ctx context.Context, callerID uint, req request.ApplyRequest) (*respond.ApplyRespond, error)
	// StartChat 求职者就职位发起沟通
	StartChat(ctx context.Context, callerID uint, req request.StartChatRequest) (*respond.ChatOpenedRespond, error)
	// InitiateChat 雇主直接联系求职者
	InitiateChat(ctx context.Context, callerID uint, req request.InitiateChatRequest) (*respond.ChatOpenedRespond, error)
	// OpenConversation 打开或创建会话，不写消息
	OpenConversation(ctx context.Context, callerID uint, req request.CreateOrGetConversationRequest) (*respond.ChatOpenedRespond, error)
}

// UserService 当前用户查询
type UserService interface {
	// Current 以数据库为准返回当前用户，不存在时返回 Unauthorized
	Current(ctx context.Context, userID uint) (*model.UserInfo, error)
}
