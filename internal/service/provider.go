// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"time"

	"job_chat_server/internal/dao/mysql/repository"
	myredis "job_chat_server/internal/dao/redis"
	"job_chat_server/internal/gateway/hub"
	"job_chat_server/internal/service/contact"
	"job_chat_server/internal/service/conversation"
	"job_chat_server/internal/service/message"
	"job_chat_server/internal/service/user"
)

// Services 聚合所有 Service 实例
type Services struct {
	User         UserService
	Conversation ConversationService
	Message      MessageService
	Contact      ContactService
}

// NewServices 创建并注入所有 Service 实例
// 依赖注入流程：
//  1. 会话目录依赖 Repository 与 key 缓存
//  2. 消息存储依赖会话目录做参与者校验，依赖分组广播
//  3. 编排服务直接在自己的事务中复用目录与存储的事务内操作
func NewServices(repos *repository.Repositories, cache myredis.AsyncCacheService, h hub.GroupHub, keyTTL time.Duration) *Services {
	conversationSvc := conversation.NewConversationService(repos, cache, keyTTL)
	return &Services{
		User:         user.NewUserService(repos, cache),
		Conversation: conversationSvc,
		Message:      message.NewMessageService(repos, conversationSvc, h),
		Contact:      contact.NewContactService(repos, h),
	}
}
