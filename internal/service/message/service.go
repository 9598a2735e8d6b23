// Package message 消息存储：追加消息、查看即已读、未读统计
package message

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"job_chat_server/internal/dao/mysql/repository"
	"job_chat_server/internal/dto/respond"
	"job_chat_server/internal/gateway/hub"
	"job_chat_server/internal/model"
	"job_chat_server/pkg/enum/message/message_kind_enum"
	"job_chat_server/pkg/enum/ws/ws_event_enum"
	"job_chat_server/pkg/errorx"
	"job_chat_server/pkg/util/convkey"
)

// Directory 按标识查找会话并校验参与者，由会话目录实现
type Directory interface {
	Lookup(ctx context.Context, userID uint, identifier string) (*model.Conversation, error)
}

// messageService 消息业务逻辑实现
type messageService struct {
	repos     *repository.Repositories
	directory Directory
	hub       hub.GroupHub
}

// NewMessageService 构造函数
func NewMessageService(repos *repository.Repositories, directory Directory, h hub.GroupHub) *messageService {
	return &messageService{repos: repos, directory: directory, hub: h}
}

// AppendTx 在调用方事务中追加一条消息，并在同一事务中更新会话的最后消息时间
// 接收方是会话中发送方以外的那位参与者
func AppendTx(ctx context.Context, txRepos *repository.Repositories, conversation *model.Conversation, senderID uint, kind, body string) (*model.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "消息内容不能为空")
	}
	if !conversation.HasParticipant(senderID) {
		return nil, errorx.New(errorx.CodeForbidden, "不是该会话的参与者")
	}
	recipientID, ok := conversation.OtherParticipant(senderID)
	if !ok {
		return nil, errorx.Newf(errorx.CodeNoRecipient, "会话 %s 中没有接收方", conversation.ConversationKey)
	}
	if kind == "" {
		kind = message_kind_enum.Text
	}

	now := time.Now()
	message := &model.Message{
		CreatedAt:      now,
		ConversationId: conversation.ID,
		SenderId:       senderID,
		RecipientId:    recipientID,
		JobId:          conversation.JobId,
		Kind:           kind,
		Content:        body,
	}
	if err := txRepos.Message.Create(ctx, message); err != nil {
		return nil, err
	}
	if err := txRepos.Conversation.TouchLastMessage(ctx, conversation.ID, now); err != nil {
		return nil, err
	}
	conversation.LastMessageAt = now
	return message, nil
}

// Append 追加一条文本消息
func (m *messageService) Append(ctx context.Context, conversationID, senderID uint, body string) (*model.Message, error) {
	var message *model.Message
	err := m.repos.Transaction(ctx, func(txRepos *repository.Repositories) error {
		conversation, err := txRepos.Conversation.FindById(ctx, conversationID)
		if err != nil {
			return err
		}
		message, err = AppendTx(ctx, txRepos, conversation, senderID, message_kind_enum.Text, body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return message, nil
}

// Send HTTP 发送消息：先落库，再向会话分组广播
// 广播失败只记日志，已保存的消息照常返回
func (m *messageService) Send(ctx context.Context, senderID uint, identifier, body string) (*respond.MessageRespond, error) {
	conversation, err := m.directory.Lookup(ctx, senderID, identifier)
	if err != nil {
		return nil, err
	}
	sender, err := m.repos.User.FindById(ctx, senderID)
	if err != nil {
		return nil, err
	}
	message, err := m.Append(ctx, conversation.ID, senderID, body)
	if err != nil {
		return nil, err
	}

	senderName := sender.DisplayName()
	hub.Notify(ctx, m.hub, convkey.ConversationGroup(conversation.ConversationKey),
		respond.NewChatMessageEvent(message, conversation.ConversationKey, senderName))

	rsp := respond.NewMessageRespond(message, conversation.ConversationKey, senderName)
	return &rsp, nil
}

// ViewAndMarkRead 返回会话全部消息（按创建时间升序），同时把发给 userID 的未读消息置为已读
// 查看即已读：调用方不需要也不应该再单独调用 MarkRead
func (m *messageService) ViewAndMarkRead(ctx context.Context, userID uint, identifier string) ([]respond.MessageRespond, error) {
	conversation, err := m.directory.Lookup(ctx, userID, identifier)
	if err != nil {
		return nil, err
	}

	names, err := m.participantNames(ctx, conversation)
	if err != nil {
		return nil, err
	}

	var (
		messages []model.Message
		marked   int64
	)
	err = m.repos.Transaction(ctx, func(txRepos *repository.Repositories) error {
		var err error
		if marked, err = txRepos.Message.MarkRead(ctx, conversation.ID, userID); err != nil {
			return err
		}
		messages, err = txRepos.Message.FindByConversation(ctx, conversation.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if marked > 0 {
		m.notifyRead(ctx, conversation, userID, marked)
	}

	rspList := make([]respond.MessageRespond, 0, len(messages))
	for i := range messages {
		rspList = append(rspList, respond.NewMessageRespond(&messages[i], conversation.ConversationKey, names[messages[i].SenderId]))
	}
	return rspList, nil
}

// MarkRead 把会话中发给 readerID 的未读消息置为已读，返回更新条数
func (m *messageService) MarkRead(ctx context.Context, conversationID, readerID uint) (int64, error) {
	conversation, err := m.repos.Conversation.FindById(ctx, conversationID)
	if err != nil {
		return 0, err
	}
	if !conversation.HasParticipant(readerID) {
		return 0, errorx.New(errorx.CodeForbidden, "不是该会话的参与者")
	}
	return m.repos.Message.MarkRead(ctx, conversationID, readerID)
}

// MarkReadByIdentifier 按会话标识标记已读，有消息被更新时通知会话分组
func (m *messageService) MarkReadByIdentifier(ctx context.Context, userID uint, identifier string) (*respond.MarkReadRespond, error) {
	conversation, err := m.directory.Lookup(ctx, userID, identifier)
	if err != nil {
		return nil, err
	}
	marked, err := m.repos.Message.MarkRead(ctx, conversation.ID, userID)
	if err != nil {
		return nil, err
	}
	if marked > 0 {
		m.notifyRead(ctx, conversation, userID, marked)
	}
	return &respond.MarkReadRespond{MarkedRead: marked}, nil
}

// UnreadCount 未读消息数，conversationID 为空时统计全部会话
func (m *messageService) UnreadCount(ctx context.Context, userID uint, conversationID *uint) (int64, error) {
	return m.repos.Message.CountUnread(ctx, userID, conversationID)
}

// UnreadConversationCount 有未读消息的会话数
func (m *messageService) UnreadConversationCount(ctx context.Context, userID uint) (int64, error) {
	return m.repos.Message.CountUnreadConversations(ctx, userID)
}

// UnreadSummary 未读统计；identifier 非空时未读消息数只统计该会话
func (m *messageService) UnreadSummary(ctx context.Context, userID uint, identifier string) (*respond.UnreadCountRespond, error) {
	var scope *uint
	if identifier != "" {
		conversation, err := m.directory.Lookup(ctx, userID, identifier)
		if err != nil {
			return nil, err
		}
		scope = &conversation.ID
	}
	messages, err := m.UnreadCount(ctx, userID, scope)
	if err != nil {
		return nil, err
	}
	conversations, err := m.UnreadConversationCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &respond.UnreadCountRespond{UnreadMessages: messages, UnreadConversations: conversations}, nil
}

func (m *messageService) notifyRead(ctx context.Context, conversation *model.Conversation, readerID uint, marked int64) {
	hub.Notify(ctx, m.hub, convkey.ConversationGroup(conversation.ConversationKey), respond.MessagesReadEvent{
		Type:       ws_event_enum.MessagesRead,
		ReaderId:   readerID,
		MarkedRead: marked,
	})
}

// participantNames 会话参与者 id -> 展示名
func (m *messageService) participantNames(ctx context.Context, conversation *model.Conversation) (map[uint]string, error) {
	ids := make([]uint, 0, len(conversation.Participants))
	for _, p := range conversation.Participants {
		ids = append(ids, p.UserId)
	}
	users, err := m.repos.User.FindByIds(ctx, ids)
	if err != nil {
		zap.L().Error("find participants error", zap.Uint("conversation_id", conversation.ID), zap.Error(err))
		return nil, err
	}
	names := make(map[uint]string, len(users))
	for i := range users {
		names[users[i].ID] = users[i].DisplayName()
	}
	return names, nil
}
