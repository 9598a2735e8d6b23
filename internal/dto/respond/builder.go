package respond

import (
	"job_chat_server/internal/model"
	"job_chat_server/pkg/constants"
	"job_chat_server/pkg/enum/ws/ws_event_enum"
)

// NewMessageRespond 由消息模型构造响应，key 为所属会话的规范 key
func NewMessageRespond(m *model.Message, key, senderName string) MessageRespond {
	return MessageRespond{
		Id:             m.ID,
		ConversationId: key,
		SenderId:       m.SenderId,
		SenderName:     senderName,
		RecipientId:    m.RecipientId,
		JobId:          m.JobId,
		Kind:           m.Kind,
		Message:        m.Content,
		IsRead:         m.IsRead,
		CreatedAt:      constants.FormatTime(m.CreatedAt),
	}
}

// NewChatMessageEvent 由消息模型构造 chat_message 广播事件
func NewChatMessageEvent(m *model.Message, key, senderName string) ChatMessageEvent {
	return ChatMessageEvent{
		Type:           ws_event_enum.ChatMessage,
		Message:        m.Content,
		Kind:           m.Kind,
		SenderId:       m.SenderId,
		SenderName:     senderName,
		MessageId:      m.ID,
		ConversationId: key,
		CreatedAt:      constants.FormatTime(m.CreatedAt),
	}
}

// NewParticipantRespond 用户 -> 参与者
func NewParticipantRespond(u *model.UserInfo) ParticipantRespond {
	return ParticipantRespond{
		Id:          u.ID,
		Name:        u.DisplayName(),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		CompanyName: u.CompanyName,
	}
}

// NewOtherUser 用户 -> new_conversation 中的对方信息
func NewOtherUser(u *model.UserInfo) OtherUserRespond {
	return OtherUserRespond{
		Id:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Name:        u.DisplayName(),
		Role:        u.Role,
		CompanyName: u.CompanyName,
	}
}

// NewJobBrief 职位 -> 摘要，职位为空时返回 nil
func NewJobBrief(j *model.Job) *JobBriefRespond {
	if j == nil {
		return nil
	}
	return &JobBriefRespond{Id: j.ID, Title: j.Title}
}
