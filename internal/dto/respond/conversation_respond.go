package respond

// ParticipantRespond 会话参与者
type ParticipantRespond struct {
	Id          uint   `json:"id"`
	Name        string `json:"name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Role        string `json:"role"`
	CompanyName string `json:"company_name,omitempty"`
}

// JobBriefRespond 职位摘要
type JobBriefRespond struct {
	Id    uint   `json:"id"`
	Title string `json:"title"`
}

// ConversationRespond 会话详情 / 会话列表项
// 使用位置:
//   - internal/service/conversation/service.go: ListForParticipant, GetConversation
type ConversationRespond struct {
	Id              uint                 `json:"id"`
	ConversationId  string               `json:"conversation_id"` // 规范 key
	Participants    []ParticipantRespond `json:"participants"`
	OtherUser       *ParticipantRespond  `json:"other_user"`
	Job             *JobBriefRespond     `json:"job"`
	LastMessage     *MessageRespond      `json:"last_message"`
	LastMessageTime string               `json:"last_message_time"`
	UnreadCount     int64                `json:"unread_count"`
	CreatedAt       string               `json:"created_at"`
}
