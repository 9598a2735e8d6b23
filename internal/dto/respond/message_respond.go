package respond

// MessageRespond 消息
// 使用位置:
//   - internal/service/message/service.go: ViewAndMarkRead, Send
type MessageRespond struct {
	Id             uint   `json:"id"`
	ConversationId string `json:"conversation_id"`
	SenderId       uint   `json:"sender_id"`
	SenderName     string `json:"sender_name"`
	RecipientId    uint   `json:"recipient_id"`
	JobId          *uint  `json:"job_id"`
	Kind           string `json:"kind"`
	Message        string `json:"message"`
	IsRead         bool   `json:"is_read"`
	CreatedAt      string `json:"created_at"`
}

// MarkReadRespond 标记已读结果
type MarkReadRespond struct {
	MarkedRead int64 `json:"marked_read"`
}

// UnreadCountRespond 未读统计
type UnreadCountRespond struct {
	UnreadMessages      int64 `json:"unread_messages"`
	UnreadConversations int64 `json:"unread_count"`
}
