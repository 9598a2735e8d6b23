package request

// SendMessageRequest 通过 HTTP 发送消息
type SendMessageRequest struct {
	ConversationId string `json:"conversation_id" binding:"required"`
	Message        string `json:"message" binding:"required,max=5000"`
}
