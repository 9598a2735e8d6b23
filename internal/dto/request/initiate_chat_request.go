package request

// InitiateChatRequest 雇主直接联系求职者（不关联职位）
type InitiateChatRequest struct {
	RecipientId uint   `json:"recipient_id" binding:"required"`
	Message     string `json:"message" binding:"max=5000"`
}
