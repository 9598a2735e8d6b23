package request

// ConversationQueryRequest 按会话标识查询
// conversation_id 可以是数字主键，也可以是会话规范 key
type ConversationQueryRequest struct {
	ConversationId string `form:"conversation_id" json:"conversation_id" binding:"required"`
}
