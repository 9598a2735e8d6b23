package request

// CreateOrGetConversationRequest 打开与某用户的会话，不存在时创建
type CreateOrGetConversationRequest struct {
	UserId uint  `json:"user_id" binding:"required"`
	JobId  *uint `json:"job_id"`
}
