package request

// StartChatRequest 求职者就某个职位发起沟通
type StartChatRequest struct {
	JobId          uint   `json:"job_id" binding:"required"`
	InitialMessage string `json:"initial_message" binding:"max=5000"`
	ResumeId       *uint  `json:"resume_id"`
}
