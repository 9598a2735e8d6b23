package request

// ApplyRequest 投递职位请求
// 使用位置:
//   - internal/handler/contact_handler.go: Apply
type ApplyRequest struct {
	JobId       uint   `json:"job_id" binding:"required"`
	ResumeId    *uint  `json:"resume_id"`
	CoverLetter string `json:"cover_letter" binding:"max=5000"`
	Message     string `json:"message" binding:"max=5000"` // 问候语，为空时使用默认文案
	Force       bool   `json:"force"`                      // 已投递过时是否替换旧申请
}
