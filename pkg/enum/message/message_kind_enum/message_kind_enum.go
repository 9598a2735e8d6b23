package message_kind_enum

const (
	Text          = "text"           // 普通文本
	ResumeSummary = "resume_summary" // 简历摘要，content 为 JSON 文本
)
