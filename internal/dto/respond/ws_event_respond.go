package respond

// 实时通道下行事件
// 使用位置:
//   - internal/gateway/websocket: 连接内直接回复
//   - internal/service/contact, internal/service/message: 分组广播

// ConnectionEstablishedEvent 连接建立
type ConnectionEstablishedEvent struct {
	Type           string `json:"type"`
	Message        string `json:"message"`
	UserId         uint   `json:"user_id"`
	ConversationId string `json:"conversation_id,omitempty"`
	Timestamp      string `json:"timestamp"`
}

// ChatMessageEvent 新消息
type ChatMessageEvent struct {
	Type           string `json:"type"`
	Message        string `json:"message"`
	Kind           string `json:"kind"`
	SenderId       uint   `json:"sender_id"`
	SenderName     string `json:"sender_name"`
	MessageId      uint   `json:"message_id"`
	ConversationId string `json:"conversation_id"`
	CreatedAt      string `json:"created_at"`
}

// MessagesReadEvent 某参与者已读
type MessagesReadEvent struct {
	Type       string `json:"type"`
	ReaderId   uint   `json:"reader_id"`
	MarkedRead int64  `json:"marked_read"`
}

// HeartbeatResponseEvent 心跳回复
type HeartbeatResponseEvent struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

// ErrorEvent 错误，只回复给出错的连接
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// OtherUserRespond new_conversation 中的对方信息
type OtherUserRespond struct {
	Id          uint   `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	CompanyName string `json:"company_name,omitempty"`
}

// NewConversationEvent 会话列表需要刷新
type NewConversationEvent struct {
	Type           string           `json:"type"`
	ConversationId string           `json:"conversation_id"`
	OtherUser      OtherUserRespond `json:"other_user"`
	Job            *JobBriefRespond `json:"job"`
	InitialMessage string           `json:"initial_message,omitempty"`
	Timestamp      string           `json:"timestamp"`
}

// ApplicantRespond new_application 中的求职者信息
type ApplicantRespond struct {
	Id        uint   `json:"id"`
	Name      string `json:"name"`
	HasResume bool   `json:"has_resume"`
}

// NewApplicationData new_application 的 data 字段
type NewApplicationData struct {
	ApplicationId  uint             `json:"application_id"`
	ConversationId string           `json:"conversation_id"`
	JobId          uint             `json:"job_id"`
	JobTitle       string           `json:"job_title"`
	Applicant      ApplicantRespond `json:"applicant"`
}

// NewApplicationEvent 雇主收到新申请
type NewApplicationEvent struct {
	Type      string             `json:"type"`
	Data      NewApplicationData `json:"data"`
	Timestamp string             `json:"timestamp"`
}
