package respond

// ApplyRespond 投递结果
type ApplyRespond struct {
	ApplicationId  uint   `json:"application_id"`
	ConversationPk uint   `json:"conversation_pk"`
	ConversationId string `json:"conversation_id"`
	Created        bool   `json:"created"`
	MessageIds     []uint `json:"message_ids"`
	ResumeAttached bool   `json:"resume_attached"`
}

// ChatOpenedRespond 发起沟通 / 打开会话的结果
type ChatOpenedRespond struct {
	ConversationPk uint   `json:"conversation_pk"`
	ConversationId string `json:"conversation_id"`
	Created        bool   `json:"created"`
	MessageIds     []uint `json:"message_ids"`
	ResumeAttached bool   `json:"resume_attached"`
}
