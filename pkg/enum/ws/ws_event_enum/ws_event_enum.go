// Package ws_event_enum 定义实时通道中帧的 type 字段取值
package ws_event_enum

// 客户端上行
const (
	ChatMessage = "chat_message"
	MarkRead    = "mark_read"
	Heartbeat   = "heartbeat"
)

// 服务端下行
const (
	ConnectionEstablished = "connection_established"
	MessagesRead          = "messages_read"
	HeartbeatResponse     = "heartbeat_response"
	Error                 = "error"
	NewConversation       = "new_conversation"
	NewApplication        = "new_application"
)
