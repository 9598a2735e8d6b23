// Package model 定义数据库实体模型
// 本文件定义消息模型
package model

import "time"

// Message 消息模型
// 对应数据库 message 表
// 消息只追加不删除，唯一会变化的字段是 is_read
type Message struct {
	ID uint `gorm:"primarykey"`

	// CreatedAt 创建时间，客户端排序的唯一依据
	CreatedAt time.Time `gorm:"column:created_at;index:idx_conversation_created,priority:2;comment:创建时间"`

	ConversationId uint `gorm:"column:conversation_id;index:idx_conversation_created,priority:1;not null;comment:会话id"`
	SenderId       uint `gorm:"column:sender_id;not null;comment:发送者id"`

	// RecipientId 发送时会话中的另一位参与者
	RecipientId uint `gorm:"column:recipient_id;index:idx_recipient_read,priority:1;not null;comment:接收者id"`

	// JobId 继承自会话
	JobId *uint `gorm:"column:job_id;comment:职位id"`

	// Kind 消息类型，参见 pkg/enum/message/message_kind_enum
	Kind string `gorm:"column:kind;type:varchar(20);not null;default:text;comment:消息类型"`

	Content string `gorm:"column:content;type:text;not null;comment:消息内容"`

	IsRead bool `gorm:"column:is_read;index:idx_recipient_read,priority:2;not null;comment:是否已读"`
}

// TableName 指定表名
func (Message) TableName() string {
	return "message"
}
