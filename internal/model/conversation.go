// Package model 定义数据库实体模型
// 本文件定义会话及其参与者
package model

import "time"

// Conversation 会话模型
// 对应数据库 conversation 表
// 一对参与者在同一职位（或无职位）下最多只有一个会话，由 conversation_key 唯一索引保证
type Conversation struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"column:created_at;index;comment:创建时间"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	// ConversationKey 规范 key：{小ID}_{大ID}_{jobID|none}
	// 既是实时分组名的来源，也是客户端可见的会话标识
	ConversationKey string `gorm:"column:conversation_key;uniqueIndex;type:varchar(100);not null;comment:会话规范key"`

	// JobId 关联职位，为空表示雇主直接发起的沟通
	JobId *uint `gorm:"column:job_id;index;comment:职位id"`

	// LastMessageAt 最后一条消息时间，用于会话列表排序
	// 与消息插入在同一事务中更新
	LastMessageAt time.Time `gorm:"column:last_message_at;index;comment:最后消息时间"`

	Participants []ConversationParticipant `gorm:"foreignKey:ConversationId"`
}

// TableName 指定表名
func (Conversation) TableName() string {
	return "conversation"
}

// HasParticipant 判断用户是否为会话参与者
func (c *Conversation) HasParticipant(userId uint) bool {
	for _, p := range c.Participants {
		if p.UserId == userId {
			return true
		}
	}
	return false
}

// OtherParticipant 返回除 userId 外的另一位参与者，不存在时返回 false
func (c *Conversation) OtherParticipant(userId uint) (uint, bool) {
	for _, p := range c.Participants {
		if p.UserId != userId {
			return p.UserId, true
		}
	}
	return 0, false
}

// ConversationParticipant 会话参与者
// 对应数据库 conversation_participant 表，(conversation_id, user_id) 为联合主键
type ConversationParticipant struct {
	ConversationId uint      `gorm:"column:conversation_id;primaryKey;comment:会话id"`
	UserId         uint      `gorm:"column:user_id;primaryKey;index;comment:用户id"`
	JoinedAt       time.Time `gorm:"column:joined_at;comment:加入时间"`
}

// TableName 指定表名
func (ConversationParticipant) TableName() string {
	return "conversation_participant"
}
