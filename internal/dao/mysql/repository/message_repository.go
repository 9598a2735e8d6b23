package repository

import (
	"context"

	"job_chat_server/internal/model"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建 MessageRepository 实例
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return wrapDBErrorf(err, "创建消息 conversation_id=%d", message.ConversationId)
	}
	return nil
}

// FindByConversation 同一毫秒内的消息按主键决定先后
func (r *messageRepository) FindByConversation(ctx context.Context, conversationId uint) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationId).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询会话消息 conversation_id=%d", conversationId)
	}
	return messages, nil
}

func (r *messageRepository) FindLatestByConversations(ctx context.Context, conversationIds []uint) (map[uint]model.Message, error) {
	latest := make(map[uint]model.Message, len(conversationIds))
	if len(conversationIds) == 0 {
		return latest, nil
	}
	lastIds := r.db.Model(&model.Message{}).
		Select("MAX(id)").
		Where("conversation_id IN ?", conversationIds).
		Group("conversation_id")

	var messages []model.Message
	if err := r.db.WithContext(ctx).Where("id IN (?)", lastIds).Find(&messages).Error; err != nil {
		return nil, wrapDBError(err, "查询会话最后一条消息")
	}
	for _, m := range messages {
		latest[m.ConversationId] = m
	}
	return latest, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, conversationId, recipientId uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("conversation_id = ? AND recipient_id = ? AND is_read = ?", conversationId, recipientId, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, wrapDBErrorf(res.Error, "标记已读 conversation_id=%d recipient_id=%d", conversationId, recipientId)
	}
	return res.RowsAffected, nil
}

func (r *messageRepository) CountUnread(ctx context.Context, recipientId uint, conversationId *uint) (int64, error) {
	var count int64
	db := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("recipient_id = ? AND is_read = ?", recipientId, false)
	if conversationId != nil {
		db = db.Where("conversation_id = ?", *conversationId)
	}
	if err := db.Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "统计未读消息 recipient_id=%d", recipientId)
	}
	return count, nil
}

func (r *messageRepository) CountUnreadByConversations(ctx context.Context, recipientId uint, conversationIds []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(conversationIds))
	if len(conversationIds) == 0 {
		return counts, nil
	}
	var rows []struct {
		ConversationId uint
		Cnt            int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Select("conversation_id, COUNT(*) AS cnt").
		Where("recipient_id = ? AND is_read = ?", recipientId, false).
		Where("conversation_id IN ?", conversationIds).
		Group("conversation_id").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "按会话统计未读消息 recipient_id=%d", recipientId)
	}
	for _, row := range rows {
		counts[row.ConversationId] = row.Cnt
	}
	return counts, nil
}

func (r *messageRepository) CountUnreadConversations(ctx context.Context, recipientId uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("recipient_id = ? AND is_read = ?", recipientId, false).
		Distinct("conversation_id").
		Count(&count).Error
	if err != nil {
		return 0, wrapDBErrorf(err, "统计未读会话 recipient_id=%d", recipientId)
	}
	return count, nil
}
