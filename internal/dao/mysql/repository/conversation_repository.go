package repository

import (
	"context"
	"time"

	"job_chat_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository 创建 ConversationRepository 实例
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) FindById(ctx context.Context, id uint) (*model.Conversation, error) {
	var conversation model.Conversation
	if err := r.db.WithContext(ctx).Preload("Participants").First(&conversation, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询会话 id=%d", id)
	}
	return &conversation, nil
}

func (r *conversationRepository) FindByKey(ctx context.Context, key string, forUpdate bool) (*model.Conversation, error) {
	db := r.db.WithContext(ctx)
	if forUpdate {
		db = lockForUpdate(db)
	}
	var conversation model.Conversation
	if err := db.Preload("Participants").Where("conversation_key = ?", key).First(&conversation).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询会话 key=%s", key)
	}
	return &conversation, nil
}

// CreateIfAbsent 依赖 conversation_key 唯一索引，并发插入同一个 key 时只有一方成功
func (r *conversationRepository) CreateIfAbsent(ctx context.Context, conversation *model.Conversation) (bool, error) {
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "conversation_key"}},
			DoNothing: true,
		}).
		Create(conversation)
	if res.Error != nil {
		return false, wrapDBErrorf(res.Error, "创建会话 key=%s", conversation.ConversationKey)
	}
	return res.RowsAffected == 1, nil
}

func (r *conversationRepository) AddParticipants(ctx context.Context, conversationId uint, userIds ...uint) error {
	if len(userIds) == 0 {
		return nil
	}
	now := time.Now()
	participants := make([]model.ConversationParticipant, 0, len(userIds))
	for _, uid := range userIds {
		participants = append(participants, model.ConversationParticipant{
			ConversationId: conversationId,
			UserId:         uid,
			JoinedAt:       now,
		})
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&participants).Error
	if err != nil {
		return wrapDBErrorf(err, "添加会话参与者 conversation_id=%d", conversationId)
	}
	return nil
}

func (r *conversationRepository) FindByParticipant(ctx context.Context, userId uint) ([]model.Conversation, error) {
	joined := r.db.Model(&model.ConversationParticipant{}).
		Select("conversation_id").
		Where("user_id = ?", userId)

	var conversations []model.Conversation
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Where("id IN (?)", joined).
		Order("last_message_at DESC").
		Order("created_at DESC").
		Order("id DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询会话列表 user_id=%d", userId)
	}
	return conversations, nil
}

func (r *conversationRepository) TouchLastMessage(ctx context.Context, id uint, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"last_message_at": at, "updated_at": time.Now()}).Error
	if err != nil {
		return wrapDBErrorf(err, "更新会话最后消息时间 id=%d", id)
	}
	return nil
}
