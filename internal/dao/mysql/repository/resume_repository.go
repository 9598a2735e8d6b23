package repository

import (
	"context"

	"job_chat_server/internal/model"

	"gorm.io/gorm"
)

type resumeRepository struct {
	db *gorm.DB
}

// NewResumeRepository 创建 ResumeRepository 实例
func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

// FindByIdAndOwner 简历不属于该用户时按不存在处理，不暴露他人简历是否存在
func (r *resumeRepository) FindByIdAndOwner(ctx context.Context, id, ownerId uint) (*model.Resume, error) {
	var resume model.Resume
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerId).First(&resume).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询简历 id=%d", id)
	}
	return &resume, nil
}
