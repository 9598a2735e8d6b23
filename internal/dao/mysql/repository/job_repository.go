package repository

import (
	"context"

	"job_chat_server/internal/model"

	"gorm.io/gorm"
)

type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository 创建 JobRepository 实例
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) FindById(ctx context.Context, id uint) (*model.Job, error) {
	var job model.Job
	if err := r.db.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询职位 id=%d", id)
	}
	return &job, nil
}

func (r *jobRepository) FindByIds(ctx context.Context, ids []uint) ([]model.Job, error) {
	var jobs []model.Job
	if len(ids) == 0 {
		return jobs, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&jobs).Error; err != nil {
		return nil, wrapDBError(err, "批量查询职位")
	}
	return jobs, nil
}
