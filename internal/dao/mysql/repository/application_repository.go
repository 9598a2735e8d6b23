package repository

import (
	"context"

	"job_chat_server/internal/model"

	"gorm.io/gorm"
)

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository 创建 ApplicationRepository 实例
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) FindByJobAndApplicant(ctx context.Context, jobId, applicantId uint) (*model.JobApplication, error) {
	var application model.JobApplication
	err := r.db.WithContext(ctx).
		Where("job_id = ? AND applicant_id = ?", jobId, applicantId).
		First(&application).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询申请 job_id=%d applicant_id=%d", jobId, applicantId)
	}
	return &application, nil
}

func (r *applicationRepository) Create(ctx context.Context, application *model.JobApplication) error {
	if err := r.db.WithContext(ctx).Create(application).Error; err != nil {
		return wrapDBError(err, "创建申请")
	}
	return nil
}

func (r *applicationRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.JobApplication{}, id).Error; err != nil {
		return wrapDBErrorf(err, "删除申请 id=%d", id)
	}
	return nil
}
