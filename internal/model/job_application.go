// Package model 定义数据库实体模型
// 本文件定义职位申请模型
package model

import "time"

// JobApplication 职位申请
// 对应数据库 job_application 表
// 同一求职者对同一职位只能有一条申请；强制重新投递时先物理删除旧记录
type JobApplication struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"column:created_at;comment:投递时间"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	JobId       uint `gorm:"column:job_id;uniqueIndex:idx_job_applicant;not null;comment:职位id"`
	ApplicantId uint `gorm:"column:applicant_id;uniqueIndex:idx_job_applicant;index;not null;comment:求职者id"`

	// ResumeId 附带的简历，可为空
	ResumeId *uint `gorm:"column:resume_id;comment:简历id"`

	CoverLetter string `gorm:"column:cover_letter;type:text;comment:求职信"`

	// Status 申请状态，参见 pkg/enum/application/application_status_enum
	Status string `gorm:"column:status;type:varchar(20);not null;comment:状态"`
}

// TableName 指定表名
func (JobApplication) TableName() string {
	return "job_application"
}
