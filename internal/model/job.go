// Package model 定义数据库实体模型
// 本文件定义职位模型；职位由雇主在外部系统发布，会话和消息只引用它
package model

import "gorm.io/gorm"

// Job 职位模型
// 对应数据库 job 表
type Job struct {
	gorm.Model

	Title string `gorm:"column:title;type:varchar(200);not null;comment:职位名称"`

	// CompanyId 发布该职位的雇主用户 ID
	CompanyId uint `gorm:"column:company_id;index;not null;comment:雇主用户id"`

	Location string `gorm:"column:location;type:varchar(200);comment:工作地点"`

	// IsActive 是否仍在招聘，下架的职位不能投递也不能发起沟通
	IsActive bool `gorm:"column:is_active;not null;comment:是否有效"`
}

// TableName 指定表名
func (Job) TableName() string {
	return "job"
}
