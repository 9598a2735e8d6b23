// Package model 定义数据库实体模型
// 本文件定义简历模型
package model

import "gorm.io/gorm"

// Resume 求职者简历
// 对应数据库 resume 表
type Resume struct {
	gorm.Model

	// UserId 简历所有者
	UserId uint `gorm:"column:user_id;index;not null;comment:所有者用户id"`

	Title               string `gorm:"column:title;type:varchar(200);not null;comment:简历标题"`
	DesiredPosition     string `gorm:"column:desired_position;type:varchar(200);comment:期望职位"`
	ProfessionalSummary string `gorm:"column:professional_summary;type:text;comment:职业概述"`

	// Skills 技能列表，以 JSON 数组存储
	Skills []string `gorm:"column:skills;type:text;serializer:json;comment:技能"`

	// SalaryExpectation 期望薪资，为空表示面议
	SalaryExpectation *int `gorm:"column:salary_expectation;comment:期望薪资"`

	PreferredEmployment string `gorm:"column:preferred_employment;type:varchar(50);comment:期望工作类型"`
	IsActive            bool   `gorm:"column:is_active;not null;comment:是否有效"`
}

// TableName 指定表名
func (Resume) TableName() string {
	return "resume"
}
