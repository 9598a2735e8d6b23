// Package model 定义数据库实体模型
// 本文件定义用户信息模型；账号由外部系统维护，本服务只读引用
package model

import (
	"strings"

	"gorm.io/gorm"
)

// UserInfo 用户信息模型
// 对应数据库 user_info 表
type UserInfo struct {
	gorm.Model

	// Username 登录名
	Username string `gorm:"column:username;uniqueIndex;type:varchar(150);not null;comment:用户名"`

	FirstName string `gorm:"column:first_name;type:varchar(150);comment:名"`
	LastName  string `gorm:"column:last_name;type:varchar(150);comment:姓"`
	Email     string `gorm:"column:email;type:varchar(254);comment:邮箱"`

	// Role 用户角色：employer 雇主 / jobseeker 求职者
	// 参见 pkg/enum/user/user_role_enum
	Role string `gorm:"column:role;index;type:varchar(20);not null;comment:角色"`

	// CompanyName 公司名称，仅雇主填写
	CompanyName string `gorm:"column:company_name;type:varchar(200);comment:公司名称"`
}

// TableName 指定表名
func (UserInfo) TableName() string {
	return "user_info"
}

// DisplayName 对外展示的名字：姓名 > 公司名 > 用户名
func (u *UserInfo) DisplayName() string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	if u.CompanyName != "" {
		return u.CompanyName
	}
	return u.Username
}
