// Package mysql 负责建立 MySQL 连接、自动迁移表结构、初始化 Repository 层
package mysql

import (
	"fmt"

	"job_chat_server/internal/config"
	"job_chat_server/internal/dao/mysql/repository"
	"job_chat_server/internal/model"

	"go.uber.org/zap"
	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Init 初始化数据库连接并返回 Repository 层实例
// 执行步骤：
//  1. 从配置读取 MySQL 连接信息并构建 DSN
//  2. 使用 GORM 建立数据库连接（开启错误翻译，唯一键冲突可被识别）
//  3. 执行 AutoMigrate 自动迁移表结构
//  4. 创建并返回 Repository 实例
func Init() *repository.Repositories {
	conf := config.GetConfig()

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		conf.MysqlConfig.User,
		conf.MysqlConfig.Password,
		conf.MysqlConfig.Host,
		conf.MysqlConfig.Port,
		conf.MysqlConfig.DatabaseName,
	)

	db, err := gorm.Open(mysqldriver.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		zap.L().Fatal("connect mysql failed", zap.Error(err))
	}
	if conf.MysqlConfig.MaxOpenConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			zap.L().Fatal("get sql.DB failed", zap.Error(err))
		}
		sqlDB.SetMaxOpenConns(conf.MysqlConfig.MaxOpenConns)
	}

	if err := AutoMigrate(db); err != nil {
		zap.L().Fatal("auto migrate failed", zap.Error(err))
	}
	return repository.NewRepositories(db)
}

// AutoMigrate 创建或更新表结构，不会删除已有字段或数据
// 用户、职位、简历表归外部系统所有，这里迁移只是为了保证本地开发和测试环境可用
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.UserInfo{},
		&model.Job{},
		&model.Resume{},
		&model.JobApplication{},
		&model.Conversation{},
		&model.ConversationParticipant{},
		&model.Message{},
	)
}
