// Package repository 定义数据访问层接口和聚合结构
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"context"
	"time"

	"job_chat_server/internal/model"

	"gorm.io/gorm"
)

// UserRepository 用户只读访问
type UserRepository interface {
	// FindById 根据主键查找用户
	FindById(ctx context.Context, id uint) (*model.UserInfo, error)
	// FindByIds 批量查找用户
	FindByIds(ctx context.Context, ids []uint) ([]model.UserInfo, error)
}

// JobRepository 职位只读访问
type JobRepository interface {
	// FindById 根据主键查找职位（不过滤 is_active，由调用方判断）
	FindById(ctx context.Context, id uint) (*model.Job, error)
	// FindByIds 批量查找职位
	FindByIds(ctx context.Context, ids []uint) ([]model.Job, error)
}

// ResumeRepository 简历只读访问
type ResumeRepository interface {
	// FindByIdAndOwner 查找属于指定用户的简历
	FindByIdAndOwner(ctx context.Context, id, ownerId uint) (*model.Resume, error)
}

// ApplicationRepository 职位申请
type ApplicationRepository interface {
	// FindByJobAndApplicant 查找求职者对某职位的申请
	FindByJobAndApplicant(ctx context.Context, jobId, applicantId uint) (*model.JobApplication, error)
	// Create 创建申请
	Create(ctx context.Context, application *model.JobApplication) error
	// Delete 物理删除申请（强制重新投递时使用）
	Delete(ctx context.Context, id uint) error
}

// ConversationRepository 会话数据访问接口
type ConversationRepository interface {
	// FindById 根据主键查找会话（含参与者）
	FindById(ctx context.Context, id uint) (*model.Conversation, error)
	// FindByKey 根据规范 key 查找会话（含参与者），forUpdate 时加行锁
	FindByKey(ctx context.Context, key string, forUpdate bool) (*model.Conversation, error)
	// CreateIfAbsent 插入会话，key 已存在时不插入并返回 false
	CreateIfAbsent(ctx context.Context, conversation *model.Conversation) (bool, error)
	// AddParticipants 添加参与者，已存在的忽略
	AddParticipants(ctx context.Context, conversationId uint, userIds ...uint) error
	// FindByParticipant 查找用户参与的全部会话，按最后消息时间、创建时间倒序
	FindByParticipant(ctx context.Context, userId uint) ([]model.Conversation, error)
	// TouchLastMessage 更新最后消息时间
	TouchLastMessage(ctx context.Context, id uint, at time.Time) error
}

// MessageRepository 消息数据访问接口
type MessageRepository interface {
	// Create 插入消息
	Create(ctx context.Context, message *model.Message) error
	// FindByConversation 按创建时间升序返回会话内全部消息
	FindByConversation(ctx context.Context, conversationId uint) ([]model.Message, error)
	// FindLatestByConversations 每个会话的最后一条消息
	FindLatestByConversations(ctx context.Context, conversationIds []uint) (map[uint]model.Message, error)
	// MarkRead 将会话中发给 recipientId 的未读消息置为已读，返回更新条数
	MarkRead(ctx context.Context, conversationId, recipientId uint) (int64, error)
	// CountUnread 统计未读消息数，conversationId 为空时统计全部会话
	CountUnread(ctx context.Context, recipientId uint, conversationId *uint) (int64, error)
	// CountUnreadByConversations 按会话分组统计未读消息数
	CountUnreadByConversations(ctx context.Context, recipientId uint, conversationIds []uint) (map[uint]int64, error)
	// CountUnreadConversations 统计存在未读消息的会话数
	CountUnreadConversations(ctx context.Context, recipientId uint) (int64, error)
}

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db           *gorm.DB
	User         UserRepository
	Job          JobRepository
	Resume       ResumeRepository
	Application  ApplicationRepository
	Conversation ConversationRepository
	Message      MessageRepository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:           db,
		User:         NewUserRepository(db),
		Job:          NewJobRepository(db),
		Resume:       NewResumeRepository(db),
		Application:  NewApplicationRepository(db),
		Conversation: NewConversationRepository(db),
		Message:      NewMessageRepository(db),
	}
}

// Transaction 在数据库事务中执行函数
// fn 返回错误时整个事务回滚；fn 内只能使用 txRepos 访问数据库
func (r *Repositories) Transaction(ctx context.Context, fn func(txRepos *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
