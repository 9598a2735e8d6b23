// Package testutil 测试辅助：内存 SQLite 数据库、内存缓存、记录型分组
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"job_chat_server/internal/dao/mysql"
	"job_chat_server/internal/dao/mysql/repository"
	"job_chat_server/internal/gateway/hub"
	"job_chat_server/internal/model"
	"job_chat_server/pkg/enum/user/user_role_enum"
)

var dbSeq int64

// OpenDB 打开一个独立的内存 SQLite 库并完成迁移
// 连接池上限为 1，事务内的代码必须只用 txRepos，否则会自己等自己
func OpenDB(t *testing.T) (*gorm.DB, *repository.Repositories) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, atomic.AddInt64(&dbSeq, 1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := mysql.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db, repository.NewRepositories(db)
}

var userSeq int64

// CreateUser 插入用户，id 为 0 时由数据库分配
func CreateUser(t *testing.T, db *gorm.DB, id uint, role string) *model.UserInfo {
	t.Helper()
	n := atomic.AddInt64(&userSeq, 1)
	u := &model.UserInfo{
		Username:  fmt.Sprintf("user_%d_%d", id, n),
		FirstName: fmt.Sprintf("First%d", n),
		LastName:  "Tester",
		Role:      role,
	}
	if role == user_role_enum.Employer {
		u.CompanyName = fmt.Sprintf("Company %d", n)
	}
	u.ID = id
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// CreateJob 插入职位
func CreateJob(t *testing.T, db *gorm.DB, id uint, companyID uint, title string, active bool) *model.Job {
	t.Helper()
	j := &model.Job{Title: title, CompanyId: companyID, Location: "Remote", IsActive: active}
	j.ID = id
	if err := db.Create(j).Error; err != nil {
		t.Fatalf("create job: %v", err)
	}
	return j
}

// CreateResume 插入简历
func CreateResume(t *testing.T, db *gorm.DB, ownerID uint, r *model.Resume) *model.Resume {
	t.Helper()
	r.UserId = ownerID
	if r.Title == "" {
		r.Title = "My Resume"
	}
	r.IsActive = true
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("create resume: %v", err)
	}
	return r
}

// MemoryCache 内存版 AsyncCacheService，SubmitTask 同步执行
type MemoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string]string)}
}

func (c *MemoryCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *MemoryCache) SubmitTask(action func()) {
	action()
}

// SentEvent 一次分组广播
type SentEvent struct {
	Group string
	Event any
}

// RecordingHub 记录所有 Send 调用；Err 非空时 Send 返回该错误
// Join/Leave/Send 仍会转交给内部的 LocalHub，方便与真实连接配合使用
type RecordingHub struct {
	*hub.LocalHub

	mu   sync.Mutex
	sent []SentEvent
	Err  error
}

func NewRecordingHub() *RecordingHub {
	return &RecordingHub{LocalHub: hub.NewLocalHub()}
}

func (h *RecordingHub) Send(ctx context.Context, group string, event any) error {
	h.mu.Lock()
	h.sent = append(h.sent, SentEvent{Group: group, Event: event})
	err := h.Err
	h.mu.Unlock()
	if err != nil {
		return err
	}
	return h.LocalHub.Send(ctx, group, event)
}

// Sent 全部已记录的广播
func (h *RecordingHub) Sent() []SentEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]SentEvent, len(h.sent))
	copy(out, h.sent)
	return out
}

// SentTo 发往指定分组的事件
func (h *RecordingHub) SentTo(group string) []any {
	var out []any
	for _, s := range h.Sent() {
		if s.Group == group {
			out = append(out, s.Event)
		}
	}
	return out
}

var _ hub.GroupHub = (*RecordingHub)(nil)
