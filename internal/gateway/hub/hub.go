// Package hub 实现实时分组：连接加入/离开分组，事件向分组内所有连接广播
// 分组成员只由连接自己的建立/断开流程修改
package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"job_chat_server/internal/infrastructure/metrics"
)

// ErrSendBufferFull 连接下行缓冲已满，本次事件对该连接丢弃
var ErrSendBufferFull = errors.New("send buffer full")

// ErrMemberClosed 连接已关闭
var ErrMemberClosed = errors.New("member closed")

// Member 分组中的一个实时连接
type Member interface {
	// ConnID 连接唯一 ID
	ConnID() string
	// Deliver 把已编码的事件放入连接的下行队列，不能阻塞
	Deliver(payload []byte) error
}

// GroupHub 分组成员管理与广播
type GroupHub interface {
	// Join 加入分组，重复加入无副作用
	Join(group string, m Member)
	// Leave 离开分组，未加入或已离开时无副作用
	Leave(group string, m Member)
	// Send 向分组广播事件；单个连接投递失败不影响其他连接，也不会让 Send 返回错误
	Send(ctx context.Context, group string, event any) error
}

// LocalHub 进程内分组实现
type LocalHub struct {
	mu     sync.RWMutex
	groups map[string]map[string]Member
}

// NewLocalHub 创建进程内分组
func NewLocalHub() *LocalHub {
	return &LocalHub{groups: make(map[string]map[string]Member)}
}

func (h *LocalHub) Join(group string, m Member) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.groups[group]
	if !ok {
		members = make(map[string]Member)
		h.groups[group] = members
	}
	members[m.ConnID()] = m
}

func (h *LocalHub) Leave(group string, m Member) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.groups[group]
	if !ok {
		return
	}
	delete(members, m.ConnID())
	if len(members) == 0 {
		delete(h.groups, group)
	}
}

func (h *LocalHub) Send(_ context.Context, group string, event any) error {
	payload, err := Encode(event)
	if err != nil {
		return err
	}
	h.Broadcast(group, payload)
	return nil
}

// Broadcast 向分组内每个连接投递已编码的事件，返回成功投递的连接数
// 先在读锁下拷贝成员快照，投递过程不持有锁
func (h *LocalHub) Broadcast(group string, payload []byte) int {
	metrics.GroupSends.Inc()

	h.mu.RLock()
	members := make([]Member, 0, len(h.groups[group]))
	for _, m := range h.groups[group] {
		members = append(members, m)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, m := range members {
		err := deliver(m, payload)
		switch {
		case err == nil:
			delivered++
			metrics.Deliveries.WithLabelValues("delivered").Inc()
		case errors.Is(err, ErrSendBufferFull):
			metrics.Deliveries.WithLabelValues("dropped").Inc()
			zap.L().Warn("group delivery dropped", zap.String("group", group), zap.String("conn_id", m.ConnID()))
		default:
			metrics.Deliveries.WithLabelValues("failed").Inc()
			zap.L().Warn("group delivery failed", zap.String("group", group), zap.String("conn_id", m.ConnID()), zap.Error(err))
		}
	}
	return delivered
}

// Size 分组当前成员数
func (h *LocalHub) Size(group string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[group])
}

// deliver 隔离单个连接的 panic
func deliver(m Member, payload []byte) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("deliver panic: %v", rec)
		}
	}()
	return m.Deliver(payload)
}

// Encode 将事件编码为 JSON，已编码的字节原样返回
func Encode(event any) ([]byte, error) {
	switch v := event.(type) {
	case []byte:
		return v, nil
	case json.RawMessage:
		return v, nil
	default:
		payload, err := json.Marshal(event)
		if err != nil {
			return nil, fmt.Errorf("encode group event: %w", err)
		}
		return payload, nil
	}
}

// Notify 事务提交之后的通知：失败只记录日志，不向调用方传播
func Notify(ctx context.Context, h GroupHub, group string, event any) {
	if err := h.Send(ctx, group, event); err != nil {
		metrics.NotifyFailures.Inc()
		zap.L().Warn("notify group failed", zap.String("group", group), zap.Error(err))
	}
}

var _ GroupHub = (*LocalHub)(nil)
