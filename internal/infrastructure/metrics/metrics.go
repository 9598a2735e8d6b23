// Package metrics 定义实时网关的 Prometheus 指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "job_chat"

var (
	// ActiveConnections 当前在线的实时连接数，按通道类型区分
	ActiveConnections = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "active_connections",
		Help:      "Number of live realtime connections.",
	}, []string{"channel"})

	// ConnectionRejects 握手阶段被拒绝的连接，按关闭码区分
	ConnectionRejects = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "connection_rejects_total",
		Help:      "Realtime connections closed during the handshake.",
	}, []string{"code"})

	// InboundFrames 收到的上行帧，按 type 区分
	InboundFrames = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "inbound_frames_total",
		Help:      "Inbound realtime frames by type.",
	}, []string{"type"})

	// GroupSends 分组广播次数
	GroupSends = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "hub",
		Name:      "group_sends_total",
		Help:      "Events sent to a group.",
	})

	// Deliveries 单个连接的投递结果：delivered / dropped / failed
	Deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "hub",
		Name:      "deliveries_total",
		Help:      "Per-connection deliveries by outcome.",
	}, []string{"outcome"})

	// NotifyFailures 事务提交后通知失败次数（不影响业务结果）
	NotifyFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "hub",
		Name:      "notify_failures_total",
		Help:      "Post-commit notifications that could not be published.",
	})
)
