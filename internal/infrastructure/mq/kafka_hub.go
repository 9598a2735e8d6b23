// Package mq 通过 Kafka 在多个网关实例之间中转分组事件
// 每个实例使用独立的消费组，因此都能收到全部事件，再投递给本实例内的连接
package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"job_chat_server/internal/config"
	"job_chat_server/internal/gateway/hub"
	"job_chat_server/pkg/util/snowflake"
)

const consumerGroupPrefix = "job_chat_gateway_"

// envelope Kafka 消息体
type envelope struct {
	Id      string          `json:"id"`
	Origin  string          `json:"origin"`
	Group   string          `json:"group"`
	Payload json.RawMessage `json:"payload"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaHub 以 Kafka 为中转的 GroupHub
// Join/Leave 只影响本实例；Send 写入 Kafka，由各实例的消费循环投递
type KafkaHub struct {
	local      *hub.LocalHub
	producer   messageWriter
	consumer   messageReader
	instanceId string
	retryDelay time.Duration
}

// NewKafkaHub 根据配置创建 Kafka 生产者与消费者
func NewKafkaHub(local *hub.LocalHub, cfg config.KafkaConfig) *KafkaHub {
	instanceId := uuid.NewString()
	timeout := cfg.Timeout * time.Second
	producer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.HostPort),
		Topic:                  cfg.GroupTopic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           timeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: false,
	}
	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.HostPort},
		Topic:          cfg.GroupTopic,
		GroupID:        consumerGroupPrefix + instanceId,
		CommitInterval: timeout,
		StartOffset:    kafka.LastOffset,
	})
	return newKafkaHub(local, producer, consumer, instanceId)
}

func newKafkaHub(local *hub.LocalHub, producer messageWriter, consumer messageReader, instanceId string) *KafkaHub {
	return &KafkaHub{
		local:      local,
		producer:   producer,
		consumer:   consumer,
		instanceId: instanceId,
		retryDelay: time.Second,
	}
}

func (k *KafkaHub) Join(group string, m hub.Member) {
	k.local.Join(group, m)
}

func (k *KafkaHub) Leave(group string, m hub.Member) {
	k.local.Leave(group, m)
}

// Send 以分组名为消息 key，同一分组的事件落在同一分区，保持先后顺序
func (k *KafkaHub) Send(ctx context.Context, group string, event any) error {
	payload, err := hub.Encode(event)
	if err != nil {
		return err
	}
	value, err := json.Marshal(envelope{
		Id:      snowflake.GenerateIDString(),
		Origin:  k.instanceId,
		Group:   group,
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("encode kafka envelope: %w", err)
	}
	if err := k.producer.WriteMessages(ctx, kafka.Message{Key: []byte(group), Value: value}); err != nil {
		return fmt.Errorf("publish group event to kafka: %w", err)
	}
	return nil
}

// Start 消费循环，直到 ctx 取消
func (k *KafkaHub) Start(ctx context.Context) {
	zap.L().Info("kafka hub consumer started", zap.String("instance", k.instanceId))
	for {
		msg, err := k.consumer.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			zap.L().Error("kafka read failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(k.retryDelay):
			}
			continue
		}
		k.dispatch(msg.Value)
	}
}

func (k *KafkaHub) dispatch(value []byte) {
	var env envelope
	if err := json.Unmarshal(value, &env); err != nil || env.Group == "" {
		zap.L().Warn("drop malformed kafka envelope", zap.ByteString("value", value), zap.Error(err))
		return
	}
	k.local.Broadcast(env.Group, env.Payload)
}

// Close 关闭生产者与消费者
func (k *KafkaHub) Close() {
	if err := k.producer.Close(); err != nil {
		zap.L().Error("close kafka producer", zap.Error(err))
	}
	if err := k.consumer.Close(); err != nil {
		zap.L().Error("close kafka consumer", zap.Error(err))
	}
}

// EnsureTopic 在 Kafka 上创建分组事件主题，已存在时忽略
func EnsureTopic(cfg config.KafkaConfig, partitions int) error {
	conn, err := kafka.Dial("tcp", cfg.HostPort)
	if err != nil {
		return fmt.Errorf("dial kafka: %w", err)
	}
	defer conn.Close()
	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.GroupTopic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	})
	if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", cfg.GroupTopic, err)
	}
	return nil
}

var _ hub.GroupHub = (*KafkaHub)(nil)
