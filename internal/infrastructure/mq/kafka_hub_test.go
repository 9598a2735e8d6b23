package mq

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"job_chat_server/internal/gateway/hub"
)

// pipe 用内存通道模拟一个单分区主题
type pipe struct {
	ch     chan kafka.Message
	mu     sync.Mutex
	keys   []string
	failed bool
}

func newPipe() *pipe { return &pipe{ch: make(chan kafka.Message, 16)} }

func (p *pipe) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if p.failed {
		return errors.New("broker unavailable")
	}
	for _, m := range msgs {
		p.mu.Lock()
		p.keys = append(p.keys, string(m.Key))
		p.mu.Unlock()
		p.ch <- m
	}
	return nil
}

func (p *pipe) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	case m := <-p.ch:
		return m, nil
	}
}

func (p *pipe) Close() error { return nil }

type recorder struct {
	id  string
	got chan []byte
}

func (r *recorder) ConnID() string { return r.id }
func (r *recorder) Deliver(payload []byte) error {
	r.got <- payload
	return nil
}

func TestKafkaHubRelaysToLocalMembers(t *testing.T) {
	p := newPipe()
	local := hub.NewLocalHub()
	kh := newKafkaHub(local, p, p, "instance-a")
	member := &recorder{id: "c1", got: make(chan []byte, 1)}
	kh.Join("chat_9_42_7", member)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go kh.Start(ctx)

	if err := kh.Send(ctx, "chat_9_42_7", map[string]string{"type": "chat_message"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	select {
	case payload := <-member.got:
		var ev map[string]string
		if err := json.Unmarshal(payload, &ev); err != nil || ev["type"] != "chat_message" {
			t.Fatalf("unexpected payload %s", payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("event was not relayed")
	}
	if p.keys[0] != "chat_9_42_7" {
		t.Fatalf("message key should be the group name, got %q", p.keys[0])
	}
}

func TestKafkaHubSendReportsBrokerFailure(t *testing.T) {
	p := newPipe()
	p.failed = true
	kh := newKafkaHub(hub.NewLocalHub(), p, p, "instance-a")
	if err := kh.Send(context.Background(), "g", map[string]string{}); err == nil {
		t.Fatalf("expected publish error")
	}
}

func TestDispatchDropsMalformedEnvelope(t *testing.T) {
	local := hub.NewLocalHub()
	member := &recorder{id: "c1", got: make(chan []byte, 1)}
	local.Join("g", member)
	kh := newKafkaHub(local, newPipe(), newPipe(), "instance-a")

	kh.dispatch([]byte("not json"))
	kh.dispatch([]byte(`{"group":"","payload":{}}`))
	select {
	case <-member.got:
		t.Fatalf("malformed envelope must not be delivered")
	default:
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	p := newPipe()
	kh := newKafkaHub(hub.NewLocalHub(), p, p, "instance-a")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		kh.Start(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("consumer loop did not stop")
	}
}
