package hub

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type fakeMember struct {
	id    string
	mu    sync.Mutex
	got   [][]byte
	err   error
	panic bool
}

func (f *fakeMember) ConnID() string { return f.id }

func (f *fakeMember) Deliver(payload []byte) error {
	if f.panic {
		panic("broken member")
	}
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, payload)
	return nil
}

func (f *fakeMember) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.got)
}

func TestSendReachesOnlyGroupMembers(t *testing.T) {
	h := NewLocalHub()
	a := &fakeMember{id: "a"}
	b := &fakeMember{id: "b"}
	other := &fakeMember{id: "c"}
	h.Join("chat_1_2_none", a)
	h.Join("chat_1_2_none", b)
	h.Join("chat_1_3_none", other)

	if err := h.Send(context.Background(), "chat_1_2_none", map[string]string{"type": "chat_message"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if a.count() != 1 || b.count() != 1 {
		t.Fatalf("group members should receive the event: a=%d b=%d", a.count(), b.count())
	}
	if other.count() != 0 {
		t.Fatalf("member of another group received the event")
	}
}

func TestDeliveryFailuresAreIsolated(t *testing.T) {
	h := NewLocalHub()
	ok := &fakeMember{id: "ok"}
	full := &fakeMember{id: "full", err: ErrSendBufferFull}
	broken := &fakeMember{id: "broken", err: errors.New("closed")}
	panicking := &fakeMember{id: "panic", panic: true}
	for _, m := range []Member{ok, full, broken, panicking} {
		h.Join("notifications_9", m)
	}

	delivered := h.Broadcast("notifications_9", []byte(`{"type":"new_application"}`))
	if delivered != 1 {
		t.Fatalf("expected exactly one successful delivery, got %d", delivered)
	}
	if ok.count() != 1 {
		t.Fatalf("healthy member should still receive the event")
	}
}

func TestLeaveIsIdempotent(t *testing.T) {
	h := NewLocalHub()
	m := &fakeMember{id: "m"}
	h.Leave("never_joined", m)
	h.Join("g", m)
	h.Leave("g", m)
	h.Leave("g", m)
	if h.Size("g") != 0 {
		t.Fatalf("group should be empty")
	}
	if err := h.Send(context.Background(), "g", []byte(`{}`)); err != nil {
		t.Fatalf("send to empty group: %v", err)
	}
	if m.count() != 0 {
		t.Fatalf("member that left received an event")
	}
}

func TestJoinTwiceKeepsOneMembership(t *testing.T) {
	h := NewLocalHub()
	m := &fakeMember{id: "m"}
	h.Join("g", m)
	h.Join("g", m)
	h.Broadcast("g", []byte(`{}`))
	if m.count() != 1 {
		t.Fatalf("duplicate join should not duplicate delivery, got %d", m.count())
	}
}

func TestEncodePassesRawBytes(t *testing.T) {
	raw := []byte(`{"a":1}`)
	got, err := Encode(raw)
	if err != nil || string(got) != string(raw) {
		t.Fatalf("raw bytes should pass through, got %s %v", got, err)
	}
	if _, err := Encode(make(chan int)); err == nil {
		t.Fatalf("unencodable event should fail")
	}
}

type failingHub struct{ LocalHub }

func (f *failingHub) Send(context.Context, string, any) error { return errors.New("broker down") }

func TestNotifySwallowsErrors(t *testing.T) {
	Notify(context.Background(), &failingHub{}, "g", map[string]string{})
}
