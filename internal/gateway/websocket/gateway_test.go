package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"job_chat_server/internal/dao/mysql/repository"
	"job_chat_server/internal/gateway/hub"
	"job_chat_server/internal/model"
	"job_chat_server/internal/service/conversation"
	"job_chat_server/internal/service/message"
	"job_chat_server/internal/service/user"
	"job_chat_server/internal/testutil"
	"job_chat_server/pkg/enum/user/user_role_enum"
	"job_chat_server/pkg/errorx"
	"job_chat_server/pkg/util/convkey"
	"job_chat_server/pkg/util/jwt"
)

type testEnv struct {
	server *httptest.Server
	repos  *repository.Repositories
	db     *gorm.DB
	hub    *hub.LocalHub
	conv   *model.Conversation
}

// newTestEnv 雇主 1 与求职者 2 有一个无职位会话；3 是局外人
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, nil)
}

// newTestEnvWithStore wrap 非空时用它包装消息存储
func newTestEnvWithStore(t *testing.T, wrap func(MessageStore) MessageStore) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwt.Init("test-secret", 15)

	db, repos := testutil.OpenDB(t)
	testutil.CreateUser(t, db, 1, user_role_enum.Employer)
	testutil.CreateUser(t, db, 2, user_role_enum.JobSeeker)
	testutil.CreateUser(t, db, 3, user_role_enum.JobSeeker)

	h := hub.NewLocalHub()
	cache := testutil.NewMemoryCache()
	directory := conversation.NewConversationService(repos, cache, time.Minute)
	store := message.NewMessageService(repos, directory, h)
	users := user.NewUserService(repos, cache)

	conv, _, err := directory.ResolveOrCreate(context.Background(), 1, 2, nil)
	if err != nil {
		t.Fatal(err)
	}

	var messages MessageStore = store
	if wrap != nil {
		messages = wrap(store)
	}
	g := NewGateway(users, directory, messages, h, Options{PongWait: 5 * time.Second, WriteWait: time.Second})
	r := gin.New()
	r.GET("/ws/chat", g.Serve)
	r.GET("/ws/chat/:conversation_id", g.Serve)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, repos: repos, db: db, hub: h, conv: conv}
}

func (e *testEnv) dial(t *testing.T, userID uint, path string) *websocket.Conn {
	t.Helper()
	token, err := jwt.GenerateAccessToken(userID, "")
	if err != nil {
		t.Fatal(err)
	}
	return e.dialRaw(t, path+"?token="+url.QueryEscape(token))
}

func (e *testEnv) dialRaw(t *testing.T, pathAndQuery string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(e.server.URL, "http") + pathAndQuery
	conn, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", pathAndQuery, err)
	}
	if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev map[string]any
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return ev
}

func expectType(t *testing.T, conn *websocket.Conn, want string) map[string]any {
	t.Helper()
	ev := readEvent(t, conn)
	if ev["type"] != want {
		t.Fatalf("type = %v, want %s (%v)", ev["type"], want, ev)
	}
	return ev
}

func expectClose(t *testing.T, conn *websocket.Conn, code int) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, _, err := conn.ReadMessage()
	var closeErr *websocket.CloseError
	if !errors.As(err, &closeErr) {
		t.Fatalf("err = %v, want close error", err)
	}
	if closeErr.Code != code {
		t.Fatalf("close code = %d, want %d", closeErr.Code, code)
	}
}

func send(t *testing.T, conn *websocket.Conn, frame string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestRejectsUnauthenticated(t *testing.T) {
	env := newTestEnv(t)
	expectClose(t, env.dialRaw(t, "/ws/chat"), CloseUnauthenticated)
	expectClose(t, env.dialRaw(t, "/ws/chat?token=garbage"), CloseUnauthenticated)
	expectClose(t, env.dial(t, 404, "/ws/chat"), CloseUnauthenticated)
}

func TestRejectsOutsiderAndUnknownConversation(t *testing.T) {
	env := newTestEnv(t)
	expectClose(t, env.dial(t, 3, "/ws/chat/"+env.conv.ConversationKey), CloseNotParticipant)
	expectClose(t, env.dial(t, 1, "/ws/chat/1_2_999"), CloseConversationNotFound)
	expectClose(t, env.dial(t, 1, "/ws/chat/987654"), CloseConversationNotFound)
}

func TestNotificationChannel(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t, 2, "/ws/chat")

	ev := expectType(t, conn, "connection_established")
	if ev["user_id"] != float64(2) {
		t.Fatalf("user_id = %v", ev["user_id"])
	}
	if _, ok := ev["conversation_id"]; ok {
		t.Fatal("notification channel should not carry conversation_id")
	}

	send(t, conn, `{"type":"chat_message","message":"hi"}`)
	expectType(t, conn, "error")

	if err := env.hub.Send(context.Background(), "notifications_2", map[string]string{"type": "new_conversation"}); err != nil {
		t.Fatal(err)
	}
	expectType(t, conn, "new_conversation")
}

func TestChatMessageBroadcastToGroupOnly(t *testing.T) {
	env := newTestEnv(t)
	path := "/ws/chat/" + env.conv.ConversationKey

	employer := env.dial(t, 1, path)
	expectType(t, employer, "connection_established")
	seeker := env.dial(t, 2, path)
	expectType(t, seeker, "connection_established")
	bystander := env.dial(t, 2, "/ws/chat")
	expectType(t, bystander, "connection_established")

	send(t, seeker, `{"type":"chat_message","message":"Hello!"}`)

	for _, conn := range []*websocket.Conn{employer, seeker} {
		ev := expectType(t, conn, "chat_message")
		if ev["message"] != "Hello!" || ev["sender_id"] != float64(2) || ev["conversation_id"] != env.conv.ConversationKey {
			t.Fatalf("event = %v", ev)
		}
		if ev["message_id"] == float64(0) || ev["created_at"] == "" || ev["sender_name"] == "" {
			t.Fatalf("incomplete event = %v", ev)
		}
	}

	// 不在会话分组中的连接只能收到心跳回复
	send(t, bystander, `{"type":"heartbeat"}`)
	expectType(t, bystander, "heartbeat_response")

	msgs, err := env.repos.Message.FindByConversation(context.Background(), env.conv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 || msgs[0].RecipientId != 1 {
		t.Fatalf("stored = %+v", msgs)
	}
}

func TestMalformedFramesKeepConnectionOpen(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t, 1, "/ws/chat/"+env.conv.ConversationKey)
	expectType(t, conn, "connection_established")

	send(t, conn, `{not json`)
	ev := expectType(t, conn, "error")
	if ev["message"] != "invalid JSON format" {
		t.Fatalf("message = %v", ev["message"])
	}

	send(t, conn, `{"type":"dance"}`)
	expectType(t, conn, "error")

	send(t, conn, `{"type":"chat_message","message":"   "}`)
	expectType(t, conn, "error")

	send(t, conn, `{"type":"heartbeat"}`)
	expectType(t, conn, "heartbeat_response")
}

func TestMissingTypeDefaultsToChatMessage(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t, 1, "/ws/chat/"+env.conv.ConversationKey)
	expectType(t, conn, "connection_established")

	send(t, conn, `{"message":"typeless"}`)
	ev := expectType(t, conn, "chat_message")
	if ev["message"] != "typeless" {
		t.Fatalf("event = %v", ev)
	}
}

func TestConnectMarksConversationRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	unread := &model.Message{
		ConversationId: env.conv.ID,
		SenderId:       1,
		RecipientId:    2,
		Content:        "are you there?",
		CreatedAt:      time.Now(),
	}
	if err := env.repos.Message.Create(ctx, unread); err != nil {
		t.Fatal(err)
	}

	conn := env.dial(t, 2, "/ws/chat/"+env.conv.ConversationKey)
	ev := expectType(t, conn, "connection_established")
	if ev["conversation_id"] != env.conv.ConversationKey {
		t.Fatalf("conversation_id = %v", ev["conversation_id"])
	}

	n, err := env.repos.Message.CountUnread(ctx, 2, &env.conv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("unread = %d, want 0", n)
	}

	send(t, conn, `{"type":"mark_read"}`)
	read := expectType(t, conn, "messages_read")
	if read["reader_id"] != float64(2) {
		t.Fatalf("reader_id = %v", read["reader_id"])
	}
}

func TestDisconnectLeavesGroup(t *testing.T) {
	env := newTestEnv(t)
	group := "chat_" + env.conv.ConversationKey
	conn := env.dial(t, 1, "/ws/chat/"+env.conv.ConversationKey)
	expectType(t, conn, "connection_established")
	if n := env.hub.Size(group); n != 1 {
		t.Fatalf("group size = %d, want 1", n)
	}

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = conn.Close()

	deadline := time.Now().Add(3 * time.Second)
	for env.hub.Size(group) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("connection still in group after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

type panickingStore struct {
	MessageStore
}

func (panickingStore) Append(context.Context, uint, uint, string) (*model.Message, error) {
	panic("store exploded")
}

func TestFrameHandlerPanicClosesOnlyThatConnection(t *testing.T) {
	env := newTestEnvWithStore(t, func(inner MessageStore) MessageStore {
		return panickingStore{inner}
	})
	path := "/ws/chat/" + env.conv.ConversationKey
	group := convkey.ConversationGroup(env.conv.ConversationKey)

	conn := env.dial(t, 1, path)
	expectType(t, conn, "connection_established")
	send(t, conn, `{"type":"chat_message","message":"boom"}`)
	expectClose(t, conn, CloseJoinFailed)

	deadline := time.Now().Add(3 * time.Second)
	for env.hub.Size(group) != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("group size = %d after panic, want 0", env.hub.Size(group))
		}
		time.Sleep(10 * time.Millisecond)
	}

	// 进程仍在服务新连接
	other := env.dial(t, 2, path)
	expectType(t, other, "connection_established")
}

func TestErrorTextIsEnglish(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errorx.New(errorx.CodeForbidden, "不是该会话的参与者"), "not a participant of this conversation"},
		{errorx.New(errorx.CodeNoRecipient, "会话中没有接收方"), "conversation has no recipient"},
		{errorx.New(errorx.CodeInvalidParam, "消息不能为空"), "invalid message"},
		{errorx.New(errorx.CodeDBError, "写入消息失败"), internalErrorText},
		{errors.New("boom"), internalErrorText},
	}
	for _, tt := range tests {
		if got := errorText(tt.err); got != tt.want {
			t.Errorf("errorText(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
