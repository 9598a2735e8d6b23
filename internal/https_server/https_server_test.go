package https_server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"job_chat_server/internal/config"
	"job_chat_server/internal/dto/respond"
	"job_chat_server/internal/gateway/hub"
	wsgateway "job_chat_server/internal/gateway/websocket"
	"job_chat_server/internal/handler"
	"job_chat_server/internal/service"
	"job_chat_server/internal/testutil"
	"job_chat_server/pkg/enum/user/user_role_enum"
	"job_chat_server/pkg/errorx"
	"job_chat_server/pkg/util/jwt"
)

type envelope struct {
	Code int             `json:"code"`
	Msg  json.RawMessage `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type apiClient struct {
	t      *testing.T
	engine *gin.Engine
}

// newAPI 雇主 9 发布了职位 7；42 与 3 是求职者
func newAPI(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwt.Init("test-secret", 15)
	if err := handler.InitTrans("zh"); err != nil {
		t.Fatal(err)
	}

	db, repos := testutil.OpenDB(t)
	testutil.CreateUser(t, db, 9, user_role_enum.Employer)
	testutil.CreateUser(t, db, 42, user_role_enum.JobSeeker)
	testutil.CreateUser(t, db, 3, user_role_enum.JobSeeker)
	testutil.CreateJob(t, db, 7, 9, "Backend Engineer", true)

	h := hub.NewLocalHub()
	svc := service.NewServices(repos, testutil.NewMemoryCache(), h, time.Minute)
	gateway := wsgateway.NewGateway(svc.User, svc.Conversation, svc.Message, h, wsgateway.Options{})
	engine := newEngine(handler.NewHandlers(svc, gateway), config.MainConfig{})
	return &apiClient{t: t, engine: engine}
}

func (a *apiClient) do(method, path string, userID uint, role string, body any) (int, envelope) {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			a.t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		token, err := jwt.GenerateAccessToken(userID, role)
		if err != nil {
			a.t.Fatal(err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			a.t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

func TestPingAndMetrics(t *testing.T) {
	api := newAPI(t)
	for _, path := range []string{"/ping", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		api.engine.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, w.Code)
		}
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newAPI(t)
	status, env := api.do(http.MethodPost, "/job/apply", 0, "", map[string]any{"job_id": 7})
	if status != http.StatusUnauthorized || env.Code != errorx.CodeUnauthorized {
		t.Fatalf("status = %d, code = %d", status, env.Code)
	}
}

func TestApplyThenChatOverHTTP(t *testing.T) {
	api := newAPI(t)

	status, env := api.do(http.MethodPost, "/job/apply", 42, user_role_enum.JobSeeker, map[string]any{"job_id": 7})
	if status != http.StatusOK || env.Code != errorx.CodeSuccess {
		t.Fatalf("apply status = %d, env = %+v", status, env)
	}
	applied := decode[respond.ApplyRespond](t, env.Data)
	if applied.ConversationId != "9_42_7" || !applied.Created {
		t.Fatalf("apply = %+v", applied)
	}

	status, env = api.do(http.MethodPost, "/job/apply", 42, user_role_enum.JobSeeker, map[string]any{"job_id": 7})
	if status != http.StatusConflict || env.Code != errorx.CodeConflict {
		t.Fatalf("second apply status = %d, code = %d", status, env.Code)
	}

	status, env = api.do(http.MethodGet, "/conversation/unreadCount", 9, user_role_enum.Employer, nil)
	if status != http.StatusOK {
		t.Fatalf("unreadCount status = %d", status)
	}
	if unread := decode[respond.UnreadCountRespond](t, env.Data); unread.UnreadMessages != 1 || unread.UnreadConversations != 1 {
		t.Fatalf("employer unread = %+v", unread)
	}

	status, env = api.do(http.MethodGet, "/conversation/list", 9, user_role_enum.Employer, nil)
	if status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	list := decode[[]respond.ConversationRespond](t, env.Data)
	if len(list) != 1 || list[0].ConversationId != "9_42_7" || list[0].UnreadCount != 1 {
		t.Fatalf("list = %+v", list)
	}
	if list[0].OtherUser == nil || list[0].OtherUser.Id != 42 || list[0].Job == nil || list[0].Job.Id != 7 {
		t.Fatalf("enrichment = %+v", list[0])
	}

	status, env = api.do(http.MethodPost, "/message/send", 9, user_role_enum.Employer,
		map[string]any{"conversation_id": "9_42_7", "message": "明天方便面试吗？"})
	if status != http.StatusOK {
		t.Fatalf("send status = %d, env = %+v", status, env)
	}
	sent := decode[respond.MessageRespond](t, env.Data)
	if sent.SenderId != 9 || sent.RecipientId != 42 || sent.ConversationId != "9_42_7" {
		t.Fatalf("sent = %+v", sent)
	}

	status, env = api.do(http.MethodGet, "/message/list?conversation_id=9_42_7", 42, user_role_enum.JobSeeker, nil)
	if status != http.StatusOK {
		t.Fatalf("message list status = %d", status)
	}
	msgs := decode[[]respond.MessageRespond](t, env.Data)
	if len(msgs) != 2 || msgs[1].Message != "明天方便面试吗？" {
		t.Fatalf("messages = %+v", msgs)
	}

	_, env = api.do(http.MethodGet, "/conversation/unreadCount", 42, user_role_enum.JobSeeker, nil)
	if unread := decode[respond.UnreadCountRespond](t, env.Data); unread.UnreadMessages != 0 {
		t.Fatalf("applicant unread after viewing = %+v", unread)
	}
}

func TestConversationAccessAndValidation(t *testing.T) {
	api := newAPI(t)
	if status, _ := api.do(http.MethodPost, "/job/startChat", 42, user_role_enum.JobSeeker, map[string]any{"job_id": 7}); status != http.StatusOK {
		t.Fatalf("startChat status = %d", status)
	}

	cases := []struct {
		name   string
		method string
		path   string
		user   uint
		role   string
		body   any
		status int
		code   int
		field  string
	}{
		{"outsider get", http.MethodGet, "/conversation/get?conversation_id=9_42_7", 3, user_role_enum.JobSeeker, nil, http.StatusForbidden, errorx.CodeForbidden, ""},
		{"unknown key", http.MethodGet, "/conversation/get?conversation_id=9_42_8", 42, user_role_enum.JobSeeker, nil, http.StatusNotFound, errorx.CodeNotFound, ""},
		{"missing identifier", http.MethodGet, "/message/list", 42, user_role_enum.JobSeeker, nil, http.StatusBadRequest, errorx.CodeInvalidParam, "conversation_id"},
		{"missing job", http.MethodPost, "/job/apply", 42, user_role_enum.JobSeeker, map[string]any{}, http.StatusBadRequest, errorx.CodeInvalidParam, "job_id"},
		{"employer cannot apply", http.MethodPost, "/job/apply", 9, user_role_enum.Employer, map[string]any{"job_id": 7}, http.StatusForbidden, errorx.CodeForbidden, ""},
		{"seeker cannot initiate", http.MethodPost, "/conversation/initiateChat", 42, user_role_enum.JobSeeker, map[string]any{"recipient_id": 3}, http.StatusForbidden, errorx.CodeForbidden, ""},
		{"self conversation", http.MethodPost, "/conversation/createOrGet", 42, user_role_enum.JobSeeker, map[string]any{"user_id": 42}, http.StatusBadRequest, errorx.CodeInvalidParam, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api.t = t
			status, env := api.do(tc.method, tc.path, tc.user, tc.role, tc.body)
			if status != tc.status || env.Code != tc.code {
				t.Fatalf("status = %d code = %d msg = %s, want %d/%d", status, env.Code, env.Msg, tc.status, tc.code)
			}
			if tc.field != "" {
				fields := decode[map[string]string](t, env.Msg)
				if _, ok := fields[tc.field]; !ok {
					t.Fatalf("msg = %v, want key %s", fields, tc.field)
				}
			}
		})
	}
}

func TestInitiateChatAndCreateOrGet(t *testing.T) {
	api := newAPI(t)

	status, env := api.do(http.MethodPost, "/conversation/initiateChat", 9, user_role_enum.Employer,
		map[string]any{"recipient_id": 3, "message": "看了你的简历，想聊聊"})
	if status != http.StatusOK {
		t.Fatalf("initiateChat status = %d, env = %+v", status, env)
	}
	opened := decode[respond.ChatOpenedRespond](t, env.Data)
	if opened.ConversationId != "3_9_none" || !opened.Created || len(opened.MessageIds) != 1 {
		t.Fatalf("initiate = %+v", opened)
	}

	status, env = api.do(http.MethodPost, "/conversation/createOrGet", 3, user_role_enum.JobSeeker, map[string]any{"user_id": 9})
	if status != http.StatusOK {
		t.Fatalf("createOrGet status = %d", status)
	}
	again := decode[respond.ChatOpenedRespond](t, env.Data)
	if again.Created || again.ConversationPk != opened.ConversationPk {
		t.Fatalf("createOrGet = %+v, want existing %d", again, opened.ConversationPk)
	}
}
