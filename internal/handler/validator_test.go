package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"job_chat_server/internal/dto/request"
	"job_chat_server/pkg/errorx"
)

func TestParamErrorsUseRequestFieldNames(t *testing.T) {
	gin.SetMode(gin.TestMode)
	if err := InitTrans("zh"); err != nil {
		t.Fatalf("InitTrans: %v", err)
	}

	r := gin.New()
	r.POST("/apply", func(c *gin.Context) {
		var req request.ApplyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleParamError(c, err)
			return
		}
		HandleSuccess(c, nil)
	})
	r.GET("/list", func(c *gin.Context) {
		var req request.ConversationQueryRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			HandleParamError(c, err)
			return
		}
		HandleSuccess(c, nil)
	})

	tests := []struct {
		name  string
		req   *http.Request
		field string
	}{
		{"json body", httptest.NewRequest(http.MethodPost, "/apply", strings.NewReader(`{}`)), "job_id"},
		{"query", httptest.NewRequest(http.MethodGet, "/list", nil), "conversation_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, tt.req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", w.Code)
			}
			var body struct {
				Code int               `json:"code"`
				Msg  map[string]string `json:"msg"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode %s: %v", w.Body.String(), err)
			}
			if body.Code != errorx.CodeInvalidParam {
				t.Fatalf("code = %d", body.Code)
			}
			if _, ok := body.Msg[tt.field]; !ok || len(body.Msg) != 1 {
				t.Fatalf("msg = %v, want key %s", body.Msg, tt.field)
			}
		})
	}
}

func TestHandleParamErrorNonValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/apply", func(c *gin.Context) {
		var req request.ApplyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleParamError(c, err)
			return
		}
	})
	req := httptest.NewRequest(http.MethodPost, "/apply", strings.NewReader(`{"job_id":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), errorx.ErrInvalidParam.Msg) {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
}
