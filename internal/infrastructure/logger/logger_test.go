package logger

import (
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"syscall"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRedactQuery(t *testing.T) {
	got := redactQuery("token=secret&x=1")
	if strings.Contains(got, "secret") {
		t.Fatalf("token leaked into log query: %s", got)
	}
	if !strings.Contains(got, "x=1") {
		t.Fatalf("other params should be kept: %s", got)
	}
	if redactQuery("a=b") != "a=b" {
		t.Fatalf("query without token should be untouched")
	}
	if redactQuery("") != "" {
		t.Fatalf("empty query should stay empty")
	}
}

func TestIsBrokenPipeError(t *testing.T) {
	opErr := &net.OpError{Op: "write", Err: os.NewSyscallError("write", syscall.EPIPE)}
	if !isBrokenPipeError(opErr) {
		t.Fatalf("EPIPE should be detected")
	}
	if isBrokenPipeError(errors.New("boom")) {
		t.Fatalf("unrelated error detected as broken pipe")
	}
	if isBrokenPipeError(nil) {
		t.Fatalf("nil is not a broken pipe")
	}
}

func TestGinRecoveryReturns500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(GinRecovery(false))
	engine.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
