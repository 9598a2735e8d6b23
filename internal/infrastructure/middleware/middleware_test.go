package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"job_chat_server/pkg/util/jwt"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	jwt.Init("test-secret", 15)
	r := gin.New()
	r.GET("/me", JWTAuth(), func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "role": c.GetString(ContextRole)})
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	r := newEngine()
	token, err := jwt.GenerateAccessToken(42, "jobseeker")
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + token, http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestTlsHandlerRedirects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TlsHandler("example.com", 8443))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodGet, "http://example.com/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code < 300 || w.Code >= 400 {
		t.Fatalf("status = %d, want redirect", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "https://example.com:8443/ping" {
		t.Fatalf("location = %q", loc)
	}

	req = httptest.NewRequest(http.MethodGet, "http://example.com/ping", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("proxied https status = %d", w.Code)
	}
}
