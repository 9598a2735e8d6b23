package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

// TlsHandler 把 HTTP 请求重定向到 HTTPS
// 由 Nginx 终止 TLS 时不要启用（mainConfig.forceTLS = false）
func TlsHandler(host string, port int) gin.HandlerFunc {
	secureMiddleware := secure.New(secure.Options{
		SSLRedirect: true,
		SSLHost:     host + ":" + strconv.Itoa(port),
		// 反向代理转发的请求以该头判断原始协议
		SSLProxyHeaders: map[string]string{"X-Forwarded-Proto": "https"},
	})

	return func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)

		// 重定向时 Process 已经写好响应并返回 error，终止后续处理链即可
		// 不能在中间件里 Fatal
		if err != nil {
			zap.L().Debug("TLS redirection", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.Abort()
			return
		}
		c.Next()
	}
}
