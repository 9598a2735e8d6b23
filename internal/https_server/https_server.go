// Package https_server 提供 HTTP/HTTPS 服务器的初始化和配置
// 负责创建 Gin 引擎实例并配置中间件和路由
package https_server

import (
	"job_chat_server/internal/config"
	"job_chat_server/internal/handler"
	"job_chat_server/internal/infrastructure/logger"
	"job_chat_server/internal/infrastructure/middleware"
	"job_chat_server/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Init 初始化 HTTP/HTTPS 服务器并返回 Gin 引擎实例
// 配置顺序：
//  1. 创建 Gin 引擎（空白，不含默认中间件）
//  2. 注册日志和恢复中间件
//  3. 配置 CORS 跨域规则
//  4. 按配置启用 HTTPS 重定向
//  5. 注册业务路由
func Init(handlers *handler.Handlers) *gin.Engine {
	return newEngine(handlers, config.GetConfig().MainConfig)
}

func newEngine(handlers *handler.Handlers, mainConf config.MainConfig) *gin.Engine {
	engine := gin.New()

	engine.Use(logger.GinLogger())
	engine.Use(logger.GinRecovery(true))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"} // 生产环境应指定具体域名
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	// 由 Nginx 终止 TLS 时关闭 forceTLS
	if mainConf.ForceTLS {
		engine.Use(middleware.TlsHandler(mainConf.Host, mainConf.Port))
	}

	rt := router.NewRouter(handlers)
	rt.RegisterRoutes(engine)

	return engine
}
