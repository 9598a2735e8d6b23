package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"job_chat_server/internal/config"
	dao "job_chat_server/internal/dao/mysql"
	myredis "job_chat_server/internal/dao/redis"
	"job_chat_server/internal/gateway/hub"
	wsgateway "job_chat_server/internal/gateway/websocket"
	"job_chat_server/internal/handler"
	"job_chat_server/internal/https_server"
	"job_chat_server/internal/infrastructure/logger"
	"job_chat_server/internal/infrastructure/mq"
	"job_chat_server/internal/service"
	"job_chat_server/pkg/util/jwt"
	"job_chat_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.MainConfig.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer func() { _ = zap.L().Sync() }()
	zap.L().Info("日志初始化成功")

	// 3. 初始化数据库
	repos := dao.Init()
	zap.L().Info("数据库初始化成功")

	// 4. 初始化 Redis
	cache := myredis.Init()
	zap.L().Info("Redis 初始化成功")

	// 5. 初始化 JWT 与雪花节点
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry)
	snowflake.Init(conf.SnowflakeConfig.MachineID)

	// 6. 选择分组广播实现
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	localHub := hub.NewLocalHub()
	var groupHub hub.GroupHub = localHub
	var kafkaHub *mq.KafkaHub
	if conf.KafkaConfig.MessageMode == "kafka" {
		if err := mq.EnsureTopic(conf.KafkaConfig, 1); err != nil {
			zap.L().Warn("ensure kafka topic failed", zap.Error(err))
		}
		kafkaHub = mq.NewKafkaHub(localHub, conf.KafkaConfig)
		go kafkaHub.Start(ctx)
		groupHub = kafkaHub
	}
	zap.L().Info("分组广播初始化成功", zap.String("mode", conf.KafkaConfig.MessageMode))

	// 7. 初始化 Service 层与实时网关 (依赖注入)
	svc := service.NewServices(repos, cache, groupHub, time.Duration(conf.ChatConfig.KeyCacheTTL)*time.Minute)
	gateway := wsgateway.NewGateway(svc.User, svc.Conversation, svc.Message, groupHub, wsgateway.OptionsFromConfig(conf.ChatConfig))

	// 8. 初始化 HTTP 服务器
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("init validator translator failed", zap.Error(err))
	}
	engine := https_server.Init(handler.NewHandlers(svc, gateway))
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler: engine,
	}

	go func() {
		zap.L().Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 设置信号监听
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("关闭服务器...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("server shutdown", zap.Error(err))
	}

	cancel()
	if kafkaHub != nil {
		kafkaHub.Close()
	}
	if err := cache.Close(); err != nil {
		zap.L().Error("close redis", zap.Error(err))
	}
	zap.L().Info("服务器已关闭")
}
