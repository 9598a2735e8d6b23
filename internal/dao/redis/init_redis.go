package redis

import (
	"context"
	"strconv"
	"time"

	"job_chat_server/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Init 根据配置创建 Redis 客户端并返回缓存服务
// Redis 不可用时只记录警告：缓存读写失败会回退到数据库
func Init() *RedisCache {
	conf := config.GetConfig().RedisConfig

	client := redis.NewClient(&redis.Options{
		Addr:         conf.Host + ":" + strconv.Itoa(conf.Port),
		Password:     conf.Password,
		DB:           conf.Db,
		PoolSize:     50,
		MinIdleConns: conf.WorkerNum,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zap.L().Warn("redis ping failed, cache will degrade to database", zap.Error(err))
	}
	return NewRedisCache(client, conf.WorkerNum, conf.TaskChanSize)
}
