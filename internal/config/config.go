// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName  string `toml:"appName"`  // 应用名称
	Host     string `toml:"host"`     // 监听地址，如 "0.0.0.0"
	Port     int    `toml:"port"`     // 监听端口，如 8000
	Mode     string `toml:"mode"`     // 运行模式：dev / release
	ForceTLS bool   `toml:"forceTLS"` // 是否将 HTTP 请求重定向到 HTTPS（由 Nginx 终止 TLS 时关闭）
}

// MysqlConfig MySQL 数据库连接配置
type MysqlConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
	MaxOpenConns int    `toml:"maxOpenConns"` // 连接池上限，0 表示不限制
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	Password     string `toml:"password"`
	Db           int    `toml:"db"`
	WorkerNum    int    `toml:"workerNum"`    // 异步缓存任务协程数
	TaskChanSize int    `toml:"taskChanSize"` // 异步缓存任务队列长度
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// KafkaConfig 实时事件分发配置
// channel 模式下分组只在本进程内广播；kafka 模式下事件经 Kafka 中转，所有实例都会投递给本地连接
type KafkaConfig struct {
	MessageMode string        `toml:"messageMode"` // "channel" 或 "kafka"
	HostPort    string        `toml:"hostPort"`    // Kafka 地址，如 "localhost:9092"
	GroupTopic  string        `toml:"groupTopic"`  // 分组事件主题
	Timeout     time.Duration `toml:"timeout"`     // 读写超时（秒）
}

// JWTConfig JWT 认证配置
type JWTConfig struct {
	Secret            string `toml:"secret"`            // 签名密钥
	AccessTokenExpiry int    `toml:"accessTokenExpiry"` // Access Token 有效期（分钟）
}

// SnowflakeConfig 雪花算法配置
type SnowflakeConfig struct {
	MachineID int64 `toml:"machineId"` // 节点 ID，范围 0-1023
}

// ChatConfig 实时网关配置
type ChatConfig struct {
	SendBufferSize int   `toml:"sendBufferSize"` // 每个连接下行缓冲条数
	ReadLimit      int64 `toml:"readLimit"`      // 单帧最大字节数
	PongWait       int   `toml:"pongWait"`       // 等待 pong 的超时（秒）
	WriteWait      int   `toml:"writeWait"`      // 单次写超时（秒）
	KeyCacheTTL    int   `toml:"keyCacheTTL"`    // 会话 key 索引缓存时间（分钟）
}

// Config 应用程序总配置
type Config struct {
	MainConfig      `toml:"mainConfig"`
	MysqlConfig     `toml:"mysqlConfig"`
	RedisConfig     `toml:"redisConfig"`
	LogConfig       `toml:"logConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	JWTConfig       `toml:"jwtConfig"`
	SnowflakeConfig `toml:"snowflakeConfig"`
	ChatConfig      `toml:"chatConfig"`
}

// config 全局配置单例，延迟加载
var config *Config

// LoadConfig 从多个候选路径加载配置文件，找到第一个可用的即停止
func LoadConfig() error {
	paths := []string{
		"configs/config_local.toml",
		"configs/config.toml",
		"../../configs/config_local.toml",
		"../../configs/config.toml",
	}
	for _, path := range paths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			return nil
		}
	}
	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// GetConfig 获取全局配置实例，首次调用时加载配置文件并补齐默认值
func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig()
		config.applyDefaults()
	}
	return config
}

func (c *Config) applyDefaults() {
	if c.MainConfig.Mode == "" {
		c.MainConfig.Mode = "release"
	}
	if c.KafkaConfig.MessageMode == "" {
		c.KafkaConfig.MessageMode = "channel"
	}
	if c.KafkaConfig.Timeout == 0 {
		c.KafkaConfig.Timeout = 1
	}
	if c.JWTConfig.AccessTokenExpiry == 0 {
		c.JWTConfig.AccessTokenExpiry = 60
	}
	if c.RedisConfig.WorkerNum == 0 {
		c.RedisConfig.WorkerNum = 4
	}
	if c.RedisConfig.TaskChanSize == 0 {
		c.RedisConfig.TaskChanSize = 1000
	}
	if c.ChatConfig.SendBufferSize == 0 {
		c.ChatConfig.SendBufferSize = 100
	}
	if c.ChatConfig.ReadLimit == 0 {
		c.ChatConfig.ReadLimit = 8192
	}
	if c.ChatConfig.PongWait == 0 {
		c.ChatConfig.PongWait = 60
	}
	if c.ChatConfig.WriteWait == 0 {
		c.ChatConfig.WriteWait = 10
	}
	if c.ChatConfig.KeyCacheTTL == 0 {
		c.ChatConfig.KeyCacheTTL = 60
	}
}
