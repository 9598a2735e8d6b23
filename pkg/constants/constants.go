package constants

import "time"

const (
	CHANNEL_SIZE            = 100  // 每个连接的下行消息缓冲
	WS_READ_LIMIT           = 8192 // 单个入站帧最大字节数
	CONVERSATION_KEY_MAXLEN = 99   // 会话 key 最大长度
	NO_JOB_SENTINEL         = "none"
	KEY_CACHE_TTL_MINUTES   = 60 // 会话 key -> id 缓存时间（分钟）

	SKILL_SUMMARY_LIMIT       = 10  // 简历摘要中保留的技能数量
	PROFESSIONAL_SUMMARY_SIZE = 200 // 简历摘要中职业概述的最大字符数
	COVER_LETTER_SUMMARY_SIZE = 300 // 简历摘要中求职信的最大字符数
)

// TimeLayout 对外时间格式，固定毫秒位，便于客户端按字符串排序
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTime 统一输出 UTC 时间字符串
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
