// Package convkey 计算会话的规范 key 以及实时分组名
// key 只由排序后的参与者 ID 和职位 ID 决定，同一对参与者 + 同一职位永远得到同一个 key
package convkey

import (
	"fmt"
	"regexp"
	"strconv"

	"job_chat_server/pkg/constants"
)

// DefaultGroup 清洗后为空时使用的分组名
const DefaultGroup = "default_group"

var invalidChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// Sanitize 将不在 [A-Za-z0-9._-] 中的字符替换为 '_'，并截断到 99 个字符
func Sanitize(name string) string {
	s := invalidChars.ReplaceAllString(name, "_")
	if len(s) > constants.CONVERSATION_KEY_MAXLEN {
		s = s[:constants.CONVERSATION_KEY_MAXLEN]
	}
	if s == "" {
		return DefaultGroup
	}
	return s
}

// Build 生成会话规范 key: {小ID}_{大ID}_{jobID|none}
func Build(a, b uint, jobID *uint) string {
	if a > b {
		a, b = b, a
	}
	job := constants.NO_JOB_SENTINEL
	if jobID != nil {
		job = strconv.FormatUint(uint64(*jobID), 10)
	}
	return Sanitize(fmt.Sprintf("%d_%d_%s", a, b, job))
}

// ConversationGroup 会话实时分组名
func ConversationGroup(key string) string {
	return Sanitize("chat_" + key)
}

// NotificationGroup 用户个人通知分组名
func NotificationGroup(userID uint) string {
	return Sanitize(fmt.Sprintf("notifications_%d", userID))
}

// ParseID 标识符是纯数字时按会话主键解析
func ParseID(identifier string) (uint, bool) {
	if identifier == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(identifier, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
