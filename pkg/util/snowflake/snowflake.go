// Package snowflake 生成进程内唯一、按时间递增的 ID
// 用于 Kafka 中转信封 ID
package snowflake

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

const defaultMachineID int64 = 1

var (
	node     *snowflake.Node
	nodeOnce sync.Once
)

// Init 初始化雪花算法节点，多实例部署时 machineID 需唯一 (0-1023)
func Init(machineID int64) {
	nodeOnce.Do(func() {
		if machineID < 0 || machineID > 1023 {
			zap.L().Warn("invalid snowflake machine id, falling back to default",
				zap.Int64("machineID", machineID))
			machineID = defaultMachineID
		}
		var err error
		node, err = snowflake.NewNode(machineID)
		if err != nil {
			zap.L().Fatal("failed to initialize snowflake node", zap.Error(err))
		}
		zap.L().Info("snowflake node initialized", zap.Int64("machineID", machineID))
	})
}

// GenerateID 生成雪花 ID (int64)
func GenerateID() int64 {
	Init(defaultMachineID)
	return node.Generate().Int64()
}

// GenerateIDString 生成雪花 ID (string)，避免 JavaScript 精度丢失
func GenerateIDString() string {
	Init(defaultMachineID)
	return node.Generate().String()
}
