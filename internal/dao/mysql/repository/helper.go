package repository

import (
	"errors"

	"job_chat_server/pkg/errorx"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// wrapDBError 包装数据库错误
//   - ErrRecordNotFound -> CodeNotFound
//   - ErrDuplicatedKey  -> CodeConflict
//   - 其他错误           -> CodeDBError
func wrapDBError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errorx.Wrap(err, codeOf(err), msg)
}

// wrapDBErrorf 功能同 wrapDBError，支持格式化消息
func wrapDBErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errorx.Wrapf(err, codeOf(err), format, args...)
}

func codeOf(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errorx.CodeNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errorx.CodeConflict
	default:
		return errorx.CodeDBError
	}
}

// lockForUpdate 为支持行锁的方言追加 SELECT ... FOR UPDATE
// SQLite 以库级写锁串行化事务，不需要也不支持该子句
func lockForUpdate(db *gorm.DB) *gorm.DB {
	switch db.Dialector.Name() {
	case "mysql", "postgres":
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	default:
		return db
	}
}
