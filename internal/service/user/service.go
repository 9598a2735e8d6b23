// Package user 当前用户查询；账号由外部系统维护，这里只读并做短时缓存
package user

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"job_chat_server/internal/dao/mysql/repository"
	myredis "job_chat_server/internal/dao/redis"
	"job_chat_server/internal/model"
	"job_chat_server/pkg/enum/user/user_role_enum"
	"job_chat_server/pkg/errorx"
)

const userCacheTTL = 5 * time.Minute

// userInfoService 用户业务逻辑实现
type userInfoService struct {
	repos *repository.Repositories
	cache myredis.AsyncCacheService
}

// NewUserService 构造函数，cache 为 nil 时不走缓存
func NewUserService(repos *repository.Repositories, cache myredis.AsyncCacheService) *userInfoService {
	return &userInfoService{repos: repos, cache: cache}
}

func cacheKey(userID uint) string {
	return fmt.Sprintf("user_info_%d", userID)
}

// Current 返回当前用户，角色以数据库为准
// 用户不存在或角色非法时视为未登录
func (u *userInfoService) Current(ctx context.Context, userID uint) (*model.UserInfo, error) {
	if userID == 0 {
		return nil, errorx.ErrUnauthorized
	}
	if cached := u.fromCache(ctx, userID); cached != nil {
		return cached, nil
	}

	user, err := u.repos.User.FindById(ctx, userID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.Wrap(err, errorx.CodeUnauthorized, "用户不存在")
		}
		return nil, err
	}
	if !user_role_enum.Valid(user.Role) {
		zap.L().Warn("user has unknown role", zap.Uint("user_id", userID), zap.String("role", user.Role))
		return nil, errorx.New(errorx.CodeUnauthorized, "用户角色无效")
	}

	if u.cache != nil {
		u.cache.SubmitTask(func() {
			b, err := json.Marshal(user)
			if err != nil {
				zap.L().Error("json marshal error", zap.Error(err))
				return
			}
			if err := u.cache.Set(context.Background(), cacheKey(userID), string(b), userCacheTTL); err != nil {
				zap.L().Warn("user cache set failed", zap.Uint("user_id", userID), zap.Error(err))
			}
		})
	}
	return user, nil
}

func (u *userInfoService) fromCache(ctx context.Context, userID uint) *model.UserInfo {
	if u.cache == nil {
		return nil
	}
	s, err := u.cache.Get(ctx, cacheKey(userID))
	if err != nil {
		zap.L().Warn("user cache get failed", zap.Uint("user_id", userID), zap.Error(err))
		return nil
	}
	if s == "" {
		return nil
	}
	var user model.UserInfo
	if err := json.Unmarshal([]byte(s), &user); err != nil {
		zap.L().Error("json unmarshal cache error", zap.Error(err))
		return nil
	}
	return &user
}
