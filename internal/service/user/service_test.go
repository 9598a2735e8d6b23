package user

import (
	"context"
	"testing"

	"job_chat_server/internal/testutil"
	"job_chat_server/pkg/enum/user/user_role_enum"
	"job_chat_server/pkg/errorx"
)

func TestCurrent(t *testing.T) {
	db, repos := testutil.OpenDB(t)
	cache := testutil.NewMemoryCache()
	svc := NewUserService(repos, cache)
	ctx := context.Background()

	created := testutil.CreateUser(t, db, 11, user_role_enum.Employer)

	got, err := svc.Current(ctx, 11)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if got.ID != created.ID || got.Role != user_role_enum.Employer {
		t.Fatalf("user = %+v", got)
	}
	if v, _ := cache.Get(ctx, cacheKey(11)); v == "" {
		t.Fatal("user not cached")
	}

	// 缓存命中时不再访问数据库
	if err := db.Unscoped().Delete(created).Error; err != nil {
		t.Fatal(err)
	}
	cached, err := svc.Current(ctx, 11)
	if err != nil || cached.ID != 11 {
		t.Fatalf("cached Current: %v %+v", err, cached)
	}

	if _, err := svc.Current(ctx, 12); !errorx.Is(err, errorx.CodeUnauthorized) {
		t.Fatalf("missing user err = %v", err)
	}
	if _, err := svc.Current(ctx, 0); !errorx.Is(err, errorx.CodeUnauthorized) {
		t.Fatalf("zero id err = %v", err)
	}
}

func TestCurrentRejectsUnknownRole(t *testing.T) {
	db, repos := testutil.OpenDB(t)
	svc := NewUserService(repos, nil)
	testutil.CreateUser(t, db, 3, "admin")

	if _, err := svc.Current(context.Background(), 3); !errorx.Is(err, errorx.CodeUnauthorized) {
		t.Fatalf("err = %v", err)
	}
}
