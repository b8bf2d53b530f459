package service

import (
	"fmt"
	"syncup_backend/internal/config"
	"syncup_backend/internal/model"
	"syncup_backend/internal/repository"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Friendship{}))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:        "test-secret-for-service-level-tests",
			AccessExpire:  7 * 24 * time.Hour,
			RefreshExpire: 30 * 24 * time.Hour,
		},
	}
}

func newFriendshipFixture(t *testing.T) (*FriendshipService, *AuthService) {
	t.Helper()

	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendshipRepository(db, nil)

	return NewFriendshipService(friendRepo, userRepo), NewAuthService(userRepo, testConfig())
}

// newCachedFixture 带 redis 好友缓存的变体
func newCachedFixture(t *testing.T) (*FriendshipService, *AuthService) {
	t.Helper()

	db := newTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendshipRepository(db, rdb)

	return NewFriendshipService(friendRepo, userRepo), NewAuthService(userRepo, testConfig())
}

func registerTestUser(t *testing.T, auth *AuthService, name, username, email string) *model.User {
	t.Helper()

	user, err := auth.Register(name, username, email, "password123", "")
	require.NoError(t, err)
	return user
}
