package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"syncup_backend/internal/config"
	"syncup_backend/internal/model"
	"syncup_backend/internal/repository"
	"syncup_backend/internal/util"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newAuthTestEnv(t *testing.T) (*config.Config, *repository.UserRepository, *model.User) {
	t.Helper()

	dsn := fmt.Sprintf("file:mw_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))

	user := &model.User{
		Name:     "Alice",
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hashed",
	}
	require.NoError(t, db.Create(user).Error)

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:        "middleware-test-secret",
			AccessExpire:  time.Hour,
			RefreshExpire: time.Hour,
		},
	}
	return cfg, repository.NewUserRepository(db), user
}

func identityHandler(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		c.JSON(http.StatusOK, gin.H{"userId": ""})
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": claims.UserID})
}

func doRequest(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg, userRepo, user := newAuthTestEnv(t)

	router := gin.New()
	router.GET("/me", AuthMiddleware(cfg, userRepo), identityHandler)

	t.Run("missing token", func(t *testing.T) {
		w := doRequest(router, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed token", func(t *testing.T) {
		w := doRequest(router, "not-a-jwt")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := util.GenerateAccessToken(user, "some-other-secret", time.Hour)
		require.NoError(t, err)

		w := doRequest(router, token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := util.GenerateAccessToken(user, cfg.JWT.Secret, -time.Minute)
		require.NoError(t, err)

		w := doRequest(router, token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	// 令牌有效但账号已不存在，按未登录处理
	t.Run("token for deleted user", func(t *testing.T) {
		ghost := &model.User{
			UUIDBase: model.UUIDBase{ID: model.GenerateUUID()},
			Name:     "Ghost",
		}
		token, err := util.GenerateAccessToken(ghost, cfg.JWT.Secret, time.Hour)
		require.NoError(t, err)

		w := doRequest(router, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := util.GenerateAccessToken(user, cfg.JWT.Secret, time.Hour)
		require.NoError(t, err)

		w := doRequest(router, token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), user.ID)
	})
}

func TestTryAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg, userRepo, user := newAuthTestEnv(t)

	router := gin.New()
	router.GET("/me", TryAuthMiddleware(cfg, userRepo), identityHandler)

	t.Run("anonymous passes through", func(t *testing.T) {
		w := doRequest(router, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"userId":""`)
	})

	t.Run("invalid token treated as anonymous", func(t *testing.T) {
		w := doRequest(router, "not-a-jwt")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"userId":""`)
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		token, err := util.GenerateAccessToken(user, cfg.JWT.Secret, time.Hour)
		require.NoError(t, err)

		w := doRequest(router, token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), user.ID)
	})
}
