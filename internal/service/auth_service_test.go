package service

import (
	"errors"
	"syncup_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()
	_, auth := newFriendshipFixture(t)
	return auth
}

func TestAuthService_Register(t *testing.T) {
	auth := newAuthFixture(t)

	user, err := auth.Register("Alice", "alice", "alice@example.com", "password123", "hi")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.Password, "返回值不应携带口令散列")

	t.Run("duplicate email", func(t *testing.T) {
		_, err := auth.Register("Alice 2", "alice2", "alice@example.com", "password123", "")
		assert.True(t, errors.Is(err, util.ErrEmailRegistered))
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := auth.Register("Alice 2", "alice", "alice2@example.com", "password123", "")
		assert.True(t, errors.Is(err, util.ErrUsernameTaken))
	})
}

func TestAuthService_VerifyCredential(t *testing.T) {
	auth := newAuthFixture(t)

	registerTestUser(t, auth, "Alice", "alice", "alice@example.com")

	t.Run("login by email", func(t *testing.T) {
		user, err := auth.VerifyCredential("alice@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Empty(t, user.Password)
	})

	t.Run("login by username", func(t *testing.T) {
		user, err := auth.VerifyCredential("alice", "password123")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
	})

	// 账号不存在和密码错误必须是同一个错误
	t.Run("wrong password", func(t *testing.T) {
		_, err := auth.VerifyCredential("alice", "wrong-password")
		assert.True(t, errors.Is(err, util.ErrInvalidCredentials))
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := auth.VerifyCredential("nobody@example.com", "password123")
		assert.True(t, errors.Is(err, util.ErrInvalidCredentials))
	})
}

func TestAuthService_Login(t *testing.T) {
	auth := newAuthFixture(t)

	registered := registerTestUser(t, auth, "Alice", "alice", "alice@example.com")

	user, tokens, err := auth.Login("alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	require.NotNil(t, tokens)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)

	// 访问令牌能被同一密钥解析回注册时的身份
	claims, err := util.ParseAccessToken(tokens.AccessToken, auth.Cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.Name)

	refresh, err := util.ParseRefreshToken(tokens.RefreshToken, auth.Cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, refresh.UserID)

	_, _, err = auth.Login("alice@example.com", "wrong-password")
	assert.True(t, errors.Is(err, util.ErrInvalidCredentials))
}
