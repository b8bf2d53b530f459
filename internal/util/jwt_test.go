package util

import (
	"syncup_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "jwt-test-secret"

func testUser() *model.User {
	return &model.User{
		UUIDBase: model.UUIDBase{ID: model.GenerateUUID()},
		Name:     "Alice",
		Username: "alice",
		Email:    "alice@example.com",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	user := testUser()

	token, err := GenerateAccessToken(user, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseAccessToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Name, claims.Name)
}

func TestAccessTokenRejection(t *testing.T) {
	user := testUser()

	t.Run("wrong secret", func(t *testing.T) {
		token, err := GenerateAccessToken(user, testSecret, time.Hour)
		require.NoError(t, err)

		_, err = ParseAccessToken(token, "another-secret")
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := GenerateAccessToken(user, testSecret, -time.Minute)
		require.NoError(t, err)

		_, err = ParseAccessToken(token, testSecret)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseAccessToken("not.a.token", testSecret)
		assert.Error(t, err)
	})
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	user := testUser()

	token, err := GenerateRefreshToken(user, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseRefreshToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = ParseRefreshToken(token, "another-secret")
	assert.Error(t, err)
}
