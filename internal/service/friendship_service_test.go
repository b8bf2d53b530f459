package service

import (
	"errors"
	"syncup_backend/internal/model"
	"syncup_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendshipService_SendRequest(t *testing.T) {
	svc, auth := newFriendshipFixture(t)

	alice := registerTestUser(t, auth, "Alice", "alice", "alice@example.com")
	bob := registerTestUser(t, auth, "Bob", "bob", "bob@example.com")

	t.Run("self request rejected", func(t *testing.T) {
		_, err := svc.SendRequest(alice.ID, alice.ID)
		assert.True(t, errors.Is(err, util.ErrSelfFriendRequest))
	})

	t.Run("unknown recipient", func(t *testing.T) {
		_, err := svc.SendRequest(alice.ID, model.GenerateUUID())
		assert.True(t, errors.Is(err, util.ErrUserNotFound))
	})

	t.Run("creates pending edge", func(t *testing.T) {
		edge, err := svc.SendRequest(alice.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, edge.UserID)
		assert.Equal(t, bob.ID, edge.FriendID)
		assert.Equal(t, model.FriendshipPending, edge.Status)
	})

	t.Run("repeat in same direction rejected", func(t *testing.T) {
		_, err := svc.SendRequest(alice.ID, bob.ID)
		assert.True(t, errors.Is(err, util.ErrFriendshipExists))
	})

	t.Run("repeat in reverse direction rejected", func(t *testing.T) {
		_, err := svc.SendRequest(bob.ID, alice.ID)
		assert.True(t, errors.Is(err, util.ErrFriendshipExists))
	})
}

func TestFriendshipService_Respond(t *testing.T) {
	svc, auth := newFriendshipFixture(t)

	alice := registerTestUser(t, auth, "Alice", "alice", "alice@example.com")
	bob := registerTestUser(t, auth, "Bob", "bob", "bob@example.com")

	edge, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)

	t.Run("requester cannot respond", func(t *testing.T) {
		_, err := svc.Respond(edge.ID, alice.ID, model.FriendshipAccepted)
		assert.True(t, errors.Is(err, util.ErrFriendRequestNotFound))

		current, err := svc.FriendRepo.FindByID(edge.ID)
		require.NoError(t, err)
		assert.Equal(t, model.FriendshipPending, current.Status)
	})

	t.Run("third party cannot respond", func(t *testing.T) {
		carol := registerTestUser(t, auth, "Carol", "carol", "carol@example.com")
		_, err := svc.Respond(edge.ID, carol.ID, model.FriendshipAccepted)
		assert.True(t, errors.Is(err, util.ErrFriendRequestNotFound))
	})

	t.Run("invalid target status", func(t *testing.T) {
		_, err := svc.Respond(edge.ID, bob.ID, model.FriendshipPending)
		assert.True(t, errors.Is(err, util.ErrFriendRequestNotFound))
	})

	t.Run("recipient accepts", func(t *testing.T) {
		updated, err := svc.Respond(edge.ID, bob.ID, model.FriendshipAccepted)
		require.NoError(t, err)
		assert.Equal(t, model.FriendshipAccepted, updated.Status)
	})

	t.Run("no re-transition out of accepted", func(t *testing.T) {
		_, err := svc.Respond(edge.ID, bob.ID, model.FriendshipRejected)
		assert.True(t, errors.Is(err, util.ErrFriendRequestNotFound))
	})
}

func TestFriendshipService_AcceptFlow(t *testing.T) {
	svc, auth := newFriendshipFixture(t)

	alice := registerTestUser(t, auth, "Alice", "alice", "alice@example.com")
	bob := registerTestUser(t, auth, "Bob", "bob", "bob@example.com")

	edge, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)

	// 接受前：双方好友列表为空，待处理列表各有一条
	pendingAlice, err := svc.ListPending(alice.ID)
	require.NoError(t, err)
	assert.Len(t, pendingAlice.Sent, 1)
	assert.Empty(t, pendingAlice.Received)

	pendingBob, err := svc.ListPending(bob.ID)
	require.NoError(t, err)
	assert.Len(t, pendingBob.Received, 1)
	assert.Equal(t, alice.ID, pendingBob.Received[0].FriendID)

	_, err = svc.Respond(edge.ID, bob.ID, model.FriendshipAccepted)
	require.NoError(t, err)

	// 接受后：互相出现在对方好友列表，待处理清空
	friendsOfAlice, err := svc.ListFriends(alice.ID)
	require.NoError(t, err)
	require.Len(t, friendsOfAlice, 1)
	assert.Equal(t, bob.ID, friendsOfAlice[0].FriendID)
	assert.Equal(t, "bob", friendsOfAlice[0].Username)

	friendsOfBob, err := svc.ListFriends(bob.ID)
	require.NoError(t, err)
	require.Len(t, friendsOfBob, 1)
	assert.Equal(t, alice.ID, friendsOfBob[0].FriendID)

	pendingAlice, err = svc.ListPending(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, pendingAlice.Sent)

	pendingBob, err = svc.ListPending(bob.ID)
	require.NoError(t, err)
	assert.Empty(t, pendingBob.Received)

	status, err := svc.StatusBetween(alice.ID, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, model.FriendshipAccepted, status.Status)
}

func TestFriendshipService_RejectFlow(t *testing.T) {
	svc, auth := newFriendshipFixture(t)

	alice := registerTestUser(t, auth, "Alice", "alice", "alice@example.com")
	bob := registerTestUser(t, auth, "Bob", "bob", "bob@example.com")

	edge, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)

	updated, err := svc.Respond(edge.ID, bob.ID, model.FriendshipRejected)
	require.NoError(t, err)
	assert.Equal(t, model.FriendshipRejected, updated.Status)

	friends, err := svc.ListFriends(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)

	// 被拒绝的边仍占用这对用户，重发被判已存在
	_, err = svc.SendRequest(alice.ID, bob.ID)
	assert.True(t, errors.Is(err, util.ErrFriendshipExists))
}

func TestFriendshipService_Remove(t *testing.T) {
	svc, auth := newFriendshipFixture(t)

	alice := registerTestUser(t, auth, "Alice", "alice", "alice@example.com")
	bob := registerTestUser(t, auth, "Bob", "bob", "bob@example.com")
	carol := registerTestUser(t, auth, "Carol", "carol", "carol@example.com")

	edge, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)

	t.Run("non-party cannot remove", func(t *testing.T) {
		err := svc.Remove(carol.ID, edge.ID)
		assert.True(t, errors.Is(err, util.ErrFriendshipNotFound))
	})

	t.Run("unknown edge", func(t *testing.T) {
		err := svc.Remove(alice.ID, model.GenerateUUID())
		assert.True(t, errors.Is(err, util.ErrFriendshipNotFound))
	})

	t.Run("requester withdraws pending request", func(t *testing.T) {
		require.NoError(t, svc.Remove(alice.ID, edge.ID))

		status, err := svc.StatusBetween(alice.ID, bob.ID)
		require.NoError(t, err)
		assert.Nil(t, status)

		// 删除后可以重新发起
		_, err = svc.SendRequest(bob.ID, alice.ID)
		require.NoError(t, err)
	})

	t.Run("either party removes accepted friendship", func(t *testing.T) {
		edge2, err := svc.SendRequest(alice.ID, carol.ID)
		require.NoError(t, err)
		_, err = svc.Respond(edge2.ID, carol.ID, model.FriendshipAccepted)
		require.NoError(t, err)

		require.NoError(t, svc.Remove(carol.ID, edge2.ID))

		friends, err := svc.ListFriends(alice.ID)
		require.NoError(t, err)
		assert.Empty(t, friends)
	})
}

func TestFriendshipService_SearchUsers(t *testing.T) {
	svc, auth := newCachedFixture(t)

	alice := registerTestUser(t, auth, "Alice", "alice", "alice@example.com")
	bob := registerTestUser(t, auth, "Bob", "bob", "bob@example.com")
	registerTestUser(t, auth, "Bonnie", "bonnie", "bonnie@example.com")

	edge, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.Respond(edge.ID, bob.ID, model.FriendshipAccepted)
	require.NoError(t, err)

	byUsername := func(results []SearchResult) map[string]SearchResult {
		m := make(map[string]SearchResult, len(results))
		for _, r := range results {
			m[r.Username] = r
		}
		return m
	}

	t.Run("marks accepted friends", func(t *testing.T) {
		results, err := svc.SearchUsers("bo", alice.ID)
		require.NoError(t, err)
		require.Len(t, results, 2)

		m := byUsername(results)
		assert.True(t, m["bob"].IsFriend)
		assert.False(t, m["bonnie"].IsFriend)
		assert.Empty(t, m["bob"].Password)
	})

	t.Run("excludes the caller", func(t *testing.T) {
		results, err := svc.SearchUsers("alice", alice.ID)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("anonymous search has no friend context", func(t *testing.T) {
		results, err := svc.SearchUsers("bo", "")
		require.NoError(t, err)
		require.Len(t, results, 2)
		for _, r := range results {
			assert.False(t, r.IsFriend)
		}
	})

	// 第一次搜索已把好友集合写进缓存，删除好友后标记必须立刻消失
	t.Run("removal clears the cached marking", func(t *testing.T) {
		require.NoError(t, svc.Remove(alice.ID, edge.ID))

		results, err := svc.SearchUsers("bo", alice.ID)
		require.NoError(t, err)

		m := byUsername(results)
		assert.False(t, m["bob"].IsFriend)
	})
}

func TestFriendshipService_StatusBetween(t *testing.T) {
	svc, auth := newFriendshipFixture(t)

	alice := registerTestUser(t, auth, "Alice", "alice", "alice@example.com")
	bob := registerTestUser(t, auth, "Bob", "bob", "bob@example.com")

	status, err := svc.StatusBetween(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, status)

	edge, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)

	// 两个方向都能查到同一条边
	fromAlice, err := svc.StatusBetween(alice.ID, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, fromAlice)
	assert.Equal(t, edge.ID, fromAlice.ID)

	fromBob, err := svc.StatusBetween(bob.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, fromBob)
	assert.Equal(t, edge.ID, fromBob.ID)
}
