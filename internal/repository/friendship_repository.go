package repository

import (
	"context"
	"fmt"
	"syncup_backend/internal/model"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type FriendshipRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewFriendshipRepository(db *gorm.DB, rdb *redis.Client) *FriendshipRepository {
	return &FriendshipRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

func friendCacheKey(userID string) string {
	return fmt.Sprintf("syncup:relation:friends:%s", userID)
}

// Create 插入一条 PENDING 边。
// pair_key 上的唯一索引是防重的最终依据：并发下两个方向同时插入时，
// 后提交的一方会收到 gorm.ErrDuplicatedKey。
func (r *FriendshipRepository) Create(f *model.Friendship) error {
	return r.DB.Create(f).Error
}

// FindByID 按主键查询，不校验归属
func (r *FriendshipRepository) FindByID(id string) (*model.Friendship, error) {
	var f model.Friendship
	err := r.DB.First(&f, "id = ?", id).Error
	return &f, err
}

// FindBetween 与方向无关地查询两人之间的边
func (r *FriendshipRepository) FindBetween(userA, userB string) (*model.Friendship, error) {
	var f model.Friendship
	err := r.DB.Where("pair_key = ?", model.PairKey(userA, userB)).First(&f).Error
	return &f, err
}

// UpdateStatus 单条条件更新：id、接收方、PENDING 三个条件在同一条 UPDATE 里判定，
// 并发的两次响应只会有一次生效。返回受影响行数。
func (r *FriendshipRepository) UpdateStatus(id, recipientID string, status model.FriendshipStatus) (int64, error) {
	res := r.DB.Model(&model.Friendship{}).
		Where("id = ? AND friend_id = ? AND status = ?", id, recipientID, model.FriendshipPending).
		Update("status", status)
	return res.RowsAffected, res.Error
}

// GetAccepted 用户作为任一方的已接受边，最近更新的在前
func (r *FriendshipRepository) GetAccepted(userID string) ([]model.Friendship, error) {
	var edges []model.Friendship
	err := r.DB.Where("(user_id = ? OR friend_id = ?) AND status = ?", userID, userID, model.FriendshipAccepted).
		Order("updated_at DESC").
		Find(&edges).Error
	return edges, err
}

// GetPendingReceived 用户收到的待处理申请，最新的在前
func (r *FriendshipRepository) GetPendingReceived(userID string) ([]model.Friendship, error) {
	var edges []model.Friendship
	err := r.DB.Where("friend_id = ? AND status = ?", userID, model.FriendshipPending).
		Order("created_at DESC").
		Find(&edges).Error
	return edges, err
}

// GetPendingSent 用户发出的待处理申请，最新的在前
func (r *FriendshipRepository) GetPendingSent(userID string) ([]model.Friendship, error) {
	var edges []model.Friendship
	err := r.DB.Where("user_id = ? AND status = ?", userID, model.FriendshipPending).
		Order("created_at DESC").
		Find(&edges).Error
	return edges, err
}

// DeleteByParty 删除指定边，要求操作者是边的任一方。返回是否删除了行。
func (r *FriendshipRepository) DeleteByParty(id, actingUserID string) (bool, error) {
	res := r.DB.Where("id = ? AND (user_id = ? OR friend_id = ?)", id, actingUserID, actingUserID).
		Delete(&model.Friendship{})
	return res.RowsAffected > 0, res.Error
}

// GetFriendIDs 好友 ID 列表（仅 ACCEPTED）
func (r *FriendshipRepository) GetFriendIDs(userID string) ([]string, error) {
	edges, err := r.GetAccepted(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.OtherParty(userID))
	}
	return ids, nil
}

// GetFriendIDsCached 好友 ID 列表 (带缓存)
func (r *FriendshipRepository) GetFriendIDsCached(userID string) ([]string, error) {
	if r.Redis == nil {
		return r.GetFriendIDs(userID)
	}

	key := friendCacheKey(userID)
	cached, err := r.Redis.SMembers(r.ctx, key).Result()
	if err == nil && len(cached) > 0 {
		ids := make([]string, 0, len(cached))
		for _, s := range cached {
			if s != "" && s != "-" {
				ids = append(ids, s)
			}
		}
		return ids, nil
	}

	// 缓存失效，回源数据库
	ids, err := r.GetFriendIDs(userID)
	if err == nil && len(ids) > 0 {
		pipe := r.Redis.Pipeline()
		for _, id := range ids {
			pipe.SAdd(r.ctx, key, id)
		}
		pipe.Expire(r.ctx, key, 24*time.Hour)
		pipe.Exec(r.ctx)
	} else if err == nil {
		// 防止缓存穿透：占位值 + 短过期
		r.Redis.SAdd(r.ctx, key, "-")
		r.Redis.Expire(r.ctx, key, 5*time.Minute)
	}
	return ids, err
}

// InvalidateFriendCache 好友关系变化后清除双方缓存
func (r *FriendshipRepository) InvalidateFriendCache(userIDs ...string) {
	if r.Redis == nil {
		return
	}
	for _, id := range userIDs {
		r.Redis.Del(r.ctx, friendCacheKey(id))
	}
}
