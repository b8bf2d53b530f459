package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "PENDING"
	FriendshipAccepted FriendshipStatus = "ACCEPTED"
	FriendshipRejected FriendshipStatus = "REJECTED"
)

// Friendship 好友关系表
// 一对用户只存一行：UserID 为申请方，FriendID 为接收方。
// PairKey 对两个 ID 排序后拼接，唯一索引保证同一对用户不会出现两行（不论方向）。
type Friendship struct {
	UUIDBase
	UserID   string           `gorm:"type:varchar(36);index;not null" json:"userId"`
	FriendID string           `gorm:"type:varchar(36);index;not null" json:"friendId"`
	PairKey  string           `gorm:"type:varchar(73);uniqueIndex;not null" json:"-"`
	Status   FriendshipStatus `gorm:"size:16;default:'PENDING';not null" json:"status"`
}

func (Friendship) TableName() string {
	return "friendships"
}

func (f *Friendship) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.PairKey == "" {
		f.PairKey = PairKey(f.UserID, f.FriendID)
	}
	return
}

// PairKey 与方向无关的规范化键
func PairKey(a, b string) string {
	if a < b {
		return a + ":" + b
	}
	return b + ":" + a
}

// OtherParty 返回边上不是 userID 的那一方
func (f *Friendship) OtherParty(userID string) string {
	if f.UserID == userID {
		return f.FriendID
	}
	return f.UserID
}
