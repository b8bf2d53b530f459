package util

import "errors"

var (
	ErrUserNotFound          = errors.New("用户不存在")
	ErrEmailRegistered       = errors.New("该邮箱已被注册")
	ErrUsernameTaken         = errors.New("该用户名已被占用")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrSelfFriendRequest     = errors.New("不能添加自己为好友")
	ErrFriendshipExists      = errors.New("好友关系已存在")
	ErrFriendRequestNotFound = errors.New("friend request not found")
	ErrFriendshipNotFound    = errors.New("friendship not found")
)
