package service

import (
	"errors"
	"syncup_backend/internal/model"
	"syncup_backend/internal/repository"
	"syncup_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type FriendshipService struct {
	FriendRepo *repository.FriendshipRepository
	UserRepo   *repository.UserRepository
}

func NewFriendshipService(friendRepo *repository.FriendshipRepository, userRepo *repository.UserRepository) *FriendshipService {
	return &FriendshipService{
		FriendRepo: friendRepo,
		UserRepo:   userRepo,
	}
}

// FriendInfo 好友列表项：对方用户 + 关系元数据
type FriendInfo struct {
	FriendshipID string    `json:"friendshipId"`
	FriendID     string    `json:"friendId"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	AvatarURL    string    `json:"avatarUrl"`
	Bio          string    `json:"bio"`
	FriendedAt   time.Time `json:"friendedAt"`
}

// PendingInfo 待处理申请项
type PendingInfo struct {
	FriendshipID string    `json:"friendshipId"`
	FriendID     string    `json:"friendId"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	AvatarURL    string    `json:"avatarUrl"`
	Bio          string    `json:"bio"`
	RequestedAt  time.Time `json:"requestedAt"`
}

// PendingRequests 收到和发出的申请，两个互斥序列
type PendingRequests struct {
	Received []PendingInfo `json:"received"`
	Sent     []PendingInfo `json:"sent"`
}

// SendRequest 发起好友申请，成功时返回新建的 PENDING 边。
// 防重先查一次（常见路径），真正的保证是 pair_key 唯一索引：
// 并发下漏过检查的插入会以 ErrDuplicatedKey 失败，同样归为已存在。
func (s *FriendshipService) SendRequest(requesterID, recipientID string) (*model.Friendship, error) {
	if requesterID == recipientID {
		return nil, util.ErrSelfFriendRequest
	}

	if _, err := s.UserRepo.FindByID(recipientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	_, err := s.FriendRepo.FindBetween(requesterID, recipientID)
	if err == nil {
		return nil, util.ErrFriendshipExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	edge := &model.Friendship{
		UserID:   requesterID,
		FriendID: recipientID,
		Status:   model.FriendshipPending,
	}
	if err := s.FriendRepo.Create(edge); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrFriendshipExists
		}
		return nil, err
	}
	return edge, nil
}

// Respond 接收方处理申请。不存在、非接收方、已处理三种情况
// 在同一条条件更新里判定，对调用方一律表现为"申请不存在"，
// 避免泄露他人申请的存在与状态。
func (s *FriendshipService) Respond(friendshipID, actingUserID string, status model.FriendshipStatus) (*model.Friendship, error) {
	if status != model.FriendshipAccepted && status != model.FriendshipRejected {
		return nil, util.ErrFriendRequestNotFound
	}

	rows, err := s.FriendRepo.UpdateStatus(friendshipID, actingUserID, status)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, util.ErrFriendRequestNotFound
	}

	edge, err := s.FriendRepo.FindByID(friendshipID)
	if err != nil {
		return nil, err
	}

	if status == model.FriendshipAccepted {
		s.FriendRepo.InvalidateFriendCache(edge.UserID, edge.FriendID)
	}
	return edge, nil
}

// ListFriends 已接受的好友，最近接受/变动的在前。
// 存储是有方向的，这里统一解析成"边上不是自己的那一方"。
func (s *FriendshipService) ListFriends(userID string) ([]FriendInfo, error) {
	edges, err := s.FriendRepo.GetAccepted(userID)
	if err != nil {
		return nil, err
	}
	return s.resolveFriends(userID, edges)
}

// ListPending 收到的和发出的待处理申请
func (s *FriendshipService) ListPending(userID string) (*PendingRequests, error) {
	received, err := s.FriendRepo.GetPendingReceived(userID)
	if err != nil {
		return nil, err
	}
	sent, err := s.FriendRepo.GetPendingSent(userID)
	if err != nil {
		return nil, err
	}

	result := &PendingRequests{
		Received: make([]PendingInfo, 0, len(received)),
		Sent:     make([]PendingInfo, 0, len(sent)),
	}

	users, err := s.lookupParties(userID, append(append([]model.Friendship{}, received...), sent...))
	if err != nil {
		return nil, err
	}

	for _, e := range received {
		if u, ok := users[e.UserID]; ok {
			result.Received = append(result.Received, pendingInfo(e, u))
		}
	}
	for _, e := range sent {
		if u, ok := users[e.FriendID]; ok {
			result.Sent = append(result.Sent, pendingInfo(e, u))
		}
	}
	return result, nil
}

// Remove 任一方删除边，任何状态下都允许：删好友、撤回或拒收申请都走这里。
// 不存在和非当事人对调用方不可区分。
func (s *FriendshipService) Remove(actingUserID, friendshipID string) error {
	edge, err := s.FriendRepo.FindByID(friendshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrFriendshipNotFound
		}
		return err
	}

	removed, err := s.FriendRepo.DeleteByParty(friendshipID, actingUserID)
	if err != nil {
		return err
	}
	if !removed {
		return util.ErrFriendshipNotFound
	}

	s.FriendRepo.InvalidateFriendCache(edge.UserID, edge.FriendID)
	return nil
}

// StatusBetween 与方向无关地查询两人之间的边，不存在时返回 (nil, nil)
func (s *FriendshipService) StatusBetween(userA, userB string) (*model.Friendship, error) {
	edge, err := s.FriendRepo.FindBetween(userA, userB)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return edge, nil
}

// SearchResult 搜索结果项，附带与当前用户的好友标记
type SearchResult struct {
	model.User
	IsFriend bool `json:"isFriend"`
}

// SearchUsers 模糊搜索用户。已登录时排除自己，
// 并用缓存的好友 ID 集合标记已是好友的结果。
func (s *FriendshipService) SearchUsers(query, excludeID string) ([]SearchResult, error) {
	users, err := s.UserRepo.Search(query, excludeID, 20)
	if err != nil {
		return nil, err
	}

	friendSet := make(map[string]bool)
	if excludeID != "" {
		ids, err := s.FriendRepo.GetFriendIDsCached(excludeID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			friendSet[id] = true
		}
	}

	results := make([]SearchResult, 0, len(users))
	for _, u := range users {
		results = append(results, SearchResult{User: u, IsFriend: friendSet[u.ID]})
	}
	return results, nil
}

func (s *FriendshipService) resolveFriends(userID string, edges []model.Friendship) ([]FriendInfo, error) {
	users, err := s.lookupParties(userID, edges)
	if err != nil {
		return nil, err
	}

	result := make([]FriendInfo, 0, len(edges))
	for _, e := range edges {
		other := e.OtherParty(userID)
		u, ok := users[other]
		if !ok {
			continue
		}
		result = append(result, FriendInfo{
			FriendshipID: e.ID,
			FriendID:     u.ID,
			Name:         u.Name,
			Username:     u.Username,
			Email:        u.Email,
			AvatarURL:    u.Avatar,
			Bio:          u.Bio,
			FriendedAt:   e.UpdatedAt,
		})
	}
	return result, nil
}

// lookupParties 批量取出边上除本人之外的用户
func (s *FriendshipService) lookupParties(userID string, edges []model.Friendship) (map[string]model.User, error) {
	idSet := make(map[string]bool, len(edges))
	for _, e := range edges {
		idSet[e.OtherParty(userID)] = true
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	users, err := s.UserRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]model.User, len(users))
	for _, u := range users {
		u.Password = ""
		byID[u.ID] = u
	}
	return byID, nil
}

func pendingInfo(e model.Friendship, u model.User) PendingInfo {
	return PendingInfo{
		FriendshipID: e.ID,
		FriendID:     u.ID,
		Name:         u.Name,
		Username:     u.Username,
		Email:        u.Email,
		AvatarURL:    u.Avatar,
		Bio:          u.Bio,
		RequestedAt:  e.CreatedAt,
	}
}
