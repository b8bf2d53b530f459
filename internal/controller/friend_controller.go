package controller

import (
	"errors"
	"syncup_backend/internal/model"
	"syncup_backend/internal/service"
	"syncup_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FriendController struct {
	FriendshipService *service.FriendshipService
}

func NewFriendController(friendshipService *service.FriendshipService) *FriendController {
	return &FriendController{
		FriendshipService: friendshipService,
	}
}

// SendFriendRequestRequest 发送好友申请请求
// swagger:model SendFriendRequestRequest
type SendFriendRequestRequest struct {
	FriendID string `json:"friendId" binding:"required,uuid"`
}

// SendFriendRequest godoc
// @Summary 发送好友申请
// @Description 创建一条 PENDING 好友边，任一方向已有关系时返回 409
// @Tags 好友
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SendFriendRequestRequest true "申请对象"
// @Success 201 {object} util.Response{data=model.Friendship} "创建成功"
// @Failure 400 {object} util.Response "不能添加自己"
// @Failure 404 {object} util.Response "用户不存在"
// @Failure 409 {object} util.Response "关系已存在"
// @Router /api/friends/requests [post]
func (c *FriendController) SendFriendRequest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SendFriendRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	edge, err := c.FriendshipService.SendRequest(claims.UserID, req.FriendID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSelfFriendRequest):
			util.BadRequest(ctx, "不能添加自己为好友")
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrFriendshipExists):
			util.Conflict(ctx, "好友关系已存在")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, edge)
}

// RespondFriendRequestRequest 处理好友申请请求
// swagger:model RespondFriendRequestRequest
type RespondFriendRequestRequest struct {
	Status string `json:"status" binding:"required,oneof=ACCEPTED REJECTED"`
}

// RespondFriendRequest godoc
// @Summary 处理好友申请
// @Description 接收方接受或拒绝 PENDING 申请；不存在、非接收方、已处理统一返回 404
// @Tags 好友
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "申请 ID"
// @Param   body body RespondFriendRequestRequest true "处理动作"
// @Success 200 {object} util.Response{data=model.Friendship} "成功"
// @Failure 404 {object} util.Response "申请不存在或已处理"
// @Router /api/friends/requests/{id} [put]
func (c *FriendController) RespondFriendRequest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req RespondFriendRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	edge, err := c.FriendshipService.Respond(ctx.Param("id"), claims.UserID, model.FriendshipStatus(req.Status))
	if err != nil {
		if errors.Is(err, util.ErrFriendRequestNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, edge)
}

// GetFriends godoc
// @Summary 好友列表
// @Description 已接受的好友，最近变动的在前
// @Tags 好友
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/friends [get]
func (c *FriendController) GetFriends(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	friends, err := c.FriendshipService.ListFriends(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if friends == nil {
		friends = []service.FriendInfo{}
	}

	util.Success(ctx, gin.H{"friends": friends})
}

// GetPendingRequests godoc
// @Summary 待处理申请
// @Description 收到的和发出的 PENDING 申请，按创建时间倒序
// @Tags 好友
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.PendingRequests} "成功"
// @Router /api/friends/requests [get]
func (c *FriendController) GetPendingRequests(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	pending, err := c.FriendshipService.ListPending(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, pending)
}

// RemoveFriend godoc
// @Summary 删除好友/撤回申请
// @Description 任一方可删除任意状态的边；不存在和非当事人统一返回 404
// @Tags 好友
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "关系 ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "关系不存在"
// @Router /api/friends/{id} [delete]
func (c *FriendController) RemoveFriend(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.FriendshipService.Remove(claims.UserID, ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrFriendshipNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"removed": true})
}

// GetFriendshipStatus godoc
// @Summary 与指定用户的关系状态
// @Description 与方向无关的查询；无关系时 status 为 NONE
// @Tags 好友
// @Produce  json
// @Security ApiKeyAuth
// @Param   userId path string true "对方用户 ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/friends/status/{userId} [get]
func (c *FriendController) GetFriendshipStatus(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	edge, err := c.FriendshipService.StatusBetween(claims.UserID, ctx.Param("userId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if edge == nil {
		util.Success(ctx, gin.H{"status": "NONE"})
		return
	}

	util.Success(ctx, gin.H{
		"status":     edge.Status,
		"friendship": edge,
	})
}
