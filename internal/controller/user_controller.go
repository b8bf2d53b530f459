package controller

import (
	"errors"
	"fmt"
	"path/filepath"
	"syncup_backend/internal/config"
	"syncup_backend/internal/service"
	"syncup_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService       *service.UserService
	FriendshipService *service.FriendshipService
	StorageService    *service.StorageService
	Cfg               *config.Config
}

func NewUserController(userService *service.UserService, friendshipService *service.FriendshipService, storageService *service.StorageService, cfg *config.Config) *UserController {
	return &UserController{
		UserService:       userService,
		FriendshipService: friendshipService,
		StorageService:    storageService,
		Cfg:               cfg,
	}
}

// UpdateProfileRequest 资料更新请求，缺省字段不修改
// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	Username *string `json:"username" binding:"omitempty,min=3,max=30,alphanum"`
	Bio      *string `json:"bio" binding:"omitempty,max=500"`
	Avatar   *string `json:"avatarUrl" binding:"omitempty,url"`
}

// UpdateProfile godoc
// @Summary 更新当前用户资料
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body UpdateProfileRequest true "资料更新"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "用户名已被占用"
// @Router /api/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if req.Name == nil && req.Username == nil && req.Bio == nil && req.Avatar == nil {
		util.BadRequest(ctx, "no valid fields to update")
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, service.ProfileUpdate{
		Name:     req.Name,
		Username: req.Username,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
	})
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrUsernameTaken):
			util.Conflict(ctx, "该用户名已被占用")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"user": user})
}

// UploadAvatar godoc
// @Summary 上传头像
// @Tags 用户
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   avatar formData file true "头像文件"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/profile/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("avatar")
	if err != nil {
		util.BadRequest(ctx, "avatar file required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("avatars/%s%s", claims.UserID, filepath.Ext(fileHeader.Filename))
	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, service.ProfileUpdate{Avatar: &url})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"avatarUrl": url, "user": user})
}

// SearchUsers godoc
// @Summary 搜索用户
// @Description 按昵称或用户名模糊搜索，已登录时排除自己并标记已是好友的结果
// @Tags 用户
// @Produce  json
// @Param   q query string true "搜索关键字"
// @Success 200 {object} util.Response{data=[]service.SearchResult} "成功"
// @Router /api/users/search [get]
func (c *UserController) SearchUsers(ctx *gin.Context) {
	query := ctx.Query("q")
	if query == "" {
		util.BadRequest(ctx, "query parameter q is required")
		return
	}

	excludeID := ""
	if claims := util.GetUserFromContext(ctx); claims != nil {
		excludeID = claims.UserID
	}

	users, err := c.FriendshipService.SearchUsers(query, excludeID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"users": users})
}
