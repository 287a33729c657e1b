package handler

import (
	"context"
	"errors"

	"cliptube/internal/api/dto"
	"cliptube/internal/api/middleware"
	"cliptube/internal/api/response"
	"cliptube/internal/infra/minio"
	"cliptube/internal/service"
	"cliptube/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetChannelProfile 获取频道主页
// @Summary 获取频道主页
// @Description 按用户名查询频道，订阅数与订阅状态实时计算
// @Tags 频道
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} response.Response{data=dto.ChannelProfile} "获取成功"
// @Failure 404 {object} response.ErrorResponse "频道不存在"
// @Router /channels/{username} [get]
func (h *UserHandler) GetChannelProfile(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		response.BadRequest(c, "无效的用户名")
		return
	}

	profile, err := h.userService.GetChannelProfile(username, currentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrChannelNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		logger.Error("Get channel profile failed", zap.Error(err))
		response.InternalError(c, "获取频道信息失败")
		return
	}

	response.OK(c, "获取频道信息成功", profile)
}

// UpdateProfile 更新个人资料
// @Summary 更新个人资料
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UserUpdateRequest true "更新字段"
// @Success 200 {object} response.Response{data=dto.UserInfo} "更新成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Router /users/me [patch]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "无法获取用户信息")
		return
	}

	var req dto.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	userInfo, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoFieldsToUpdate), errors.Is(err, service.ErrEmailExists):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, err.Error())
		default:
			logger.Error("Update profile failed", zap.Error(err))
			response.InternalError(c, "更新资料失败，请稍后重试")
		}
		return
	}

	response.OK(c, "资料更新成功", userInfo)
}

// UpdateAvatar 更换头像
// @Summary 更换头像
// @Tags 用户
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "头像文件"
// @Success 200 {object} response.Response{data=dto.UserInfo} "更新成功"
// @Router /users/me/avatar [patch]
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	h.updateImage(c, "avatar", h.userService.UpdateAvatar)
}

// UpdateCoverImage 更换频道封面
// @Summary 更换频道封面
// @Tags 用户
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param cover_image formData file true "封面文件"
// @Success 200 {object} response.Response{data=dto.UserInfo} "更新成功"
// @Router /users/me/cover [patch]
func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	h.updateImage(c, "cover_image", h.userService.UpdateCoverImage)
}

// GetWatchHistory 获取观看历史
// @Summary 获取观看历史
// @Description 按最近观看时间倒序返回
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=dto.WatchHistoryData} "获取成功"
// @Router /users/me/history [get]
func (h *UserHandler) GetWatchHistory(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "无法获取用户信息")
		return
	}

	page, pageSize := parsePagination(c)
	data, err := h.userService.GetWatchHistory(userID, page, pageSize)
	if err != nil {
		logger.Error("Get watch history failed", zap.Error(err))
		response.InternalError(c, "获取观看历史失败")
		return
	}

	response.OK(c, "获取观看历史成功", data)
}

func (h *UserHandler) updateImage(c *gin.Context, field string, update func(ctx context.Context, userID int64, localPath string) (*dto.UserInfo, error)) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "无法获取用户信息")
		return
	}

	file, err := c.FormFile(field)
	if err != nil {
		response.BadRequest(c, "请上传图片文件")
		return
	}

	path, err := saveUpload(c, file)
	if err != nil {
		response.InternalError(c, "保存上传文件失败")
		return
	}
	defer minio.RemoveLocalFile(path)

	userInfo, err := update(c.Request.Context(), userID, path)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		logger.Error("Update user image failed", zap.String("field", field), zap.Error(err))
		response.InternalError(c, "更新图片失败，请稍后重试")
		return
	}

	response.OK(c, "更新成功", userInfo)
}
