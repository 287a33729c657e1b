package handler

import (
	"errors"

	"cliptube/internal/api/middleware"
	"cliptube/internal/api/response"
	"cliptube/internal/service"
	"cliptube/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LikeHandler struct {
	likeService *service.LikeService
}

func NewLikeHandler(likeService *service.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

// Toggle 切换点赞
// @Summary 切换点赞
// @Description 未赞则点赞，已赞则取消；返回切换后的状态与总数
// @Tags 点赞
// @Produce json
// @Security BearerAuth
// @Param type path string true "对象类型" Enums(video, comment, post)
// @Param id path int true "对象ID"
// @Success 200 {object} response.Response{data=dto.ToggleData} "切换成功"
// @Failure 404 {object} response.ErrorResponse "对象不存在"
// @Failure 409 {object} response.ErrorResponse "并发冲突，可重试"
// @Router /likes/{type}/{id} [post]
func (h *LikeHandler) Toggle(c *gin.Context) {
	targetID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的对象ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	data, err := h.likeService.Toggle(userID, c.Param("type"), targetID)
	if err != nil {
		handleLikeError(c, err)
		return
	}

	response.OK(c, "操作成功", data)
}

// GetStatus 查询点赞状态
// @Summary 查询点赞状态
// @Tags 点赞
// @Produce json
// @Security BearerAuth
// @Param type path string true "对象类型" Enums(video, comment, post)
// @Param id path int true "对象ID"
// @Success 200 {object} response.Response{data=dto.ToggleData} "获取成功"
// @Failure 404 {object} response.ErrorResponse "对象不存在"
// @Router /likes/{type}/{id} [get]
func (h *LikeHandler) GetStatus(c *gin.Context) {
	targetID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的对象ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	data, err := h.likeService.GetStatus(userID, c.Param("type"), targetID)
	if err != nil {
		handleLikeError(c, err)
		return
	}

	response.OK(c, "获取成功", data)
}

// ListLikedVideos 获取已点赞的视频
// @Summary 获取已点赞的视频列表
// @Description 按点赞时间倒序
// @Tags 点赞
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=dto.LikedVideosData} "获取成功"
// @Router /likes/videos [get]
func (h *LikeHandler) ListLikedVideos(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "无法获取用户信息")
		return
	}

	page, pageSize := parsePagination(c)

	data, err := h.likeService.ListLikedVideos(userID, page, pageSize)
	if err != nil {
		logger.Error("List liked videos failed", zap.Error(err))
		response.InternalError(c, "获取点赞列表失败")
		return
	}

	response.OK(c, "获取点赞列表成功", data)
}

func handleLikeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidToggleTarget):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrVideoNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrPostNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrToggleConflict):
		response.Conflict(c, err.Error())
	default:
		logger.Error("Like operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
