package handler

import (
	"errors"

	"cliptube/internal/api/dto"
	"cliptube/internal/api/middleware"
	"cliptube/internal/api/response"
	"cliptube/internal/service"
	"cliptube/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PlaylistHandler struct {
	playlistService *service.PlaylistService
}

func NewPlaylistHandler(playlistService *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlistService: playlistService}
}

// Create 创建播放列表
// @Summary 创建播放列表
// @Tags 播放列表
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PlaylistCreateRequest true "播放列表信息"
// @Success 201 {object} response.Response{data=dto.PlaylistInfo} "创建成功"
// @Router /playlists [post]
func (h *PlaylistHandler) Create(c *gin.Context) {
	var req dto.PlaylistCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	info, err := h.playlistService.Create(userID, &req)
	if err != nil {
		handlePlaylistError(c, err)
		return
	}

	response.Created(c, "播放列表创建成功", info)
}

// GetDetail 获取播放列表详情
// @Summary 获取播放列表详情
// @Description 含所有者信息与成员视频（仅已发布）
// @Tags 播放列表
// @Produce json
// @Param id path int true "播放列表ID"
// @Success 200 {object} response.Response{data=dto.PlaylistDetail} "获取成功"
// @Failure 404 {object} response.ErrorResponse "播放列表不存在"
// @Router /playlists/{id} [get]
func (h *PlaylistHandler) GetDetail(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的播放列表ID")
		return
	}

	detail, err := h.playlistService.GetDetail(playlistID)
	if err != nil {
		handlePlaylistError(c, err)
		return
	}

	response.OK(c, "获取播放列表成功", detail)
}

// ListByOwner 获取用户的播放列表
// @Summary 获取用户的播放列表
// @Tags 播放列表
// @Produce json
// @Param id path int true "用户ID"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=dto.PlaylistListData} "获取成功"
// @Router /users/{id}/playlists [get]
func (h *PlaylistHandler) ListByOwner(c *gin.Context) {
	ownerID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	page, pageSize := parsePagination(c)

	data, err := h.playlistService.ListByOwner(ownerID, page, pageSize)
	if err != nil {
		handlePlaylistError(c, err)
		return
	}

	response.OK(c, "获取播放列表成功", data)
}

// Update 更新播放列表
// @Summary 更新播放列表名称/描述
// @Tags 播放列表
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "播放列表ID"
// @Param request body dto.PlaylistUpdateRequest true "更新字段"
// @Success 200 {object} response.Response{data=dto.PlaylistInfo} "更新成功"
// @Failure 403 {object} response.ErrorResponse "没有权限"
// @Router /playlists/{id} [patch]
func (h *PlaylistHandler) Update(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的播放列表ID")
		return
	}

	var req dto.PlaylistUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	info, err := h.playlistService.Update(playlistID, userID, &req)
	if err != nil {
		handlePlaylistError(c, err)
		return
	}

	response.OK(c, "播放列表更新成功", info)
}

// Delete 删除播放列表
// @Summary 删除播放列表
// @Tags 播放列表
// @Produce json
// @Security BearerAuth
// @Param id path int true "播放列表ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 403 {object} response.ErrorResponse "没有权限"
// @Router /playlists/{id} [delete]
func (h *PlaylistHandler) Delete(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的播放列表ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	if err := h.playlistService.Delete(playlistID, userID); err != nil {
		handlePlaylistError(c, err)
		return
	}

	response.OK(c, "播放列表删除成功", nil)
}

// AddVideo 添加视频到播放列表
// @Summary 添加视频到播放列表
// @Description 需同时拥有播放列表和视频；重复添加是幂等无操作
// @Tags 播放列表
// @Produce json
// @Security BearerAuth
// @Param id path int true "播放列表ID"
// @Param videoId path int true "视频ID"
// @Success 200 {object} response.Response{data=dto.PlaylistMembershipData} "添加成功"
// @Failure 403 {object} response.ErrorResponse "没有权限"
// @Router /playlists/{id}/videos/{videoId} [post]
func (h *PlaylistHandler) AddVideo(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的播放列表ID")
		return
	}
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	data, err := h.playlistService.AddVideo(playlistID, videoID, userID)
	if err != nil {
		handlePlaylistError(c, err)
		return
	}

	response.OK(c, "视频已添加", data)
}

// RemoveVideo 从播放列表移除视频
// @Summary 从播放列表移除视频
// @Description 移除非成员视频是无操作而非错误
// @Tags 播放列表
// @Produce json
// @Security BearerAuth
// @Param id path int true "播放列表ID"
// @Param videoId path int true "视频ID"
// @Success 200 {object} response.Response{data=dto.PlaylistMembershipData} "移除成功"
// @Failure 403 {object} response.ErrorResponse "没有权限"
// @Router /playlists/{id}/videos/{videoId} [delete]
func (h *PlaylistHandler) RemoveVideo(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的播放列表ID")
		return
	}
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	data, err := h.playlistService.RemoveVideo(playlistID, videoID, userID)
	if err != nil {
		handlePlaylistError(c, err)
		return
	}

	response.OK(c, "视频已移除", data)
}

func handlePlaylistError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlaylistNotFound), errors.Is(err, service.ErrVideoNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrPlaylistNoPermission), errors.Is(err, service.ErrVideoNoPermission):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrNoFieldsToUpdate):
		response.BadRequest(c, err.Error())
	default:
		logger.Error("Playlist operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
