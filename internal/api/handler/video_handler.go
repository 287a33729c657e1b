package handler

import (
	"errors"
	"path/filepath"
	"strings"

	"cliptube/internal/api/dto"
	"cliptube/internal/api/middleware"
	"cliptube/internal/api/response"
	"cliptube/internal/infra/minio"
	"cliptube/internal/service"
	"cliptube/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 500MB
const maxVideoSize = int64(500 * 1024 * 1024)

var allowedVideoExts = map[string]bool{
	".mp4": true, ".avi": true, ".mov": true,
	".mkv": true, ".flv": true, ".webm": true,
}

type VideoHandler struct {
	videoService *service.VideoService
}

func NewVideoHandler(videoService *service.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

// Create 发布视频
// @Summary 发布视频
// @Description 上传视频文件与封面图，创建未发布状态的视频
// @Tags 视频
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "标题"
// @Param description formData string false "描述"
// @Param video_file formData file true "视频文件"
// @Param thumbnail formData file true "封面图"
// @Success 201 {object} response.Response{data=dto.VideoInfo} "发布成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Router /videos [post]
func (h *VideoHandler) Create(c *gin.Context) {
	var req dto.VideoCreateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	videoFile, err := c.FormFile("video_file")
	if err != nil {
		response.BadRequest(c, "请上传视频文件")
		return
	}

	ext := strings.ToLower(filepath.Ext(videoFile.Filename))
	if !allowedVideoExts[ext] {
		response.BadRequest(c, "不支持的文件格式，支持: mp4, avi, mov, mkv, flv, webm")
		return
	}
	if videoFile.Size > maxVideoSize || videoFile.Size == 0 {
		response.BadRequest(c, "文件大小无效（不能为空，最大 500MB）")
		return
	}

	thumbFile, err := c.FormFile("thumbnail")
	if err != nil {
		response.BadRequest(c, "请上传封面图")
		return
	}

	videoPath, err := saveUpload(c, videoFile)
	if err != nil {
		response.InternalError(c, "保存上传文件失败")
		return
	}
	defer minio.RemoveLocalFile(videoPath)

	thumbPath, err := saveUpload(c, thumbFile)
	if err != nil {
		response.InternalError(c, "保存上传文件失败")
		return
	}
	defer minio.RemoveLocalFile(thumbPath)

	userID, _ := middleware.GetCurrentUserID(c)

	info, err := h.videoService.Create(c.Request.Context(), userID, &req, videoPath, thumbPath)
	if err != nil {
		logger.Error("Create video failed", zap.Error(err))
		response.InternalError(c, "发布视频失败: "+err.Error())
		return
	}

	response.Created(c, "视频发布成功", info)
}

// GetFeed 获取视频流
// @Summary 获取视频流
// @Description 公开接口，仅返回已发布视频，支持关键词/作者过滤与排序
// @Tags 视频
// @Produce json
// @Param q query string false "搜索关键词"
// @Param author_id query int false "作者ID"
// @Param sort_by query string false "排序字段" Enums(views, duration, created_at)
// @Param sort_order query string false "排序方向" Enums(asc, desc)
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=dto.VideoListData} "获取成功"
// @Router /videos [get]
func (h *VideoHandler) GetFeed(c *gin.Context) {
	var req dto.VideoFeedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	data, err := h.videoService.GetFeed(&req)
	if err != nil {
		logger.Error("Get video feed failed", zap.Error(err))
		response.InternalError(c, "获取视频流失败")
		return
	}

	response.OK(c, "获取视频流成功", data)
}

// ListMine 获取自己的视频
// @Summary 获取自己的视频列表
// @Description 含未发布视频
// @Tags 视频
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=dto.VideoListData} "获取成功"
// @Router /videos/mine [get]
func (h *VideoHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "无法获取用户信息")
		return
	}

	page, pageSize := parsePagination(c)
	data, err := h.videoService.ListMine(userID, page, pageSize)
	if err != nil {
		logger.Error("List own videos failed", zap.Error(err))
		response.InternalError(c, "获取视频列表失败")
		return
	}

	response.OK(c, "获取视频列表成功", data)
}

// GetDetail 获取视频详情
// @Summary 获取视频详情
// @Description 含点赞数、点赞状态、作者订阅信息；观看数 +1 并记入观看历史
// @Tags 视频
// @Produce json
// @Param id path int true "视频ID"
// @Success 200 {object} response.Response{data=dto.VideoDetail} "获取成功"
// @Failure 404 {object} response.ErrorResponse "视频不存在"
// @Router /videos/{id} [get]
func (h *VideoHandler) GetDetail(c *gin.Context) {
	videoID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	detail, err := h.videoService.GetDetail(videoID, currentUserID(c))
	if err != nil {
		handleVideoError(c, err)
		return
	}

	response.OK(c, "获取视频详情成功", detail)
}

// Update 更新视频信息
// @Summary 更新视频信息
// @Description 仅作者可操作；可同时更换封面图
// @Tags 视频
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "视频ID"
// @Param title formData string false "标题"
// @Param description formData string false "描述"
// @Param thumbnail formData file false "新封面图"
// @Success 200 {object} response.Response{data=dto.VideoInfo} "更新成功"
// @Failure 403 {object} response.ErrorResponse "没有权限"
// @Router /videos/{id} [patch]
func (h *VideoHandler) Update(c *gin.Context) {
	videoID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	var req dto.VideoUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	thumbPath := ""
	if file, err := c.FormFile("thumbnail"); err == nil {
		path, err := saveUpload(c, file)
		if err != nil {
			response.InternalError(c, "保存上传文件失败")
			return
		}
		thumbPath = path
		defer minio.RemoveLocalFile(path)
	}

	userID, _ := middleware.GetCurrentUserID(c)

	info, err := h.videoService.Update(c.Request.Context(), videoID, userID, &req, thumbPath)
	if err != nil {
		handleVideoError(c, err)
		return
	}

	response.OK(c, "视频更新成功", info)
}

// TogglePublish 切换发布状态
// @Summary 切换发布状态
// @Tags 视频
// @Produce json
// @Security BearerAuth
// @Param id path int true "视频ID"
// @Success 200 {object} response.Response{data=dto.PublishToggleData} "切换成功"
// @Failure 403 {object} response.ErrorResponse "没有权限"
// @Router /videos/{id}/publish [patch]
func (h *VideoHandler) TogglePublish(c *gin.Context) {
	videoID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	data, err := h.videoService.TogglePublish(c.Request.Context(), videoID, userID)
	if err != nil {
		handleVideoError(c, err)
		return
	}

	response.OK(c, "发布状态已切换", data)
}

// Delete 删除视频
// @Summary 删除视频
// @Description 仅作者可操作；级联清理点赞、评论、观看历史、播放列表成员与媒体资产
// @Tags 视频
// @Produce json
// @Security BearerAuth
// @Param id path int true "视频ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 403 {object} response.ErrorResponse "没有权限"
// @Router /videos/{id} [delete]
func (h *VideoHandler) Delete(c *gin.Context) {
	videoID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	if err := h.videoService.Delete(c.Request.Context(), videoID, userID); err != nil {
		handleVideoError(c, err)
		return
	}

	response.OK(c, "视频删除成功", nil)
}

func handleVideoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVideoNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrVideoNoPermission):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrNoFieldsToUpdate):
		response.BadRequest(c, err.Error())
	default:
		logger.Error("Video operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
