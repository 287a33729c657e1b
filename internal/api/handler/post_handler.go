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

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// Create 发布动态
// @Summary 发布动态
// @Tags 动态
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PostCreateRequest true "动态内容"
// @Success 201 {object} response.Response{data=dto.PostInfo} "发布成功"
// @Router /posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	var req dto.PostCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	info, err := h.postService.Create(userID, req.Content)
	if err != nil {
		handlePostError(c, err)
		return
	}

	response.Created(c, "动态发布成功", info)
}

// ListByAuthor 获取用户动态列表
// @Summary 获取用户动态列表
// @Description 按时间倒序，附点赞状态
// @Tags 动态
// @Produce json
// @Param id path int true "用户ID"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=dto.PostListData} "获取成功"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /users/{id}/posts [get]
func (h *PostHandler) ListByAuthor(c *gin.Context) {
	authorID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	page, pageSize := parsePagination(c)

	data, err := h.postService.ListByAuthor(authorID, currentUserID(c), page, pageSize)
	if err != nil {
		handlePostError(c, err)
		return
	}

	response.OK(c, "获取动态列表成功", data)
}

// Update 修改动态
// @Summary 修改动态
// @Description 仅作者可操作
// @Tags 动态
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "动态ID"
// @Param request body dto.PostUpdateRequest true "新内容"
// @Success 200 {object} response.Response{data=dto.PostInfo} "修改成功"
// @Failure 403 {object} response.ErrorResponse "没有权限"
// @Router /posts/{id} [patch]
func (h *PostHandler) Update(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的动态ID")
		return
	}

	var req dto.PostUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	info, err := h.postService.Update(postID, userID, req.Content)
	if err != nil {
		handlePostError(c, err)
		return
	}

	response.OK(c, "动态修改成功", info)
}

// Delete 删除动态
// @Summary 删除动态
// @Description 仅作者可操作
// @Tags 动态
// @Produce json
// @Security BearerAuth
// @Param id path int true "动态ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 403 {object} response.ErrorResponse "没有权限"
// @Router /posts/{id} [delete]
func (h *PostHandler) Delete(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的动态ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	if err := h.postService.Delete(postID, userID); err != nil {
		handlePostError(c, err)
		return
	}

	response.OK(c, "动态删除成功", nil)
}

func handlePostError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound), errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrPostNoPermission):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrEmptyPostContent):
		response.BadRequest(c, err.Error())
	default:
		logger.Error("Post operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
