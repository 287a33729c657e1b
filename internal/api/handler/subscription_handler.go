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

type SubscriptionHandler struct {
	subService *service.SubscriptionService
}

func NewSubscriptionHandler(subService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subService: subService}
}

// Toggle 切换订阅
// @Summary 切换订阅
// @Description 未订阅则订阅，已订阅则取消；返回切换后的状态与订阅者总数
// @Tags 订阅
// @Produce json
// @Security BearerAuth
// @Param id path int true "频道（用户）ID"
// @Success 200 {object} response.Response{data=dto.ToggleData} "切换成功"
// @Failure 400 {object} response.ErrorResponse "不能订阅自己"
// @Failure 404 {object} response.ErrorResponse "频道不存在"
// @Failure 409 {object} response.ErrorResponse "并发冲突，可重试"
// @Router /subscriptions/{id} [post]
func (h *SubscriptionHandler) Toggle(c *gin.Context) {
	channelID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的频道ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	data, err := h.subService.Toggle(userID, channelID)
	if err != nil {
		handleSubscriptionError(c, err)
		return
	}

	response.OK(c, "操作成功", data)
}

// ListSubscribers 获取频道订阅者列表
// @Summary 获取频道订阅者列表
// @Description 仅频道主本人可查看，附每个订阅者的粉丝数与频道主是否回关
// @Tags 订阅
// @Produce json
// @Security BearerAuth
// @Param id path int true "频道（用户）ID"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=dto.SubscriberListData} "获取成功"
// @Failure 403 {object} response.ErrorResponse "只有频道主可以查看"
// @Failure 404 {object} response.ErrorResponse "频道不存在"
// @Router /users/{id}/subscribers [get]
func (h *SubscriptionHandler) ListSubscribers(c *gin.Context) {
	channelID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的频道ID")
		return
	}

	page, pageSize := parsePagination(c)

	data, err := h.subService.ListSubscribers(channelID, currentUserID(c), page, pageSize)
	if err != nil {
		handleSubscriptionError(c, err)
		return
	}

	response.OK(c, "获取订阅者列表成功", data)
}

// ListSubscribedChannels 获取已订阅的频道
// @Summary 获取已订阅的频道列表
// @Description 附各频道最新发布的视频
// @Tags 订阅
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=dto.SubscribedChannelListData} "获取成功"
// @Router /subscriptions [get]
func (h *SubscriptionHandler) ListSubscribedChannels(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "无法获取用户信息")
		return
	}

	page, pageSize := parsePagination(c)

	data, err := h.subService.ListSubscribedChannels(userID, page, pageSize)
	if err != nil {
		handleSubscriptionError(c, err)
		return
	}

	response.OK(c, "获取订阅列表成功", data)
}

func handleSubscriptionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCannotSubscribeSelf):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrSubscribersOwnerOnly):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrChannelNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrToggleConflict):
		response.Conflict(c, err.Error())
	default:
		logger.Error("Subscription operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
