package service

import (
	"context"
	"errors"
	"strings"

	"cliptube/internal/api/dto"
	"cliptube/internal/model"
	"cliptube/internal/repository"
	"cliptube/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo    repository.UserStore
	subRepo     repository.SubscriptionStore
	videoRepo   repository.VideoStore
	historyRepo repository.WatchHistoryStore
	media       MediaStore
}

func NewUserService(
	userRepo repository.UserStore,
	subRepo repository.SubscriptionStore,
	videoRepo repository.VideoStore,
	historyRepo repository.WatchHistoryStore,
	media MediaStore,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		subRepo:     subRepo,
		videoRepo:   videoRepo,
		historyRepo: historyRepo,
		media:       media,
	}
}

// GetChannelProfile 按用户名获取频道主页，派生字段按当前边状态实时计算。
// viewerID 为 0 表示匿名访问，is_subscribed 恒为 false。
func (s *UserService) GetChannelProfile(username string, viewerID int64) (*dto.ChannelProfile, error) {
	user, err := s.userRepo.GetByUsername(strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}

	subscriberCount, err := s.subRepo.CountSubscribers(user.ID)
	if err != nil {
		return nil, err
	}

	subscribedTo, err := s.subRepo.CountSubscriptions(user.ID)
	if err != nil {
		return nil, err
	}

	isSubscribed := false
	if viewerID > 0 && viewerID != user.ID {
		isSubscribed, err = s.subRepo.Exists(viewerID, user.ID)
		if err != nil {
			return nil, err
		}
	}

	return &dto.ChannelProfile{
		ID:              user.ID,
		Username:        user.Username,
		FullName:        user.FullName,
		Avatar:          user.Avatar,
		CoverImage:      user.CoverImage,
		SubscriberCount: subscriberCount,
		SubscribedTo:    subscribedTo,
		IsSubscribed:    isSubscribed,
	}, nil
}

// UpdateProfile 更新个人资料（姓名、邮箱）
func (s *UserService) UpdateProfile(userID int64, req *dto.UserUpdateRequest) (*dto.UserInfo, error) {
	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		user, err := s.userRepo.GetByEmail(email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if user != nil && user.ID != userID {
			return nil, ErrEmailExists
		}
		updates["email"] = email
	}

	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	updated, err := s.userRepo.Update(userID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return toUserInfo(updated), nil
}

// UpdateAvatar 更换头像：先传新图，落库后再尽力删除旧图
func (s *UserService) UpdateAvatar(ctx context.Context, userID int64, localPath string) (*dto.UserInfo, error) {
	return s.replaceImage(ctx, userID, localPath, "avatar", func(u *model.User) *string { return u.Avatar })
}

// UpdateCoverImage 更换频道封面，流程同头像
func (s *UserService) UpdateCoverImage(ctx context.Context, userID int64, localPath string) (*dto.UserInfo, error) {
	return s.replaceImage(ctx, userID, localPath, "cover_image", func(u *model.User) *string { return u.CoverImage })
}

// GetWatchHistory 获取观看历史，按最近观看时间倒序
func (s *UserService) GetWatchHistory(userID int64, page, pageSize int) (*dto.WatchHistoryData, error) {
	page, pageSize = normalizePage(page, pageSize)
	skip := (page - 1) * pageSize

	videoIDs, total, err := s.historyRepo.ListVideoIDs(userID, skip, pageSize)
	if err != nil {
		return nil, err
	}

	videos, err := s.videoRepo.GetByIDsWithAuthor(videoIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*model.Video, len(videos))
	for i := range videos {
		byID[videos[i].ID] = &videos[i]
	}

	items := make([]dto.VideoInfo, 0, len(videoIDs))
	for _, id := range videoIDs {
		if v, ok := byID[id]; ok {
			items = append(items, *toVideoInfo(v, true))
		}
	}

	return &dto.WatchHistoryData{
		Videos:     items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func (s *UserService) replaceImage(ctx context.Context, userID int64, localPath, column string, current func(*model.User) *string) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	url, err := s.media.StoreImage(ctx, localPath)
	if err != nil {
		return nil, err
	}

	updated, err := s.userRepo.Update(userID, map[string]interface{}{column: url})
	if err != nil {
		return nil, err
	}

	if old := current(user); old != nil && *old != "" {
		if err := s.media.Remove(ctx, *old); err != nil {
			logger.Warn("Remove old image failed", zap.String("url", *old), zap.Error(err))
		}
	}

	return toUserInfo(updated), nil
}
