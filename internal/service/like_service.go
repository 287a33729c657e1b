package service

import (
	"errors"

	"cliptube/internal/api/dto"
	"cliptube/internal/model"
	"cliptube/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrCommentNotFound     = errors.New("评论不存在")
	ErrPostNotFound        = errors.New("动态不存在")
	ErrInvalidToggleTarget = errors.New("不支持的点赞对象类型")

	// ErrToggleConflict 并发切换撞上唯一索引，客户端可重试
	ErrToggleConflict = errors.New("操作冲突，请重试")
)

type LikeService struct {
	likeRepo    repository.LikeStore
	videoRepo   repository.VideoStore
	commentRepo repository.CommentStore
	postRepo    repository.PostStore
}

func NewLikeService(
	likeRepo repository.LikeStore,
	videoRepo repository.VideoStore,
	commentRepo repository.CommentStore,
	postRepo repository.PostStore,
) *LikeService {
	return &LikeService{
		likeRepo:    likeRepo,
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// Toggle 切换点赞边：已存在则删除（state=false），否则创建（state=true）。
// 重复切换严格交替，唯一索引保证同一 (用户, 对象) 至多一条边。
// 返回切换后的状态与对象的最新点赞总数。
func (s *LikeService) Toggle(userID int64, targetType string, targetID int64) (*dto.ToggleData, error) {
	if !model.ValidLikeTarget(targetType) {
		return nil, ErrInvalidToggleTarget
	}

	if err := s.checkTargetExists(targetType, targetID); err != nil {
		return nil, err
	}

	removed, err := s.likeRepo.Remove(userID, targetType, targetID)
	if err != nil {
		return nil, err
	}

	state := false
	if !removed {
		inserted, err := s.likeRepo.Insert(userID, targetType, targetID)
		if err != nil {
			return nil, err
		}
		if !inserted {
			// 并发请求抢先插入了同一条边
			return nil, ErrToggleConflict
		}
		state = true
	}

	count, err := s.likeRepo.CountByTarget(targetType, targetID)
	if err != nil {
		return nil, err
	}

	return &dto.ToggleData{State: state, Count: count}, nil
}

// GetStatus 查询点赞状态与总数
func (s *LikeService) GetStatus(userID int64, targetType string, targetID int64) (*dto.ToggleData, error) {
	if !model.ValidLikeTarget(targetType) {
		return nil, ErrInvalidToggleTarget
	}
	if err := s.checkTargetExists(targetType, targetID); err != nil {
		return nil, err
	}

	liked, err := s.likeRepo.Exists(userID, targetType, targetID)
	if err != nil {
		return nil, err
	}

	count, err := s.likeRepo.CountByTarget(targetType, targetID)
	if err != nil {
		return nil, err
	}

	return &dto.ToggleData{State: liked, Count: count}, nil
}

// ListLikedVideos 获取用户点赞过的视频列表（按点赞时间倒序）
func (s *LikeService) ListLikedVideos(userID int64, page, pageSize int) (*dto.LikedVideosData, error) {
	page, pageSize = normalizePage(page, pageSize)
	skip := (page - 1) * pageSize

	videoIDs, total, err := s.likeRepo.ListVideoIDsLikedBy(userID, skip, pageSize)
	if err != nil {
		return nil, err
	}

	videos, err := s.videoRepo.GetByIDsWithAuthor(videoIDs)
	if err != nil {
		return nil, err
	}

	// 按点赞顺序重排，批量查询不保证顺序
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

	return &dto.LikedVideosData{
		Videos:     items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func (s *LikeService) checkTargetExists(targetType string, targetID int64) error {
	switch targetType {
	case model.LikeTargetVideo:
		if _, err := s.videoRepo.GetByID(targetID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVideoNotFound
			}
			return err
		}
	case model.LikeTargetComment:
		if _, err := s.commentRepo.GetByID(targetID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return err
		}
	case model.LikeTargetPost:
		if _, err := s.postRepo.GetByID(targetID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}
	}
	return nil
}
