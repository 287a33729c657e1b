package service

import (
	"context"
	"errors"

	"cliptube/internal/api/dto"
	infraKafka "cliptube/internal/infra/kafka"
	"cliptube/internal/model"
	"cliptube/internal/repository"
	"cliptube/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrVideoNotFound     = errors.New("视频不存在")
	ErrVideoNoPermission = errors.New("没有权限操作该视频")
	ErrNoFieldsToUpdate  = errors.New("没有需要更新的字段")
)

// EventPublisher 视频生命周期事件发布，由 infra/kafka 实现。
// 发布失败不影响主流程。
type EventPublisher interface {
	PublishVideoEvent(ctx context.Context, event *infraKafka.VideoEvent) error
}

type VideoService struct {
	videoRepo    repository.VideoStore
	likeRepo     repository.LikeStore
	subRepo      repository.SubscriptionStore
	commentRepo  repository.CommentStore
	playlistRepo repository.PlaylistStore
	historyRepo  repository.WatchHistoryStore
	media        MediaStore
	events       EventPublisher
}

func NewVideoService(
	videoRepo repository.VideoStore,
	likeRepo repository.LikeStore,
	subRepo repository.SubscriptionStore,
	commentRepo repository.CommentStore,
	playlistRepo repository.PlaylistStore,
	historyRepo repository.WatchHistoryStore,
	media MediaStore,
	events EventPublisher,
) *VideoService {
	return &VideoService{
		videoRepo:    videoRepo,
		likeRepo:     likeRepo,
		subRepo:      subRepo,
		commentRepo:  commentRepo,
		playlistRepo: playlistRepo,
		historyRepo:  historyRepo,
		media:        media,
		events:       events,
	}
}

// Create 发布视频：先上传视频与封面到媒体存储，都成功后才落库。
// 落库失败时已上传的资产成为孤儿，只记日志不回滚。
func (s *VideoService) Create(ctx context.Context, authorID int64, req *dto.VideoCreateRequest, videoPath, thumbPath string) (*dto.VideoInfo, error) {
	playURL, duration, err := s.media.StoreVideo(ctx, videoPath)
	if err != nil {
		return nil, err
	}

	coverURL, err := s.media.StoreImage(ctx, thumbPath)
	if err != nil {
		return nil, err
	}

	video := &model.Video{
		AuthorID:    authorID,
		Title:       req.Title,
		Description: req.Description,
		PlayURL:     playURL,
		CoverURL:    coverURL,
		Duration:    duration,
		IsPublished: false,
	}

	if err := s.videoRepo.Create(video); err != nil {
		logger.Warn("Video insert failed, uploaded assets orphaned",
			zap.String("play_url", playURL),
			zap.String("cover_url", coverURL),
			zap.Error(err),
		)
		return nil, err
	}

	return toVideoInfo(video, false), nil
}

// GetDetail 获取视频详情，含点赞数、是否已赞、作者订阅子视图。
// 副作用：观看数 +1、写入观看历史，均为尽力而为，失败不影响返回。
// viewerID 为 0 表示匿名访问。
func (s *VideoService) GetDetail(videoID, viewerID int64) (*dto.VideoDetail, error) {
	video, err := s.videoRepo.GetByIDWithAuthor(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	// 未发布的视频仅作者本人可见
	if !video.IsPublished && video.AuthorID != viewerID {
		return nil, ErrVideoNotFound
	}

	likeCount, err := s.likeRepo.CountByTarget(model.LikeTargetVideo, videoID)
	if err != nil {
		return nil, err
	}

	isLiked := false
	if viewerID > 0 {
		isLiked, err = s.likeRepo.Exists(viewerID, model.LikeTargetVideo, videoID)
		if err != nil {
			return nil, err
		}
	}

	subscriberCount, err := s.subRepo.CountSubscribers(video.AuthorID)
	if err != nil {
		return nil, err
	}

	isSubscribed := false
	if viewerID > 0 && viewerID != video.AuthorID {
		isSubscribed, err = s.subRepo.Exists(viewerID, video.AuthorID)
		if err != nil {
			return nil, err
		}
	}

	if err := s.videoRepo.IncrementViewCount(videoID); err != nil {
		logger.Warn("Increment view count failed", zap.Int64("video_id", videoID), zap.Error(err))
	} else {
		video.ViewCount++
	}

	if viewerID > 0 {
		if err := s.historyRepo.Record(viewerID, videoID); err != nil {
			logger.Warn("Record watch history failed",
				zap.Int64("user_id", viewerID),
				zap.Int64("video_id", videoID),
				zap.Error(err),
			)
		}
	}

	detail := &dto.VideoDetail{
		VideoInfo: *toVideoInfo(video, true),
		LikeCount: likeCount,
		IsLiked:   isLiked,
	}
	if video.Author.ID != 0 {
		detail.Owner = &dto.VideoOwner{
			ID:              video.Author.ID,
			Username:        video.Author.Username,
			FullName:        video.Author.FullName,
			Avatar:          video.Author.Avatar,
			SubscriberCount: subscriberCount,
			IsSubscribed:    isSubscribed,
		}
	}

	return detail, nil
}

// GetFeed 获取公开视频流：可选关键词/作者过滤，只返回已发布视频
func (s *VideoService) GetFeed(req *dto.VideoFeedRequest) (*dto.VideoListData, error) {
	q := &repository.VideoQuery{
		Q:             req.Query,
		PublishedOnly: true,
		SortBy:        req.SortBy,
		SortOrder:     req.SortOrder,
		Page:          req.Page,
		PageSize:      req.PageSize,
		WithAuthor:    true,
	}
	if req.AuthorID > 0 {
		q.AuthorID = &req.AuthorID
	}
	return s.listVideos(q)
}

// ListMine 获取自己的视频列表，含未发布的
func (s *VideoService) ListMine(authorID int64, page, pageSize int) (*dto.VideoListData, error) {
	q := &repository.VideoQuery{
		AuthorID:   &authorID,
		Page:       page,
		PageSize:   pageSize,
		WithAuthor: true,
	}
	return s.listVideos(q)
}

// Update 更新视频信息，仅作者可操作。封面更换为先传新图、
// 落库成功后再尽力删除旧图。
func (s *VideoService) Update(ctx context.Context, videoID, actorID int64, req *dto.VideoUpdateRequest, thumbPath string) (*dto.VideoInfo, error) {
	video, err := s.getOwned(videoID, actorID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	oldCover := ""
	if thumbPath != "" {
		coverURL, err := s.media.StoreImage(ctx, thumbPath)
		if err != nil {
			return nil, err
		}
		updates["cover_url"] = coverURL
		oldCover = video.CoverURL
	}

	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	updated, err := s.videoRepo.Update(videoID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	if oldCover != "" {
		if err := s.media.Remove(ctx, oldCover); err != nil {
			logger.Warn("Remove old cover failed", zap.String("url", oldCover), zap.Error(err))
		}
	}

	if updated.IsPublished {
		s.publishEvent(ctx, infraKafka.VideoEventUpdated, updated)
	}

	return toVideoInfo(updated, false), nil
}

// TogglePublish 切换发布状态，仅作者可操作
func (s *VideoService) TogglePublish(ctx context.Context, videoID, actorID int64) (*dto.PublishToggleData, error) {
	video, err := s.getOwned(videoID, actorID)
	if err != nil {
		return nil, err
	}

	updated, err := s.videoRepo.Update(videoID, map[string]interface{}{"is_published": !video.IsPublished})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	if updated.IsPublished {
		s.publishEvent(ctx, infraKafka.VideoEventPublished, updated)
	} else {
		s.publishEvent(ctx, infraKafka.VideoEventUpdated, updated)
	}

	return &dto.PublishToggleData{VideoID: videoID, IsPublished: updated.IsPublished}, nil
}

// Delete 删除视频，仅作者可操作。删除实体后级联清理依赖数据：
// 指向视频/评论的点赞边、评论、观看历史、播放列表成员、媒体资产。
// 清理按顺序尽力执行，中途失败只记日志，可能留下孤儿数据。
func (s *VideoService) Delete(ctx context.Context, videoID, actorID int64) error {
	video, err := s.getOwned(videoID, actorID)
	if err != nil {
		return err
	}

	if err := s.videoRepo.Delete(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return err
	}

	s.cleanupAfterDelete(ctx, video)
	s.publishEvent(ctx, infraKafka.VideoEventDeleted, video)

	return nil
}

func (s *VideoService) cleanupAfterDelete(ctx context.Context, video *model.Video) {
	if _, err := s.likeRepo.DeleteByTarget(model.LikeTargetVideo, video.ID); err != nil {
		logger.Warn("Cascade delete video likes failed", zap.Int64("video_id", video.ID), zap.Error(err))
	}

	commentIDs, err := s.commentRepo.IDsByVideo(video.ID)
	if err != nil {
		logger.Warn("Cascade list comments failed", zap.Int64("video_id", video.ID), zap.Error(err))
	} else if len(commentIDs) > 0 {
		if _, err := s.likeRepo.DeleteByTargets(model.LikeTargetComment, commentIDs); err != nil {
			logger.Warn("Cascade delete comment likes failed", zap.Int64("video_id", video.ID), zap.Error(err))
		}
	}
	if _, err := s.commentRepo.DeleteByVideo(video.ID); err != nil {
		logger.Warn("Cascade delete comments failed", zap.Int64("video_id", video.ID), zap.Error(err))
	}

	if _, err := s.historyRepo.DeleteByVideo(video.ID); err != nil {
		logger.Warn("Cascade delete watch history failed", zap.Int64("video_id", video.ID), zap.Error(err))
	}

	if _, err := s.playlistRepo.RemoveVideoFromAll(video.ID); err != nil {
		logger.Warn("Cascade remove playlist memberships failed", zap.Int64("video_id", video.ID), zap.Error(err))
	}

	if video.PlayURL != "" {
		if err := s.media.Remove(ctx, video.PlayURL); err != nil {
			logger.Warn("Remove video asset failed", zap.String("url", video.PlayURL), zap.Error(err))
		}
	}
	if video.CoverURL != "" {
		if err := s.media.Remove(ctx, video.CoverURL); err != nil {
			logger.Warn("Remove cover asset failed", zap.String("url", video.CoverURL), zap.Error(err))
		}
	}
}

func (s *VideoService) listVideos(q *repository.VideoQuery) (*dto.VideoListData, error) {
	videos, total, err := s.videoRepo.List(q)
	if err != nil {
		return nil, err
	}

	items := make([]dto.VideoInfo, 0, len(videos))
	for i := range videos {
		items = append(items, *toVideoInfo(&videos[i], true))
	}

	return &dto.VideoListData{
		Videos:     items,
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

// getOwned 取视频并校验作者身份，所有写操作前置调用
func (s *VideoService) getOwned(videoID, actorID int64) (*model.Video, error) {
	video, err := s.videoRepo.GetByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	if video.AuthorID != actorID {
		return nil, ErrVideoNoPermission
	}
	return video, nil
}

func (s *VideoService) publishEvent(ctx context.Context, eventType string, video *model.Video) {
	if s.events == nil {
		return
	}
	event := &infraKafka.VideoEvent{
		Type:     eventType,
		VideoID:  video.ID,
		AuthorID: video.AuthorID,
	}
	if err := s.events.PublishVideoEvent(ctx, event); err != nil {
		logger.Warn("Publish video event failed",
			zap.String("type", eventType),
			zap.Int64("video_id", video.ID),
			zap.Error(err),
		)
	}
}

func toVideoInfo(v *model.Video, withAuthor bool) *dto.VideoInfo {
	info := &dto.VideoInfo{
		ID:          v.ID,
		AuthorID:    v.AuthorID,
		Title:       v.Title,
		Description: v.Description,
		PlayURL:     v.PlayURL,
		CoverURL:    v.CoverURL,
		Duration:    v.Duration,
		ViewCount:   v.ViewCount,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
	if withAuthor && v.Author.ID != 0 {
		info.Author = &dto.AuthorBrief{
			ID:       v.Author.ID,
			Username: v.Author.Username,
			Avatar:   v.Author.Avatar,
		}
	}
	return info
}
