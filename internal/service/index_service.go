package service

import (
	"context"
	"errors"
	"time"

	infraES "cliptube/internal/infra/elasticsearch"
	infraKafka "cliptube/internal/infra/kafka"
	"cliptube/internal/repository"
	"cliptube/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IndexService 维护搜索索引与数据库的最终一致，由 worker 进程驱动
type IndexService struct {
	videoRepo repository.VideoStore
	userRepo  repository.UserStore
}

func NewIndexService(videoRepo repository.VideoStore, userRepo repository.UserStore) *IndexService {
	return &IndexService{videoRepo: videoRepo, userRepo: userRepo}
}

// HandleVideoEvent 处理视频生命周期事件：删除事件移除文档，
// 其余事件重新索引当前数据库状态。
func (s *IndexService) HandleVideoEvent(event *infraKafka.VideoEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if event.Type == infraKafka.VideoEventDeleted {
		return infraES.DeleteVideo(ctx, event.VideoID)
	}

	video, err := s.videoRepo.GetByIDWithAuthor(event.VideoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 事件到达前视频已被删除
			return infraES.DeleteVideo(ctx, event.VideoID)
		}
		return err
	}

	return infraES.SyncVideo(ctx, video, video.Author.Username)
}

// RebuildAll 全量重建索引：分页扫描已发布视频批量写入 ES
func (s *IndexService) RebuildAll(ctx context.Context) error {
	const batchSize = 200

	page := 1
	var synced, failed int
	for {
		q := &repository.VideoQuery{
			PublishedOnly: true,
			Page:          page,
			PageSize:      batchSize,
			WithAuthor:    true,
		}
		videos, total, err := s.videoRepo.List(q)
		if err != nil {
			return err
		}
		if len(videos) == 0 {
			break
		}

		authorNames := make(map[int64]string, len(videos))
		for i := range videos {
			authorNames[videos[i].AuthorID] = videos[i].Author.Username
		}

		ok, bad, err := infraES.BulkSyncVideos(ctx, videos, authorNames)
		if err != nil {
			return err
		}
		synced += ok
		failed += bad

		if int64(page*batchSize) >= total {
			break
		}
		page++
	}

	logger.Info("Search index rebuild finished", zap.Int("synced", synced), zap.Int("failed", failed))
	return nil
}
