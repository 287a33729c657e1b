package repository

import (
	"time"

	"cliptube/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WatchHistoryRepository struct {
	db *gorm.DB
}

func NewWatchHistoryRepository(db *gorm.DB) *WatchHistoryRepository {
	return &WatchHistoryRepository{db: db}
}

// Record 记录一次观看。已看过的视频只更新 watched_at（去重并移到最近），
// 由 uq_watch_user_video 索引保证每对 (user, video) 至多一条记录。
func (r *WatchHistoryRepository) Record(userID, videoID int64) error {
	entry := &model.WatchHistory{
		UserID:    userID,
		VideoID:   videoID,
		WatchedAt: time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"watched_at": entry.WatchedAt}),
	}).Create(entry).Error
}

// ListVideoIDs 获取用户的观看历史视频 ID 列表（分页，最近观看在前）
func (r *WatchHistoryRepository) ListVideoIDs(userID int64, skip, limit int) ([]int64, int64, error) {
	query := r.db.Model(&model.WatchHistory{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ids []int64
	err := query.Order("watched_at DESC").Offset(skip).Limit(limit).
		Pluck("video_id", &ids).Error
	return ids, total, err
}

// DeleteByVideo 删除视频的全部观看记录（级联清理用）
func (r *WatchHistoryRepository) DeleteByVideo(videoID int64) (int64, error) {
	result := r.db.Where("video_id = ?", videoID).Delete(&model.WatchHistory{})
	return result.RowsAffected, result.Error
}
