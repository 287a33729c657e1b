package model

import "time"

// WatchHistory 观看历史记录。(user_id, video_id) 复合唯一索引实现去重；
// 重复观看只更新 watched_at，使记录移动到最近位置。
type WatchHistory struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:历史记录ID" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_watch_user_video;index:idx_watch_history_user;comment:观看用户ID" json:"user_id"`
	VideoID   int64     `gorm:"not null;uniqueIndex:uq_watch_user_video;comment:被观看视频ID" json:"video_id"`
	WatchedAt time.Time `gorm:"not null;index:idx_watch_history_watched_at;comment:最近观看时间" json:"watched_at"`
}

func (WatchHistory) TableName() string {
	return "watch_history"
}
