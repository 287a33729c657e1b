package repository

import (
	"cliptube/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlaylistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

func (r *PlaylistRepository) Create(playlist *model.Playlist) error {
	return r.db.Create(playlist).Error
}

func (r *PlaylistRepository) GetByID(id int64) (*model.Playlist, error) {
	var playlist model.Playlist
	err := r.db.First(&playlist, id).Error
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

// GetByIDWithOwner 根据 ID 获取播放列表（含所有者信息）
func (r *PlaylistRepository) GetByIDWithOwner(id int64) (*model.Playlist, error) {
	var playlist model.Playlist
	err := r.db.Preload("Owner").First(&playlist, id).Error
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

// Update 更新播放列表字段
func (r *PlaylistRepository) Update(id int64, updates map[string]interface{}) (*model.Playlist, error) {
	result := r.db.Model(&model.Playlist{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

// Delete 删除播放列表及其成员记录
func (r *PlaylistRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&model.PlaylistVideo{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Playlist{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ListByOwner 获取用户的播放列表（分页）
func (r *PlaylistRepository) ListByOwner(ownerID int64, skip, limit int) ([]model.Playlist, int64, error) {
	query := r.db.Model(&model.Playlist{}).Where("owner_id = ?", ownerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var playlists []model.Playlist
	err := query.Order("created_at DESC").Offset(skip).Limit(limit).Find(&playlists).Error
	if err != nil {
		return nil, 0, err
	}

	return playlists, total, nil
}

// AddVideo 向播放列表添加视频。集合语义：重复添加由
// uq_playlist_video 索引吞掉，返回 added=false 而不是报错。
func (r *PlaylistRepository) AddVideo(playlistID, videoID int64) (bool, error) {
	member := &model.PlaylistVideo{
		PlaylistID: playlistID,
		VideoID:    videoID,
	}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(member)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RemoveVideo 从播放列表移除视频。移除非成员是无操作，返回 removed=false。
func (r *PlaylistRepository) RemoveVideo(playlistID, videoID int64) (bool, error) {
	result := r.db.Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&model.PlaylistVideo{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListVideos 获取播放列表的成员视频（按加入时间排序，可只取已发布）
func (r *PlaylistRepository) ListVideos(playlistID int64, publishedOnly bool) ([]model.Video, error) {
	query := r.db.Model(&model.Video{}).
		Joins("JOIN playlist_videos pv ON pv.video_id = videos.id").
		Where("pv.playlist_id = ?", playlistID)
	if publishedOnly {
		query = query.Where("videos.is_published = ?", true)
	}

	var videos []model.Video
	err := query.Order("pv.created_at ASC").Find(&videos).Error
	return videos, err
}

// CountVideos 统计播放列表成员数
func (r *PlaylistRepository) CountVideos(playlistID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.PlaylistVideo{}).Where("playlist_id = ?", playlistID).Count(&count).Error
	return count, err
}

// RemoveVideoFromAll 把视频从所有播放列表移除（级联清理用）
func (r *PlaylistRepository) RemoveVideoFromAll(videoID int64) (int64, error) {
	result := r.db.Where("video_id = ?", videoID).Delete(&model.PlaylistVideo{})
	return result.RowsAffected, result.Error
}
