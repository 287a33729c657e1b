package service

import (
	"errors"

	"cliptube/internal/api/dto"
	"cliptube/internal/model"
	"cliptube/internal/repository"
	"cliptube/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrPlaylistNotFound     = errors.New("播放列表不存在")
	ErrPlaylistNoPermission = errors.New("没有权限操作该播放列表")
)

type PlaylistService struct {
	playlistRepo repository.PlaylistStore
	videoRepo    repository.VideoStore
}

func NewPlaylistService(playlistRepo repository.PlaylistStore, videoRepo repository.VideoStore) *PlaylistService {
	return &PlaylistService{playlistRepo: playlistRepo, videoRepo: videoRepo}
}

// Create 创建播放列表
func (s *PlaylistService) Create(ownerID int64, req *dto.PlaylistCreateRequest) (*dto.PlaylistInfo, error) {
	playlist := &model.Playlist{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.playlistRepo.Create(playlist); err != nil {
		return nil, err
	}

	return toPlaylistInfo(playlist, 0, 0), nil
}

// Update 更新名称/描述，仅所有者可操作
func (s *PlaylistService) Update(playlistID, actorID int64, req *dto.PlaylistUpdateRequest) (*dto.PlaylistInfo, error) {
	if _, err := s.getOwned(playlistID, actorID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	updated, err := s.playlistRepo.Update(playlistID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlaylistNotFound
		}
		return nil, err
	}

	count, err := s.playlistRepo.CountVideos(playlistID)
	if err != nil {
		logger.Warn("Count playlist videos failed", zap.Int64("playlist_id", playlistID), zap.Error(err))
	}
	return toPlaylistInfo(updated, count, 0), nil
}

// Delete 删除播放列表及其全部成员记录，仅所有者可操作
func (s *PlaylistService) Delete(playlistID, actorID int64) error {
	if _, err := s.getOwned(playlistID, actorID); err != nil {
		return err
	}

	if err := s.playlistRepo.Delete(playlistID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlaylistNotFound
		}
		return err
	}
	return nil
}

// AddVideo 添加视频到播放列表。要求操作者同时拥有列表和视频；
// 成员是集合语义，重复添加是幂等的无操作。
func (s *PlaylistService) AddVideo(playlistID, videoID, actorID int64) (*dto.PlaylistMembershipData, error) {
	if _, err := s.getOwned(playlistID, actorID); err != nil {
		return nil, err
	}

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

	added, err := s.playlistRepo.AddVideo(playlistID, videoID)
	if err != nil {
		return nil, err
	}

	count, err := s.playlistRepo.CountVideos(playlistID)
	if err != nil {
		return nil, err
	}

	return &dto.PlaylistMembershipData{
		PlaylistID: playlistID,
		VideoID:    videoID,
		Changed:    added,
		VideoCount: count,
	}, nil
}

// RemoveVideo 从播放列表移除视频，移除非成员是无操作而非错误
func (s *PlaylistService) RemoveVideo(playlistID, videoID, actorID int64) (*dto.PlaylistMembershipData, error) {
	if _, err := s.getOwned(playlistID, actorID); err != nil {
		return nil, err
	}

	removed, err := s.playlistRepo.RemoveVideo(playlistID, videoID)
	if err != nil {
		return nil, err
	}

	count, err := s.playlistRepo.CountVideos(playlistID)
	if err != nil {
		return nil, err
	}

	return &dto.PlaylistMembershipData{
		PlaylistID: playlistID,
		VideoID:    videoID,
		Changed:    removed,
		VideoCount: count,
	}, nil
}

// GetDetail 获取播放列表详情：所有者信息 + 成员视频（仅已发布）
func (s *PlaylistService) GetDetail(playlistID int64) (*dto.PlaylistDetail, error) {
	playlist, err := s.playlistRepo.GetByIDWithOwner(playlistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlaylistNotFound
		}
		return nil, err
	}

	videos, err := s.playlistRepo.ListVideos(playlistID, true)
	if err != nil {
		return nil, err
	}

	items := make([]dto.VideoInfo, 0, len(videos))
	var views int64
	for i := range videos {
		items = append(items, *toVideoInfo(&videos[i], true))
		views += videos[i].ViewCount
	}

	return &dto.PlaylistDetail{
		PlaylistInfo: *toPlaylistInfo(playlist, int64(len(items)), views),
		Owner: dto.AuthorBrief{
			ID:       playlist.OwnerID,
			Username: playlist.Owner.Username,
			Avatar:   playlist.Owner.Avatar,
		},
		Videos: items,
	}, nil
}

// ListByOwner 获取用户的播放列表，附成员数与累计观看数
func (s *PlaylistService) ListByOwner(ownerID int64, page, pageSize int) (*dto.PlaylistListData, error) {
	page, pageSize = normalizePage(page, pageSize)
	skip := (page - 1) * pageSize

	playlists, total, err := s.playlistRepo.ListByOwner(ownerID, skip, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]dto.PlaylistInfo, 0, len(playlists))
	for i := range playlists {
		p := &playlists[i]
		count, err := s.playlistRepo.CountVideos(p.ID)
		if err != nil {
			return nil, err
		}
		videos, err := s.playlistRepo.ListVideos(p.ID, true)
		if err != nil {
			return nil, err
		}
		var views int64
		for j := range videos {
			views += videos[j].ViewCount
		}
		items = append(items, *toPlaylistInfo(p, count, views))
	}

	return &dto.PlaylistListData{
		Playlists:  items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func (s *PlaylistService) getOwned(playlistID, actorID int64) (*model.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(playlistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlaylistNotFound
		}
		return nil, err
	}
	if playlist.OwnerID != actorID {
		return nil, ErrPlaylistNoPermission
	}
	return playlist, nil
}

func toPlaylistInfo(p *model.Playlist, videoCount, totalViews int64) *dto.PlaylistInfo {
	return &dto.PlaylistInfo{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Description: p.Description,
		VideoCount:  videoCount,
		TotalViews:  totalViews,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
