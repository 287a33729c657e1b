package dto

import "time"

// PlaylistCreateRequest 创建播放列表请求
type PlaylistCreateRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=1000"`
}

// PlaylistUpdateRequest 更新播放列表请求
type PlaylistUpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

// PlaylistInfo 播放列表列表项
type PlaylistInfo struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	VideoCount  int64     `json:"video_count"`
	TotalViews  int64     `json:"total_views"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlaylistDetail 播放列表详情：仅含已发布的成员视频
type PlaylistDetail struct {
	PlaylistInfo
	Owner  AuthorBrief `json:"owner"`
	Videos []VideoInfo `json:"videos"`
}

// PlaylistListData 播放列表列表响应数据
type PlaylistListData struct {
	Playlists  []PlaylistInfo `json:"playlists"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int64          `json:"total_pages"`
}

// PlaylistMembershipData 成员增删响应
type PlaylistMembershipData struct {
	PlaylistID int64 `json:"playlist_id"`
	VideoID    int64 `json:"video_id"`
	Changed    bool  `json:"changed"`
	VideoCount int64 `json:"video_count"`
}
