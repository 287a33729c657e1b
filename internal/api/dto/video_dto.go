package dto

import "time"

// VideoCreateRequest 视频发布请求（multipart/form-data，另带视频与封面文件）
type VideoCreateRequest struct {
	Title       string `form:"title" binding:"required,min=1,max=200"`
	Description string `form:"description" binding:"omitempty,max=5000"`
}

// VideoUpdateRequest 视频更新请求（封面文件单独上传）
type VideoUpdateRequest struct {
	Title       *string `form:"title" binding:"omitempty,min=1,max=200"`
	Description *string `form:"description" binding:"omitempty,max=5000"`
}

// VideoFeedRequest 视频流查询参数
type VideoFeedRequest struct {
	Query     string `form:"q" binding:"omitempty,max=200"`
	AuthorID  int64  `form:"author_id" binding:"omitempty,min=1"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=views duration created_at"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// AuthorBrief 视频中嵌套的作者简要信息
type AuthorBrief struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
}

// VideoOwner 视频详情中的作者子视图，含订阅派生字段
type VideoOwner struct {
	ID              int64   `json:"id"`
	Username        string  `json:"username"`
	FullName        string  `json:"full_name"`
	Avatar          *string `json:"avatar"`
	SubscriberCount int64   `json:"subscriber_count"`
	IsSubscribed    bool    `json:"is_subscribed"`
}

// VideoInfo 视频列表项
type VideoInfo struct {
	ID          int64        `json:"id"`
	AuthorID    int64        `json:"author_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	PlayURL     string       `json:"play_url"`
	CoverURL    string       `json:"cover_url"`
	Duration    int          `json:"duration"`
	ViewCount   int64        `json:"view_count"`
	IsPublished bool         `json:"is_published"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Author      *AuthorBrief `json:"author,omitempty"`
}

// VideoDetail 视频详情：实体字段 + 点赞/订阅实时派生字段
type VideoDetail struct {
	VideoInfo
	LikeCount int64       `json:"like_count"`
	IsLiked   bool        `json:"is_liked"`
	Owner     *VideoOwner `json:"owner"`
}

// VideoListData 视频列表响应数据
type VideoListData struct {
	Videos     []VideoInfo `json:"videos"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int64       `json:"total_pages"`
}

// PublishToggleData 发布状态切换响应
type PublishToggleData struct {
	VideoID     int64 `json:"video_id"`
	IsPublished bool  `json:"is_published"`
}
