package dto

import "time"

// PostCreateRequest 发布动态请求
type PostCreateRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

// PostUpdateRequest 修改动态请求
type PostUpdateRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

// PostInfo 动态列表项，含点赞派生字段
type PostInfo struct {
	ID        int64       `json:"id"`
	Content   string      `json:"content"`
	LikeCount int64       `json:"like_count"`
	IsLiked   bool        `json:"is_liked"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Author    AuthorBrief `json:"author"`
}

// PostListData 动态列表响应数据
type PostListData struct {
	Posts      []PostInfo `json:"posts"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int64      `json:"total_pages"`
}
