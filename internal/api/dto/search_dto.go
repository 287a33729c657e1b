package dto

// SearchVideoRequest 搜索请求参数
type SearchVideoRequest struct {
	Q        string `form:"q" binding:"required,min=1,max=200"`
	AuthorID *int64 `form:"author_id"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SearchVideoData 搜索结果，命中视频按相关度排序
type SearchVideoData struct {
	Videos     []VideoInfo `json:"videos"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int64       `json:"total_pages"`
	Source     string      `json:"source"` // elasticsearch 或 database
}
