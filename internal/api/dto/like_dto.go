package dto

// ToggleData 点赞/订阅切换后的最新状态
type ToggleData struct {
	State bool  `json:"state"`
	Count int64 `json:"count"`
}

// LikedVideosData 已点赞视频列表响应数据
type LikedVideosData struct {
	Videos     []VideoInfo `json:"videos"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int64       `json:"total_pages"`
}
