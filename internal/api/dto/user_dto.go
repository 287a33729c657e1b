package dto

// UserUpdateRequest 更新个人资料请求
type UserUpdateRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,min=1,max=100"`
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
}

// ChannelProfile 频道主页：用户信息 + 订阅关系的实时派生字段
type ChannelProfile struct {
	ID              int64   `json:"id"`
	Username        string  `json:"username"`
	FullName        string  `json:"full_name"`
	Avatar          *string `json:"avatar"`
	CoverImage      *string `json:"cover_image"`
	SubscriberCount int64   `json:"subscriber_count"`
	SubscribedTo    int64   `json:"subscribed_to_count"`
	IsSubscribed    bool    `json:"is_subscribed"`
}

// WatchHistoryData 观看历史响应数据
type WatchHistoryData struct {
	Videos     []VideoInfo `json:"videos"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int64       `json:"total_pages"`
}
