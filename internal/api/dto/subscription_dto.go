package dto

// SubscriberInfo 订阅者列表项：对方信息 + 互关标记 + 其自身粉丝数
type SubscriberInfo struct {
	ID              int64   `json:"id"`
	Username        string  `json:"username"`
	FullName        string  `json:"full_name"`
	Avatar          *string `json:"avatar"`
	SubscriberCount int64   `json:"subscriber_count"`
	SubscribedBack  bool    `json:"subscribed_back"`
}

// SubscribedChannelInfo 已订阅频道列表项，附频道最新发布的视频
type SubscribedChannelInfo struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	FullName    string     `json:"full_name"`
	Avatar      *string    `json:"avatar"`
	LatestVideo *VideoInfo `json:"latest_video,omitempty"`
}

// SubscriberListData 订阅者列表响应数据
type SubscriberListData struct {
	Subscribers []SubscriberInfo `json:"subscribers"`
	Total       int64            `json:"total"`
	Page        int              `json:"page"`
	PageSize    int              `json:"page_size"`
	TotalPages  int64            `json:"total_pages"`
}

// SubscribedChannelListData 已订阅频道列表响应数据
type SubscribedChannelListData struct {
	Channels   []SubscribedChannelInfo `json:"channels"`
	Total      int64                   `json:"total"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"page_size"`
	TotalPages int64                   `json:"total_pages"`
}
