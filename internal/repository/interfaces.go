package repository

import "cliptube/internal/model"

// 各 Store 接口由本包的 gorm 实现满足；service 层只依赖接口，
// 单元测试用内存假实现替换。

// UserStore 用户实体存取
type UserStore interface {
	Create(user *model.User) error
	GetByID(id int64) (*model.User, error)
	GetByUsername(username string) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	GetByIDs(ids []int64) ([]model.User, error)
	ExistsByID(id int64) (bool, error)
	ExistsByUsername(username string) (bool, error)
	ExistsByEmail(email string) (bool, error)
	Update(id int64, updates map[string]interface{}) (*model.User, error)
}

// VideoStore 视频实体存取
type VideoStore interface {
	Create(video *model.Video) error
	GetByID(id int64) (*model.Video, error)
	GetByIDWithAuthor(id int64) (*model.Video, error)
	GetByIDsWithAuthor(ids []int64) ([]model.Video, error)
	Update(id int64, updates map[string]interface{}) (*model.Video, error)
	Delete(id int64) error
	List(q *VideoQuery) ([]model.Video, int64, error)
	IncrementViewCount(id int64) error
	LatestPublishedByAuthor(authorID int64) (*model.Video, error)
}

// CommentStore 评论实体存取
type CommentStore interface {
	Create(comment *model.Comment) error
	GetByID(id int64) (*model.Comment, error)
	Update(commentID, userID int64, content string) error
	Delete(commentID, userID int64) (bool, error)
	ListByVideo(videoID int64, skip, limit int) ([]model.Comment, int64, error)
	IDsByVideo(videoID int64) ([]int64, error)
	DeleteByVideo(videoID int64) (int64, error)
}

// LikeStore 点赞边存取。Insert 依赖存储层唯一索引：
// 并发重复插入时只有一条成功，其余返回 inserted=false。
type LikeStore interface {
	Insert(userID int64, targetType string, targetID int64) (bool, error)
	Remove(userID int64, targetType string, targetID int64) (bool, error)
	Exists(userID int64, targetType string, targetID int64) (bool, error)
	CountByTarget(targetType string, targetID int64) (int64, error)
	CountByTargets(targetType string, targetIDs []int64) (map[int64]int64, error)
	BatchCheckLiked(userID int64, targetType string, targetIDs []int64) (map[int64]bool, error)
	DeleteByTarget(targetType string, targetID int64) (int64, error)
	DeleteByTargets(targetType string, targetIDs []int64) (int64, error)
	ListVideoIDsLikedBy(userID int64, skip, limit int) ([]int64, int64, error)
}

// SubscriptionStore 订阅边存取
type SubscriptionStore interface {
	Insert(subscriberID, channelID int64) (bool, error)
	Remove(subscriberID, channelID int64) (bool, error)
	Exists(subscriberID, channelID int64) (bool, error)
	CountSubscribers(channelID int64) (int64, error)
	CountSubscriptions(subscriberID int64) (int64, error)
	ListSubscriberIDs(channelID int64, skip, limit int) ([]int64, int64, error)
	ListChannelIDs(subscriberID int64, skip, limit int) ([]int64, int64, error)
	BatchCheckSubscribed(subscriberID int64, channelIDs []int64) (map[int64]bool, error)
}

// PlaylistStore 播放列表存取（含成员集合）
type PlaylistStore interface {
	Create(playlist *model.Playlist) error
	GetByID(id int64) (*model.Playlist, error)
	GetByIDWithOwner(id int64) (*model.Playlist, error)
	Update(id int64, updates map[string]interface{}) (*model.Playlist, error)
	Delete(id int64) error
	ListByOwner(ownerID int64, skip, limit int) ([]model.Playlist, int64, error)
	AddVideo(playlistID, videoID int64) (bool, error)
	RemoveVideo(playlistID, videoID int64) (bool, error)
	ListVideos(playlistID int64, publishedOnly bool) ([]model.Video, error)
	CountVideos(playlistID int64) (int64, error)
	RemoveVideoFromAll(videoID int64) (int64, error)
}

// PostStore 动态实体存取
type PostStore interface {
	Create(post *model.Post) error
	GetByID(id int64) (*model.Post, error)
	Update(postID, authorID int64, content string) error
	Delete(postID, authorID int64) (bool, error)
	ListByAuthor(authorID int64, skip, limit int) ([]model.Post, int64, error)
}

// WatchHistoryStore 观看历史存取
type WatchHistoryStore interface {
	Record(userID, videoID int64) error
	ListVideoIDs(userID int64, skip, limit int) ([]int64, int64, error)
	DeleteByVideo(videoID int64) (int64, error)
}
