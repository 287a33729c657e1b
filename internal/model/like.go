package model

import "time"

// Like 目标类型（带标签的变体：同一条记录只指向一种目标）
const (
	LikeTargetVideo   = "video"
	LikeTargetComment = "comment"
	LikeTargetPost    = "post"
)

// Like 点赞边模型。(user_id, target_type, target_id) 复合唯一索引
// 在存储层保证同一用户对同一目标至多一条点赞记录。
type Like struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;comment:点赞记录ID" json:"id"`
	UserID     int64     `gorm:"not null;uniqueIndex:uq_like_user_target;index:idx_likes_user_id;comment:点赞用户ID" json:"user_id"`
	TargetType string    `gorm:"size:16;not null;uniqueIndex:uq_like_user_target;comment:点赞目标类型" json:"target_type"`
	TargetID   int64     `gorm:"not null;uniqueIndex:uq_like_user_target;index:idx_likes_target_id;comment:点赞目标ID" json:"target_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime;comment:点赞时间" json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}

// ValidLikeTarget 检查目标类型是否合法
func ValidLikeTarget(targetType string) bool {
	switch targetType {
	case LikeTargetVideo, LikeTargetComment, LikeTargetPost:
		return true
	}
	return false
}
