package model

import "time"

// Post 动态模型（纯文本短内容，可被点赞）
type Post struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:动态ID" json:"id"`
	AuthorID  int64     `gorm:"not null;index:idx_posts_author_id;comment:动态作者ID" json:"author_id"`
	Content   string    `gorm:"type:text;not null;comment:动态内容" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_posts_created_at;comment:发布时间" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 关联关系
	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}
