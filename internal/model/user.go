package model

import "time"

// User 用户模型（频道）
type User struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;comment:用户标识" json:"id"`
	Username   string    `gorm:"size:255;not null;uniqueIndex;comment:用户名(小写唯一)" json:"username"`
	Email      string    `gorm:"size:255;not null;uniqueIndex;comment:邮箱" json:"email"`
	FullName   string    `gorm:"size:255;not null;comment:昵称" json:"full_name"`
	Password   string    `gorm:"size:255;not null;comment:密码哈希" json:"-"`
	Avatar     *string   `gorm:"size:500;comment:头像地址" json:"avatar"`
	CoverImage *string   `gorm:"size:500;comment:主页封面地址" json:"cover_image"`
	CreatedAt  time.Time `gorm:"autoCreateTime;comment:注册时间" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 关联关系
	Videos    []Video    `gorm:"foreignKey:AuthorID" json:"videos,omitempty"`
	Playlists []Playlist `gorm:"foreignKey:OwnerID" json:"playlists,omitempty"`
	Comments  []Comment  `gorm:"foreignKey:UserID" json:"comments,omitempty"`
}

func (User) TableName() string {
	return "users"
}
