package model

import "time"

// Subscription 订阅边模型：subscriber 订阅 channel。
// (subscriber_id, channel_id) 复合唯一索引保证同一对用户至多一条订阅记录。
type Subscription struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;comment:订阅记录ID" json:"id"`
	SubscriberID int64     `gorm:"not null;uniqueIndex:uq_subscription_pair;index:idx_subscriptions_subscriber;comment:订阅者ID" json:"subscriber_id"`
	ChannelID    int64     `gorm:"not null;uniqueIndex:uq_subscription_pair;index:idx_subscriptions_channel;comment:被订阅频道(用户)ID" json:"channel_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime;comment:订阅时间" json:"created_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
