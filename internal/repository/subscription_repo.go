package repository

import (
	"cliptube/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Insert 创建订阅边。唯一性由 uq_subscription_pair 索引保证，
// 并发重复插入时落败方 RowsAffected 为 0。
func (r *SubscriptionRepository) Insert(subscriberID, channelID int64) (bool, error) {
	sub := &model.Subscription{
		SubscriberID: subscriberID,
		ChannelID:    channelID,
	}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(sub)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Remove 删除订阅边，返回是否确实删除了记录
func (r *SubscriptionRepository) Remove(subscriberID, channelID int64) (bool, error) {
	result := r.db.Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Delete(&model.Subscription{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists 检查订阅关系是否存在
func (r *SubscriptionRepository) Exists(subscriberID, channelID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error
	return count > 0, err
}

// CountSubscribers 统计频道的订阅者数
func (r *SubscriptionRepository) CountSubscribers(channelID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).Where("channel_id = ?", channelID).Count(&count).Error
	return count, err
}

// CountSubscriptions 统计用户订阅的频道数
func (r *SubscriptionRepository) CountSubscriptions(subscriberID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).Where("subscriber_id = ?", subscriberID).Count(&count).Error
	return count, err
}

// ListSubscriberIDs 获取频道的订阅者 ID 列表（分页，最近订阅在前）
func (r *SubscriptionRepository) ListSubscriberIDs(channelID int64, skip, limit int) ([]int64, int64, error) {
	query := r.db.Model(&model.Subscription{}).Where("channel_id = ?", channelID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ids []int64
	err := query.Order("created_at DESC").Offset(skip).Limit(limit).
		Pluck("subscriber_id", &ids).Error
	return ids, total, err
}

// ListChannelIDs 获取用户订阅的频道 ID 列表（分页，最近订阅在前）
func (r *SubscriptionRepository) ListChannelIDs(subscriberID int64, skip, limit int) ([]int64, int64, error) {
	query := r.db.Model(&model.Subscription{}).Where("subscriber_id = ?", subscriberID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ids []int64
	err := query.Order("created_at DESC").Offset(skip).Limit(limit).
		Pluck("channel_id", &ids).Error
	return ids, total, err
}

// BatchCheckSubscribed 批量查询订阅状态
func (r *SubscriptionRepository) BatchCheckSubscribed(subscriberID int64, channelIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(channelIDs))
	if len(channelIDs) == 0 {
		return result, nil
	}

	var subscribedIDs []int64
	err := r.db.Model(&model.Subscription{}).
		Where("subscriber_id = ? AND channel_id IN ?", subscriberID, channelIDs).
		Pluck("channel_id", &subscribedIDs).Error
	if err != nil {
		return nil, err
	}

	subscribedSet := make(map[int64]bool, len(subscribedIDs))
	for _, id := range subscribedIDs {
		subscribedSet[id] = true
	}
	for _, id := range channelIDs {
		result[id] = subscribedSet[id]
	}
	return result, nil
}
