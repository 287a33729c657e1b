package repository

import (
	"cliptube/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Insert 创建点赞边。ON CONFLICT DO NOTHING 把唯一性交给
// uq_like_user_target 索引：并发重复插入只有一条落库，
// 落败方 RowsAffected 为 0。
func (r *LikeRepository) Insert(userID int64, targetType string, targetID int64) (bool, error) {
	like := &model.Like{
		UserID:     userID,
		TargetType: targetType,
		TargetID:   targetID,
	}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Remove 删除点赞边，返回是否确实删除了记录
func (r *LikeRepository) Remove(userID int64, targetType string, targetID int64) (bool, error) {
	result := r.db.Where("user_id = ? AND target_type = ? AND target_id = ?",
		userID, targetType, targetID).Delete(&model.Like{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists 检查点赞边是否存在
func (r *LikeRepository) Exists(userID int64, targetType string, targetID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Like{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Count(&count).Error
	return count > 0, err
}

// CountByTarget 统计目标的点赞数
func (r *LikeRepository) CountByTarget(targetType string, targetID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Like{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Count(&count).Error
	return count, err
}

// CountByTargets 批量统计目标的点赞数
func (r *LikeRepository) CountByTargets(targetType string, targetIDs []int64) (map[int64]int64, error) {
	result := make(map[int64]int64, len(targetIDs))
	if len(targetIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		TargetID int64
		Cnt      int64
	}
	err := r.db.Model(&model.Like{}).
		Select("target_id, COUNT(*) AS cnt").
		Where("target_type = ? AND target_id IN ?", targetType, targetIDs).
		Group("target_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.TargetID] = row.Cnt
	}
	return result, nil
}

// BatchCheckLiked 批量查询点赞状态
func (r *LikeRepository) BatchCheckLiked(userID int64, targetType string, targetIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(targetIDs))
	if len(targetIDs) == 0 {
		return result, nil
	}

	var likedIDs []int64
	err := r.db.Model(&model.Like{}).
		Where("user_id = ? AND target_type = ? AND target_id IN ?", userID, targetType, targetIDs).
		Pluck("target_id", &likedIDs).Error
	if err != nil {
		return nil, err
	}

	likedSet := make(map[int64]bool, len(likedIDs))
	for _, id := range likedIDs {
		likedSet[id] = true
	}
	for _, id := range targetIDs {
		result[id] = likedSet[id]
	}
	return result, nil
}

// DeleteByTarget 删除目标的全部点赞边（级联清理用）
func (r *LikeRepository) DeleteByTarget(targetType string, targetID int64) (int64, error) {
	result := r.db.Where("target_type = ? AND target_id = ?", targetType, targetID).
		Delete(&model.Like{})
	return result.RowsAffected, result.Error
}

// DeleteByTargets 批量删除多个目标的点赞边（级联清理用）
func (r *LikeRepository) DeleteByTargets(targetType string, targetIDs []int64) (int64, error) {
	if len(targetIDs) == 0 {
		return 0, nil
	}
	result := r.db.Where("target_type = ? AND target_id IN ?", targetType, targetIDs).
		Delete(&model.Like{})
	return result.RowsAffected, result.Error
}

// ListVideoIDsLikedBy 获取用户点赞的视频 ID 列表（分页，最近点赞在前）
func (r *LikeRepository) ListVideoIDsLikedBy(userID int64, skip, limit int) ([]int64, int64, error) {
	query := r.db.Model(&model.Like{}).
		Where("user_id = ? AND target_type = ?", userID, model.LikeTargetVideo)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ids []int64
	err := query.Order("created_at DESC").Offset(skip).Limit(limit).
		Pluck("target_id", &ids).Error
	return ids, total, err
}
