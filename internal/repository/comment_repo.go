package repository

import (
	"cliptube/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

func (r *CommentRepository) GetByID(id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Update 更新评论内容（仅作者本人，WHERE 条件带 user_id 兜底权限）
func (r *CommentRepository) Update(commentID, userID int64, content string) error {
	result := r.db.Model(&model.Comment{}).
		Where("id = ? AND user_id = ?", commentID, userID).
		Update("content", content)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 删除评论（仅作者本人），返回是否确实删除了记录
func (r *CommentRepository) Delete(commentID, userID int64) (bool, error) {
	result := r.db.Where("id = ? AND user_id = ?", commentID, userID).Delete(&model.Comment{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByVideo 获取视频的评论列表（含评论者信息，最新在前）
func (r *CommentRepository) ListByVideo(videoID int64, skip, limit int) ([]model.Comment, int64, error) {
	query := r.db.Model(&model.Comment{}).Where("video_id = ?", videoID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	err := query.Preload("User").Order("created_at DESC").
		Offset(skip).Limit(limit).Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// IDsByVideo 获取视频全部评论 ID（级联清理点赞用）
func (r *CommentRepository) IDsByVideo(videoID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Comment{}).Where("video_id = ?", videoID).
		Pluck("id", &ids).Error
	return ids, err
}

// DeleteByVideo 删除视频的全部评论（级联清理用）
func (r *CommentRepository) DeleteByVideo(videoID int64) (int64, error) {
	result := r.db.Where("video_id = ?", videoID).Delete(&model.Comment{})
	return result.RowsAffected, result.Error
}
