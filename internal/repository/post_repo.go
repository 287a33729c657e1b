package repository

import (
	"cliptube/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(post *model.Post) error {
	return r.db.Create(post).Error
}

func (r *PostRepository) GetByID(id int64) (*model.Post, error) {
	var post model.Post
	err := r.db.First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Update 更新动态内容（仅作者本人）
func (r *PostRepository) Update(postID, authorID int64, content string) error {
	result := r.db.Model(&model.Post{}).
		Where("id = ? AND author_id = ?", postID, authorID).
		Update("content", content)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 删除动态（仅作者本人），返回是否确实删除了记录
func (r *PostRepository) Delete(postID, authorID int64) (bool, error) {
	result := r.db.Where("id = ? AND author_id = ?", postID, authorID).Delete(&model.Post{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByAuthor 获取用户的动态列表（含作者信息，最新在前）
func (r *PostRepository) ListByAuthor(authorID int64, skip, limit int) ([]model.Post, int64, error) {
	query := r.db.Model(&model.Post{}).Where("author_id = ?", authorID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.Post
	err := query.Preload("Author").Order("created_at DESC").
		Offset(skip).Limit(limit).Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}
