package repository

import (
	"cliptube/internal/model"

	"gorm.io/gorm"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create 创建视频记录
func (r *VideoRepository) Create(video *model.Video) error {
	return r.db.Create(video).Error
}

// GetByID 根据 ID 获取视频
func (r *VideoRepository) GetByID(id int64) (*model.Video, error) {
	var video model.Video
	err := r.db.First(&video, id).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// GetByIDWithAuthor 根据 ID 获取视频（含作者信息）
func (r *VideoRepository) GetByIDWithAuthor(id int64) (*model.Video, error) {
	var video model.Video
	err := r.db.Preload("Author").First(&video, id).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// GetByIDsWithAuthor 批量获取视频（含作者信息）
func (r *VideoRepository) GetByIDsWithAuthor(ids []int64) ([]model.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var videos []model.Video
	err := r.db.Preload("Author").Where("id IN ?", ids).Find(&videos).Error
	return videos, err
}

// Update 更新视频字段
func (r *VideoRepository) Update(id int64, updates map[string]interface{}) (*model.Video, error) {
	result := r.db.Model(&model.Video{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

// Delete 删除视频记录
func (r *VideoRepository) Delete(id int64) error {
	result := r.db.Delete(&model.Video{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List 视频列表查询。阶段顺序见 VideoQuery：
// 文本匹配 → 等值过滤 → 统计总数（分页前）→ 排序 → 作者联查 → 分页。
func (r *VideoRepository) List(q *VideoQuery) ([]model.Video, int64, error) {
	q.Normalize()

	query := r.db.Model(&model.Video{})

	if q.Q != "" {
		query = query.Where("title ILIKE ? OR description ILIKE ?", "%"+q.Q+"%", "%"+q.Q+"%")
	}
	if q.AuthorID != nil {
		query = query.Where("author_id = ?", *q.AuthorID)
	}
	if q.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	findQuery := query.Order(q.OrderClause()).Offset(q.Offset()).Limit(q.PageSize)
	if q.WithAuthor {
		findQuery = findQuery.Preload("Author")
	}

	var videos []model.Video
	if err := findQuery.Find(&videos).Error; err != nil {
		return nil, 0, err
	}

	return videos, total, nil
}

// IncrementViewCount 播放量 +1（只增不减，由详情读取路径触发）
func (r *VideoRepository) IncrementViewCount(id int64) error {
	return r.db.Model(&model.Video{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// LatestPublishedByAuthor 获取作者最新发布的视频
func (r *VideoRepository) LatestPublishedByAuthor(authorID int64) (*model.Video, error) {
	var video model.Video
	err := r.db.Where("author_id = ? AND is_published = ?", authorID, true).
		Order("created_at DESC").First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}
