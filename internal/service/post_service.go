package service

import (
	"errors"
	"strings"

	"cliptube/internal/api/dto"
	"cliptube/internal/model"
	"cliptube/internal/repository"
	"cliptube/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrPostNoPermission = errors.New("没有权限操作该动态")
	ErrEmptyPostContent = errors.New("动态内容不能为空")
)

type PostService struct {
	postRepo repository.PostStore
	userRepo repository.UserStore
	likeRepo repository.LikeStore
}

func NewPostService(postRepo repository.PostStore, userRepo repository.UserStore, likeRepo repository.LikeStore) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo, likeRepo: likeRepo}
}

// Create 发布动态
func (s *PostService) Create(authorID int64, content string) (*dto.PostInfo, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyPostContent
	}

	post := &model.Post{
		AuthorID: authorID,
		Content:  content,
	}

	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}

	return toPostInfo(post, 0, false), nil
}

// Update 修改动态，仅作者可操作
func (s *PostService) Update(postID, authorID int64, content string) (*dto.PostInfo, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyPostContent
	}

	post, err := s.getOwned(postID, authorID)
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.Update(postID, authorID, content); err != nil {
		return nil, err
	}
	post.Content = content

	likeCount, err := s.likeRepo.CountByTarget(model.LikeTargetPost, postID)
	if err != nil {
		logger.Warn("Count post likes failed", zap.Int64("post_id", postID), zap.Error(err))
	}
	return toPostInfo(post, likeCount, false), nil
}

// Delete 删除动态，仅作者可操作。级联清理指向该动态的点赞边。
func (s *PostService) Delete(postID, authorID int64) error {
	if _, err := s.getOwned(postID, authorID); err != nil {
		return err
	}

	deleted, err := s.postRepo.Delete(postID, authorID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPostNotFound
	}

	if _, err := s.likeRepo.DeleteByTarget(model.LikeTargetPost, postID); err != nil {
		logger.Warn("Cascade delete post likes failed", zap.Int64("post_id", postID), zap.Error(err))
	}

	return nil
}

// ListByAuthor 获取用户的动态列表，附点赞派生字段，按时间倒序
func (s *PostService) ListByAuthor(authorID, viewerID int64, page, pageSize int) (*dto.PostListData, error) {
	exists, err := s.userRepo.ExistsByID(authorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	page, pageSize = normalizePage(page, pageSize)
	skip := (page - 1) * pageSize

	posts, total, err := s.postRepo.ListByAuthor(authorID, skip, pageSize)
	if err != nil {
		return nil, err
	}

	postIDs := make([]int64, 0, len(posts))
	for i := range posts {
		postIDs = append(postIDs, posts[i].ID)
	}

	likeCounts, err := s.likeRepo.CountByTargets(model.LikeTargetPost, postIDs)
	if err != nil {
		return nil, err
	}

	likedSet := map[int64]bool{}
	if viewerID > 0 && len(postIDs) > 0 {
		likedSet, err = s.likeRepo.BatchCheckLiked(viewerID, model.LikeTargetPost, postIDs)
		if err != nil {
			return nil, err
		}
	}

	items := make([]dto.PostInfo, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		items = append(items, *toPostInfo(p, likeCounts[p.ID], likedSet[p.ID]))
	}

	return &dto.PostListData{
		Posts:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func (s *PostService) getOwned(postID, authorID int64) (*model.Post, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if post.AuthorID != authorID {
		return nil, ErrPostNoPermission
	}
	return post, nil
}

func toPostInfo(p *model.Post, likeCount int64, isLiked bool) *dto.PostInfo {
	return &dto.PostInfo{
		ID:        p.ID,
		Content:   p.Content,
		LikeCount: likeCount,
		IsLiked:   isLiked,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Author: dto.AuthorBrief{
			ID:       p.AuthorID,
			Username: p.Author.Username,
			Avatar:   p.Author.Avatar,
		},
	}
}
