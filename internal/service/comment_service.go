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
	ErrCommentNoPermission = errors.New("没有权限操作该评论")
	ErrEmptyCommentContent = errors.New("评论内容不能为空")
)

type CommentService struct {
	commentRepo repository.CommentStore
	videoRepo   repository.VideoStore
	likeRepo    repository.LikeStore
}

func NewCommentService(commentRepo repository.CommentStore, videoRepo repository.VideoStore, likeRepo repository.LikeStore) *CommentService {
	return &CommentService{commentRepo: commentRepo, videoRepo: videoRepo, likeRepo: likeRepo}
}

// Create 发表评论
func (s *CommentService) Create(userID, videoID int64, content string) (*dto.CommentInfo, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyCommentContent
	}

	if _, err := s.videoRepo.GetByID(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	comment := &model.Comment{
		UserID:  userID,
		VideoID: videoID,
		Content: content,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	return toCommentInfo(comment, 0, false), nil
}

// Update 修改评论，仅评论作者可操作
func (s *CommentService) Update(commentID, userID int64, content string) (*dto.CommentInfo, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyCommentContent
	}

	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.UserID != userID {
		return nil, ErrCommentNoPermission
	}

	if err := s.commentRepo.Update(commentID, userID, content); err != nil {
		return nil, err
	}
	comment.Content = content

	likeCount, err := s.likeRepo.CountByTarget(model.LikeTargetComment, commentID)
	if err != nil {
		logger.Warn("Count comment likes failed", zap.Int64("comment_id", commentID), zap.Error(err))
	}
	return toCommentInfo(comment, likeCount, false), nil
}

// Delete 删除评论，仅评论作者可操作。级联清理指向该评论的点赞边。
func (s *CommentService) Delete(commentID, userID int64) error {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.UserID != userID {
		return ErrCommentNoPermission
	}

	deleted, err := s.commentRepo.Delete(commentID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCommentNotFound
	}

	if _, err := s.likeRepo.DeleteByTarget(model.LikeTargetComment, commentID); err != nil {
		logger.Warn("Cascade delete comment likes failed", zap.Int64("comment_id", commentID), zap.Error(err))
	}

	return nil
}

// ListByVideo 获取视频评论列表，附作者信息与点赞派生字段，按时间倒序。
// viewerID 为 0 表示匿名访问，is_liked 恒为 false。
func (s *CommentService) ListByVideo(videoID, viewerID int64, page, pageSize int) (*dto.CommentListData, error) {
	if _, err := s.videoRepo.GetByID(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	page, pageSize = normalizePage(page, pageSize)
	skip := (page - 1) * pageSize

	comments, total, err := s.commentRepo.ListByVideo(videoID, skip, pageSize)
	if err != nil {
		return nil, err
	}

	commentIDs := make([]int64, 0, len(comments))
	for i := range comments {
		commentIDs = append(commentIDs, comments[i].ID)
	}

	likeCounts, err := s.likeRepo.CountByTargets(model.LikeTargetComment, commentIDs)
	if err != nil {
		return nil, err
	}

	likedSet := map[int64]bool{}
	if viewerID > 0 && len(commentIDs) > 0 {
		likedSet, err = s.likeRepo.BatchCheckLiked(viewerID, model.LikeTargetComment, commentIDs)
		if err != nil {
			return nil, err
		}
	}

	items := make([]dto.CommentInfo, 0, len(comments))
	for i := range comments {
		c := &comments[i]
		items = append(items, *toCommentInfo(c, likeCounts[c.ID], likedSet[c.ID]))
	}

	return &dto.CommentListData{
		Comments:   items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func toCommentInfo(c *model.Comment, likeCount int64, isLiked bool) *dto.CommentInfo {
	return &dto.CommentInfo{
		ID:        c.ID,
		VideoID:   c.VideoID,
		Content:   c.Content,
		LikeCount: likeCount,
		IsLiked:   isLiked,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Author: dto.AuthorBrief{
			ID:       c.UserID,
			Username: c.User.Username,
			Avatar:   c.User.Avatar,
		},
	}
}
