package service

import (
	"errors"
	"testing"

	"cliptube/internal/model"
)

func commentBy(id, userID, videoID int64) *model.Comment {
	return &model.Comment{
		ID:      id,
		UserID:  userID,
		VideoID: videoID,
		Content: "nice video",
		User:    model.User{ID: userID, Username: "commenter"},
	}
}

func newCommentServiceForTest(comments *fakeCommentStore, videos *fakeVideoStore, likes *memLikeStore) *CommentService {
	if comments == nil {
		comments = &fakeCommentStore{}
	}
	if videos == nil {
		videos = &fakeVideoStore{}
	}
	if likes == nil {
		likes = newMemLikeStore()
	}
	return NewCommentService(comments, videos, likes)
}

func TestCommentService_Create(t *testing.T) {
	videos := &fakeVideoStore{
		getByIDFn: func(id int64) (*model.Video, error) {
			return publishedVideo(id, 2), nil
		},
	}
	comments := &fakeCommentStore{}
	svc := newCommentServiceForTest(comments, videos, nil)

	info, err := svc.Create(1, 10, "  great video  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Content != "great video" {
		t.Errorf("content = %q, want trimmed %q", info.Content, "great video")
	}
	if len(comments.created) != 1 {
		t.Fatalf("Create called %d times, want 1", len(comments.created))
	}
}

func TestCommentService_Create_Invalid(t *testing.T) {
	svc := newCommentServiceForTest(nil, nil, nil)

	// 空白内容
	_, err := svc.Create(1, 10, "   ")
	if !errors.Is(err, ErrEmptyCommentContent) {
		t.Errorf("error = %v, want %v", err, ErrEmptyCommentContent)
	}

	// 视频不存在
	_, err = svc.Create(1, 99, "hello")
	if !errors.Is(err, ErrVideoNotFound) {
		t.Errorf("error = %v, want %v", err, ErrVideoNotFound)
	}
}

func TestCommentService_Update_Ownership(t *testing.T) {
	comments := &fakeCommentStore{
		getByIDFn: func(id int64) (*model.Comment, error) {
			return commentBy(id, 1, 10), nil
		},
	}
	svc := newCommentServiceForTest(comments, nil, nil)

	_, err := svc.Update(100, 2, "edited")
	if !errors.Is(err, ErrCommentNoPermission) {
		t.Errorf("error = %v, want %v", err, ErrCommentNoPermission)
	}

	info, err := svc.Update(100, 1, "edited")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Content != "edited" {
		t.Errorf("content = %q, want %q", info.Content, "edited")
	}
}

func TestCommentService_Update_CountFailureBestEffort(t *testing.T) {
	comments := &fakeCommentStore{
		getByIDFn: func(id int64) (*model.Comment, error) {
			return commentBy(id, 1, 10), nil
		},
	}
	likes := newMemLikeStore()
	likes.countErr = errors.New("count unavailable")
	svc := newCommentServiceForTest(comments, nil, likes)

	// 点赞数查询失败不阻断更新，计数回落为 0
	info, err := svc.Update(100, 1, "edited")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.LikeCount != 0 {
		t.Errorf("like_count = %d, want 0 when count fails", info.LikeCount)
	}
}

func TestCommentService_Delete_CascadesLikes(t *testing.T) {
	comments := &fakeCommentStore{
		getByIDFn: func(id int64) (*model.Comment, error) {
			return commentBy(id, 1, 10), nil
		},
	}
	likes := newMemLikeStore()
	if _, err := likes.Insert(5, model.LikeTargetComment, 100); err != nil {
		t.Fatal(err)
	}
	svc := newCommentServiceForTest(comments, nil, likes)

	if err := svc.Delete(100, 2); !errors.Is(err, ErrCommentNoPermission) {
		t.Errorf("error = %v, want %v", err, ErrCommentNoPermission)
	}

	if err := svc.Delete(100, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if likes.edgeCount() != 0 {
		t.Errorf("%d like edges left after delete, want 0", likes.edgeCount())
	}
}

func TestCommentService_ListByVideo_DerivedFields(t *testing.T) {
	videos := &fakeVideoStore{
		getByIDFn: func(id int64) (*model.Video, error) {
			return publishedVideo(id, 2), nil
		},
	}
	comments := &fakeCommentStore{
		listByVideoFn: func(videoID int64, skip, limit int) ([]model.Comment, int64, error) {
			return []model.Comment{*commentBy(100, 1, videoID), *commentBy(101, 3, videoID)}, 2, nil
		},
	}
	likes := newMemLikeStore()
	if _, err := likes.Insert(1, model.LikeTargetComment, 100); err != nil {
		t.Fatal(err)
	}
	if _, err := likes.Insert(3, model.LikeTargetComment, 100); err != nil {
		t.Fatal(err)
	}
	svc := newCommentServiceForTest(comments, videos, likes)

	data, err := svc.ListByVideo(10, 1, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Total != 2 {
		t.Errorf("total = %d, want 2", data.Total)
	}
	first := data.Comments[0]
	if first.LikeCount != 2 {
		t.Errorf("comment 100 like_count = %d, want 2", first.LikeCount)
	}
	if !first.IsLiked {
		t.Error("viewer 1 liked comment 100, is_liked should be true")
	}
	second := data.Comments[1]
	if second.LikeCount != 0 || second.IsLiked {
		t.Errorf("comment 101 derived fields = (%d, %v), want (0, false)", second.LikeCount, second.IsLiked)
	}

	// 匿名访问 is_liked 恒为 false
	data, err = svc.ListByVideo(10, 0, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range data.Comments {
		if c.IsLiked {
			t.Errorf("comment %d: anonymous is_liked must be false", c.ID)
		}
	}
}
