package service

import (
	"context"
	"errors"
	"testing"

	"cliptube/internal/api/dto"
	infraKafka "cliptube/internal/infra/kafka"
	"cliptube/internal/model"
	"cliptube/internal/repository"
)

type videoServiceDeps struct {
	videos   *fakeVideoStore
	likes    *memLikeStore
	subs     *memSubscriptionStore
	comments *fakeCommentStore
	playlist *fakePlaylistStore
	history  *fakeWatchHistoryStore
	media    *fakeMediaStore
	events   *fakeEventPublisher
}

func newVideoServiceForTest(d *videoServiceDeps) *VideoService {
	if d.videos == nil {
		d.videos = &fakeVideoStore{}
	}
	if d.likes == nil {
		d.likes = newMemLikeStore()
	}
	if d.subs == nil {
		d.subs = newMemSubscriptionStore()
	}
	if d.comments == nil {
		d.comments = &fakeCommentStore{}
	}
	if d.playlist == nil {
		d.playlist = newFakePlaylistStore()
	}
	if d.history == nil {
		d.history = &fakeWatchHistoryStore{}
	}
	if d.media == nil {
		d.media = &fakeMediaStore{}
	}
	var events EventPublisher
	if d.events != nil {
		events = d.events
	}
	return NewVideoService(d.videos, d.likes, d.subs, d.comments, d.playlist, d.history, d.media, events)
}

func videoWithAuthor(id, authorID int64, published bool) *model.Video {
	v := publishedVideo(id, authorID)
	v.IsPublished = published
	v.ViewCount = 5
	v.Author = model.User{ID: authorID, Username: "author", FullName: "Author"}
	return v
}

func TestVideoService_Create(t *testing.T) {
	d := &videoServiceDeps{}
	svc := newVideoServiceForTest(d)

	info, err := svc.Create(context.Background(), 1, &dto.VideoCreateRequest{
		Title:       "my video",
		Description: "desc",
	}, "v.mp4", "c.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info.IsPublished {
		t.Error("new video must start unpublished")
	}
	if info.Duration != 120 {
		t.Errorf("duration = %d, want 120 from media probe", info.Duration)
	}
	if info.PlayURL == "" || info.CoverURL == "" {
		t.Error("play and cover URLs should be set from media storage")
	}
	if len(d.videos.created) != 1 {
		t.Fatalf("Create called %d times, want 1", len(d.videos.created))
	}
}

func TestVideoService_Create_UploadFails(t *testing.T) {
	uploadErr := errors.New("minio unreachable")
	d := &videoServiceDeps{
		media: &fakeMediaStore{
			storeVideoFn: func(string) (string, int, error) {
				return "", 0, uploadErr
			},
		},
	}
	svc := newVideoServiceForTest(d)

	_, err := svc.Create(context.Background(), 1, &dto.VideoCreateRequest{Title: "x"}, "v.mp4", "c.jpg")
	if !errors.Is(err, uploadErr) {
		t.Errorf("error = %v, want %v", err, uploadErr)
	}
	if len(d.videos.created) != 0 {
		t.Error("video must not be persisted when upload fails")
	}
}

func TestVideoService_GetDetail_IncrementsViewCountPerFetch(t *testing.T) {
	var viewCount int64 = 5
	d := &videoServiceDeps{
		videos: &fakeVideoStore{
			getByIDWithAuthorFn: func(id int64) (*model.Video, error) {
				v := videoWithAuthor(id, 2, true)
				v.ViewCount = viewCount
				return v, nil
			},
			incrementViewCountFn: func(id int64) error {
				viewCount++
				return nil
			},
		},
	}
	svc := newVideoServiceForTest(d)

	for i := 1; i <= 3; i++ {
		detail, err := svc.GetDetail(10, 1)
		if err != nil {
			t.Fatalf("fetch %d: unexpected error: %v", i, err)
		}
		want := int64(5 + i)
		if detail.ViewCount != want {
			t.Errorf("fetch %d: view_count = %d, want %d", i, detail.ViewCount, want)
		}
	}
	if len(d.videos.incrementCalls) != 3 {
		t.Errorf("IncrementViewCount called %d times, want 3", len(d.videos.incrementCalls))
	}
}

func TestVideoService_GetDetail_BestEffortSideEffects(t *testing.T) {
	d := &videoServiceDeps{
		videos: &fakeVideoStore{
			getByIDWithAuthorFn: func(id int64) (*model.Video, error) {
				return videoWithAuthor(id, 2, true), nil
			},
			incrementViewCountFn: func(id int64) error {
				return errors.New("db timeout")
			},
		},
		history: &fakeWatchHistoryStore{
			recordFn: func(userID, videoID int64) error {
				return errors.New("db timeout")
			},
		},
	}
	svc := newVideoServiceForTest(d)

	detail, err := svc.GetDetail(10, 1)
	if err != nil {
		t.Fatalf("side effect failures must not fail the read, got: %v", err)
	}
	// 计数未写入成功时返回的值保持原样
	if detail.ViewCount != 5 {
		t.Errorf("view_count = %d, want 5 when increment fails", detail.ViewCount)
	}
}

func TestVideoService_GetDetail_WatchHistory(t *testing.T) {
	d := &videoServiceDeps{
		videos: &fakeVideoStore{
			getByIDWithAuthorFn: func(id int64) (*model.Video, error) {
				return videoWithAuthor(id, 2, true), nil
			},
		},
	}
	svc := newVideoServiceForTest(d)

	if _, err := svc.GetDetail(10, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetDetail(10, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 登录用户记观看历史，匿名不记
	if len(d.history.records) != 1 {
		t.Fatalf("recorded %d history entries, want 1", len(d.history.records))
	}
	if d.history.records[0] != [2]int64{1, 10} {
		t.Errorf("history record = %v, want [1 10]", d.history.records[0])
	}
}

func TestVideoService_GetDetail_UnpublishedVisibility(t *testing.T) {
	d := &videoServiceDeps{
		videos: &fakeVideoStore{
			getByIDWithAuthorFn: func(id int64) (*model.Video, error) {
				return videoWithAuthor(id, 2, false), nil
			},
		},
	}
	svc := newVideoServiceForTest(d)

	// 作者本人可见
	if _, err := svc.GetDetail(10, 2); err != nil {
		t.Errorf("author should see own unpublished video, got: %v", err)
	}

	// 其他人与匿名访问都表现为不存在
	for _, viewerID := range []int64{1, 0} {
		_, err := svc.GetDetail(10, viewerID)
		if !errors.Is(err, ErrVideoNotFound) {
			t.Errorf("viewer %d: error = %v, want %v", viewerID, err, ErrVideoNotFound)
		}
	}
}

func TestVideoService_GetDetail_DerivedFlags(t *testing.T) {
	likes := newMemLikeStore()
	subs := newMemSubscriptionStore()
	if _, err := likes.Insert(1, model.LikeTargetVideo, 10); err != nil {
		t.Fatal(err)
	}
	if _, err := subs.Insert(1, 2); err != nil {
		t.Fatal(err)
	}

	d := &videoServiceDeps{
		videos: &fakeVideoStore{
			getByIDWithAuthorFn: func(id int64) (*model.Video, error) {
				return videoWithAuthor(id, 2, true), nil
			},
		},
		likes: likes,
		subs:  subs,
	}
	svc := newVideoServiceForTest(d)

	detail, err := svc.GetDetail(10, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !detail.IsLiked {
		t.Error("viewer 1 liked the video, is_liked should be true")
	}
	if detail.LikeCount != 1 {
		t.Errorf("like_count = %d, want 1", detail.LikeCount)
	}
	if detail.Owner == nil {
		t.Fatal("owner sub-view missing")
	}
	if !detail.Owner.IsSubscribed {
		t.Error("viewer 1 subscribed to the author, is_subscribed should be true")
	}
	if detail.Owner.SubscriberCount != 1 {
		t.Errorf("subscriber_count = %d, want 1", detail.Owner.SubscriberCount)
	}

	// 匿名访问派生标志恒为 false
	detail, err = svc.GetDetail(10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.IsLiked || detail.Owner.IsSubscribed {
		t.Error("anonymous viewer flags must be false")
	}

	// 作者看自己的视频不会显示已订阅
	detail, err = svc.GetDetail(10, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Owner.IsSubscribed {
		t.Error("author viewing own video must not be marked subscribed")
	}
}

func TestVideoService_Update_OwnershipAndFields(t *testing.T) {
	stored := videoWithAuthor(10, 2, true)
	videos := &fakeVideoStore{
		getByIDFn: func(id int64) (*model.Video, error) {
			return stored, nil
		},
		updateFn: func(id int64, updates map[string]interface{}) (*model.Video, error) {
			if title, ok := updates["title"].(string); ok {
				stored.Title = title
			}
			return stored, nil
		},
	}
	svc := newVideoServiceForTest(&videoServiceDeps{videos: videos})

	// 非作者拒绝
	title := "new title"
	_, err := svc.Update(context.Background(), 10, 1, &dto.VideoUpdateRequest{Title: &title}, "")
	if !errors.Is(err, ErrVideoNoPermission) {
		t.Errorf("error = %v, want %v", err, ErrVideoNoPermission)
	}

	// 空更新拒绝
	_, err = svc.Update(context.Background(), 10, 2, &dto.VideoUpdateRequest{}, "")
	if !errors.Is(err, ErrNoFieldsToUpdate) {
		t.Errorf("error = %v, want %v", err, ErrNoFieldsToUpdate)
	}

	info, err := svc.Update(context.Background(), 10, 2, &dto.VideoUpdateRequest{Title: &title}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Title != "new title" {
		t.Errorf("title = %q, want %q", info.Title, "new title")
	}
}

func TestVideoService_Update_ReplacesCover(t *testing.T) {
	stored := videoWithAuthor(10, 2, false)
	oldCover := stored.CoverURL
	videos := &fakeVideoStore{
		getByIDFn: func(id int64) (*model.Video, error) {
			return stored, nil
		},
		updateFn: func(id int64, updates map[string]interface{}) (*model.Video, error) {
			if cover, ok := updates["cover_url"].(string); ok {
				stored.CoverURL = cover
			}
			return stored, nil
		},
	}
	media := &fakeMediaStore{}
	svc := newVideoServiceForTest(&videoServiceDeps{videos: videos, media: media})

	info, err := svc.Update(context.Background(), 10, 2, &dto.VideoUpdateRequest{}, "new.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.CoverURL == oldCover {
		t.Error("cover URL should change after replacement")
	}
	if len(media.removedURLs) != 1 || media.removedURLs[0] != oldCover {
		t.Errorf("removed URLs = %v, want old cover %q", media.removedURLs, oldCover)
	}
}

func TestVideoService_TogglePublish_Events(t *testing.T) {
	stored := videoWithAuthor(10, 2, false)
	videos := &fakeVideoStore{
		getByIDFn: func(id int64) (*model.Video, error) {
			return stored, nil
		},
		updateFn: func(id int64, updates map[string]interface{}) (*model.Video, error) {
			stored.IsPublished = updates["is_published"].(bool)
			return stored, nil
		},
	}
	events := &fakeEventPublisher{}
	svc := newVideoServiceForTest(&videoServiceDeps{videos: videos, events: events})

	data, err := svc.TogglePublish(context.Background(), 10, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !data.IsPublished {
		t.Error("first toggle should publish")
	}

	data, err = svc.TogglePublish(context.Background(), 10, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.IsPublished {
		t.Error("second toggle should unpublish")
	}

	wantEvents := []string{infraKafka.VideoEventPublished, infraKafka.VideoEventUpdated}
	if len(events.events) != len(wantEvents) {
		t.Fatalf("published %d events, want %d", len(events.events), len(wantEvents))
	}
	for i, want := range wantEvents {
		if events.events[i].eventType != want {
			t.Errorf("event %d type = %q, want %q", i, events.events[i].eventType, want)
		}
	}
}

func TestVideoService_Delete_CascadesAndEvents(t *testing.T) {
	stored := videoWithAuthor(10, 2, true)

	likes := newMemLikeStore()
	if _, err := likes.Insert(1, model.LikeTargetVideo, 10); err != nil {
		t.Fatal(err)
	}
	if _, err := likes.Insert(1, model.LikeTargetComment, 100); err != nil {
		t.Fatal(err)
	}

	var deletedComments bool
	var deletedHistory bool
	comments := &fakeCommentStore{
		idsByVideoFn: func(videoID int64) ([]int64, error) {
			return []int64{100}, nil
		},
		deleteByVideoFn: func(videoID int64) (int64, error) {
			deletedComments = true
			return 1, nil
		},
	}
	history := &fakeWatchHistoryStore{
		deleteByVideoFn: func(videoID int64) (int64, error) {
			deletedHistory = true
			return 2, nil
		},
	}
	playlist := newFakePlaylistStore()
	playlist.members[7] = []int64{10, 11}

	media := &fakeMediaStore{}
	events := &fakeEventPublisher{}
	videos := &fakeVideoStore{
		getByIDFn: func(id int64) (*model.Video, error) {
			return stored, nil
		},
	}
	svc := newVideoServiceForTest(&videoServiceDeps{
		videos:   videos,
		likes:    likes,
		comments: comments,
		playlist: playlist,
		history:  history,
		media:    media,
		events:   events,
	})

	if err := svc.Delete(context.Background(), 10, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(videos.deletedIDs) != 1 || videos.deletedIDs[0] != 10 {
		t.Errorf("deleted IDs = %v, want [10]", videos.deletedIDs)
	}
	if likes.edgeCount() != 0 {
		t.Errorf("%d like edges left after cascade, want 0", likes.edgeCount())
	}
	if !deletedComments {
		t.Error("comments not cascade deleted")
	}
	if !deletedHistory {
		t.Error("watch history not cascade deleted")
	}
	if got := playlist.members[7]; len(got) != 1 || got[0] != 11 {
		t.Errorf("playlist members after cascade = %v, want [11]", got)
	}
	if len(media.removedURLs) != 2 {
		t.Errorf("removed %d media assets, want 2", len(media.removedURLs))
	}
	if len(events.events) != 1 || events.events[0].eventType != infraKafka.VideoEventDeleted {
		t.Errorf("events = %+v, want single deleted event", events.events)
	}
}

func TestVideoService_Delete_NotOwner(t *testing.T) {
	videos := &fakeVideoStore{
		getByIDFn: func(id int64) (*model.Video, error) {
			return videoWithAuthor(id, 2, true), nil
		},
	}
	svc := newVideoServiceForTest(&videoServiceDeps{videos: videos})

	err := svc.Delete(context.Background(), 10, 1)
	if !errors.Is(err, ErrVideoNoPermission) {
		t.Errorf("error = %v, want %v", err, ErrVideoNoPermission)
	}
	if len(videos.deletedIDs) != 0 {
		t.Error("video must not be deleted by non-owner")
	}
}

func TestVideoService_Delete_PublishFailureIgnored(t *testing.T) {
	videos := &fakeVideoStore{
		getByIDFn: func(id int64) (*model.Video, error) {
			return videoWithAuthor(id, 2, true), nil
		},
	}
	events := &fakeEventPublisher{publishErr: errors.New("kafka down")}
	svc := newVideoServiceForTest(&videoServiceDeps{videos: videos, events: events})

	if err := svc.Delete(context.Background(), 10, 2); err != nil {
		t.Fatalf("event publish failure must not fail the delete, got: %v", err)
	}
}

func TestVideoService_GetFeed_PublishedOnly(t *testing.T) {
	var gotQuery *repository.VideoQuery
	videos := &fakeVideoStore{
		listFn: func(q *repository.VideoQuery) ([]model.Video, int64, error) {
			gotQuery = q
			return []model.Video{*videoWithAuthor(10, 2, true)}, 1, nil
		},
	}
	svc := newVideoServiceForTest(&videoServiceDeps{videos: videos})

	data, err := svc.GetFeed(&dto.VideoFeedRequest{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gotQuery.PublishedOnly {
		t.Error("feed query must be restricted to published videos")
	}
	if len(data.Videos) != 1 {
		t.Fatalf("got %d videos, want 1", len(data.Videos))
	}
	if data.Videos[0].Author == nil {
		t.Error("feed items should carry author info")
	}
}
