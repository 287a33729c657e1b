package service

import (
	"errors"
	"testing"

	"cliptube/internal/model"

	"gorm.io/gorm"
)

func existingUsers(ids ...int64) *fakeUserStore {
	set := map[int64]bool{}
	for _, id := range ids {
		set[id] = true
	}
	return &fakeUserStore{
		existsByIDFn: func(id int64) (bool, error) {
			return set[id], nil
		},
		getByIDsFn: func(want []int64) ([]model.User, error) {
			out := make([]model.User, 0, len(want))
			for _, id := range want {
				if set[id] {
					out = append(out, model.User{ID: id, Username: "user", FullName: "User"})
				}
			}
			return out, nil
		},
	}
}

func TestSubscriptionService_Toggle_Alternates(t *testing.T) {
	subs := newMemSubscriptionStore()
	svc := NewSubscriptionService(subs, existingUsers(2), &fakeVideoStore{})

	wantStates := []bool{true, false, true}
	wantCounts := []int64{1, 0, 1}
	for i := range wantStates {
		data, err := svc.Toggle(1, 2)
		if err != nil {
			t.Fatalf("toggle %d: unexpected error: %v", i, err)
		}
		if data.State != wantStates[i] {
			t.Errorf("toggle %d: state = %v, want %v", i, data.State, wantStates[i])
		}
		if data.Count != wantCounts[i] {
			t.Errorf("toggle %d: count = %d, want %d", i, data.Count, wantCounts[i])
		}
	}
}

func TestSubscriptionService_Toggle_SelfSubscribe(t *testing.T) {
	svc := NewSubscriptionService(newMemSubscriptionStore(), existingUsers(1), &fakeVideoStore{})

	_, err := svc.Toggle(1, 1)
	if !errors.Is(err, ErrCannotSubscribeSelf) {
		t.Errorf("error = %v, want %v", err, ErrCannotSubscribeSelf)
	}
}

func TestSubscriptionService_Toggle_ChannelNotFound(t *testing.T) {
	svc := NewSubscriptionService(newMemSubscriptionStore(), existingUsers(), &fakeVideoStore{})

	_, err := svc.Toggle(1, 99)
	if !errors.Is(err, ErrChannelNotFound) {
		t.Errorf("error = %v, want %v", err, ErrChannelNotFound)
	}
}

func TestSubscriptionService_Toggle_ConcurrentInsertConflict(t *testing.T) {
	subs := newMemSubscriptionStore()
	subs.conflictOnInsert = true
	svc := NewSubscriptionService(subs, existingUsers(2), &fakeVideoStore{})

	_, err := svc.Toggle(1, 2)
	if !errors.Is(err, ErrToggleConflict) {
		t.Errorf("error = %v, want %v", err, ErrToggleConflict)
	}
}

func TestSubscriptionService_ListSubscribers(t *testing.T) {
	subs := newMemSubscriptionStore()
	// 频道 10 有两个订阅者，频道主回关了其中一个
	if _, err := subs.Insert(1, 10); err != nil {
		t.Fatal(err)
	}
	if _, err := subs.Insert(2, 10); err != nil {
		t.Fatal(err)
	}
	if _, err := subs.Insert(10, 2); err != nil {
		t.Fatal(err)
	}
	// 订阅者 1 自己也有一个粉丝
	if _, err := subs.Insert(3, 1); err != nil {
		t.Fatal(err)
	}

	svc := NewSubscriptionService(subs, existingUsers(1, 2, 3, 10), &fakeVideoStore{})

	data, err := svc.ListSubscribers(10, 10, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Total != 2 {
		t.Errorf("total = %d, want 2", data.Total)
	}
	if len(data.Subscribers) != 2 {
		t.Fatalf("got %d subscribers, want 2", len(data.Subscribers))
	}

	byID := map[int64]int{}
	for i, s := range data.Subscribers {
		byID[s.ID] = i
	}
	first := data.Subscribers[byID[1]]
	if first.SubscribedBack {
		t.Error("subscriber 1 should not be marked as subscribed back")
	}
	if first.SubscriberCount != 1 {
		t.Errorf("subscriber 1 own count = %d, want 1", first.SubscriberCount)
	}
	second := data.Subscribers[byID[2]]
	if !second.SubscribedBack {
		t.Error("subscriber 2 should be marked as subscribed back")
	}
}

func TestSubscriptionService_ListSubscribers_ChannelNotFound(t *testing.T) {
	svc := NewSubscriptionService(newMemSubscriptionStore(), existingUsers(), &fakeVideoStore{})

	_, err := svc.ListSubscribers(99, 99, 1, 10)
	if !errors.Is(err, ErrChannelNotFound) {
		t.Errorf("error = %v, want %v", err, ErrChannelNotFound)
	}
}

func TestSubscriptionService_ListSubscribers_OwnerOnly(t *testing.T) {
	subs := newMemSubscriptionStore()
	if _, err := subs.Insert(1, 10); err != nil {
		t.Fatal(err)
	}
	svc := NewSubscriptionService(subs, existingUsers(1, 10), &fakeVideoStore{})

	// 其他用户与匿名访问都被拒绝，名单只有频道主本人可见
	for _, actorID := range []int64{1, 0} {
		_, err := svc.ListSubscribers(10, actorID, 1, 10)
		if !errors.Is(err, ErrSubscribersOwnerOnly) {
			t.Errorf("actor %d: error = %v, want %v", actorID, err, ErrSubscribersOwnerOnly)
		}
	}

	if _, err := svc.ListSubscribers(10, 10, 1, 10); err != nil {
		t.Errorf("owner should see the subscriber list, got: %v", err)
	}
}

func TestSubscriptionService_ListSubscribedChannels(t *testing.T) {
	subs := newMemSubscriptionStore()
	if _, err := subs.Insert(1, 10); err != nil {
		t.Fatal(err)
	}
	if _, err := subs.Insert(1, 20); err != nil {
		t.Fatal(err)
	}

	videos := &fakeVideoStore{
		latestPublishedByAuthorFn: func(authorID int64) (*model.Video, error) {
			if authorID == 10 {
				return publishedVideo(100, authorID), nil
			}
			// 频道 20 还没有发布过视频
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewSubscriptionService(subs, existingUsers(10, 20), videos)

	data, err := svc.ListSubscribedChannels(1, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Total != 2 {
		t.Errorf("total = %d, want 2", data.Total)
	}
	if len(data.Channels) != 2 {
		t.Fatalf("got %d channels, want 2", len(data.Channels))
	}

	for _, ch := range data.Channels {
		switch ch.ID {
		case 10:
			if ch.LatestVideo == nil || ch.LatestVideo.ID != 100 {
				t.Errorf("channel 10 latest video = %+v, want ID 100", ch.LatestVideo)
			}
		case 20:
			if ch.LatestVideo != nil {
				t.Errorf("channel 20 latest video should be nil, got %+v", ch.LatestVideo)
			}
		default:
			t.Errorf("unexpected channel ID %d", ch.ID)
		}
	}
}
