package service

import (
	"errors"

	"cliptube/internal/api/dto"
	"cliptube/internal/model"
	"cliptube/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrChannelNotFound      = errors.New("频道不存在")
	ErrCannotSubscribeSelf  = errors.New("不能订阅自己")
	ErrSubscribersOwnerOnly = errors.New("只有频道主可以查看订阅者列表")
)

type SubscriptionService struct {
	subRepo   repository.SubscriptionStore
	userRepo  repository.UserStore
	videoRepo repository.VideoStore
}

func NewSubscriptionService(subRepo repository.SubscriptionStore, userRepo repository.UserStore, videoRepo repository.VideoStore) *SubscriptionService {
	return &SubscriptionService{subRepo: subRepo, userRepo: userRepo, videoRepo: videoRepo}
}

// Toggle 切换订阅边：已订阅则取消，否则订阅。
// 返回切换后的状态与频道最新的订阅者总数。
func (s *SubscriptionService) Toggle(subscriberID, channelID int64) (*dto.ToggleData, error) {
	if subscriberID == channelID {
		return nil, ErrCannotSubscribeSelf
	}

	exists, err := s.userRepo.ExistsByID(channelID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrChannelNotFound
	}

	removed, err := s.subRepo.Remove(subscriberID, channelID)
	if err != nil {
		return nil, err
	}

	state := false
	if !removed {
		inserted, err := s.subRepo.Insert(subscriberID, channelID)
		if err != nil {
			return nil, err
		}
		if !inserted {
			return nil, ErrToggleConflict
		}
		state = true
	}

	count, err := s.subRepo.CountSubscribers(channelID)
	if err != nil {
		return nil, err
	}

	return &dto.ToggleData{State: state, Count: count}, nil
}

// ListSubscribers 获取频道订阅者列表，附每个订阅者自己的粉丝数与互关标记。
// 订阅者名单只对频道主本人开放。
func (s *SubscriptionService) ListSubscribers(channelID, actorID int64, page, pageSize int) (*dto.SubscriberListData, error) {
	if actorID != channelID {
		return nil, ErrSubscribersOwnerOnly
	}

	exists, err := s.userRepo.ExistsByID(channelID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrChannelNotFound
	}

	page, pageSize = normalizePage(page, pageSize)
	skip := (page - 1) * pageSize

	subscriberIDs, total, err := s.subRepo.ListSubscriberIDs(channelID, skip, pageSize)
	if err != nil {
		return nil, err
	}

	users, err := s.userRepo.GetByIDs(subscriberIDs)
	if err != nil {
		return nil, err
	}

	// 频道主是否回关了这些订阅者
	subscribedBack, err := s.subRepo.BatchCheckSubscribed(channelID, subscriberIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*model.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	items := make([]dto.SubscriberInfo, 0, len(subscriberIDs))
	for _, id := range subscriberIDs {
		u, ok := byID[id]
		if !ok {
			continue
		}
		ownCount, err := s.subRepo.CountSubscribers(u.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, dto.SubscriberInfo{
			ID:              u.ID,
			Username:        u.Username,
			FullName:        u.FullName,
			Avatar:          u.Avatar,
			SubscriberCount: ownCount,
			SubscribedBack:  subscribedBack[u.ID],
		})
	}

	return &dto.SubscriberListData{
		Subscribers: items,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages(total, pageSize),
	}, nil
}

// ListSubscribedChannels 获取用户订阅的频道列表，附各频道最新发布的视频
func (s *SubscriptionService) ListSubscribedChannels(subscriberID int64, page, pageSize int) (*dto.SubscribedChannelListData, error) {
	page, pageSize = normalizePage(page, pageSize)
	skip := (page - 1) * pageSize

	channelIDs, total, err := s.subRepo.ListChannelIDs(subscriberID, skip, pageSize)
	if err != nil {
		return nil, err
	}

	users, err := s.userRepo.GetByIDs(channelIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*model.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	items := make([]dto.SubscribedChannelInfo, 0, len(channelIDs))
	for _, id := range channelIDs {
		u, ok := byID[id]
		if !ok {
			continue
		}
		info := dto.SubscribedChannelInfo{
			ID:       u.ID,
			Username: u.Username,
			FullName: u.FullName,
			Avatar:   u.Avatar,
		}
		latest, err := s.videoRepo.LatestPublishedByAuthor(u.ID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		} else {
			info.LatestVideo = toVideoInfo(latest, false)
		}
		items = append(items, info)
	}

	return &dto.SubscribedChannelListData{
		Channels:   items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}
