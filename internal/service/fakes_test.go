package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	infraKafka "cliptube/internal/infra/kafka"
	"cliptube/internal/model"
	"cliptube/internal/repository"

	"gorm.io/gorm"
)

// 本文件提供 service 层单元测试用的内存假实现。
// 实体类 Store 用函数字段定制行为，未设置的方法走默认值（查询返回
// gorm.ErrRecordNotFound，写入返回 nil）；点赞/订阅这类边存储用真正的
// 内存集合实现，以便验证切换语义。

// ---------------------------------------------------------------------------
// UserStore

type fakeUserStore struct {
	createFn           func(user *model.User) error
	getByIDFn          func(id int64) (*model.User, error)
	getByUsernameFn    func(username string) (*model.User, error)
	getByEmailFn       func(email string) (*model.User, error)
	getByIDsFn         func(ids []int64) ([]model.User, error)
	existsByIDFn       func(id int64) (bool, error)
	existsByUsernameFn func(username string) (bool, error)
	existsByEmailFn    func(email string) (bool, error)
	updateFn           func(id int64, updates map[string]interface{}) (*model.User, error)

	created []*model.User
}

func (f *fakeUserStore) Create(user *model.User) error {
	f.created = append(f.created, user)
	if f.createFn != nil {
		return f.createFn(user)
	}
	user.ID = int64(len(f.created))
	return nil
}

func (f *fakeUserStore) GetByID(id int64) (*model.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) GetByUsername(username string) (*model.User, error) {
	if f.getByUsernameFn != nil {
		return f.getByUsernameFn(username)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) GetByEmail(email string) (*model.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) GetByIDs(ids []int64) ([]model.User, error) {
	if f.getByIDsFn != nil {
		return f.getByIDsFn(ids)
	}
	return nil, nil
}

func (f *fakeUserStore) ExistsByID(id int64) (bool, error) {
	if f.existsByIDFn != nil {
		return f.existsByIDFn(id)
	}
	return false, nil
}

func (f *fakeUserStore) ExistsByUsername(username string) (bool, error) {
	if f.existsByUsernameFn != nil {
		return f.existsByUsernameFn(username)
	}
	return false, nil
}

func (f *fakeUserStore) ExistsByEmail(email string) (bool, error) {
	if f.existsByEmailFn != nil {
		return f.existsByEmailFn(email)
	}
	return false, nil
}

func (f *fakeUserStore) Update(id int64, updates map[string]interface{}) (*model.User, error) {
	if f.updateFn != nil {
		return f.updateFn(id, updates)
	}
	return nil, gorm.ErrRecordNotFound
}

// ---------------------------------------------------------------------------
// VideoStore

type fakeVideoStore struct {
	createFn                  func(video *model.Video) error
	getByIDFn                 func(id int64) (*model.Video, error)
	getByIDWithAuthorFn       func(id int64) (*model.Video, error)
	getByIDsWithAuthorFn      func(ids []int64) ([]model.Video, error)
	updateFn                  func(id int64, updates map[string]interface{}) (*model.Video, error)
	deleteFn                  func(id int64) error
	listFn                    func(q *repository.VideoQuery) ([]model.Video, int64, error)
	incrementViewCountFn      func(id int64) error
	latestPublishedByAuthorFn func(authorID int64) (*model.Video, error)

	created        []*model.Video
	incrementCalls []int64
	deletedIDs     []int64
}

func (f *fakeVideoStore) Create(video *model.Video) error {
	f.created = append(f.created, video)
	if f.createFn != nil {
		return f.createFn(video)
	}
	video.ID = int64(len(f.created))
	return nil
}

func (f *fakeVideoStore) GetByID(id int64) (*model.Video, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVideoStore) GetByIDWithAuthor(id int64) (*model.Video, error) {
	if f.getByIDWithAuthorFn != nil {
		return f.getByIDWithAuthorFn(id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVideoStore) GetByIDsWithAuthor(ids []int64) ([]model.Video, error) {
	if f.getByIDsWithAuthorFn != nil {
		return f.getByIDsWithAuthorFn(ids)
	}
	return nil, nil
}

func (f *fakeVideoStore) Update(id int64, updates map[string]interface{}) (*model.Video, error) {
	if f.updateFn != nil {
		return f.updateFn(id, updates)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVideoStore) Delete(id int64) error {
	f.deletedIDs = append(f.deletedIDs, id)
	if f.deleteFn != nil {
		return f.deleteFn(id)
	}
	return nil
}

func (f *fakeVideoStore) List(q *repository.VideoQuery) ([]model.Video, int64, error) {
	if f.listFn != nil {
		return f.listFn(q)
	}
	return nil, 0, nil
}

func (f *fakeVideoStore) IncrementViewCount(id int64) error {
	f.incrementCalls = append(f.incrementCalls, id)
	if f.incrementViewCountFn != nil {
		return f.incrementViewCountFn(id)
	}
	return nil
}

func (f *fakeVideoStore) LatestPublishedByAuthor(authorID int64) (*model.Video, error) {
	if f.latestPublishedByAuthorFn != nil {
		return f.latestPublishedByAuthorFn(authorID)
	}
	return nil, gorm.ErrRecordNotFound
}

// ---------------------------------------------------------------------------
// CommentStore

type fakeCommentStore struct {
	createFn        func(comment *model.Comment) error
	getByIDFn       func(id int64) (*model.Comment, error)
	updateFn        func(commentID, userID int64, content string) error
	deleteFn        func(commentID, userID int64) (bool, error)
	listByVideoFn   func(videoID int64, skip, limit int) ([]model.Comment, int64, error)
	idsByVideoFn    func(videoID int64) ([]int64, error)
	deleteByVideoFn func(videoID int64) (int64, error)

	created []*model.Comment
}

func (f *fakeCommentStore) Create(comment *model.Comment) error {
	f.created = append(f.created, comment)
	if f.createFn != nil {
		return f.createFn(comment)
	}
	comment.ID = int64(len(f.created))
	return nil
}

func (f *fakeCommentStore) GetByID(id int64) (*model.Comment, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCommentStore) Update(commentID, userID int64, content string) error {
	if f.updateFn != nil {
		return f.updateFn(commentID, userID, content)
	}
	return nil
}

func (f *fakeCommentStore) Delete(commentID, userID int64) (bool, error) {
	if f.deleteFn != nil {
		return f.deleteFn(commentID, userID)
	}
	return true, nil
}

func (f *fakeCommentStore) ListByVideo(videoID int64, skip, limit int) ([]model.Comment, int64, error) {
	if f.listByVideoFn != nil {
		return f.listByVideoFn(videoID, skip, limit)
	}
	return nil, 0, nil
}

func (f *fakeCommentStore) IDsByVideo(videoID int64) ([]int64, error) {
	if f.idsByVideoFn != nil {
		return f.idsByVideoFn(videoID)
	}
	return nil, nil
}

func (f *fakeCommentStore) DeleteByVideo(videoID int64) (int64, error) {
	if f.deleteByVideoFn != nil {
		return f.deleteByVideoFn(videoID)
	}
	return 0, nil
}

// ---------------------------------------------------------------------------
// LikeStore（内存集合实现，保留插入顺序）

type likeEdge struct {
	userID     int64
	targetType string
	targetID   int64
}

type memLikeStore struct {
	mu    sync.Mutex
	edges []likeEdge

	// 置为 true 时 Insert 直接返回 inserted=false，模拟并发请求
	// 已抢先写入同一条边
	conflictOnInsert bool

	insertErr error
	removeErr error
	countErr  error
}

func newMemLikeStore() *memLikeStore {
	return &memLikeStore{}
}

func (m *memLikeStore) indexOf(userID int64, targetType string, targetID int64) int {
	for i, e := range m.edges {
		if e.userID == userID && e.targetType == targetType && e.targetID == targetID {
			return i
		}
	}
	return -1
}

func (m *memLikeStore) Insert(userID int64, targetType string, targetID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return false, m.insertErr
	}
	if m.conflictOnInsert {
		return false, nil
	}
	if m.indexOf(userID, targetType, targetID) >= 0 {
		return false, nil
	}
	m.edges = append(m.edges, likeEdge{userID: userID, targetType: targetType, targetID: targetID})
	return true, nil
}

func (m *memLikeStore) Remove(userID int64, targetType string, targetID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removeErr != nil {
		return false, m.removeErr
	}
	i := m.indexOf(userID, targetType, targetID)
	if i < 0 {
		return false, nil
	}
	m.edges = append(m.edges[:i], m.edges[i+1:]...)
	return true, nil
}

func (m *memLikeStore) Exists(userID int64, targetType string, targetID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexOf(userID, targetType, targetID) >= 0, nil
}

func (m *memLikeStore) CountByTarget(targetType string, targetID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	var n int64
	for _, e := range m.edges {
		if e.targetType == targetType && e.targetID == targetID {
			n++
		}
	}
	return n, nil
}

func (m *memLikeStore) CountByTargets(targetType string, targetIDs []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(targetIDs))
	for _, id := range targetIDs {
		n, _ := m.CountByTarget(targetType, id)
		if n > 0 {
			out[id] = n
		}
	}
	return out, nil
}

func (m *memLikeStore) BatchCheckLiked(userID int64, targetType string, targetIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(targetIDs))
	for _, id := range targetIDs {
		liked, _ := m.Exists(userID, targetType, id)
		if liked {
			out[id] = true
		}
	}
	return out, nil
}

func (m *memLikeStore) DeleteByTarget(targetType string, targetID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []likeEdge
	var removed int64
	for _, e := range m.edges {
		if e.targetType == targetType && e.targetID == targetID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	m.edges = kept
	return removed, nil
}

func (m *memLikeStore) DeleteByTargets(targetType string, targetIDs []int64) (int64, error) {
	var removed int64
	for _, id := range targetIDs {
		n, _ := m.DeleteByTarget(targetType, id)
		removed += n
	}
	return removed, nil
}

func (m *memLikeStore) ListVideoIDsLikedBy(userID int64, skip, limit int) ([]int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []int64
	for _, e := range m.edges {
		if e.userID == userID && e.targetType == model.LikeTargetVideo {
			all = append(all, e.targetID)
		}
	}
	// 点赞时间倒序
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	total := int64(len(all))
	if skip >= len(all) {
		return nil, total, nil
	}
	all = all[skip:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (m *memLikeStore) edgeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.edges)
}

// ---------------------------------------------------------------------------
// SubscriptionStore（内存集合实现）

type subEdge struct {
	subscriberID int64
	channelID    int64
}

type memSubscriptionStore struct {
	mu    sync.Mutex
	edges []subEdge

	conflictOnInsert bool
}

func newMemSubscriptionStore() *memSubscriptionStore {
	return &memSubscriptionStore{}
}

func (m *memSubscriptionStore) indexOf(subscriberID, channelID int64) int {
	for i, e := range m.edges {
		if e.subscriberID == subscriberID && e.channelID == channelID {
			return i
		}
	}
	return -1
}

func (m *memSubscriptionStore) Insert(subscriberID, channelID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conflictOnInsert {
		return false, nil
	}
	if m.indexOf(subscriberID, channelID) >= 0 {
		return false, nil
	}
	m.edges = append(m.edges, subEdge{subscriberID: subscriberID, channelID: channelID})
	return true, nil
}

func (m *memSubscriptionStore) Remove(subscriberID, channelID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(subscriberID, channelID)
	if i < 0 {
		return false, nil
	}
	m.edges = append(m.edges[:i], m.edges[i+1:]...)
	return true, nil
}

func (m *memSubscriptionStore) Exists(subscriberID, channelID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexOf(subscriberID, channelID) >= 0, nil
}

func (m *memSubscriptionStore) CountSubscribers(channelID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, e := range m.edges {
		if e.channelID == channelID {
			n++
		}
	}
	return n, nil
}

func (m *memSubscriptionStore) CountSubscriptions(subscriberID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, e := range m.edges {
		if e.subscriberID == subscriberID {
			n++
		}
	}
	return n, nil
}

func (m *memSubscriptionStore) ListSubscriberIDs(channelID int64, skip, limit int) ([]int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []int64
	for _, e := range m.edges {
		if e.channelID == channelID {
			all = append(all, e.subscriberID)
		}
	}
	total := int64(len(all))
	if skip >= len(all) {
		return nil, total, nil
	}
	all = all[skip:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (m *memSubscriptionStore) ListChannelIDs(subscriberID int64, skip, limit int) ([]int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []int64
	for _, e := range m.edges {
		if e.subscriberID == subscriberID {
			all = append(all, e.channelID)
		}
	}
	total := int64(len(all))
	if skip >= len(all) {
		return nil, total, nil
	}
	all = all[skip:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (m *memSubscriptionStore) BatchCheckSubscribed(subscriberID int64, channelIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(channelIDs))
	for _, id := range channelIDs {
		ok, _ := m.Exists(subscriberID, id)
		if ok {
			out[id] = true
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// PlaylistStore（成员集合为内存实现，实体方法用函数字段定制）

type fakePlaylistStore struct {
	createFn           func(playlist *model.Playlist) error
	getByIDFn          func(id int64) (*model.Playlist, error)
	getByIDWithOwnerFn func(id int64) (*model.Playlist, error)
	updateFn           func(id int64, updates map[string]interface{}) (*model.Playlist, error)
	deleteFn           func(id int64) error
	listByOwnerFn      func(ownerID int64, skip, limit int) ([]model.Playlist, int64, error)

	// playlistID -> 视频 ID 有序集合
	members map[int64][]int64
	// videoID -> 可返回的视频实体，ListVideos 用
	videos map[int64]model.Video

	created []*model.Playlist
}

func newFakePlaylistStore() *fakePlaylistStore {
	return &fakePlaylistStore{
		members: map[int64][]int64{},
		videos:  map[int64]model.Video{},
	}
}

func (f *fakePlaylistStore) Create(playlist *model.Playlist) error {
	f.created = append(f.created, playlist)
	if f.createFn != nil {
		return f.createFn(playlist)
	}
	playlist.ID = int64(len(f.created))
	return nil
}

func (f *fakePlaylistStore) GetByID(id int64) (*model.Playlist, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePlaylistStore) GetByIDWithOwner(id int64) (*model.Playlist, error) {
	if f.getByIDWithOwnerFn != nil {
		return f.getByIDWithOwnerFn(id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePlaylistStore) Update(id int64, updates map[string]interface{}) (*model.Playlist, error) {
	if f.updateFn != nil {
		return f.updateFn(id, updates)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePlaylistStore) Delete(id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(id)
	}
	delete(f.members, id)
	return nil
}

func (f *fakePlaylistStore) ListByOwner(ownerID int64, skip, limit int) ([]model.Playlist, int64, error) {
	if f.listByOwnerFn != nil {
		return f.listByOwnerFn(ownerID, skip, limit)
	}
	return nil, 0, nil
}

func (f *fakePlaylistStore) AddVideo(playlistID, videoID int64) (bool, error) {
	for _, id := range f.members[playlistID] {
		if id == videoID {
			return false, nil
		}
	}
	f.members[playlistID] = append(f.members[playlistID], videoID)
	return true, nil
}

func (f *fakePlaylistStore) RemoveVideo(playlistID, videoID int64) (bool, error) {
	ids := f.members[playlistID]
	for i, id := range ids {
		if id == videoID {
			f.members[playlistID] = append(ids[:i], ids[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePlaylistStore) ListVideos(playlistID int64, publishedOnly bool) ([]model.Video, error) {
	var out []model.Video
	for _, id := range f.members[playlistID] {
		v, ok := f.videos[id]
		if !ok {
			continue
		}
		if publishedOnly && !v.IsPublished {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakePlaylistStore) CountVideos(playlistID int64) (int64, error) {
	return int64(len(f.members[playlistID])), nil
}

func (f *fakePlaylistStore) RemoveVideoFromAll(videoID int64) (int64, error) {
	var removed int64
	for pid := range f.members {
		ok, _ := f.RemoveVideo(pid, videoID)
		if ok {
			removed++
		}
	}
	return removed, nil
}

// ---------------------------------------------------------------------------
// PostStore

type fakePostStore struct {
	createFn       func(post *model.Post) error
	getByIDFn      func(id int64) (*model.Post, error)
	updateFn       func(postID, authorID int64, content string) error
	deleteFn       func(postID, authorID int64) (bool, error)
	listByAuthorFn func(authorID int64, skip, limit int) ([]model.Post, int64, error)

	created []*model.Post
}

func (f *fakePostStore) Create(post *model.Post) error {
	f.created = append(f.created, post)
	if f.createFn != nil {
		return f.createFn(post)
	}
	post.ID = int64(len(f.created))
	return nil
}

func (f *fakePostStore) GetByID(id int64) (*model.Post, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePostStore) Update(postID, authorID int64, content string) error {
	if f.updateFn != nil {
		return f.updateFn(postID, authorID, content)
	}
	return nil
}

func (f *fakePostStore) Delete(postID, authorID int64) (bool, error) {
	if f.deleteFn != nil {
		return f.deleteFn(postID, authorID)
	}
	return true, nil
}

func (f *fakePostStore) ListByAuthor(authorID int64, skip, limit int) ([]model.Post, int64, error) {
	if f.listByAuthorFn != nil {
		return f.listByAuthorFn(authorID, skip, limit)
	}
	return nil, 0, nil
}

// ---------------------------------------------------------------------------
// WatchHistoryStore

type fakeWatchHistoryStore struct {
	recordFn        func(userID, videoID int64) error
	listVideoIDsFn  func(userID int64, skip, limit int) ([]int64, int64, error)
	deleteByVideoFn func(videoID int64) (int64, error)

	records [][2]int64
}

func (f *fakeWatchHistoryStore) Record(userID, videoID int64) error {
	f.records = append(f.records, [2]int64{userID, videoID})
	if f.recordFn != nil {
		return f.recordFn(userID, videoID)
	}
	return nil
}

func (f *fakeWatchHistoryStore) ListVideoIDs(userID int64, skip, limit int) ([]int64, int64, error) {
	if f.listVideoIDsFn != nil {
		return f.listVideoIDsFn(userID, skip, limit)
	}
	return nil, 0, nil
}

func (f *fakeWatchHistoryStore) DeleteByVideo(videoID int64) (int64, error) {
	if f.deleteByVideoFn != nil {
		return f.deleteByVideoFn(videoID)
	}
	return 0, nil
}

// ---------------------------------------------------------------------------
// 基础设施依赖

type fakeMediaStore struct {
	storeVideoFn func(localPath string) (string, int, error)
	storeImageFn func(localPath string) (string, error)
	removeFn     func(url string) error

	removedURLs []string
}

func (f *fakeMediaStore) StoreVideo(_ context.Context, localPath string) (string, int, error) {
	if f.storeVideoFn != nil {
		return f.storeVideoFn(localPath)
	}
	return fmt.Sprintf("http://media.test/media/videos/%s", localPath), 120, nil
}

func (f *fakeMediaStore) StoreImage(_ context.Context, localPath string) (string, error) {
	if f.storeImageFn != nil {
		return f.storeImageFn(localPath)
	}
	return fmt.Sprintf("http://media.test/media/images/%s", localPath), nil
}

func (f *fakeMediaStore) Remove(_ context.Context, url string) error {
	f.removedURLs = append(f.removedURLs, url)
	if f.removeFn != nil {
		return f.removeFn(url)
	}
	return nil
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]int64
	ttls     map[string]time.Duration

	saveErr error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: map[string]int64{},
		ttls:     map[string]time.Duration{},
	}
}

func (f *fakeSessionStore) Save(_ context.Context, tokenID string, userID int64, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.sessions[tokenID] = userID
	f.ttls[tokenID] = ttl
	return nil
}

func (f *fakeSessionStore) Get(_ context.Context, tokenID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	userID, ok := f.sessions[tokenID]
	if !ok {
		return 0, errors.New("session not found")
	}
	return userID, nil
}

func (f *fakeSessionStore) Delete(_ context.Context, tokenID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, tokenID)
	delete(f.ttls, tokenID)
	return nil
}

type publishedEvent struct {
	eventType string
	videoID   int64
}

type fakeEventPublisher struct {
	publishErr error
	events     []publishedEvent
}

func (f *fakeEventPublisher) PublishVideoEvent(_ context.Context, event *infraKafka.VideoEvent) error {
	f.events = append(f.events, publishedEvent{eventType: event.Type, videoID: event.VideoID})
	return f.publishErr
}
