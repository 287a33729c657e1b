package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// 刷新令牌存储：key = refresh_token:{jti}，value = userID。
// 登出 / 轮换时删除 key 即吊销该会话。

const refreshTokenKeyPrefix = "refresh_token:"

// ErrTokenNotFound 刷新令牌不存在或已吊销
var ErrTokenNotFound = redis.Nil

type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Save 保存刷新令牌会话
func (s *TokenStore) Save(ctx context.Context, tokenID string, userID int64, ttl time.Duration) error {
	key := refreshTokenKeyPrefix + tokenID
	return s.client.Set(ctx, key, userID, ttl).Err()
}

// Get 根据令牌标识查会话所属用户
func (s *TokenStore) Get(ctx context.Context, tokenID string) (int64, error) {
	key := refreshTokenKeyPrefix + tokenID
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt refresh token entry: %w", err)
	}
	return userID, nil
}

// Delete 吊销刷新令牌会话
func (s *TokenStore) Delete(ctx context.Context, tokenID string) error {
	key := refreshTokenKeyPrefix + tokenID
	return s.client.Del(ctx, key).Err()
}
