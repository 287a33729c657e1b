package service

import (
	"context"
	"time"
)

// MediaStore 媒体资产存储，由 internal/infra/minio 实现。
// 上传以本地临时文件为输入，返回公开访问 URL。
type MediaStore interface {
	StoreVideo(ctx context.Context, localPath string) (url string, duration int, err error)
	StoreImage(ctx context.Context, localPath string) (url string, err error)
	Remove(ctx context.Context, url string) error
}

// SessionStore 刷新令牌会话存储，由 internal/infra/redis 实现
type SessionStore interface {
	Save(ctx context.Context, tokenID string, userID int64, ttl time.Duration) error
	Get(ctx context.Context, tokenID string) (int64, error)
	Delete(ctx context.Context, tokenID string) error
}
