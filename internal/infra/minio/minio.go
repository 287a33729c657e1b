package minio

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"cliptube/internal/config"
	"cliptube/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// media bucket 需要公开读，供前端直接播放/展示
const mediaBucket = "media"

var client *minio.Client

// Init 初始化 MinIO 客户端并确保所有 Bucket 存在
func Init(cfg *config.MinIOConfig) error {
	var err error
	client, err = minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = []string{mediaBucket}
	}

	for _, bucket := range buckets {
		exists, err := client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
			logger.Info("MinIO bucket created", zap.String("bucket", bucket))
		}
	}

	policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, mediaBucket)
	if err := client.SetBucketPolicy(ctx, mediaBucket, policy); err != nil {
		return fmt.Errorf("failed to set public policy for %s: %w", mediaBucket, err)
	}

	logger.Info("MinIO connected",
		zap.String("endpoint", cfg.Endpoint),
		zap.Int("buckets", len(buckets)),
	)

	return nil
}

// Get 获取 MinIO 客户端实例
func Get() *minio.Client {
	return client
}

// Storage 媒体存储：上传本地文件换 URL，按 URL 删除。
// 实现 service.MediaStore。
type Storage struct {
	cfg *config.MinIOConfig
}

func NewStorage(cfg *config.MinIOConfig) *Storage {
	return &Storage{cfg: cfg}
}

// StoreVideo 上传视频文件，返回公开 URL 和探测到的时长（秒）。
// 时长探测失败不阻断上传，返回 0。
func (s *Storage) StoreVideo(ctx context.Context, localPath string) (string, int, error) {
	objectName := buildObjectName("videos", localPath)
	publicURL, err := s.upload(ctx, objectName, localPath)
	if err != nil {
		return "", 0, err
	}

	duration, err := ProbeDuration(localPath)
	if err != nil {
		logger.Warn("Probe video duration failed", zap.String("file", localPath), zap.Error(err))
		duration = 0
	}

	return publicURL, duration, nil
}

// StoreImage 上传图片文件（封面/头像），返回公开 URL
func (s *Storage) StoreImage(ctx context.Context, localPath string) (string, error) {
	objectName := buildObjectName("images", localPath)
	return s.upload(ctx, objectName, localPath)
}

// Remove 按公开 URL 删除文件
func (s *Storage) Remove(ctx context.Context, publicURL string) error {
	objectName, err := objectNameFromURL(publicURL)
	if err != nil {
		return err
	}
	if err := client.RemoveObject(ctx, mediaBucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", objectName, err)
	}
	return nil
}

func (s *Storage) upload(ctx context.Context, objectName, localPath string) (string, error) {
	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if _, err := client.FPutObject(ctx, mediaBucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", fmt.Errorf("failed to upload to minio: %w", err)
	}

	return s.publicURL(objectName), nil
}

// publicURL 生成公开访问 URL（media bucket 为 public-read）
func (s *Storage) publicURL(objectName string) string {
	scheme := "http"
	if s.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.Endpoint, mediaBucket, objectName)
}

// buildObjectName 生成对象名：{prefix}/{时间戳}-{原文件名}
func buildObjectName(prefix, localPath string) string {
	base := filepath.Base(localPath)
	return fmt.Sprintf("%s/%d-%s", prefix, time.Now().UnixNano(), base)
}

// objectNameFromURL 从公开 URL 还原对象名
func objectNameFromURL(publicURL string) (string, error) {
	u, err := url.Parse(publicURL)
	if err != nil {
		return "", fmt.Errorf("invalid media url %q: %w", publicURL, err)
	}
	p := strings.TrimPrefix(path.Clean(u.Path), "/")
	if !strings.HasPrefix(p, mediaBucket+"/") {
		return "", fmt.Errorf("url %q does not point into bucket %s", publicURL, mediaBucket)
	}
	return strings.TrimPrefix(p, mediaBucket+"/"), nil
}

// RemoveLocalFile 删除上传后的本地临时文件，失败只记日志
func RemoveLocalFile(localPath string) {
	if err := os.Remove(localPath); err != nil {
		logger.Warn("Remove temp file failed", zap.String("file", localPath), zap.Error(err))
	}
}
