package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cliptube/internal/config"
	"cliptube/internal/infra/database"
	infraES "cliptube/internal/infra/elasticsearch"
	infraKafka "cliptube/internal/infra/kafka"
	"cliptube/internal/repository"
	"cliptube/internal/service"
	"cliptube/pkg/logger"

	"go.uber.org/zap"
)

// 搜索索引同步 worker：消费视频生命周期事件，把数据库状态
// 同步进 Elasticsearch。启动时先做一次全量重建。
func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	if err := infraES.Init(&cfg.Elasticsearch); err != nil {
		logger.Fatal("Failed to init elasticsearch", zap.Error(err))
	}
	defer infraES.Close()

	if err := infraES.InitIndexes(); err != nil {
		logger.Fatal("Failed to init elasticsearch indexes", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	db := database.Get()
	videoRepo := repository.NewVideoRepository(db)
	userRepo := repository.NewUserRepository(db)
	indexService := service.NewIndexService(videoRepo, userRepo)

	if err := indexService.RebuildAll(ctx); err != nil {
		logger.Error("Initial index rebuild failed", zap.Error(err))
	}

	topic := cfg.Kafka.Topics["video_events"]
	groupID := "cliptube-index-worker"

	logger.Info("Index worker started",
		zap.String("topic", topic),
		zap.String("group", groupID),
		zap.Strings("brokers", cfg.Kafka.Brokers),
	)

	infraKafka.StartVideoEventConsumer(ctx, cfg.Kafka.Brokers, topic, groupID, indexService.HandleVideoEvent)
}
