package queue

import (
	"context"
	"fmt"
	"time"

	"aiplugin/internal/config"
	"aiplugin/internal/worker/tasks"

	"github.com/hibiken/asynq"
)

// Client 任务队列客户端接口
type Client interface {
	EnqueueSyncModels(ctx context.Context, providerID uint64) (string, error)
	EnqueueSyncAll(ctx context.Context) (string, error)
	Close() error
}

type asynqClient struct {
	client *asynq.Client
}

// RedisConnOpt 按连接模式构造 asynq 的 Redis 连接参数
func RedisConnOpt(cfg config.RedisConfig) asynq.RedisConnOpt {
	switch cfg.Mode {
	case "sentinel":
		return asynq.RedisFailoverClientOpt{
			MasterName:       cfg.MasterName,
			SentinelAddrs:    cfg.SentinelAddrs,
			SentinelPassword: cfg.SentinelPassword,
			Password:         cfg.Password,
			DB:               cfg.DB,
		}
	case "cluster":
		return asynq.RedisClusterClientOpt{
			Addrs:    cfg.ClusterAddrs,
			Password: cfg.Password,
		}
	default:
		return asynq.RedisClientOpt{
			Addr:     cfg.Addr(),
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
}

// NewClient 创建任务队列客户端
func NewClient(cfg config.RedisConfig) Client {
	return &asynqClient{client: asynq.NewClient(RedisConnOpt(cfg))}
}

func (c *asynqClient) EnqueueSyncModels(ctx context.Context, providerID uint64) (string, error) {
	task, err := tasks.NewSyncProviderModelsTask(providerID)
	if err != nil {
		return "", err
	}

	// 同一供应商 1 分钟内只保留一个待执行任务
	info, err := c.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(3),
		asynq.Timeout(time.Minute),
		asynq.Queue(tasks.QueueCatalog),
		asynq.Unique(time.Minute),
	)
	if err != nil {
		return "", fmt.Errorf("enqueue task failed: %w", err)
	}
	return info.ID, nil
}

func (c *asynqClient) EnqueueSyncAll(ctx context.Context) (string, error) {
	info, err := c.client.EnqueueContext(ctx, tasks.NewSyncAllProvidersTask(),
		asynq.MaxRetry(0),
		asynq.Timeout(10*time.Minute),
		asynq.Queue(tasks.QueueCatalog),
	)
	if err != nil {
		return "", fmt.Errorf("enqueue task failed: %w", err)
	}
	return info.ID, nil
}

func (c *asynqClient) Close() error {
	return c.client.Close()
}
