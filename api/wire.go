package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	chatHandlers "aiplugin/api/handlers/chat"
	modelHandlers "aiplugin/api/handlers/models"
	providerHandlers "aiplugin/api/handlers/providers"
	"aiplugin/internal/ai"
	"aiplugin/internal/auth"
	"aiplugin/internal/cache"
	"aiplugin/internal/chat"
	"aiplugin/internal/config"
	"aiplugin/internal/infra"
	"aiplugin/internal/infra/queue"
	"aiplugin/internal/logger"
	"aiplugin/internal/models"
	"aiplugin/internal/worker"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AppContainer 应用容器，集中管理所有服务依赖
type AppContainer struct {
	// 基础设施
	DB          *gorm.DB
	Config      *config.Config
	RedisClient redis.UniversalClient
	QueueClient queue.Client

	// 认证，auth.enabled 为 false 时为 nil
	JWTService *auth.JWTService

	// 核心服务
	ClientFactory   *ai.ClientFactory
	ProviderService *models.ProviderService
	ModelService    *models.ModelService
	ChatService     *chat.Service

	// Worker，未启用时为 nil
	WorkerServer *worker.Server
}

// Handlers HTTP 处理器集合
type Handlers struct {
	Provider *providerHandlers.ProviderHandler
	Model    *modelHandlers.ModelHandler
	Chat     *chatHandlers.ChatHandler
}

// InitContainer 初始化应用容器
func InitContainer(db *gorm.DB, cfg *config.Config) (*AppContainer, error) {
	container := &AppContainer{
		DB:     db,
		Config: cfg,
	}

	if err := container.initRedis(cfg); err != nil {
		return nil, err
	}
	if err := container.initAuth(cfg); err != nil {
		return nil, err
	}
	container.initCoreServices(db, cfg)
	if err := container.initWorker(cfg); err != nil {
		return nil, err
	}

	return container, nil
}

// InitHandlers 初始化所有 Handlers
func (c *AppContainer) InitHandlers() *Handlers {
	var syncQueue providerHandlers.SyncEnqueuer
	if c.QueueClient != nil {
		syncQueue = c.QueueClient
	}
	return &Handlers{
		Provider: providerHandlers.NewProviderHandler(c.ProviderService, syncQueue),
		Model:    modelHandlers.NewModelHandler(c.ModelService),
		Chat:     chatHandlers.NewChatHandler(c.ChatService, getEnvList("CORS_ALLOW_ORIGINS")...),
	}
}

// Close 释放容器持有的连接
func (c *AppContainer) Close() {
	if c.WorkerServer != nil {
		c.WorkerServer.Shutdown()
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warn("关闭队列客户端失败", zap.Error(err))
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn("关闭 Redis 失败", zap.Error(err))
		}
	}
}

// --- 内部初始化方法 ---

func (c *AppContainer) initRedis(cfg *config.Config) error {
	if !cfg.Redis.Enabled {
		logger.Info("Redis 未启用，列表缓存使用内存实现，异步同步不可用")
		return nil
	}

	redisCfg := normalizeRedisConfig(cfg.Redis)
	cfg.Redis = redisCfg

	redisClient, err := infra.NewRedisClient(&redisCfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis 不可用，列表缓存退回内存实现，异步同步不可用", zap.Error(err))
		_ = redisClient.Close()
		return nil
	}

	c.RedisClient = redisClient
	c.QueueClient = queue.NewClient(redisCfg)
	logger.Info("Redis 连接成功", zap.String("mode", redisCfg.Mode))
	return nil
}

func (c *AppContainer) initAuth(cfg *config.Config) error {
	if !cfg.Auth.Enabled {
		logger.Warn("管理接口认证未启用")
		return nil
	}

	secret := strings.TrimSpace(cfg.Auth.JWTSecret)
	if secret == "" {
		return fmt.Errorf("auth.enabled 为 true 时必须配置 auth.jwt_secret")
	}
	c.JWTService = auth.NewJWTService(secret, cfg.Auth.Issuer, c.RedisClient)
	return nil
}

func (c *AppContainer) initCoreServices(db *gorm.DB, cfg *config.Config) {
	var backend cache.Cache = cache.NewMemoryCache()
	if c.RedisClient != nil {
		backend = cache.NewRedisCache(c.RedisClient)
	}
	ttl := time.Duration(cfg.AI.ListCacheTTL) * time.Second
	providerCache := cache.NewListCache(backend, "provider", ttl)
	modelCache := cache.NewListCache(backend, "model", ttl)

	c.ClientFactory = ai.NewClientFactory()
	c.ModelService = models.NewModelService(db, modelCache)
	c.ProviderService = models.NewProviderService(db,
		models.WithCatalogClient(models.NewCatalogClient(time.Duration(cfg.AI.CatalogTimeout)*time.Second)),
		models.WithProviderCaches(providerCache, modelCache),
	)
	c.ChatService = chat.NewService(c.ProviderService, c.ModelService, c.ClientFactory,
		chat.WithDebounce(time.Duration(cfg.AI.StreamDebounceMs)*time.Millisecond),
	)
}

func (c *AppContainer) initWorker(cfg *config.Config) error {
	if !cfg.Worker.Enabled {
		return nil
	}
	if c.RedisClient == nil {
		logger.Warn("Worker 已启用但 Redis 不可用，跳过启动")
		return nil
	}

	server, err := worker.NewServer(cfg.Redis, cfg.Worker, c.ProviderService, logger.Get())
	if err != nil {
		return err
	}
	c.WorkerServer = server
	return nil
}
