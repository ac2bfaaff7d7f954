package worker

import (
	"context"
	"fmt"
	"time"

	"aiplugin/internal/config"
	"aiplugin/internal/infra/queue"
	"aiplugin/internal/worker/handlers"
	"aiplugin/internal/worker/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type Server struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	logger    *zap.Logger
}

// NewServer 创建 Worker，workerCfg.SyncCron 非空时同时启动定时全量同步
func NewServer(
	redisCfg config.RedisConfig,
	workerCfg config.WorkerConfig,
	syncer handlers.CatalogSyncer,
	logger *zap.Logger,
) (*Server, error) {
	concurrency := workerCfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	connOpt := queue.RedisConnOpt(redisCfg)
	srv := asynq.NewServer(connOpt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			tasks.QueueCatalog: 6,
			"default":          1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("任务执行失败",
				zap.String("type", task.Type()),
				zap.Error(err),
			)
		}),
	})

	mux := asynq.NewServeMux()
	NewMux(mux, syncer, logger)

	s := &Server{
		server: srv,
		mux:    mux,
		logger: logger,
	}

	if workerCfg.SyncCron != "" {
		s.scheduler = asynq.NewScheduler(connOpt, &asynq.SchedulerOpts{Location: time.Local})
		entryID, err := s.scheduler.Register(workerCfg.SyncCron, tasks.NewSyncAllProvidersTask(),
			asynq.Queue(tasks.QueueCatalog), asynq.MaxRetry(0))
		if err != nil {
			return nil, fmt.Errorf("注册定时同步任务失败: %w", err)
		}
		logger.Info("定时模型同步已注册", zap.String("cron", workerCfg.SyncCron), zap.String("entry_id", entryID))
	}

	return s, nil
}

// NewMux 注册任务处理器
func NewMux(mux *asynq.ServeMux, syncer handlers.CatalogSyncer, logger *zap.Logger) {
	catalogHandler := handlers.NewCatalogHandler(syncer, logger)
	mux.HandleFunc(tasks.TypeSyncProviderModels, catalogHandler.HandleSyncModels)
	mux.HandleFunc(tasks.TypeSyncAllProviders, catalogHandler.HandleSyncAll)
}

// Start 非阻塞启动
func (s *Server) Start() error {
	s.logger.Info("Worker 服务器启动中 (后台)...")
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	if s.scheduler != nil {
		if err := s.scheduler.Start(); err != nil {
			s.server.Shutdown()
			return fmt.Errorf("启动定时任务失败: %w", err)
		}
	}
	return nil
}

// Shutdown 停止 Worker 服务器
func (s *Server) Shutdown() {
	s.logger.Info("Worker 服务器停止中...")
	if s.scheduler != nil {
		s.scheduler.Shutdown()
	}
	s.server.Shutdown()
}
