package handlers

import (
	"context"
	"errors"
	"fmt"

	"aiplugin/internal/common"
	"aiplugin/internal/worker/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// CatalogSyncer 模型目录同步
type CatalogSyncer interface {
	SyncModels(ctx context.Context, providerID uint64) (int, error)
	EnabledIDs(ctx context.Context) ([]uint64, error)
}

type CatalogHandler struct {
	syncer CatalogSyncer
	logger *zap.Logger
}

func NewCatalogHandler(syncer CatalogSyncer, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		syncer: syncer,
		logger: logger,
	}
}

// HandleSyncModels 同步单个供应商，供应商不存在时不再重试
func (h *CatalogHandler) HandleSyncModels(ctx context.Context, t *asynq.Task) error {
	p, err := tasks.ParseSyncProviderModels(t)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	h.logger.Info("开始同步供应商模型", zap.Uint64("provider_id", p.ProviderID))

	count, err := h.syncer.SyncModels(ctx, p.ProviderID)
	if err != nil {
		h.logger.Error("供应商模型同步失败", zap.Uint64("provider_id", p.ProviderID), zap.Error(err))
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}

	h.logger.Info("供应商模型同步完成", zap.Uint64("provider_id", p.ProviderID), zap.Int("count", count))
	return nil
}

// HandleSyncAll 依次同步所有启用的供应商，单个失败不影响其他
func (h *CatalogHandler) HandleSyncAll(ctx context.Context, _ *asynq.Task) error {
	ids, err := h.syncer.EnabledIDs(ctx)
	if err != nil {
		return err
	}

	failed := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := h.syncer.SyncModels(ctx, id); err != nil {
			failed++
			h.logger.Warn("供应商模型同步失败", zap.Uint64("provider_id", id), zap.Error(err))
		}
	}

	h.logger.Info("全量模型同步完成", zap.Int("providers", len(ids)), zap.Int("failed", failed))
	return nil
}
