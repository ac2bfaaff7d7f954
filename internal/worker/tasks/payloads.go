package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task Types
const (
	TypeSyncProviderModels = "ai:provider:sync_models"
	TypeSyncAllProviders   = "ai:provider:sync_all"
)

// QueueCatalog 模型目录同步队列
const QueueCatalog = "catalog"

// SyncProviderModelsPayload 单个供应商模型同步载荷
type SyncProviderModelsPayload struct {
	ProviderID uint64 `json:"provider_id"`
}

// NewSyncProviderModelsTask 构造单个供应商同步任务
func NewSyncProviderModelsTask(providerID uint64) (*asynq.Task, error) {
	payload, err := json.Marshal(SyncProviderModelsPayload{ProviderID: providerID})
	if err != nil {
		return nil, fmt.Errorf("marshal payload failed: %w", err)
	}
	return asynq.NewTask(TypeSyncProviderModels, payload), nil
}

// NewSyncAllProvidersTask 构造全量同步任务
func NewSyncAllProvidersTask() *asynq.Task {
	return asynq.NewTask(TypeSyncAllProviders, nil)
}

// ParseSyncProviderModels 解析单个供应商同步载荷
func ParseSyncProviderModels(t *asynq.Task) (SyncProviderModelsPayload, error) {
	var p SyncProviderModelsPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("json unmarshal failed: %w", err)
	}
	if p.ProviderID == 0 {
		return p, fmt.Errorf("provider_id 不能为空")
	}
	return p, nil
}
