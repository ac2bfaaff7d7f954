package handlers

import (
	"context"
	"errors"
	"testing"

	"aiplugin/internal/common"
	"aiplugin/internal/worker/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSyncer struct {
	ids    []uint64
	errs   map[uint64]error
	synced []uint64
}

func (f *fakeSyncer) SyncModels(_ context.Context, id uint64) (int, error) {
	f.synced = append(f.synced, id)
	if err := f.errs[id]; err != nil {
		return 0, err
	}
	return 3, nil
}

func (f *fakeSyncer) EnabledIDs(context.Context) ([]uint64, error) {
	return f.ids, nil
}

func TestHandleSyncModels(t *testing.T) {
	syncer := &fakeSyncer{}
	h := NewCatalogHandler(syncer, zap.NewNop())

	task, err := tasks.NewSyncProviderModelsTask(7)
	require.NoError(t, err)

	require.NoError(t, h.HandleSyncModels(context.Background(), task))
	assert.Equal(t, []uint64{7}, syncer.synced)
}

func TestHandleSyncModelsSkipsRetryForMissingProvider(t *testing.T) {
	syncer := &fakeSyncer{errs: map[uint64]error{9: common.NotFound("供应商不存在")}}
	h := NewCatalogHandler(syncer, zap.NewNop())

	task, err := tasks.NewSyncProviderModelsTask(9)
	require.NoError(t, err)

	err = h.HandleSyncModels(context.Background(), task)
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleSyncModelsRetriesCatalogFailure(t *testing.T) {
	syncer := &fakeSyncer{errs: map[uint64]error{2: common.Forbidden("获取模型列表失败，请稍后重试")}}
	h := NewCatalogHandler(syncer, zap.NewNop())

	task, err := tasks.NewSyncProviderModelsTask(2)
	require.NoError(t, err)

	err = h.HandleSyncModels(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleSyncModelsBadPayload(t *testing.T) {
	h := NewCatalogHandler(&fakeSyncer{}, zap.NewNop())

	err := h.HandleSyncModels(context.Background(), asynq.NewTask(tasks.TypeSyncProviderModels, []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleSyncAllContinuesAfterFailure(t *testing.T) {
	syncer := &fakeSyncer{
		ids:  []uint64{1, 2, 3},
		errs: map[uint64]error{2: errors.New("boom")},
	}
	h := NewCatalogHandler(syncer, zap.NewNop())

	require.NoError(t, h.HandleSyncAll(context.Background(), tasks.NewSyncAllProvidersTask()))
	assert.Equal(t, []uint64{1, 2, 3}, syncer.synced)
}
