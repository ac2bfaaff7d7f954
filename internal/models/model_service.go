package models

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"aiplugin/internal/cache"
	"aiplugin/internal/common"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	msgModelNotFound         = "模型不存在"
	msgProviderModelNotFound = "供应商模型不存在"
)

// CreateModelRequest 创建模型请求
type CreateModelRequest struct {
	ProviderID uint64         `json:"provider_id" binding:"required"`
	ModelID    string         `json:"model_id" binding:"required,max=512"`
	OwnedBy    string         `json:"owned_by" binding:"max=512"`
	Status     *int           `json:"status"`
	Remark     *string        `json:"remark"`
	Metadata   map[string]any `json:"metadata"`
}

// UpdateModelRequest 更新模型请求
type UpdateModelRequest struct {
	ProviderID uint64         `json:"provider_id" binding:"required"`
	ModelID    string         `json:"model_id" binding:"required,max=512"`
	OwnedBy    string         `json:"owned_by" binding:"max=512"`
	Status     *int           `json:"status"`
	Remark     *string        `json:"remark"`
	Metadata   map[string]any `json:"metadata"`
}

// ListModelsRequest 模型列表查询
type ListModelsRequest struct {
	common.PaginationRequest
	ProviderID *uint64 `form:"provider_id"`
	ModelID    string  `form:"model_id"`
	Status     *int    `form:"status"`
}

func (r *ListModelsRequest) cacheKey() string {
	provider := "-"
	if r.ProviderID != nil {
		provider = fmt.Sprint(*r.ProviderID)
	}
	return fmt.Sprintf("list|%d|%d|%s|%s|%s", r.GetPage(), r.GetPageSize(), provider, r.ModelID, intKey(r.Status))
}

// ModelPage 模型分页结果
type ModelPage struct {
	Items []AIModel `json:"items"`
	Total int64     `json:"total"`
}

// ModelService 模型管理
type ModelService struct {
	common.BaseService
	cache *cache.ListCache
}

// NewModelService 创建 ModelService，listCache 可为 nil
func NewModelService(db *gorm.DB, listCache *cache.ListCache) *ModelService {
	return &ModelService{
		BaseService: common.BaseService{DB: db},
		cache:       listCache,
	}
}

// Get 模型详情
func (s *ModelService) Get(ctx context.Context, id uint64) (*AIModel, error) {
	var model AIModel
	if err := s.FindByID(ctx, &model, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound(msgModelNotFound)
		}
		return nil, fmt.Errorf("查询模型失败: %w", err)
	}
	return &model, nil
}

// GetByModelID 按 (provider_id, model_id) 查询
func (s *ModelService) GetByModelID(ctx context.Context, providerID uint64, modelID string) (*AIModel, error) {
	var model AIModel
	err := s.DB.WithContext(ctx).
		Where("provider_id = ? AND model_id = ?", providerID, modelID).
		Scopes(common.NewestFirst()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound(msgProviderModelNotFound)
		}
		return nil, fmt.Errorf("查询供应商模型失败: %w", err)
	}
	return &model, nil
}

// List 分页查询
func (s *ModelService) List(ctx context.Context, req *ListModelsRequest) (*ModelPage, error) {
	key := req.cacheKey()
	var cached ModelPage
	if s.cache.Load(ctx, key, &cached) {
		return &cached, nil
	}

	query := s.DB.WithContext(ctx).Model(&AIModel{}).
		Scopes(common.LikeIfPresent("model_id", req.ModelID), common.ByStatus(req.Status))
	if req.ProviderID != nil {
		query = query.Where("provider_id = ?", *req.ProviderID)
	}

	page := &ModelPage{Items: []AIModel{}}
	total, err := s.Page(ctx, query, req.PaginationRequest, &page.Items)
	if err != nil {
		return nil, fmt.Errorf("查询模型列表失败: %w", err)
	}
	page.Total = total

	s.cache.Store(ctx, key, page)
	return page, nil
}

// All 全部模型
func (s *ModelService) All(ctx context.Context) ([]AIModel, error) {
	var cached []AIModel
	if s.cache.Load(ctx, "all", &cached) {
		return cached, nil
	}

	models := []AIModel{}
	if err := s.DB.WithContext(ctx).Scopes(common.NewestFirst()).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("查询模型失败: %w", err)
	}
	s.cache.Store(ctx, "all", models)
	return models, nil
}

func (s *ModelService) ensureProvider(ctx context.Context, providerID uint64) error {
	exists, err := s.Exists(ctx, &Provider{}, "id = ?", providerID)
	if err != nil {
		return fmt.Errorf("查询供应商失败: %w", err)
	}
	if !exists {
		return common.NotFound(msgProviderNotFound)
	}
	return nil
}

// Create 创建模型
func (s *ModelService) Create(ctx context.Context, req *CreateModelRequest) (*AIModel, error) {
	if err := validateStatus(req.Status); err != nil {
		return nil, err
	}
	if err := s.ensureProvider(ctx, req.ProviderID); err != nil {
		return nil, err
	}

	model := &AIModel{
		ProviderID: req.ProviderID,
		ModelID:    strings.TrimSpace(req.ModelID),
		OwnedBy:    req.OwnedBy,
		Status:     common.StatusEnabled,
		Remark:     req.Remark,
	}
	if req.Status != nil {
		model.Status = *req.Status
	}
	if len(req.Metadata) > 0 {
		model.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.DB.WithContext(ctx).Create(model).Error; err != nil {
		return nil, fmt.Errorf("创建模型失败: %w", err)
	}
	s.cache.Invalidate(ctx)
	return model, nil
}

// Update 更新模型，返回影响行数
func (s *ModelService) Update(ctx context.Context, id uint64, req *UpdateModelRequest) (int64, error) {
	if err := validateStatus(req.Status); err != nil {
		return 0, err
	}
	if err := s.ensureProvider(ctx, req.ProviderID); err != nil {
		return 0, err
	}

	updates := map[string]any{
		"provider_id": req.ProviderID,
		"model_id":    strings.TrimSpace(req.ModelID),
		"owned_by":    req.OwnedBy,
		"remark":      req.Remark,
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Metadata != nil {
		updates["metadata"] = datatypes.JSONMap(req.Metadata)
	}

	count, err := s.UpdateByID(ctx, &AIModel{}, id, updates)
	if err != nil {
		return 0, fmt.Errorf("更新模型失败: %w", err)
	}
	if count > 0 {
		s.cache.Invalidate(ctx)
	}
	return count, nil
}

// Delete 批量删除模型
func (s *ModelService) Delete(ctx context.Context, ids []uint64) (int64, error) {
	count, err := s.DeleteByIDs(ctx, &AIModel{}, ids)
	if err != nil {
		return 0, fmt.Errorf("删除模型失败: %w", err)
	}
	if count > 0 {
		s.cache.Invalidate(ctx)
	}
	return count, nil
}
