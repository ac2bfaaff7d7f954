package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"aiplugin/internal/ai"
	"aiplugin/internal/cache"
	"aiplugin/internal/common"
	"aiplugin/internal/logger"
	"aiplugin/internal/metrics"
	"aiplugin/internal/security"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	msgProviderNotFound  = "供应商不存在"
	msgHostTrailingSlash = "api_host 不能以 / 结尾"
	msgCatalogFailed     = "获取模型列表失败，请稍后重试"
)

var tracer = otel.Tracer("aiplugin/internal/models")

// CreateProviderRequest 创建供应商请求
type CreateProviderRequest struct {
	Name    string  `json:"name" binding:"required,max=256"`
	Type    *int    `json:"type" binding:"required"`
	APIKey  string  `json:"api_key"`
	APIHost string  `json:"api_host" binding:"max=512"`
	Status  *int    `json:"status"`
	Remark  *string `json:"remark"`
}

// UpdateProviderRequest 更新供应商请求，api_key 为空时保留原值
type UpdateProviderRequest struct {
	Name    string  `json:"name" binding:"required,max=256"`
	Type    *int    `json:"type" binding:"required"`
	APIKey  string  `json:"api_key"`
	APIHost string  `json:"api_host" binding:"max=512"`
	Status  *int    `json:"status"`
	Remark  *string `json:"remark"`
}

// ListProvidersRequest 供应商列表查询
type ListProvidersRequest struct {
	common.PaginationRequest
	Name   string `form:"name"`
	Type   *int   `form:"type"`
	Status *int   `form:"status"`
}

func (r *ListProvidersRequest) cacheKey() string {
	return fmt.Sprintf("list|%d|%d|%s|%s|%s", r.GetPage(), r.GetPageSize(), r.Name, intKey(r.Type), intKey(r.Status))
}

// ProviderPage 供应商分页结果
type ProviderPage struct {
	Items []Provider `json:"items"`
	Total int64      `json:"total"`
}

// ProviderService 供应商管理与模型目录同步
type ProviderService struct {
	common.BaseService
	catalog       *CatalogClient
	providerCache *cache.ListCache
	modelCache    *cache.ListCache
}

// ProviderServiceOption 配置项
type ProviderServiceOption func(*ProviderService)

// WithCatalogClient 指定模型目录客户端
func WithCatalogClient(c *CatalogClient) ProviderServiceOption {
	return func(s *ProviderService) {
		s.catalog = c
	}
}

// WithProviderCaches 指定供应商与模型的列表缓存
func WithProviderCaches(providers, models *cache.ListCache) ProviderServiceOption {
	return func(s *ProviderService) {
		s.providerCache = providers
		s.modelCache = models
	}
}

// NewProviderService 创建 ProviderService
func NewProviderService(db *gorm.DB, opts ...ProviderServiceOption) *ProviderService {
	s := &ProviderService{
		BaseService: common.BaseService{DB: db},
		catalog:     NewCatalogClient(DefaultCatalogTimeout),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func validateHost(host string) error {
	if strings.HasSuffix(host, "/") {
		return common.RequestRejected(msgHostTrailingSlash)
	}
	return nil
}

func validateVendor(t int) error {
	if !ai.VendorType(t).Valid() {
		return common.NewBusinessErrorWithCode(common.CodeUnsupportedVendor)
	}
	return nil
}

func validateStatus(status *int) error {
	if status != nil && !common.ValidStatus(*status) {
		return common.NewBusinessError(common.CodeInvalidRequest, "status 只能为 0 或 1")
	}
	return nil
}

// mask 填充脱敏 key
func mask(p *Provider) {
	plain, err := security.DecryptSecret(p.APIKey)
	if err != nil {
		p.MaskedAPIKey = "****"
		return
	}
	p.MaskedAPIKey = security.MaskSecret(plain)
}

func (s *ProviderService) find(ctx context.Context, id uint64) (*Provider, error) {
	var provider Provider
	if err := s.FindByID(ctx, &provider, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound(msgProviderNotFound)
		}
		return nil, fmt.Errorf("查询供应商失败: %w", err)
	}
	return &provider, nil
}

// Get 供应商详情（key 脱敏）
func (s *ProviderService) Get(ctx context.Context, id uint64) (*Provider, error) {
	provider, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	mask(provider)
	return provider, nil
}

// Resolve 供应商详情（key 为明文），仅供内部调用供应商接口使用
func (s *ProviderService) Resolve(ctx context.Context, id uint64) (*Provider, error) {
	provider, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	plain, err := security.DecryptSecret(provider.APIKey)
	if err != nil {
		return nil, fmt.Errorf("解密供应商 api_key 失败: %w", err)
	}
	provider.APIKey = plain
	return provider, nil
}

// List 分页查询
func (s *ProviderService) List(ctx context.Context, req *ListProvidersRequest) (*ProviderPage, error) {
	key := req.cacheKey()
	var cached ProviderPage
	if s.providerCache.Load(ctx, key, &cached) {
		return &cached, nil
	}

	query := s.DB.WithContext(ctx).Model(&Provider{}).
		Scopes(common.LikeIfPresent("name", req.Name), common.ByStatus(req.Status))
	if req.Type != nil {
		query = query.Where("type = ?", *req.Type)
	}

	page := &ProviderPage{Items: []Provider{}}
	total, err := s.Page(ctx, query, req.PaginationRequest, &page.Items)
	if err != nil {
		return nil, fmt.Errorf("查询供应商列表失败: %w", err)
	}
	page.Total = total
	for i := range page.Items {
		mask(&page.Items[i])
	}

	s.providerCache.Store(ctx, key, page)
	return page, nil
}

// All 全部供应商
func (s *ProviderService) All(ctx context.Context) ([]Provider, error) {
	var cached []Provider
	if s.providerCache.Load(ctx, "all", &cached) {
		return cached, nil
	}

	providers := []Provider{}
	if err := s.DB.WithContext(ctx).Scopes(common.NewestFirst()).Find(&providers).Error; err != nil {
		return nil, fmt.Errorf("查询供应商失败: %w", err)
	}
	for i := range providers {
		mask(&providers[i])
	}
	s.providerCache.Store(ctx, "all", providers)
	return providers, nil
}

// ExistsByName 同名供应商是否存在
func (s *ProviderService) ExistsByName(ctx context.Context, name string) (bool, error) {
	return s.Exists(ctx, &Provider{}, "name = ?", name)
}

// Create 创建供应商
func (s *ProviderService) Create(ctx context.Context, req *CreateProviderRequest) (*Provider, error) {
	if err := validateHost(req.APIHost); err != nil {
		return nil, err
	}
	if err := validateVendor(*req.Type); err != nil {
		return nil, err
	}
	if err := validateStatus(req.Status); err != nil {
		return nil, err
	}

	provider := &Provider{
		Name:    strings.TrimSpace(req.Name),
		Type:    ai.VendorType(*req.Type),
		APIHost: req.APIHost,
		Status:  common.StatusEnabled,
		Remark:  req.Remark,
	}
	if req.Status != nil {
		provider.Status = *req.Status
	}
	if req.APIKey != "" {
		encrypted, err := security.EncryptSecret(req.APIKey)
		if err != nil {
			return nil, fmt.Errorf("加密 api_key 失败: %w", err)
		}
		provider.APIKey = encrypted
	}

	if err := s.DB.WithContext(ctx).Create(provider).Error; err != nil {
		return nil, fmt.Errorf("创建供应商失败: %w", err)
	}
	s.providerCache.Invalidate(ctx)

	mask(provider)
	return provider, nil
}

// Update 更新供应商，返回影响行数
func (s *ProviderService) Update(ctx context.Context, id uint64, req *UpdateProviderRequest) (int64, error) {
	if err := validateHost(req.APIHost); err != nil {
		return 0, err
	}
	if err := validateVendor(*req.Type); err != nil {
		return 0, err
	}
	if err := validateStatus(req.Status); err != nil {
		return 0, err
	}

	updates := map[string]any{
		"name":     strings.TrimSpace(req.Name),
		"type":     *req.Type,
		"api_host": req.APIHost,
		"remark":   req.Remark,
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.APIKey != "" {
		encrypted, err := security.EncryptSecret(req.APIKey)
		if err != nil {
			return 0, fmt.Errorf("加密 api_key 失败: %w", err)
		}
		updates["api_key"] = encrypted
	}

	count, err := s.UpdateByID(ctx, &Provider{}, id, updates)
	if err != nil {
		return 0, fmt.Errorf("更新供应商失败: %w", err)
	}
	if count > 0 {
		s.providerCache.Invalidate(ctx)
	}
	return count, nil
}

// Delete 批量删除供应商及其模型，返回删除的供应商数量
func (s *ProviderService) Delete(ctx context.Context, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var count int64
	err := s.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("provider_id IN ?", ids).Delete(&AIModel{}).Error; err != nil {
			return fmt.Errorf("删除供应商模型失败: %w", err)
		}
		result := tx.Where("id IN ?", ids).Delete(&Provider{})
		if result.Error != nil {
			return fmt.Errorf("删除供应商失败: %w", result.Error)
		}
		count = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.providerCache.Invalidate(ctx)
	s.modelCache.Invalidate(ctx)
	return count, nil
}

// Models 供应商下的全部模型
func (s *ProviderService) Models(ctx context.Context, id uint64) ([]AIModel, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	models := []AIModel{}
	if err := s.DB.WithContext(ctx).
		Where("provider_id = ?", id).
		Scopes(common.NewestFirst()).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("查询供应商模型失败: %w", err)
	}
	return models, nil
}

// SyncModels 拉取供应商模型目录并整体替换该供应商的模型，返回写入条数
func (s *ProviderService) SyncModels(ctx context.Context, id uint64) (int, error) {
	ctx, span := tracer.Start(ctx, "ProviderService.SyncModels")
	defer span.End()
	span.SetAttributes(attribute.Int64("provider.id", int64(id)))

	provider, err := s.Resolve(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	vendor := provider.Type.String()
	span.SetAttributes(attribute.String("provider.vendor", vendor))

	start := time.Now()
	log := logger.WithContext(ctx).With(
		zap.Uint64("provider_id", id),
		zap.String("vendor", vendor),
		zap.String("api_host", provider.APIHost),
	)

	entries, err := s.catalog.Fetch(ctx, provider.APIHost, provider.APIKey)
	if err != nil {
		log.Error("获取模型列表失败", zap.Error(err))
		metrics.CatalogSyncTotal.WithLabelValues(vendor, "fetch_failed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog fetch failed")
		return 0, common.Forbidden(msgCatalogFailed)
	}

	rows := make([]AIModel, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, AIModel{
			ProviderID: id,
			ModelID:    entry.ID,
			OwnedBy:    entry.OwnedBy,
			Status:     common.StatusEnabled,
			Metadata: datatypes.JSONMap{
				"object":  entry.Object,
				"created": entry.Created,
			},
		})
	}

	err = s.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("provider_id = ?", id).Delete(&AIModel{}).Error; err != nil {
			return fmt.Errorf("清理供应商模型失败: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 100).Error; err != nil {
			return fmt.Errorf("写入供应商模型失败: %w", err)
		}
		return nil
	})
	if err != nil {
		metrics.CatalogSyncTotal.WithLabelValues(vendor, "store_failed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	s.modelCache.Invalidate(ctx)
	metrics.CatalogSyncTotal.WithLabelValues(vendor, "success").Inc()
	metrics.CatalogSyncDuration.WithLabelValues(vendor).Observe(time.Since(start).Seconds())
	metrics.CatalogModelsSynced.WithLabelValues(vendor).Add(float64(len(rows)))
	span.SetAttributes(attribute.Int("models.count", len(rows)))
	log.Info("模型列表同步完成", zap.Int("count", len(rows)))
	return len(rows), nil
}

// EnabledIDs 全部启用供应商的 ID，供定时同步使用
func (s *ProviderService) EnabledIDs(ctx context.Context) ([]uint64, error) {
	var ids []uint64
	if err := s.DB.WithContext(ctx).Model(&Provider{}).
		Scopes(common.EnabledOnly()).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("查询启用供应商失败: %w", err)
	}
	return ids, nil
}

func intKey(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}
