package providers

import (
	"context"

	"aiplugin/internal/common"
	"aiplugin/internal/logger"
	"aiplugin/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SyncEnqueuer 提交异步模型同步任务
type SyncEnqueuer interface {
	EnqueueSyncModels(ctx context.Context, providerID uint64) (string, error)
	EnqueueSyncAll(ctx context.Context) (string, error)
}

// ProviderHandler AI 供应商管理 Handler
type ProviderHandler struct {
	service *models.ProviderService
	queue   SyncEnqueuer
}

// NewProviderHandler queue 为 nil 时不支持异步同步
func NewProviderHandler(service *models.ProviderService, queue SyncEnqueuer) *ProviderHandler {
	return &ProviderHandler{service: service, queue: queue}
}

// GetProvider 供应商详情
// @Summary 获取供应商详情
// @Description api_key 以掩码形式返回
// @Tags Providers
// @Produce json
// @Param id path int true "供应商ID"
// @Success 200 {object} common.APIResponse{data=models.Provider}
// @Failure 404 {object} common.APIResponse
// @Router /api/v1/ai/providers/{id} [get]
func (h *ProviderHandler) GetProvider(c *gin.Context) {
	id, ok := common.ParseIDParam(c, "id")
	if !ok {
		return
	}

	provider, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseSuccess(c, provider)
}

// GetProviderModels 供应商下的模型
// @Summary 获取供应商模型
// @Tags Providers
// @Produce json
// @Param id path int true "供应商ID"
// @Success 200 {object} common.APIResponse{data=[]models.AIModel}
// @Failure 404 {object} common.APIResponse
// @Router /api/v1/ai/providers/{id}/models [get]
func (h *ProviderHandler) GetProviderModels(c *gin.Context) {
	id, ok := common.ParseIDParam(c, "id")
	if !ok {
		return
	}

	items, err := h.service.Models(c.Request.Context(), id)
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseSuccess(c, items)
}

// SyncProviderModels 同步供应商模型
// @Summary 同步供应商模型
// @Description 从供应商 /v1/models 拉取模型并替换已有记录；async=true 时提交后台任务
// @Tags Providers
// @Produce json
// @Param id path int true "供应商ID"
// @Param async query bool false "是否异步"
// @Success 200 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Failure 503 {object} common.APIResponse
// @Router /api/v1/ai/providers/{id}/models/sync [get]
func (h *ProviderHandler) SyncProviderModels(c *gin.Context) {
	id, ok := common.ParseIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if c.Query("async") == "true" {
		if h.queue == nil {
			common.ResponseError(c, common.CodeServiceUnavailable, "异步任务未启用")
			return
		}
		if _, err := h.service.Get(ctx, id); err != nil {
			common.ResponseErr(c, err)
			return
		}
		taskID, err := h.queue.EnqueueSyncModels(ctx, id)
		if err != nil {
			logger.WithContext(ctx).Error("提交模型同步任务失败", zap.Uint64("provider_id", id), zap.Error(err))
			common.ResponseServerError(c, "提交同步任务失败")
			return
		}
		common.ResponseSuccessMessage(c, "同步任务已提交", gin.H{"task_id": taskID})
		return
	}

	count, err := h.service.SyncModels(ctx, id)
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseSuccess(c, gin.H{"count": count})
}

// SyncAllProviders 提交全量同步任务
// @Summary 全量同步模型
// @Description 后台依次同步所有启用供应商的模型目录
// @Tags Providers
// @Produce json
// @Success 200 {object} common.APIResponse
// @Failure 503 {object} common.APIResponse
// @Router /api/v1/ai/providers/sync [post]
func (h *ProviderHandler) SyncAllProviders(c *gin.Context) {
	if h.queue == nil {
		common.ResponseError(c, common.CodeServiceUnavailable, "异步任务未启用")
		return
	}
	ctx := c.Request.Context()
	taskID, err := h.queue.EnqueueSyncAll(ctx)
	if err != nil {
		logger.WithContext(ctx).Error("提交全量同步任务失败", zap.Error(err))
		common.ResponseServerError(c, "提交同步任务失败")
		return
	}
	common.ResponseSuccessMessage(c, "同步任务已提交", gin.H{"task_id": taskID})
}

// ListProviders 分页查询供应商
// @Summary 查询供应商列表
// @Tags Providers
// @Produce json
// @Param page query int false "页码"
// @Param size query int false "每页数量"
// @Param name query string false "名称（模糊）"
// @Param type query int false "供应商类型"
// @Param status query int false "状态"
// @Success 200 {object} common.APIResponse{data=common.ListResponse}
// @Router /api/v1/ai/providers [get]
func (h *ProviderHandler) ListProviders(c *gin.Context) {
	var req models.ListProvidersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		common.ResponseBadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	page, err := h.service.List(c.Request.Context(), &req)
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseList(c, page.Items, page.Total, &req.PaginationRequest)
}

// AllProviders 全部供应商
// @Summary 获取全部供应商
// @Tags Providers
// @Produce json
// @Success 200 {object} common.APIResponse{data=[]models.Provider}
// @Router /api/v1/ai/providers/all [get]
func (h *ProviderHandler) AllProviders(c *gin.Context) {
	items, err := h.service.All(c.Request.Context())
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseSuccess(c, items)
}

// CreateProvider 创建供应商
// @Summary 创建供应商
// @Tags Providers
// @Accept json
// @Produce json
// @Param request body models.CreateProviderRequest true "供应商信息"
// @Success 200 {object} common.APIResponse{data=models.Provider}
// @Failure 400 {object} common.APIResponse
// @Router /api/v1/ai/providers [post]
func (h *ProviderHandler) CreateProvider(c *gin.Context) {
	var req models.CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	provider, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseSuccess(c, provider)
}

// UpdateProvider 更新供应商
// @Summary 更新供应商
// @Description api_key 为空时保留原值
// @Tags Providers
// @Accept json
// @Produce json
// @Param id path int true "供应商ID"
// @Param request body models.UpdateProviderRequest true "供应商信息"
// @Success 200 {object} common.APIResponse
// @Router /api/v1/ai/providers/{id} [put]
func (h *ProviderHandler) UpdateProvider(c *gin.Context) {
	id, ok := common.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req models.UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	count, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseCount(c, count)
}

// DeleteProviders 批量删除供应商（级联删除模型）
// @Summary 批量删除供应商
// @Tags Providers
// @Accept json
// @Produce json
// @Param request body common.IDsRequest true "主键列表"
// @Success 200 {object} common.APIResponse
// @Router /api/v1/ai/providers [delete]
func (h *ProviderHandler) DeleteProviders(c *gin.Context) {
	var req common.IDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	count, err := h.service.Delete(c.Request.Context(), req.PKs)
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseCount(c, count)
}
