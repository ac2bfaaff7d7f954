package models

import (
	"aiplugin/internal/common"
	"aiplugin/internal/models"

	"github.com/gin-gonic/gin"
)

// ModelHandler AI 模型管理 Handler
type ModelHandler struct {
	service *models.ModelService
}

// NewModelHandler 创建 ModelHandler 实例
func NewModelHandler(service *models.ModelService) *ModelHandler {
	return &ModelHandler{service: service}
}

// GetModel 查询单个模型
// @Summary 获取模型详情
// @Tags Models
// @Produce json
// @Param id path int true "模型ID"
// @Success 200 {object} common.APIResponse{data=models.AIModel}
// @Failure 404 {object} common.APIResponse
// @Router /api/v1/ai/models/{id} [get]
func (h *ModelHandler) GetModel(c *gin.Context) {
	id, ok := common.ParseIDParam(c, "id")
	if !ok {
		return
	}

	model, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseSuccess(c, model)
}

// ListModels 分页查询模型
// @Summary 查询模型列表
// @Description 支持按供应商、模型标识（模糊）、状态筛选，按 ID 倒序
// @Tags Models
// @Produce json
// @Param page query int false "页码"
// @Param size query int false "每页数量"
// @Param provider_id query int false "供应商ID"
// @Param model_id query string false "模型标识"
// @Param status query int false "状态 0 停用 1 正常"
// @Success 200 {object} common.APIResponse{data=common.ListResponse}
// @Router /api/v1/ai/models [get]
func (h *ModelHandler) ListModels(c *gin.Context) {
	var req models.ListModelsRequest
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

// AllModels 全部模型
// @Summary 获取全部模型
// @Tags Models
// @Produce json
// @Success 200 {object} common.APIResponse{data=[]models.AIModel}
// @Router /api/v1/ai/models/all [get]
func (h *ModelHandler) AllModels(c *gin.Context) {
	items, err := h.service.All(c.Request.Context())
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseSuccess(c, items)
}

// CreateModel 创建模型
// @Summary 创建模型
// @Tags Models
// @Accept json
// @Produce json
// @Param request body models.CreateModelRequest true "模型信息"
// @Success 200 {object} common.APIResponse{data=models.AIModel}
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /api/v1/ai/models [post]
func (h *ModelHandler) CreateModel(c *gin.Context) {
	var req models.CreateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	model, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		common.ResponseErr(c, err)
		return
	}
	common.ResponseSuccess(c, model)
}

// UpdateModel 更新模型
// @Summary 更新模型
// @Description 返回影响行数，为 0 时返回操作失败
// @Tags Models
// @Accept json
// @Produce json
// @Param id path int true "模型ID"
// @Param request body models.UpdateModelRequest true "模型信息"
// @Success 200 {object} common.APIResponse
// @Router /api/v1/ai/models/{id} [put]
func (h *ModelHandler) UpdateModel(c *gin.Context) {
	id, ok := common.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req models.UpdateModelRequest
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

// DeleteModels 批量删除模型
// @Summary 批量删除模型
// @Tags Models
// @Accept json
// @Produce json
// @Param request body common.IDsRequest true "主键列表"
// @Success 200 {object} common.APIResponse
// @Router /api/v1/ai/models [delete]
func (h *ModelHandler) DeleteModels(c *gin.Context) {
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
