package common

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// BaseService 服务基类，封装通用的数据库操作方法
// 供应商、模型服务嵌入此基类复用分页、批量与事务能力
type BaseService struct {
	DB *gorm.DB
}

// NewBaseService 创建BaseService实例
func NewBaseService(db *gorm.DB) *BaseService {
	return &BaseService{DB: db}
}

// Page 统计总数并查询当前页
// query 需已设置 Model 与过滤条件，dest 为切片指针
func (s *BaseService) Page(ctx context.Context, query *gorm.DB, req PaginationRequest, dest any) (int64, error) {
	var total int64
	if err := query.WithContext(ctx).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("统计总数失败: %w", err)
	}
	if total == 0 {
		return 0, nil
	}
	if err := query.WithContext(ctx).
		Scopes(NewestFirst(), Paginate(req)).
		Find(dest).Error; err != nil {
		return 0, fmt.Errorf("分页查询失败: %w", err)
	}
	return total, nil
}

// FindByID 根据主键查询单条记录，记录不存在时返回 gorm.ErrRecordNotFound
func (s *BaseService) FindByID(ctx context.Context, model any, id uint64) error {
	return s.DB.WithContext(ctx).First(model, id).Error
}

// UpdateByID 按主键更新指定字段，返回影响行数
func (s *BaseService) UpdateByID(ctx context.Context, model any, id uint64, updates map[string]any) (int64, error) {
	result := s.DB.WithContext(ctx).Model(model).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteByIDs 按主键批量删除（硬删除），返回影响行数
func (s *BaseService) DeleteByIDs(ctx context.Context, model any, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := s.DB.WithContext(ctx).Where("id IN ?", ids).Delete(model)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Exists 检查记录是否存在
func (s *BaseService) Exists(ctx context.Context, model any, condition string, args ...any) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(model).Where(condition, args...).Count(&count).Error
	return count > 0, err
}

// Transaction 执行事务
func (s *BaseService) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.DB.WithContext(ctx).Transaction(fn)
}

// BatchCreate 批量创建记录
func (s *BaseService) BatchCreate(ctx context.Context, models any, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 100
	}
	return s.DB.WithContext(ctx).CreateInBatches(models, batchSize).Error
}
