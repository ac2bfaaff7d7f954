package common

import "gorm.io/gorm"

// ByStatus 按启用状态过滤，nil 表示不过滤
// 使用方法：db.Scopes(common.ByStatus(req.Status)).Find(&providers)
func ByStatus(status *int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == nil {
			return db
		}
		return db.Where("status = ?", *status)
	}
}

// EnabledOnly 仅查询启用状态的记录
func EnabledOnly() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", StatusEnabled)
	}
}

// LikeIfPresent 关键词非空时追加模糊匹配
func LikeIfPresent(column, keyword string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if keyword == "" {
			return db
		}
		return db.Where(column+" LIKE ?", "%"+keyword+"%")
	}
}

// Paginate 分页
// 使用方法：db.Scopes(common.Paginate(req)).Find(&items)
func Paginate(req PaginationRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.GetOffset()).Limit(req.GetPageSize())
	}
}

// NewestFirst 按主键倒序
func NewestFirst() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("id DESC")
	}
}
