package common

import "time"

// TimestampModel 时间戳基础模型
// 列名沿用 created_time / updated_time
type TimestampModel struct {
	CreatedTime time.Time `json:"created_time" gorm:"column:created_time;not null;autoCreateTime"`
	UpdatedTime time.Time `json:"updated_time" gorm:"column:updated_time;autoUpdateTime"`
}

// 启用状态
const (
	StatusDisabled = 0 // 停用
	StatusEnabled  = 1 // 正常
)

// ValidStatus 状态值是否合法
func ValidStatus(status int) bool {
	return status == StatusDisabled || status == StatusEnabled
}
