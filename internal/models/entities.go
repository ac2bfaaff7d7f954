package models

import (
	"aiplugin/internal/ai"
	"aiplugin/internal/common"

	"gorm.io/datatypes"
)

// Provider AI 供应商
type Provider struct {
	ID      uint64        `json:"id" gorm:"primaryKey;autoIncrement"`
	Name    string        `json:"name" gorm:"size:256;not null;index"`
	Type    ai.VendorType `json:"type" gorm:"not null"`
	APIKey  string        `json:"-" gorm:"column:api_key;type:text"`
	APIHost string        `json:"api_host" gorm:"column:api_host;size:512"`
	Status  int           `json:"status" gorm:"not null"`
	Remark  *string       `json:"remark" gorm:"type:text"`
	common.TimestampModel

	// MaskedAPIKey 响应中展示的脱敏 key
	MaskedAPIKey string `json:"api_key" gorm:"-"`
}

// TableName 指定表名
func (Provider) TableName() string {
	return "ai_provider"
}

// Enabled 是否启用
func (p *Provider) Enabled() bool {
	return p.Status == common.StatusEnabled
}

// AIModel 供应商下的模型
type AIModel struct {
	ID         uint64            `json:"id" gorm:"primaryKey;autoIncrement"`
	ProviderID uint64            `json:"provider_id" gorm:"not null;index:idx_ai_model_provider_model,priority:1"`
	ModelID    string            `json:"model_id" gorm:"column:model_id;size:512;not null;index:idx_ai_model_provider_model,priority:2"`
	OwnedBy    string            `json:"owned_by" gorm:"size:512"`
	Status     int               `json:"status" gorm:"not null"`
	Remark     *string           `json:"remark" gorm:"type:text"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:json"`
	common.TimestampModel
}

// TableName 指定表名
func (AIModel) TableName() string {
	return "ai_model"
}

// Enabled 是否启用
func (m *AIModel) Enabled() bool {
	return m.Status == common.StatusEnabled
}

// AllModels 需要自动迁移的表
func AllModels() []any {
	return []any{&Provider{}, &AIModel{}}
}
