// Package seed 启动时从 YAML 文件初始化供应商
package seed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"aiplugin/internal/ai"
	"aiplugin/internal/logger"
	"aiplugin/internal/models"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ProviderSeed 单个供应商，type 可写名称或数字
type ProviderSeed struct {
	Name    string  `yaml:"name"`
	Type    string  `yaml:"type"`
	APIKey  string  `yaml:"api_key"`
	APIHost string  `yaml:"api_host"`
	Status  *int    `yaml:"status"`
	Remark  *string `yaml:"remark"`
}

// File 种子文件
type File struct {
	Providers []ProviderSeed `yaml:"providers"`
}

// ProviderStore 供应商写入
type ProviderStore interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, req *models.CreateProviderRequest) (*models.Provider, error)
}

// LoadFile 读取并解析种子文件，api_key 支持 ${ENV} 形式引用环境变量
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取种子文件失败: %w", err)
	}
	return Parse(data)
}

// Parse 解析种子内容
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("解析种子文件失败: %w", err)
	}
	for i := range f.Providers {
		f.Providers[i].APIKey = os.ExpandEnv(f.Providers[i].APIKey)
	}
	return &f, nil
}

// Providers 创建尚不存在（按名称判断）的供应商，返回新建数量
func Providers(ctx context.Context, store ProviderStore, f *File) (int, error) {
	created := 0
	for _, p := range f.Providers {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return created, fmt.Errorf("种子供应商缺少 name")
		}

		vendor, err := ai.ParseVendorType(p.Type)
		if err != nil {
			return created, fmt.Errorf("供应商 %s: %w", name, err)
		}

		exists, err := store.ExistsByName(ctx, name)
		if err != nil {
			return created, fmt.Errorf("查询供应商 %s 失败: %w", name, err)
		}
		if exists {
			logger.Debug("种子供应商已存在，跳过", zap.String("name", name))
			continue
		}

		vendorType := int(vendor)
		if _, err := store.Create(ctx, &models.CreateProviderRequest{
			Name:    name,
			Type:    &vendorType,
			APIKey:  p.APIKey,
			APIHost: p.APIHost,
			Status:  p.Status,
			Remark:  p.Remark,
		}); err != nil {
			return created, fmt.Errorf("创建供应商 %s 失败: %w", name, err)
		}
		created++
		logger.Info("已创建种子供应商", zap.String("name", name), zap.String("type", vendor.String()))
	}
	return created, nil
}
