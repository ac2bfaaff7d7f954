package ai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"aiplugin/internal/ai/anthropic"
	"aiplugin/internal/ai/openai"
	"aiplugin/internal/logger"
	"aiplugin/pkg/aiinterface"

	"go.uber.org/zap"
)

// ErrUnsupportedVendor 未知供应商类型
var ErrUnsupportedVendor = errors.New("不支持的供应商类型")

// DefaultBedrockRegion 未配置区域时使用
const DefaultBedrockRegion = "us-east-1"

type endpointRule int

const (
	ruleSuffix      endpointRule = iota // 追加固定后缀
	rulePassthrough                     // 原样使用
	ruleRegion                          // host 作为区域
)

type buildFunc func(cfg *aiinterface.ClientConfig, httpClient *http.Client) (aiinterface.ModelClient, error)

// vendorSpec 单个供应商的端点规则与构造函数
type vendorSpec struct {
	rule           endpointRule
	suffix         string
	defaultBaseURL string
	build          buildFunc
}

func buildOpenAICompatible(cfg *aiinterface.ClientConfig, httpClient *http.Client) (aiinterface.ModelClient, error) {
	return openai.NewClient(cfg, httpClient)
}

func buildAnthropic(cfg *aiinterface.ClientConfig, httpClient *http.Client) (aiinterface.ModelClient, error) {
	return anthropic.NewClient(cfg, httpClient)
}

// vendorTable 供应商分发表，新增供应商只需增加一项
var vendorTable = map[VendorType]vendorSpec{
	VendorOpenAI: {
		rule: ruleSuffix, suffix: "/v1",
		defaultBaseURL: "https://api.openai.com/v1",
		build:          buildOpenAICompatible,
	},
	VendorAnthropic: {
		rule: ruleSuffix, suffix: "/v1",
		defaultBaseURL: "https://api.anthropic.com/v1",
		build:          buildAnthropic,
	},
	VendorGemini: {
		rule: ruleSuffix, suffix: "/v1beta/openai",
		defaultBaseURL: "https://generativelanguage.googleapis.com/v1beta/openai",
		build:          buildOpenAICompatible,
	},
	VendorBedrock: {
		rule:  ruleRegion,
		build: buildOpenAICompatible,
	},
	VendorCerebras: {
		rule:           rulePassthrough,
		defaultBaseURL: "https://api.cerebras.ai/v1",
		build:          buildOpenAICompatible,
	},
	VendorCohere: {
		rule:           rulePassthrough,
		defaultBaseURL: "https://api.cohere.ai/compatibility/v1",
		build:          buildOpenAICompatible,
	},
	VendorGroq: {
		rule: ruleSuffix, suffix: "/openai/v1",
		defaultBaseURL: "https://api.groq.com/openai/v1",
		build:          buildOpenAICompatible,
	},
	VendorHuggingFace: {
		rule:           rulePassthrough,
		defaultBaseURL: "https://router.huggingface.co/v1",
		build:          buildOpenAICompatible,
	},
	VendorMistral: {
		rule:           rulePassthrough,
		defaultBaseURL: "https://api.mistral.ai/v1",
		build:          buildOpenAICompatible,
	},
	VendorOpenRouter: {
		rule: ruleSuffix, suffix: "/api/v1",
		defaultBaseURL: "https://openrouter.ai/api/v1",
		build:          buildOpenAICompatible,
	},
	VendorOutlines: {
		rule:           rulePassthrough,
		defaultBaseURL: "http://localhost:8000/v1",
		build:          buildOpenAICompatible,
	},
}

// NormalizeBaseURL 按供应商规则归一化 host
// 先去掉末尾的 /，有后缀规则时仅在缺少后缀时追加；host 为空返回空串
func NormalizeBaseURL(vendor VendorType, host string) (string, error) {
	spec, ok := vendorTable[vendor]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnsupportedVendor, int(vendor))
	}
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return "", nil
	}
	switch spec.rule {
	case ruleSuffix:
		if strings.HasSuffix(host, spec.suffix) {
			return host, nil
		}
		return host + spec.suffix, nil
	case ruleRegion:
		return "", nil
	default:
		return host, nil
	}
}

// ResolveRegion bedrock 区域：host 不是 http 地址时作为区域，否则使用默认区域
func ResolveRegion(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host != "" && !strings.HasPrefix(host, "http") {
		return host
	}
	return DefaultBedrockRegion
}

// BedrockBaseURL bedrock OpenAI 兼容端点
func BedrockBaseURL(region string) string {
	return fmt.Sprintf("https://bedrock-runtime.%s.amazonaws.com/openai/v1", region)
}

// ClientFactory 模型客户端工厂
type ClientFactory struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// FactoryOption 工厂配置项
type FactoryOption func(*ClientFactory)

// WithHTTPClient 指定出站 HTTP 客户端（测试中指向本地桩服务）
func WithHTTPClient(client *http.Client) FactoryOption {
	return func(f *ClientFactory) {
		f.httpClient = client
	}
}

// NewClientFactory 创建客户端工厂
func NewClientFactory(opts ...FactoryOption) *ClientFactory {
	f := &ClientFactory{
		httpClient: &http.Client{},
		logger:     logger.Get(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewModelClient 根据供应商类型、模型名、凭证、host 与生成参数构造客户端
func (f *ClientFactory) NewModelClient(vendor VendorType, modelName, apiKey, baseHost string, settings aiinterface.ModelSettings) (aiinterface.ModelClient, error) {
	spec, ok := vendorTable[vendor]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVendor, int(vendor))
	}

	cfg := &aiinterface.ClientConfig{
		Vendor:   vendor.String(),
		APIKey:   apiKey,
		Model:    modelName,
		Settings: settings,
	}

	switch spec.rule {
	case ruleRegion:
		cfg.Region = ResolveRegion(baseHost)
		cfg.BaseURL = BedrockBaseURL(cfg.Region)
	default:
		baseURL, err := NormalizeBaseURL(vendor, baseHost)
		if err != nil {
			return nil, err
		}
		if baseURL == "" {
			baseURL = spec.defaultBaseURL
		}
		cfg.BaseURL = baseURL
	}

	if vendor == VendorOutlines {
		cfg.APIKey = ""
	}

	client, err := spec.build(cfg, f.httpClient)
	if err != nil {
		return nil, fmt.Errorf("创建 %s 客户端失败: %w", vendor, err)
	}

	f.logger.Debug("模型客户端已创建",
		zap.String("vendor", cfg.Vendor),
		zap.String("model", modelName),
		zap.String("base_url", cfg.BaseURL),
		zap.String("region", cfg.Region),
	)
	return client, nil
}
