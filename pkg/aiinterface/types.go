package aiinterface

import (
	"context"
	"time"
)

// Message 消息结构
type Message struct {
	Role    string `json:"role"`    // system, user, assistant
	Content string `json:"content"` // 消息内容
}

// ModelSettings 生成参数，nil 字段不会下发给供应商
type ModelSettings struct {
	MaxTokens         *int              `json:"max_tokens,omitempty"`
	Temperature       *float64          `json:"temperature,omitempty"`
	TopP              *float64          `json:"top_p,omitempty"`
	Timeout           *float64          `json:"timeout,omitempty"` // 秒
	ParallelToolCalls *bool             `json:"parallel_tool_calls,omitempty"`
	Seed              *int              `json:"seed,omitempty"`
	PresencePenalty   *float64          `json:"presence_penalty,omitempty"`
	FrequencyPenalty  *float64          `json:"frequency_penalty,omitempty"`
	LogitBias         map[string]int    `json:"logit_bias,omitempty"`
	StopSequences     []string          `json:"stop_sequences,omitempty"`
	ExtraHeaders      map[string]string `json:"extra_headers,omitempty"`
	ExtraBody         map[string]any    `json:"extra_body,omitempty"`
}

// TimeoutDuration 单次调用超时，未设置返回 0
func (s *ModelSettings) TimeoutDuration() time.Duration {
	if s == nil || s.Timeout == nil || *s.Timeout <= 0 {
		return 0
	}
	return time.Duration(*s.Timeout * float64(time.Second))
}

// ChatCompletionRequest 对话补全请求
type ChatCompletionRequest struct {
	Messages []Message     `json:"messages"`
	Settings ModelSettings `json:"settings"`
}

// StreamChunk 流式响应块
type StreamChunk struct {
	ID      string `json:"id"`      // 响应 ID
	Model   string `json:"model"`   // 使用的模型
	Content string `json:"content"` // 增量内容
	Done    bool   `json:"done"`    // 是否结束
}

// ClientInfo 客户端实际生效的连接信息
type ClientInfo struct {
	Vendor  string `json:"vendor"`
	Model   string `json:"model"`
	BaseURL string `json:"base_url,omitempty"`
	Region  string `json:"region,omitempty"` // 仅 bedrock
}

// ModelClient AI 模型客户端统一接口
type ModelClient interface {
	// ChatCompletionStream 对话补全（流式）
	// 返回的 chunk channel 持续发送增量内容，结束时发送 Done 块；出错时 err channel 收到一个错误
	ChatCompletionStream(ctx context.Context, req *ChatCompletionRequest) (<-chan StreamChunk, <-chan error)

	// Info 返回供应商、模型与生效的端点
	Info() ClientInfo

	// Close 关闭客户端连接
	Close() error
}

// ClientConfig 客户端配置
type ClientConfig struct {
	Vendor   string        // 供应商名称
	APIKey   string        // API Key
	BaseURL  string        // 归一化后的基础 URL
	Region   string        // 区域（bedrock）
	Model    string        // 模型标识
	Settings ModelSettings // 默认生成参数
}

// ErrorType 错误类型
type ErrorType string

const (
	ErrorTypeAuth          ErrorType = "auth"           // 认证错误
	ErrorTypeRateLimit     ErrorType = "rate_limit"     // 速率限制
	ErrorTypeInvalidParams ErrorType = "invalid_params" // 参数错误
	ErrorTypeServerError   ErrorType = "server_error"   // 服务器错误
	ErrorTypeNetwork       ErrorType = "network"        // 网络错误
	ErrorTypeUnknown       ErrorType = "unknown"        // 未知错误
)

// ClientError 客户端错误
type ClientError struct {
	Type    ErrorType // 错误类型
	Message string    // 错误消息
	Err     error     // 原始错误
}

// Error 实现error接口
func (e *ClientError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap 返回原始错误
func (e *ClientError) Unwrap() error {
	return e.Err
}

// ErrorTypeForStatus 按 HTTP 状态码归类
func ErrorTypeForStatus(status int) ErrorType {
	switch {
	case status == 401 || status == 403:
		return ErrorTypeAuth
	case status == 429:
		return ErrorTypeRateLimit
	case status >= 400 && status < 500:
		return ErrorTypeInvalidParams
	case status >= 500:
		return ErrorTypeServerError
	}
	return ErrorTypeUnknown
}
