package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aiplugin/internal/ai"
	"aiplugin/internal/common"
	"aiplugin/internal/models"
	"aiplugin/pkg/aiinterface"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	msgProviderDisabled = "此供应商暂不可用，请更换供应商或联系系统管理员"
	msgModelDisabled    = "此模型暂不可用，请更换模型或联系系统管理员"
)

// 消息角色
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// TimestampLayout 带时区偏移的 RFC3339 时间，精确到微秒
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

var tracer = otel.Tracer("aiplugin/internal/chat")

// ChatRequest 对话请求，可选参数为 nil 时不下发
type ChatRequest struct {
	ProviderID        uint64            `json:"provider_id" binding:"required"`
	ModelID           string            `json:"model_id" binding:"required"`
	UserPrompt        string            `json:"user_prompt" binding:"required"`
	MaxTokens         *int              `json:"max_tokens"`
	Temperature       *float64          `json:"temperature"`
	TopP              *float64          `json:"top_p"`
	Timeout           *float64          `json:"timeout"`
	ParallelToolCalls *bool             `json:"parallel_tool_calls"`
	Seed              *int              `json:"seed"`
	PresencePenalty   *float64          `json:"presence_penalty"`
	FrequencyPenalty  *float64          `json:"frequency_penalty"`
	LogitBias         map[string]int    `json:"logit_bias"`
	StopSequences     []string          `json:"stop_sequences"`
	ExtraHeaders      map[string]string `json:"extra_headers"`
	ExtraBody         map[string]any    `json:"extra_body"`
}

// Settings 转换为生成参数
func (r *ChatRequest) Settings() aiinterface.ModelSettings {
	return aiinterface.ModelSettings{
		MaxTokens:         r.MaxTokens,
		Temperature:       r.Temperature,
		TopP:              r.TopP,
		Timeout:           r.Timeout,
		ParallelToolCalls: r.ParallelToolCalls,
		Seed:              r.Seed,
		PresencePenalty:   r.PresencePenalty,
		FrequencyPenalty:  r.FrequencyPenalty,
		LogitBias:         r.LogitBias,
		StopSequences:     r.StopSequences,
		ExtraHeaders:      r.ExtraHeaders,
		ExtraBody:         r.ExtraBody,
	}
}

// ChatMessage 输出的一行消息
type ChatMessage struct {
	Role      string `json:"role"`
	Timestamp string `json:"timestamp"`
	Content   string `json:"content"`
}

// ProviderResolver 查询供应商（key 为明文）
type ProviderResolver interface {
	Resolve(ctx context.Context, id uint64) (*models.Provider, error)
}

// ModelResolver 按 (provider_id, model_id) 查询模型
type ModelResolver interface {
	GetByModelID(ctx context.Context, providerID uint64, modelID string) (*models.AIModel, error)
}

// ClientBuilder 构造模型客户端
type ClientBuilder interface {
	NewModelClient(vendor ai.VendorType, modelName, apiKey, baseHost string, settings aiinterface.ModelSettings) (aiinterface.ModelClient, error)
}

// Service 对话服务
type Service struct {
	providers ProviderResolver
	models    ModelResolver
	factory   ClientBuilder
	debounce  time.Duration
	now       func() time.Time
}

// Option 配置项
type Option func(*Service)

// WithDebounce 设置流式合并窗口
func WithDebounce(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithClock 替换时间源
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService 创建对话服务
func NewService(providers ProviderResolver, models ModelResolver, factory ClientBuilder, opts ...Option) *Service {
	s := &Service{
		providers: providers,
		models:    models,
		factory:   factory,
		debounce:  ai.DefaultDebounceInterval,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prepare 校验供应商与模型并构造客户端，失败时尚未输出任何内容
func (s *Service) Prepare(ctx context.Context, req *ChatRequest) (*Stream, error) {
	requestTime := s.now()

	provider, err := s.providers.Resolve(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}
	if !provider.Enabled() {
		return nil, common.RequestRejected(msgProviderDisabled)
	}

	model, err := s.models.GetByModelID(ctx, provider.ID, req.ModelID)
	if err != nil {
		return nil, err
	}
	if !model.Enabled() {
		return nil, common.RequestRejected(msgModelDisabled)
	}

	settings := req.Settings()
	client, err := s.factory.NewModelClient(provider.Type, model.ModelID, provider.APIKey, provider.APIHost, settings)
	if err != nil {
		if errors.Is(err, ai.ErrUnsupportedVendor) {
			return nil, common.NewBusinessErrorWithCode(common.CodeUnsupportedVendor)
		}
		return nil, fmt.Errorf("创建模型客户端失败: %w", err)
	}

	return &Stream{
		client:      ai.NewLoggingClient(client),
		prompt:      req.UserPrompt,
		settings:    settings,
		requestTime: requestTime,
		providerID:  provider.ID,
		debounce:    s.debounce,
		now:         s.now,
	}, nil
}

// Stream 一次已校验的对话
type Stream struct {
	client      aiinterface.ModelClient
	prompt      string
	settings    aiinterface.ModelSettings
	requestTime time.Time
	providerID  uint64
	debounce    time.Duration
	now         func() time.Time
}

// Run 先输出用户回显，再按合并窗口输出模型累计文本
func (st *Stream) Run(ctx context.Context, emit func(ChatMessage) error) error {
	defer st.client.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	info := st.client.Info()
	ctx, span := tracer.Start(ctx, "chat.Stream",
		trace.WithAttributes(
			attribute.Int64("provider.id", int64(st.providerID)),
			attribute.String("provider.vendor", info.Vendor),
			attribute.String("model", info.Model),
		))
	defer span.End()

	if err := emit(ChatMessage{
		Role:      RoleUser,
		Timestamp: st.requestTime.Format(TimestampLayout),
		Content:   st.prompt,
	}); err != nil {
		return err
	}

	responseTime := st.now().Format(TimestampLayout)
	chunks, errs := st.client.ChatCompletionStream(ctx, &aiinterface.ChatCompletionRequest{
		Messages: []aiinterface.Message{{Role: "user", Content: st.prompt}},
		Settings: st.settings,
	})

	text, err := ai.DebounceText(ctx, chunks, errs, st.debounce, func(text string) error {
		return emit(ChatMessage{Role: RoleModel, Timestamp: responseTime, Content: text})
	})
	span.SetAttributes(attribute.Int("response.chars", len([]rune(text))))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
