package anthropic

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"aiplugin/internal/logger"
	"aiplugin/pkg/aiinterface"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

// DefaultMaxTokens Messages 接口要求必须提供 max_tokens
const DefaultMaxTokens = 4096

// Client Anthropic Messages 接口客户端
type Client struct {
	client anthropic.Client
	info   aiinterface.ClientInfo
}

// NewClient 创建 Anthropic 客户端
// config.BaseURL 形如 https://host/v1，SDK 自身会拼接 v1/messages
func NewClient(config *aiinterface.ClientConfig, httpClient *http.Client) (*Client, error) {
	if config.Model == "" {
		return nil, &aiinterface.ClientError{
			Type:    aiinterface.ErrorTypeInvalidParams,
			Message: "模型名称不能为空",
		}
	}

	sdkBase := strings.TrimSuffix(strings.TrimRight(config.BaseURL, "/"), "/v1") + "/"
	opts := []option.RequestOption{
		option.WithBaseURL(sdkBase),
		option.WithHTTPClient(aiinterface.WrapHTTPClient(httpClient, config.Settings)),
		option.WithMaxRetries(0),
	}
	if config.APIKey != "" {
		opts = append(opts, option.WithAPIKey(config.APIKey))
	}

	return &Client{
		client: anthropic.NewClient(opts...),
		info: aiinterface.ClientInfo{
			Vendor:  config.Vendor,
			Model:   config.Model,
			BaseURL: config.BaseURL,
		},
	}, nil
}

func (c *Client) buildParams(req *aiinterface.ChatCompletionRequest) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.info.Model),
		MaxTokens: DefaultMaxTokens,
	}

	for _, msg := range req.Messages {
		switch msg.Role {
		case "system":
			params.System = append(params.System, anthropic.TextBlockParam{Text: msg.Content})
		case "assistant":
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	s := req.Settings
	if s.MaxTokens != nil && *s.MaxTokens > 0 {
		params.MaxTokens = int64(*s.MaxTokens)
	}
	if s.Temperature != nil {
		params.Temperature = anthropic.Float(*s.Temperature)
	}
	if s.TopP != nil {
		params.TopP = anthropic.Float(*s.TopP)
	}
	if len(s.StopSequences) > 0 {
		params.StopSequences = s.StopSequences
	}
	if ignored := unsupportedSettings(s); len(ignored) > 0 {
		logger.Debug("Anthropic 接口不支持的生成参数已忽略",
			zap.String("model", c.info.Model),
			zap.Strings("settings", ignored),
		)
	}
	return params
}

// unsupportedSettings Messages 接口没有对应字段的参数
func unsupportedSettings(s aiinterface.ModelSettings) []string {
	var ignored []string
	if s.Seed != nil {
		ignored = append(ignored, "seed")
	}
	if s.PresencePenalty != nil {
		ignored = append(ignored, "presence_penalty")
	}
	if s.FrequencyPenalty != nil {
		ignored = append(ignored, "frequency_penalty")
	}
	if len(s.LogitBias) > 0 {
		ignored = append(ignored, "logit_bias")
	}
	if s.ParallelToolCalls != nil {
		ignored = append(ignored, "parallel_tool_calls")
	}
	return ignored
}

// ChatCompletionStream 对话补全（流式）
func (c *Client) ChatCompletionStream(ctx context.Context, req *aiinterface.ChatCompletionRequest) (<-chan aiinterface.StreamChunk, <-chan error) {
	chunkChan := make(chan aiinterface.StreamChunk, 10)
	errChan := make(chan error, 1)

	go func() {
		defer close(chunkChan)
		defer close(errChan)

		if timeout := req.Settings.TimeoutDuration(); timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		stream := c.client.Messages.NewStreaming(ctx, c.buildParams(req))
		defer stream.Close()

		var messageID string
		for stream.Next() {
			event := stream.Current()
			switch ev := event.AsAny().(type) {
			case anthropic.MessageStartEvent:
				messageID = ev.Message.ID
			case anthropic.ContentBlockDeltaEvent:
				delta, ok := ev.Delta.AsAny().(anthropic.TextDelta)
				if !ok || delta.Text == "" {
					continue
				}
				select {
				case chunkChan <- aiinterface.StreamChunk{ID: messageID, Model: c.info.Model, Content: delta.Text}:
				case <-ctx.Done():
					errChan <- wrapError(ctx.Err())
					return
				}
			}
		}
		if err := stream.Err(); err != nil {
			errChan <- wrapError(err)
			return
		}
		chunkChan <- aiinterface.StreamChunk{ID: messageID, Model: c.info.Model, Done: true}
	}()

	return chunkChan, errChan
}

// Info 返回生效的连接信息
func (c *Client) Info() aiinterface.ClientInfo {
	return c.info
}

// Close 关闭客户端
func (c *Client) Close() error {
	return nil
}

func wrapError(err error) *aiinterface.ClientError {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &aiinterface.ClientError{
			Type:    aiinterface.ErrorTypeForStatus(apiErr.StatusCode),
			Message: "Anthropic API 错误",
			Err:     err,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return &aiinterface.ClientError{
			Type:    aiinterface.ErrorTypeNetwork,
			Message: "网络错误",
			Err:     err,
		}
	}

	return &aiinterface.ClientError{
		Type:    aiinterface.ErrorTypeUnknown,
		Message: "Anthropic API 错误",
		Err:     err,
	}
}
