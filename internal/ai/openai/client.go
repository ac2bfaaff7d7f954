package openai

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"

	"aiplugin/pkg/aiinterface"

	openai "github.com/sashabaranov/go-openai"
)

// Client OpenAI 兼容协议客户端，openai/gemini/groq/openrouter/bedrock 等共用
type Client struct {
	client   *openai.Client
	info     aiinterface.ClientInfo
	settings aiinterface.ModelSettings
}

// NewClient 创建 OpenAI 兼容客户端
func NewClient(config *aiinterface.ClientConfig, httpClient *http.Client) (*Client, error) {
	if config.Model == "" {
		return nil, &aiinterface.ClientError{
			Type:    aiinterface.ErrorTypeInvalidParams,
			Message: "模型名称不能为空",
		}
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = aiinterface.WrapHTTPClient(httpClient, config.Settings)

	return &Client{
		client:   openai.NewClientWithConfig(clientConfig),
		settings: config.Settings,
		info: aiinterface.ClientInfo{
			Vendor:  config.Vendor,
			Model:   config.Model,
			BaseURL: clientConfig.BaseURL,
			Region:  config.Region,
		},
	}, nil
}

// buildRequest 只下发非 nil 的生成参数
func (c *Client) buildRequest(req *aiinterface.ChatCompletionRequest) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	out := openai.ChatCompletionRequest{
		Model:    c.info.Model,
		Messages: messages,
		Stream:   true,
	}

	s := req.Settings
	if s.MaxTokens != nil {
		out.MaxTokens = *s.MaxTokens
	}
	if s.Temperature != nil {
		out.Temperature = float32(*s.Temperature)
	}
	if s.TopP != nil {
		out.TopP = float32(*s.TopP)
	}
	if s.Seed != nil {
		seed := *s.Seed
		out.Seed = &seed
	}
	if s.PresencePenalty != nil {
		out.PresencePenalty = float32(*s.PresencePenalty)
	}
	if s.FrequencyPenalty != nil {
		out.FrequencyPenalty = float32(*s.FrequencyPenalty)
	}
	if len(s.LogitBias) > 0 {
		out.LogitBias = s.LogitBias
	}
	if len(s.StopSequences) > 0 {
		out.Stop = s.StopSequences
	}
	return out
}

// zeroFields go-openai 的数值字段带 omitempty，显式设置的零值需经请求体补回
func zeroFields(s aiinterface.ModelSettings) map[string]any {
	fields := map[string]any{}
	if s.MaxTokens != nil && *s.MaxTokens == 0 {
		fields["max_tokens"] = 0
	}
	if s.Temperature != nil && *s.Temperature == 0 {
		fields["temperature"] = 0
	}
	if s.TopP != nil && *s.TopP == 0 {
		fields["top_p"] = 0
	}
	if s.PresencePenalty != nil && *s.PresencePenalty == 0 {
		fields["presence_penalty"] = 0
	}
	if s.FrequencyPenalty != nil && *s.FrequencyPenalty == 0 {
		fields["frequency_penalty"] = 0
	}
	return fields
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
		ctx = aiinterface.WithBodyFields(ctx, zeroFields(req.Settings))

		stream, err := c.client.CreateChatCompletionStream(ctx, c.buildRequest(req))
		if err != nil {
			errChan <- wrapError(err)
			return
		}
		defer stream.Close()

		for {
			response, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				chunkChan <- aiinterface.StreamChunk{Model: c.info.Model, Done: true}
				return
			}
			if err != nil {
				errChan <- wrapError(err)
				return
			}
			if len(response.Choices) == 0 || response.Choices[0].Delta.Content == "" {
				continue
			}

			select {
			case chunkChan <- aiinterface.StreamChunk{
				ID:      response.ID,
				Model:   response.Model,
				Content: response.Choices[0].Delta.Content,
			}:
			case <-ctx.Done():
				errChan <- wrapError(ctx.Err())
				return
			}
		}
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

// wrapError 按状态码归类供应商错误
func wrapError(err error) *aiinterface.ClientError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &aiinterface.ClientError{
			Type:    aiinterface.ErrorTypeForStatus(apiErr.HTTPStatusCode),
			Message: "OpenAI 兼容接口错误",
			Err:     err,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &aiinterface.ClientError{
			Type:    aiinterface.ErrorTypeForStatus(reqErr.HTTPStatusCode),
			Message: "OpenAI 兼容接口请求失败",
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
		Message: "OpenAI 兼容接口错误",
		Err:     err,
	}
}
