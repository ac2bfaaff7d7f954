package ai

import (
	"context"
	"errors"
	"time"

	"aiplugin/internal/logger"
	"aiplugin/internal/metrics"

	"go.uber.org/zap"
)

// LoggingClient 记录调用日志与指标的客户端包装器
type LoggingClient struct {
	client ModelClient
	logger *zap.Logger
}

// NewLoggingClient 包装模型客户端
func NewLoggingClient(client ModelClient) *LoggingClient {
	return &LoggingClient{
		client: client,
		logger: logger.Get(),
	}
}

// ChatCompletionStream 对话补全（流式，带日志记录）
func (c *LoggingClient) ChatCompletionStream(ctx context.Context, req *ChatCompletionRequest) (<-chan StreamChunk, <-chan error) {
	start := time.Now()
	info := c.client.Info()
	metrics.ModelCallsRunning.WithLabelValues(info.Vendor).Inc()

	chunkChan, errChan := c.client.ChatCompletionStream(ctx, req)

	wrappedChunkChan := make(chan StreamChunk, 10)
	wrappedErrChan := make(chan error, 1)

	go func() {
		defer close(wrappedChunkChan)
		defer close(wrappedErrChan)
		defer metrics.ModelCallsRunning.WithLabelValues(info.Vendor).Dec()

		var (
			chunks int
			chars  int
		)
		// 调用方取消后继续排空上游，保证上游协程退出
		for chunk := range chunkChan {
			select {
			case wrappedChunkChan <- chunk:
			case <-ctx.Done():
			}
			if !chunk.Done {
				chunks++
				chars += len([]rune(chunk.Content))
			}
		}

		// 上游先关闭 errChan 再关闭 chunkChan，此处不会阻塞
		err := <-errChan
		if err != nil {
			wrappedErrChan <- err
		}

		c.logStreamCall(ctx, info, chunks, chars, time.Since(start), err)
	}()

	return wrappedChunkChan, wrappedErrChan
}

// Info 返回底层客户端信息
func (c *LoggingClient) Info() ClientInfo {
	return c.client.Info()
}

// Close 关闭客户端
func (c *LoggingClient) Close() error {
	return c.client.Close()
}

func (c *LoggingClient) logStreamCall(ctx context.Context, info ClientInfo, chunks, chars int, latency time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
		var clientErr *ClientError
		if errors.As(err, &clientErr) {
			status = string(clientErr.Type)
		}
	}

	metrics.ModelCallsTotal.WithLabelValues(info.Vendor, status).Inc()
	metrics.ModelCallDuration.WithLabelValues(info.Vendor).Observe(latency.Seconds())
	metrics.ModelStreamChunks.WithLabelValues(info.Vendor).Add(float64(chunks))

	fields := []zap.Field{
		zap.String("vendor", info.Vendor),
		zap.String("model", info.Model),
		zap.String("base_url", info.BaseURL),
		zap.Int("chunks", chunks),
		zap.Int("chars", chars),
		zap.Int64("latency_ms", latency.Milliseconds()),
	}
	log := logger.WithContext(ctx)
	if err != nil {
		log.Warn("模型流式调用失败", append(fields, zap.Error(err))...)
		return
	}
	log.Info("模型流式调用完成", fields...)
}
