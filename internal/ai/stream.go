package ai

import (
	"context"
	"strings"
	"time"
)

// DefaultDebounceInterval 流式输出的合并窗口
const DefaultDebounceInterval = 10 * time.Millisecond

// EmitFunc 接收截至当前的累计文本
type EmitFunc func(text string) error

// DebounceText 消费增量块，按 interval 合并后以累计文本回调 emit
// 结束时补发最后一次未发送的文本；供应商错误在补发之后返回
func DebounceText(ctx context.Context, chunks <-chan StreamChunk, errs <-chan error, interval time.Duration, emit EmitFunc) (string, error) {
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var (
		sb        strings.Builder
		emitted   = -1
		streamErr error
	)
	flush := func() error {
		if sb.Len() == emitted || sb.Len() == 0 {
			return nil
		}
		emitted = sb.Len()
		return emit(sb.String())
	}

	for chunks != nil || errs != nil {
		select {
		case <-ctx.Done():
			return sb.String(), ctx.Err()
		case chunk, ok := <-chunks:
			if !ok {
				chunks = nil
				continue
			}
			sb.WriteString(chunk.Content)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil && streamErr == nil {
				streamErr = err
			}
		case <-ticker.C:
			if err := flush(); err != nil {
				return sb.String(), err
			}
		}
	}

	if err := flush(); err != nil {
		return sb.String(), err
	}
	return sb.String(), streamErr
}
