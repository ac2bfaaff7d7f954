package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feed(chunks []string, err error, gap time.Duration) (<-chan StreamChunk, <-chan error) {
	chunkChan := make(chan StreamChunk, len(chunks)+1)
	errChan := make(chan error, 1)
	go func() {
		defer close(chunkChan)
		defer close(errChan)
		for _, c := range chunks {
			chunkChan <- StreamChunk{Content: c}
			if gap > 0 {
				time.Sleep(gap)
			}
		}
		if err != nil {
			errChan <- err
			return
		}
		chunkChan <- StreamChunk{Done: true}
	}()
	return chunkChan, errChan
}

func TestDebounceTextCumulative(t *testing.T) {
	chunks, errs := feed([]string{"Hel", "lo", ", ", "world"}, nil, 0)

	var emitted []string
	full, err := DebounceText(context.Background(), chunks, errs, 50*time.Millisecond, func(text string) error {
		emitted = append(emitted, text)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", full)
	require.NotEmpty(t, emitted)
	assert.Equal(t, "Hello, world", emitted[len(emitted)-1])

	// 每次回调都是前一次的延伸
	for i := 1; i < len(emitted); i++ {
		assert.True(t, len(emitted[i]) > len(emitted[i-1]))
		assert.Equal(t, emitted[i-1], emitted[i][:len(emitted[i-1])])
	}
}

func TestDebounceTextFlushesOnTicks(t *testing.T) {
	chunks, errs := feed([]string{"a", "b", "c"}, nil, 30*time.Millisecond)

	var emitted []string
	_, err := DebounceText(context.Background(), chunks, errs, 5*time.Millisecond, func(text string) error {
		emitted = append(emitted, text)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "ab", "abc"}, emitted)
}

func TestDebounceTextReturnsProviderError(t *testing.T) {
	boom := errors.New("upstream failed")
	chunks, errs := feed([]string{"partial"}, boom, 0)

	var last string
	full, err := DebounceText(context.Background(), chunks, errs, time.Second, func(text string) error {
		last = text
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "partial", full)
	assert.Equal(t, "partial", last)
}

func TestDebounceTextEmptyStream(t *testing.T) {
	chunks, errs := feed(nil, nil, 0)
	calls := 0
	full, err := DebounceText(context.Background(), chunks, errs, time.Millisecond, func(string) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, full)
	assert.Zero(t, calls)
}

func TestDebounceTextContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	chunks := make(chan StreamChunk)
	errs := make(chan error)

	_, err := DebounceText(ctx, chunks, errs, time.Millisecond, func(string) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
