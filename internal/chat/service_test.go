package chat

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"aiplugin/internal/ai"
	"aiplugin/internal/common"
	"aiplugin/internal/models"
	"aiplugin/internal/security"
	"aiplugin/pkg/aiinterface"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq int64

type fixture struct {
	providers *models.ProviderService
	models    *models.ModelService
}

func setup(t *testing.T) *fixture {
	t.Helper()
	security.SetSecret("chat-test-seed")
	dsn := fmt.Sprintf("file:chat_%d_%d?mode=memory&cache=shared", time.Now().UnixNano(), atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return &fixture{
		providers: models.NewProviderService(db),
		models:    models.NewModelService(db, nil),
	}
}

func (f *fixture) seed(t *testing.T, host string, providerStatus, modelStatus int) *models.Provider {
	t.Helper()
	ctx := context.Background()
	vendor := int(ai.VendorOpenAI)
	p, err := f.providers.Create(ctx, &models.CreateProviderRequest{
		Name: "openai", Type: &vendor, APIKey: "sk-chat", APIHost: host, Status: &providerStatus,
	})
	require.NoError(t, err)
	_, err = f.models.Create(ctx, &models.CreateModelRequest{
		ProviderID: p.ID, ModelID: "gpt-test", Status: &modelStatus,
	})
	require.NoError(t, err)
	return p
}

// countingBuilder 记录调用次数，用于确认校验失败时不会访问供应商
type countingBuilder struct {
	calls int32
}

func (b *countingBuilder) NewModelClient(ai.VendorType, string, string, string, aiinterface.ModelSettings) (aiinterface.ModelClient, error) {
	atomic.AddInt32(&b.calls, 1)
	return nil, fmt.Errorf("should not be called")
}

func TestPrepareRejectsDisabledProvider(t *testing.T) {
	f := setup(t)
	p := f.seed(t, "", common.StatusDisabled, common.StatusEnabled)
	builder := &countingBuilder{}
	svc := NewService(f.providers, f.models, builder)

	_, err := svc.Prepare(context.Background(), &ChatRequest{ProviderID: p.ID, ModelID: "gpt-test", UserPrompt: "hi"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrRequestRejected)
	assert.Equal(t, msgProviderDisabled, err.Error())
	assert.Zero(t, atomic.LoadInt32(&builder.calls))
}

func TestPrepareRejectsDisabledModel(t *testing.T) {
	f := setup(t)
	p := f.seed(t, "", common.StatusEnabled, common.StatusDisabled)
	builder := &countingBuilder{}
	svc := NewService(f.providers, f.models, builder)

	_, err := svc.Prepare(context.Background(), &ChatRequest{ProviderID: p.ID, ModelID: "gpt-test", UserPrompt: "hi"})
	assert.ErrorIs(t, err, common.ErrRequestRejected)
	assert.Equal(t, msgModelDisabled, err.Error())
	assert.Zero(t, atomic.LoadInt32(&builder.calls))
}

func TestPrepareMissingModel(t *testing.T) {
	f := setup(t)
	p := f.seed(t, "", common.StatusEnabled, common.StatusEnabled)
	svc := NewService(f.providers, f.models, &countingBuilder{})

	_, err := svc.Prepare(context.Background(), &ChatRequest{ProviderID: p.ID, ModelID: "nope", UserPrompt: "hi"})
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, "供应商模型不存在", err.Error())
}

func TestPrepareMissingProvider(t *testing.T) {
	f := setup(t)
	svc := NewService(f.providers, f.models, &countingBuilder{})

	_, err := svc.Prepare(context.Background(), &ChatRequest{ProviderID: 404, ModelID: "x", UserPrompt: "hi"})
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, "供应商不存在", err.Error())
}

func openAIStub(t *testing.T, deltas []string, gap time.Duration, failAfter bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-chat", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, _ := w.(http.Flusher)
		for _, d := range deltas {
			fmt.Fprintf(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"model\":\"gpt-test\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", d)
			if flusher != nil {
				flusher.Flush()
			}
			time.Sleep(gap)
		}
		if failAfter {
			fmt.Fprint(w, "data: {not json\n\n")
			return
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStreamRun(t *testing.T) {
	f := setup(t)
	srv := openAIStub(t, []string{"Hello", " ", "world"}, 0, false)
	p := f.seed(t, srv.URL, common.StatusEnabled, common.StatusEnabled)

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := NewService(f.providers, f.models,
		ai.NewClientFactory(ai.WithHTTPClient(srv.Client())),
		WithClock(func() time.Time { return fixed }),
	)

	stream, err := svc.Prepare(context.Background(), &ChatRequest{ProviderID: p.ID, ModelID: "gpt-test", UserPrompt: "hi"})
	require.NoError(t, err)

	var msgs []ChatMessage
	require.NoError(t, stream.Run(context.Background(), func(m ChatMessage) error {
		msgs = append(msgs, m)
		return nil
	}))

	require.GreaterOrEqual(t, len(msgs), 2)
	assert.Equal(t, ChatMessage{Role: RoleUser, Timestamp: "2026-01-02T03:04:05.000000Z", Content: "hi"}, msgs[0])
	last := msgs[len(msgs)-1]
	assert.Equal(t, RoleModel, last.Role)
	assert.Equal(t, "Hello world", last.Content)
	for _, m := range msgs[1:] {
		assert.Equal(t, RoleModel, m.Role)
		assert.Equal(t, "2026-01-02T03:04:05.000000Z", m.Timestamp)
	}
}

func TestStreamRunCumulativeAcrossTicks(t *testing.T) {
	f := setup(t)
	srv := openAIStub(t, []string{"a", "b", "c"}, 40*time.Millisecond, false)
	p := f.seed(t, srv.URL, common.StatusEnabled, common.StatusEnabled)
	svc := NewService(f.providers, f.models, ai.NewClientFactory(ai.WithHTTPClient(srv.Client())))

	stream, err := svc.Prepare(context.Background(), &ChatRequest{ProviderID: p.ID, ModelID: "gpt-test", UserPrompt: "x"})
	require.NoError(t, err)

	var contents []string
	require.NoError(t, stream.Run(context.Background(), func(m ChatMessage) error {
		if m.Role == RoleModel {
			contents = append(contents, m.Content)
		}
		return nil
	}))
	assert.Equal(t, []string{"a", "ab", "abc"}, contents)
}

func TestStreamRunVendorError(t *testing.T) {
	f := setup(t)
	srv := openAIStub(t, []string{"partial"}, 0, true)
	p := f.seed(t, srv.URL, common.StatusEnabled, common.StatusEnabled)
	svc := NewService(f.providers, f.models, ai.NewClientFactory(ai.WithHTTPClient(srv.Client())))

	stream, err := svc.Prepare(context.Background(), &ChatRequest{ProviderID: p.ID, ModelID: "gpt-test", UserPrompt: "x"})
	require.NoError(t, err)

	err = stream.Run(context.Background(), func(ChatMessage) error { return nil })
	assert.Error(t, err)
}

func TestChatRequestSettingsOnlyNonNil(t *testing.T) {
	temp := 0.3
	req := &ChatRequest{Temperature: &temp, StopSequences: []string{"END"}}
	s := req.Settings()
	assert.Equal(t, &temp, s.Temperature)
	assert.Nil(t, s.MaxTokens)
	assert.Nil(t, s.TopP)
	assert.Equal(t, []string{"END"}, s.StopSequences)
}
