package providers

import (
	"bytes"
	"context"
	"encoding/json"
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

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq int64

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type fakeQueue struct {
	ids     []uint64
	allRuns int
}

func (q *fakeQueue) EnqueueSyncModels(_ context.Context, id uint64) (string, error) {
	q.ids = append(q.ids, id)
	return fmt.Sprintf("task-%d", id), nil
}

func (q *fakeQueue) EnqueueSyncAll(context.Context) (string, error) {
	q.allRuns++
	return "task-all", nil
}

type fixture struct {
	router  *gin.Engine
	service *models.ProviderService
	db      *gorm.DB
}

func setup(t *testing.T, queue SyncEnqueuer) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	security.SetSecret("provider-handler-test")

	dsn := fmt.Sprintf("file:providers_%d_%d?mode=memory&cache=shared", time.Now().UnixNano(), atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	service := models.NewProviderService(db)
	h := NewProviderHandler(service, queue)

	r := gin.New()
	g := r.Group("/providers")
	g.GET("", h.ListProviders)
	g.GET("/all", h.AllProviders)
	g.GET("/:id", h.GetProvider)
	g.GET("/:id/models", h.GetProviderModels)
	g.GET("/:id/models/sync", h.SyncProviderModels)
	g.POST("/sync", h.SyncAllProviders)
	g.POST("", h.CreateProvider)
	g.PUT("/:id", h.UpdateProvider)
	g.DELETE("", h.DeleteProviders)

	return &fixture{router: r, service: service, db: db}
}

func (f *fixture) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func (f *fixture) create(t *testing.T, name, host string) models.Provider {
	t.Helper()
	w, env := f.do(t, http.MethodPost, "/providers", gin.H{
		"name": name, "type": int(ai.VendorOpenAI), "api_key": "sk-secret-1234", "api_host": host,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var p models.Provider
	require.NoError(t, json.Unmarshal(env.Data, &p))
	return p
}

func TestCreateAndGetProviderMasksKey(t *testing.T) {
	f := setup(t, nil)
	p := f.create(t, "openai", "https://api.openai.com")
	assert.Equal(t, "sk-****1234", p.MaskedAPIKey)

	w, env := f.do(t, http.MethodGet, fmt.Sprintf("/providers/%d", p.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.NotContains(t, w.Body.String(), "sk-secret-1234")
}

func TestCreateProviderRejectsTrailingSlash(t *testing.T) {
	f := setup(t, nil)
	w, env := f.do(t, http.MethodPost, "/providers", gin.H{
		"name": "groq", "type": int(ai.VendorGroq), "api_host": "https://api.groq.com/",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, common.CodeRequestRejected, env.Code)
	assert.False(t, env.Success)
}

func TestCreateProviderInvalidBody(t *testing.T) {
	f := setup(t, nil)
	w, env := f.do(t, http.MethodPost, "/providers", gin.H{"type": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, common.CodeInvalidRequest, env.Code)
}

func TestGetProviderNotFound(t *testing.T) {
	f := setup(t, nil)
	w, env := f.do(t, http.MethodGet, "/providers/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "供应商不存在", env.Message)
}

func TestListProviders(t *testing.T) {
	f := setup(t, nil)
	f.create(t, "alpha", "")
	f.create(t, "beta", "")
	f.create(t, "alphabet", "")

	w, env := f.do(t, http.MethodGet, "/providers?page=1&size=10&name=alpha", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Items      []models.Provider     `json:"items"`
		Pagination common.PaginationMeta `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list.Items, 2)
	assert.Equal(t, int64(2), list.Pagination.Total)
	assert.Equal(t, "alphabet", list.Items[0].Name)
}

func TestUpdateProviderMissingReturnsFail(t *testing.T) {
	f := setup(t, nil)
	w, env := f.do(t, http.MethodPut, "/providers/42", gin.H{"name": "x", "type": 0})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, common.CodeOperationFailed, env.Code)
}

func TestUpdateProviderKeepsKeyWhenEmpty(t *testing.T) {
	f := setup(t, nil)
	p := f.create(t, "openai", "")

	w, env := f.do(t, http.MethodPut, fmt.Sprintf("/providers/%d", p.ID), gin.H{"name": "renamed", "type": 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	resolved, err := f.service.Resolve(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", resolved.Name)
	assert.Equal(t, "sk-secret-1234", resolved.APIKey)
}

func TestDeleteProvidersCascades(t *testing.T) {
	f := setup(t, nil)
	p := f.create(t, "openai", "")
	require.NoError(t, f.db.Create(&models.AIModel{ProviderID: p.ID, ModelID: "gpt", Status: 1}).Error)

	w, env := f.do(t, http.MethodDelete, "/providers", gin.H{"pks": []uint64{p.ID}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	var count int64
	f.db.Model(&models.AIModel{}).Where("provider_id = ?", p.ID).Count(&count)
	assert.Zero(t, count)
}

func TestSyncProviderModels(t *testing.T) {
	catalog := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"object":"list","data":[{"id":"m1","object":"model","owned_by":"a"},{"id":"m2","object":"model","owned_by":"b"}]}`)
	}))
	defer catalog.Close()

	f := setup(t, nil)
	p := f.create(t, "openai", catalog.URL)
	require.NoError(t, f.db.Create(&models.AIModel{ProviderID: p.ID, ModelID: "stale", Status: 1}).Error)

	w, env := f.do(t, http.MethodGet, fmt.Sprintf("/providers/%d/models/sync", p.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"count":2}`, string(env.Data))

	w, env = f.do(t, http.MethodGet, fmt.Sprintf("/providers/%d/models", p.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.AIModel
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 2)
	for _, m := range items {
		assert.NotEqual(t, "stale", m.ModelID)
	}
}

func TestSyncProviderModelsCatalogFailure(t *testing.T) {
	catalog := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer catalog.Close()

	f := setup(t, nil)
	p := f.create(t, "openai", catalog.URL)

	w, env := f.do(t, http.MethodGet, fmt.Sprintf("/providers/%d/models/sync", p.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "获取模型列表失败，请稍后重试", env.Message)
}

func TestSyncProviderModelsAsyncWithoutQueue(t *testing.T) {
	f := setup(t, nil)
	p := f.create(t, "openai", "")

	w, env := f.do(t, http.MethodGet, fmt.Sprintf("/providers/%d/models/sync?async=true", p.ID), nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, common.CodeServiceUnavailable, env.Code)
}

func TestSyncProviderModelsAsync(t *testing.T) {
	queue := &fakeQueue{}
	f := setup(t, queue)
	p := f.create(t, "openai", "")

	w, env := f.do(t, http.MethodGet, fmt.Sprintf("/providers/%d/models/sync?async=true", p.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"task_id":"task-%d"}`, p.ID), string(env.Data))
	assert.Equal(t, []uint64{p.ID}, queue.ids)

	w, _ = f.do(t, http.MethodGet, "/providers/777/models/sync?async=true", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Len(t, queue.ids, 1)
}

func TestSyncAllProviders(t *testing.T) {
	w, env := setup(t, nil).do(t, http.MethodPost, "/providers/sync", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, common.CodeServiceUnavailable, env.Code)

	queue := &fakeQueue{}
	w, env = setup(t, queue).do(t, http.MethodPost, "/providers/sync", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "同步任务已提交", env.Message)
	assert.JSONEq(t, `{"task_id":"task-all"}`, string(env.Data))
	assert.Equal(t, 1, queue.allRuns)
}

func TestInvalidIDParam(t *testing.T) {
	f := setup(t, nil)
	w, env := f.do(t, http.MethodGet, "/providers/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, common.CodeInvalidRequest, env.Code)
}
