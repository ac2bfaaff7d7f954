package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"aiplugin/internal/ai"
	"aiplugin/internal/common"
	"aiplugin/internal/models"
	"aiplugin/internal/security"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq int64

func newProviderService(t *testing.T) *models.ProviderService {
	t.Helper()
	security.SetSecret("seed-test")
	dsn := fmt.Sprintf("file:seed_%d_%d?mode=memory&cache=shared", time.Now().UnixNano(), atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return models.NewProviderService(db)
}

const sample = `
providers:
  - name: OpenAI
    type: openai
    api_key: ${SEED_TEST_KEY}
    api_host: https://api.openai.com
  - name: HF
    type: huggingface
    status: 0
  - name: Bedrock
    type: "3"
    api_host: us-west-2
`

func TestParseExpandsEnv(t *testing.T) {
	t.Setenv("SEED_TEST_KEY", "sk-from-env")
	f, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, f.Providers, 3)
	assert.Equal(t, "sk-from-env", f.Providers[0].APIKey)
	require.NotNil(t, f.Providers[1].Status)
	assert.Equal(t, 0, *f.Providers[1].Status)
}

func TestProvidersIsIdempotent(t *testing.T) {
	t.Setenv("SEED_TEST_KEY", "sk-from-env")
	svc := newProviderService(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "providers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))
	f, err := LoadFile(path)
	require.NoError(t, err)

	created, err := Providers(ctx, svc, f)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	created, err = Providers(ctx, svc, f)
	require.NoError(t, err)
	assert.Zero(t, created)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	byName := map[string]models.Provider{}
	for _, p := range all {
		byName[p.Name] = p
	}
	assert.Equal(t, ai.VendorHuggingFace, byName["HF"].Type)
	assert.Equal(t, common.StatusDisabled, byName["HF"].Status)
	assert.Equal(t, ai.VendorBedrock, byName["Bedrock"].Type)
	assert.Equal(t, common.StatusEnabled, byName["OpenAI"].Status)
}

func TestProvidersUnknownVendor(t *testing.T) {
	svc := newProviderService(t)
	f, err := Parse([]byte("providers:\n  - name: X\n    type: skynet\n"))
	require.NoError(t, err)

	_, err = Providers(context.Background(), svc, f)
	assert.ErrorIs(t, err, ai.ErrUnsupportedVendor)
}
