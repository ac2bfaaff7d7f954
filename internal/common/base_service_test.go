package common

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestModel 测试用的模型
type TestModel struct {
	ID     uint64 `gorm:"primaryKey"`
	Name   string `gorm:"size:255"`
	Status int
	TimestampModel
}

// setupTestDB 创建测试数据库
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect database: %v", err)
	}
	// :memory: 每个连接独立，限制为单连接
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&TestModel{}); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

// seedTestData 插入测试数据
func seedTestData(t *testing.T, db *gorm.DB) {
	models := []TestModel{
		{Name: "Test 1", Status: StatusEnabled},
		{Name: "Test 2", Status: StatusDisabled},
		{Name: "Test 3", Status: StatusEnabled},
		{Name: "Other 4", Status: StatusEnabled},
		{Name: "Other 5", Status: StatusDisabled},
	}

	for _, model := range models {
		if err := db.Create(&model).Error; err != nil {
			t.Fatalf("Failed to seed data: %v", err)
		}
	}
}

func intPtr(v int) *int {
	return &v
}

func TestPage(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)
	service := NewBaseService(db)
	ctx := context.Background()

	tests := []struct {
		name       string
		status     *int
		keyword    string
		req        PaginationRequest
		wantTotal  int64
		wantLen    int
		wantFirstN string
	}{
		{"全部第一页", nil, "", PaginationRequest{Page: 1, PageSize: 2}, 5, 2, "Other 5"},
		{"全部最后一页", nil, "", PaginationRequest{Page: 3, PageSize: 2}, 5, 1, "Test 1"},
		{"按状态过滤", intPtr(StatusEnabled), "", PaginationRequest{}, 3, 3, "Other 4"},
		{"关键词过滤", nil, "Test", PaginationRequest{}, 3, 3, "Test 3"},
		{"无匹配", intPtr(StatusDisabled), "Test 3", PaginationRequest{}, 0, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var items []TestModel
			query := db.Model(&TestModel{}).Scopes(ByStatus(tt.status), LikeIfPresent("name", tt.keyword))
			total, err := service.Page(ctx, query, tt.req, &items)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
			assert.Len(t, items, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirstN, items[0].Name)
			}
		})
	}
}

func TestPaginationRequestDefaults(t *testing.T) {
	assert.Equal(t, 1, PaginationRequest{}.GetPage())
	assert.Equal(t, 20, PaginationRequest{}.GetPageSize())
	assert.Equal(t, 100, PaginationRequest{PageSize: 500}.GetPageSize())
	assert.Equal(t, 40, PaginationRequest{Page: 3, PageSize: 20}.GetOffset())
}

func TestFindByID(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)
	service := NewBaseService(db)

	var found TestModel
	require.NoError(t, service.FindByID(context.Background(), &found, 1))
	assert.Equal(t, "Test 1", found.Name)
	assert.False(t, found.CreatedTime.IsZero())

	var missing TestModel
	err := service.FindByID(context.Background(), &missing, 999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestUpdateByID(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)
	service := NewBaseService(db)
	ctx := context.Background()

	count, err := service.UpdateByID(ctx, &TestModel{}, 2, map[string]any{"name": "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var updated TestModel
	require.NoError(t, db.First(&updated, 2).Error)
	assert.Equal(t, "Renamed", updated.Name)

	count, err = service.UpdateByID(ctx, &TestModel{}, 999, map[string]any{"name": "Ghost"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestDeleteByIDs(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)
	service := NewBaseService(db)
	ctx := context.Background()

	count, err := service.DeleteByIDs(ctx, &TestModel{}, []uint64{1, 2, 999})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = service.DeleteByIDs(ctx, &TestModel{}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	var remaining int64
	db.Model(&TestModel{}).Count(&remaining)
	assert.Equal(t, int64(3), remaining)
}

func TestExists(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)
	service := NewBaseService(db)

	exists, err := service.Exists(context.Background(), &TestModel{}, "name = ?", "Test 1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = service.Exists(context.Background(), &TestModel{}, "name = ?", "Nope")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTransactionRollback(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)
	service := NewBaseService(db)

	err := service.Transaction(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Where("status = ?", StatusEnabled).Delete(&TestModel{}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	assert.Error(t, err)

	var count int64
	db.Model(&TestModel{}).Count(&count)
	assert.Equal(t, int64(5), count)
}

func TestBatchCreate(t *testing.T) {
	db := setupTestDB(t)
	service := NewBaseService(db)

	items := make([]TestModel, 0, 25)
	for i := 0; i < 25; i++ {
		items = append(items, TestModel{Name: "batch", Status: StatusEnabled})
	}
	require.NoError(t, service.BatchCreate(context.Background(), &items, 10))

	var count int64
	db.Model(&TestModel{}).Count(&count)
	assert.Equal(t, int64(25), count)
}

func TestBusinessErrorIs(t *testing.T) {
	err := NotFound("供应商不存在")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrRequestRejected))
	assert.Equal(t, "供应商不存在", err.Error())

	wrapped := RequestRejected("")
	assert.Equal(t, "请求被拒绝", wrapped.Message)
	assert.True(t, errors.Is(wrapped, ErrRequestRejected))
}
