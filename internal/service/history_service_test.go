package service

import (
	"codex_backend/internal/model"
	"codex_backend/internal/repository"
	"codex_backend/internal/util"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newHistoryService(t *testing.T, limit int) (*HistoryService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.History{}))

	return NewHistoryService(repository.NewHistoryRepository(db), limit), db
}

func TestHistoryService_SaveValidation(t *testing.T) {
	svc, _ := newHistoryService(t, 20)
	ctx := context.Background()

	cases := [][3]string{
		{"", "code", "go"},
		{"u", "", "go"},
		{"u", "code", ""},
		{"   ", "code", "go"},
		{"u", "code", "haskell"},
	}
	for _, c := range cases {
		_, err := svc.Save(ctx, c[0], c[1], c[2])
		assert.ErrorIs(t, err, util.ErrValidation, "%v", c)
	}
}

func TestHistoryService_SaveListDelete(t *testing.T) {
	svc, _ := newHistoryService(t, 20)
	ctx := context.Background()

	first, err := svc.Save(ctx, "u1", "a = 1", "python")
	require.NoError(t, err)
	second, err := svc.Save(ctx, "u1", "let b = 2", "JavaScript")
	require.NoError(t, err)
	assert.Equal(t, "javascript", second.Language)

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, "let b = 2", list[0].Code)

	require.NoError(t, svc.Delete(ctx, first.ID))
	assert.ErrorIs(t, svc.Delete(ctx, first.ID), util.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, ""), util.ErrNotFound)

	list, err = svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)
}

func TestHistoryService_ListLimit(t *testing.T) {
	svc, _ := newHistoryService(t, 20)
	ctx := context.Background()

	for i := 0; i < 23; i++ {
		_, err := svc.Save(ctx, "u", fmt.Sprintf("code-%d", i), "rust")
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, "u")
	require.NoError(t, err)
	require.Len(t, list, 20)
	assert.Equal(t, "code-22", list[0].Code)
	assert.Equal(t, "code-3", list[19].Code)
}

func TestHistoryService_StoreErrors(t *testing.T) {
	svc, db := newHistoryService(t, 20)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = svc.Save(context.Background(), "u", "x", "go")
	var storeErr *StoreError
	assert.ErrorAs(t, err, &storeErr)

	_, err = svc.List(context.Background(), "u")
	assert.ErrorAs(t, err, &storeErr)

	err = svc.Delete(context.Background(), "some-id")
	assert.ErrorAs(t, err, &storeErr)
}
